package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/subcontrol/internal/backup"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// printFn writes the prompt without a newline.
var printFn = fmt.Print

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	Add(ctx context.Context) error
	List(ctx context.Context) error
	Show(ctx context.Context, args []string) error
	Edit(ctx context.Context, args []string) error
	Delete(ctx context.Context, args []string) error
	Backup(ctx context.Context, args []string) error
	Restore(ctx context.Context, args []string) error
	Validate(ctx context.Context, args []string) error
	Key(ctx context.Context, args []string) error
}

const helpText = `Available commands:
  add                                  add a subscription
  list | l                             list subscriptions
  show <id>                            show one subscription
  edit <id> [status]                   change the status of a subscription
  delete <id>                          delete a subscription
  backup [s3]                          write an encrypted backup
  restore <file|s3:name> [--replace]   restore a backup (merges unless --replace)
  validate <file|s3:name>              check a backup without restoring it
  key status|reset|export <file>|import <file> [--force]
  exit | quit`

// runREPL reads commands from in until EOF or "exit" and dispatches them to
// a. Errors returned by handlers are printed and the loop keeps going.
func runREPL(ctx context.Context, a execIface, in *bufio.Reader) {
	for {
		printFn("subcontrol> ")
		line, err := readLine(in)
		if err != nil {
			if !errors.Is(err, io.EOF) {
				printlnFn("Error:", err)
			}
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			printlnFn(helpText)
			continue
		case "exit", "quit":
			printlnFn("Bye!")
			return
		}

		var cmdErr error
		switch cmd {
		case "add":
			cmdErr = a.Add(ctx)
		case "l", "list":
			cmdErr = a.List(ctx)
		case "show":
			cmdErr = a.Show(ctx, args)
		case "edit":
			cmdErr = a.Edit(ctx, args)
		case "delete":
			cmdErr = a.Delete(ctx, args)
		case "backup":
			cmdErr = a.Backup(ctx, args)
		case "restore":
			cmdErr = a.Restore(ctx, args)
		case "validate":
			cmdErr = a.Validate(ctx, args)
		case "key":
			cmdErr = a.Key(ctx, args)
		default:
			printlnFn("Unknown command:", cmd)
			continue
		}

		if cmdErr != nil {
			printlnFn("Error:", userMessage(cmdErr))
		}
	}
}

// userMessage picks the text to show for err. Backup failures carry their
// own display message; the cause goes to the log instead.
func userMessage(err error) string {
	var f *backup.Failure
	if errors.As(err, &f) {
		return f.Message
	}
	return err.Error()
}
