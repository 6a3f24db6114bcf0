package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/dmitrijs2005/subcontrol/internal/common"
	"github.com/dmitrijs2005/subcontrol/internal/filex"
)

func (a *App) Key(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage
	}
	switch args[0] {
	case "status":
		return a.keyStatus(ctx)
	case "reset":
		return a.keyReset(ctx)
	case "export":
		if len(args) != 2 {
			return errUsage
		}
		return a.keyExport(ctx, args[1])
	case "import":
		force := len(args) == 3 && args[2] == "--force"
		if len(args) != 2 && !force {
			return errUsage
		}
		return a.keyImport(ctx, args[1], force)
	}
	return errUsage
}

func (a *App) keyStatus(ctx context.Context) error {
	ok, err := a.cipher.KeyExists(ctx)
	if err != nil {
		return err
	}
	if ok {
		a.printf("Backup key %q is present on this device.\n", a.cipher.Alias())
	} else {
		a.printf("No backup key yet; one is created with the first backup.\n")
	}

	aliases, err := a.keys.Aliases(ctx)
	if err != nil {
		return err
	}
	var others []string
	for _, alias := range aliases {
		if alias != a.cipher.Alias() {
			others = append(others, alias)
		}
	}
	if len(others) > 0 {
		a.printf("Other keys on this device: %s\n", strings.Join(others, ", "))
	}
	return nil
}

func (a *App) keyReset(ctx context.Context) error {
	ok, err := Confirm(a.reader, "Existing backups will become unreadable. Delete the backup key?", a.out)
	if err != nil || !ok {
		return err
	}
	removed, err := a.cipher.DeleteKey(ctx)
	if err != nil {
		return err
	}
	if removed {
		a.printf("Backup key deleted.\n")
	} else {
		a.printf("There was no backup key.\n")
	}
	return nil
}

func (a *App) keyExport(ctx context.Context, path string) error {
	pass, err := GetPassword("Passphrase", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(pass)

	again, err := GetPassword("Repeat passphrase", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(again)

	if !bytes.Equal(pass, again) {
		return errors.New("passphrases do not match")
	}
	if len(pass) == 0 {
		return errors.New("passphrase must not be empty")
	}

	blob, err := a.keys.ExportWrapped(ctx, a.cipher.Alias(), pass)
	if err != nil {
		return err
	}
	if err := filex.WriteFileAtomic(path, blob, 0o600); err != nil {
		return err
	}
	a.printf("Key exported to %s. Keep the file and the passphrase safe.\n", path)
	return nil
}

func (a *App) keyImport(ctx context.Context, path string, force bool) error {
	blob, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	pass, err := GetPassword("Passphrase", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(pass)

	err = a.keys.ImportWrapped(ctx, a.cipher.Alias(), blob, pass, force)
	if errors.Is(err, common.ErrorAlreadyExists) {
		return fmt.Errorf("a backup key already exists on this device; use 'key import %s --force' to replace it", path)
	}
	if err != nil {
		return err
	}
	a.printf("Key imported.\n")
	return nil
}
