package cli

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/subcontrol/internal/location"
)

const s3Scheme = "s3:"

func (a *App) Backup(ctx context.Context, args []string) error {
	var dest location.Destination
	switch {
	case len(args) == 0:
		dest = location.NewDir(a.config.BackupDir)
	case len(args) == 1 && args[0] == "s3":
		b, err := a.s3(ctx)
		if err != nil {
			return err
		}
		dest = b.Destination()
	default:
		return errUsage
	}

	res, err := a.writer.CreateBackup(ctx, dest)
	if err != nil {
		return err
	}
	a.printf("Backup saved: %s (%d subscriptions)\n", res.Location, res.RecordCount)
	return nil
}

// source resolves a file path or an s3:<name> reference.
func (a *App) source(ctx context.Context, ref string) (location.Source, error) {
	if name, ok := strings.CutPrefix(ref, s3Scheme); ok {
		b, err := a.s3(ctx)
		if err != nil {
			return nil, err
		}
		return b.Source(name), nil
	}
	return location.NewFile(ref), nil
}

func (a *App) Validate(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errUsage
	}
	src, err := a.source(ctx, args[0])
	if err != nil {
		return err
	}

	res := a.probe.Validate(ctx, src)
	if res.Valid {
		a.printf("%s\n", res.Message)
	} else {
		a.printf("Invalid backup: %s\n", res.Message)
	}
	return nil
}

func (a *App) Restore(ctx context.Context, args []string) error {
	var ref string
	replace := false
	for _, arg := range args {
		switch {
		case arg == "--replace":
			replace = true
		case ref == "":
			ref = arg
		default:
			return errUsage
		}
	}
	if ref == "" {
		return errUsage
	}

	src, err := a.source(ctx, ref)
	if err != nil {
		return err
	}

	// decoded once; nothing is written until Apply
	plan, err := a.restorer.Prepare(ctx, src)
	if err != nil {
		a.printf("Invalid backup: %s\n", userMessage(err))
		return nil
	}
	a.printf("%s\n", plan.Summary())

	if replace {
		ok, err := Confirm(a.reader, "Replace ALL current subscriptions with this backup?", a.out)
		if err != nil || !ok {
			return err
		}
	}

	res, err := a.restorer.Apply(ctx, plan, replace)
	if err != nil {
		return err
	}

	a.printf("Restored %d subscriptions", res.Restored)
	if res.Replaced > 0 {
		a.printf(", replaced %d", res.Replaced)
	}
	if res.Skipped > 0 {
		a.printf(", skipped %d invalid", res.Skipped)
	}
	if len(res.Duplicates) > 0 {
		a.printf(", kept %d existing", len(res.Duplicates))
	}
	a.printf("\n")
	return nil
}
