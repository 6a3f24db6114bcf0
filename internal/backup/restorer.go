package backup

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/subcontrol/internal/common"
	"github.com/dmitrijs2005/subcontrol/internal/cryptox"
	"github.com/dmitrijs2005/subcontrol/internal/location"
	"github.com/dmitrijs2005/subcontrol/internal/logging"
	"github.com/dmitrijs2005/subcontrol/internal/models"
)

type RestoreResult struct {
	// Restored is the number of records written to the store.
	Restored int
	// Skipped counts entries dropped as invalid, undecodable or repeated
	// within the backup.
	Skipped int
	// Duplicates lists ids left untouched in merge mode because the store
	// already had them.
	Duplicates []string
	// Replaced is how many records a replace restore removed.
	Replaced int
}

// decoded is a backup that passed every check short of touching the store.
type decoded struct {
	records   []models.Subscription
	skipped   int
	createdAt time.Time
}

// decoder runs the read, decrypt, parse and validate steps shared by
// Restorer and Probe.
type decoder struct {
	dec Decrypter
	log logging.Logger
	now func() time.Time
}

func (d *decoder) decode(ctx context.Context, src location.Source) (*decoded, *Failure) {
	data, err := src.Read(ctx)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, fail(FailureRead, "Backup file not found", err)
		}
		return nil, fail(FailureRead, "Could not read backup file", err)
	}

	plain, err := d.dec.Decrypt(ctx, data)
	if err != nil {
		if errors.Is(err, cryptox.ErrKeyUnavailable) {
			return nil, fail(FailureDecryption, "The backup key is not available on this device", err)
		}
		return nil, fail(FailureDecryption, "Backup file is corrupted or was created on another device", err)
	}
	defer common.WipeByteArray(plain)

	p, err := Deserialize(plain)
	var verr *VersionError
	switch {
	case errors.As(err, &verr):
		found := verr.Found
		if found == "" {
			found = "(none)"
		}
		return nil, fail(FailureVersionIncompatible,
			fmt.Sprintf("Unsupported backup version %s (this app reads %q)", found, Version), err)
	case err != nil:
		return nil, fail(FailureMalformedPayload, "Backup file content is not readable", err)
	}

	createdAt, err := time.Parse(time.RFC3339, strings.TrimSpace(p.CreatedAt))
	if err != nil {
		return nil, fail(FailureValidation, "Backup creation time is missing or invalid", err)
	}
	if p.Subscriptions == nil {
		return nil, fail(FailureValidation, "Backup has no subscription list", nil)
	}

	out := &decoded{createdAt: createdAt, skipped: p.Undecodable}
	if p.Undecodable > 0 {
		d.log.Warn(ctx, "restore: skipped undecodable entries", "count", p.Undecodable)
	}

	restoredAt := d.now()
	seen := make(map[string]struct{}, len(p.Subscriptions))
	for i, rec := range p.Subscriptions {
		sub, err := rec.ToSubscription()
		if err == nil {
			err = sub.Validate()
		}
		if err != nil {
			out.skipped++
			d.log.Warn(ctx, "restore: skipped invalid entry", "index", i, "id", rec.ID, "error", err)
			continue
		}
		if _, dup := seen[sub.ID]; dup {
			out.skipped++
			d.log.Warn(ctx, "restore: skipped repeated id", "index", i, "id", sub.ID)
			continue
		}
		seen[sub.ID] = struct{}{}

		if sub.CreatedAt.IsZero() {
			sub.CreatedAt = restoredAt
		}
		if sub.UpdatedAt.IsZero() {
			sub.UpdatedAt = sub.CreatedAt
		}
		out.records = append(out.records, sub)
	}

	if len(out.records) == 0 {
		return nil, fail(FailureNoValidRecords, "No valid subscriptions found", nil)
	}
	return out, nil
}

// Restorer loads an artifact back into the store.
type Restorer struct {
	decoder
	store Store
}

func NewRestorer(store Store, dec Decrypter, log logging.Logger) *Restorer {
	return &Restorer{
		decoder: decoder{dec: dec, log: log, now: time.Now},
		store:   store,
	}
}

// Plan is a backup that passed every check and is ready to apply.
type Plan struct {
	source string
	d      *decoded
}

// Summary describes the backup the way Probe does for a valid file.
func (p *Plan) Summary() string { return validSummary(len(p.d.records), p.d.createdAt) }

// Prepare reads and checks src without touching the store. Every error it
// returns is a *Failure.
func (r *Restorer) Prepare(ctx context.Context, src location.Source) (*Plan, error) {
	d, f := r.decode(ctx, src)
	if f != nil {
		r.log.Error(ctx, "restore failed", "source", src.Name(), "kind", f.Kind, "error", f)
		return nil, f
	}
	return &Plan{source: src.Name(), d: d}, nil
}

// Apply writes a prepared backup. With replaceExisting the store is swapped
// for the backup in one transaction; otherwise records whose id is already
// stored are kept and reported in RestoreResult.Duplicates.
func (r *Restorer) Apply(ctx context.Context, plan *Plan, replaceExisting bool) (*RestoreResult, error) {
	res := &RestoreResult{Skipped: plan.d.skipped}
	if replaceExisting {
		removed, err := r.store.ReplaceAll(ctx, plan.d.records)
		if err != nil {
			r.log.Error(ctx, "restore: replace", "error", err)
			return nil, fail(FailureApply, "Could not replace existing subscriptions", err)
		}
		res.Restored = len(plan.d.records)
		res.Replaced = int(removed)
	} else {
		inserted, dups, err := r.store.InsertMissing(ctx, plan.d.records)
		if err != nil {
			r.log.Error(ctx, "restore: merge", "error", err)
			return nil, fail(FailureApply, "Could not add restored subscriptions", err)
		}
		res.Restored = inserted
		res.Duplicates = dups
	}

	r.log.Info(ctx, "backup restored",
		"source", plan.source,
		"replace", replaceExisting,
		"restored", res.Restored,
		"skipped", res.Skipped,
		"duplicates", len(res.Duplicates),
		"replaced", res.Replaced,
	)
	return res, nil
}

// Restore is Prepare followed by Apply. It validates src completely before
// writing anything. Every error it returns is a *Failure.
func (r *Restorer) Restore(ctx context.Context, src location.Source, replaceExisting bool) (*RestoreResult, error) {
	plan, err := r.Prepare(ctx, src)
	if err != nil {
		return nil, err
	}
	return r.Apply(ctx, plan, replaceExisting)
}
