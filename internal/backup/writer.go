package backup

import (
	"context"
	"time"

	"github.com/dmitrijs2005/subcontrol/internal/common"
	"github.com/dmitrijs2005/subcontrol/internal/location"
	"github.com/dmitrijs2005/subcontrol/internal/logging"
	"github.com/dmitrijs2005/subcontrol/internal/models"
)

const (
	// Version is the only payload version this package reads and writes.
	Version = "1.0"
	// Extension is the artifact file extension.
	Extension = ".scb"
	// FileNamePrefix starts every artifact name.
	FileNamePrefix = "subcontrol_backup_"

	fileNameTimeLayout = "20060102_150405"
)

// Store is the part of the subscription repository the backup core needs.
type Store interface {
	GetAll(ctx context.Context) ([]models.Subscription, error)
	ReplaceAll(ctx context.Context, subs []models.Subscription) (int64, error)
	InsertMissing(ctx context.Context, subs []models.Subscription) (int, []string, error)
}

type Encrypter interface {
	Encrypt(ctx context.Context, plaintext []byte) ([]byte, error)
}

type Decrypter interface {
	Decrypt(ctx context.Context, blob []byte) ([]byte, error)
}

// FileName returns the artifact name for a backup taken at t.
func FileName(t time.Time) string {
	return FileNamePrefix + t.Format(fileNameTimeLayout) + Extension
}

type BackupResult struct {
	FileName    string
	Location    location.Handle
	RecordCount int
}

// Writer exports the whole subscription store as one encrypted artifact.
type Writer struct {
	store Store
	enc   Encrypter
	log   logging.Logger
	now   func() time.Time
}

func NewWriter(store Store, enc Encrypter, log logging.Logger) *Writer {
	return &Writer{store: store, enc: enc, log: log, now: time.Now}
}

// CreateBackup snapshots the store, seals it and writes it to dest. Every
// error it returns is a *Failure.
func (w *Writer) CreateBackup(ctx context.Context, dest location.Destination) (*BackupResult, error) {
	subs, err := w.store.GetAll(ctx)
	if err != nil {
		w.log.Error(ctx, "backup: read store", "error", err)
		return nil, fail(FailureRead, "Could not read subscriptions", err)
	}

	now := w.now()
	plain, err := Serialize(subs, Version, now)
	if err != nil {
		w.log.Error(ctx, "backup: serialize", "error", err)
		return nil, fail(FailureSerialize, "Could not prepare backup data", err)
	}
	defer common.WipeByteArray(plain)

	sealed, err := w.enc.Encrypt(ctx, plain)
	if err != nil {
		w.log.Error(ctx, "backup: encrypt", "error", err)
		return nil, fail(FailureEncryption, "Could not encrypt backup", err)
	}

	name := FileName(now)
	handle, err := dest.Write(ctx, name, sealed)
	if err != nil {
		w.log.Error(ctx, "backup: write", "file", name, "error", err)
		return nil, fail(FailureWrite, "Could not save backup file", err)
	}

	w.log.Info(ctx, "backup written", "file", name, "location", handle.URI, "records", len(subs))
	return &BackupResult{FileName: name, Location: handle, RecordCount: len(subs)}, nil
}
