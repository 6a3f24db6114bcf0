package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dmitrijs2005/subcontrol/internal/backup"
	"github.com/dmitrijs2005/subcontrol/internal/config"
	"github.com/dmitrijs2005/subcontrol/internal/cryptox"
	"github.com/dmitrijs2005/subcontrol/internal/location"
	"github.com/dmitrijs2005/subcontrol/internal/logging"
	"github.com/dmitrijs2005/subcontrol/internal/repositories/metadata"
	"github.com/dmitrijs2005/subcontrol/internal/repositories/subscriptions"
	"github.com/dmitrijs2005/subcontrol/internal/services"
	"github.com/dmitrijs2005/subcontrol/internal/storage"
)

// App wires the store, the backup core and the terminal together.
type App struct {
	config *config.Config
	db     *sql.DB
	log    logging.Logger

	subs     services.SubscriptionService
	keys     *cryptox.MetadataKeyStore
	cipher   *cryptox.Cipher
	writer   *backup.Writer
	restorer *backup.Restorer
	probe    *backup.Probe
	bucket   *location.S3Bucket

	reader *bufio.Reader
	out    io.Writer
	now    func() time.Time
}

func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	db, err := storage.InitDatabase(ctx, c.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("error initializing database: %w", err)
	}

	repo := subscriptions.NewSQLiteRepository(db)
	keys := cryptox.NewMetadataKeyStore(metadata.NewSQLiteRepository(db))
	cipher := cryptox.NewCipher(keys, c.KeyAlias)

	return &App{
		config:   c,
		db:       db,
		log:      log,
		subs:     services.NewSubscriptionService(repo, log),
		keys:     keys,
		cipher:   cipher,
		writer:   backup.NewWriter(repo, cipher, log),
		restorer: backup.NewRestorer(repo, cipher, log),
		probe:    backup.NewProbe(cipher, log),
		reader:   bufio.NewReader(os.Stdin),
		out:      os.Stdout,
		now:      time.Now,
	}, nil
}

func (a *App) Close() error {
	return a.db.Close()
}

// Run starts the interactive loop and returns when the user exits.
func (a *App) Run(ctx context.Context) {
	printlnFn("Welcome to SubControl (type 'help' for commands)")
	runREPL(ctx, a, a.reader)
}

// s3 returns the configured bucket, connecting on first use.
func (a *App) s3(ctx context.Context) (*location.S3Bucket, error) {
	if a.bucket != nil {
		return a.bucket, nil
	}
	if !a.config.S3Enabled() {
		return nil, fmt.Errorf("s3 is not configured (set s3_bucket in the config file)")
	}
	b, err := location.NewS3Bucket(ctx, a.config.S3())
	if err != nil {
		return nil, err
	}
	a.bucket = b
	return b, nil
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}
