package subscriptions

import (
	"context"

	"github.com/dmitrijs2005/subcontrol/internal/models"
)

// Repository is the data-access contract for subscription records.
type Repository interface {
	// GetAll returns every record as one consistent snapshot.
	GetAll(ctx context.Context) ([]models.Subscription, error)

	// GetByID returns common.ErrorNotFound when id is unknown.
	GetByID(ctx context.Context, id string) (*models.Subscription, error)

	// Create inserts s; common.ErrorAlreadyExists if the id is taken.
	Create(ctx context.Context, s *models.Subscription) error

	// Update overwrites the record with s.ID; common.ErrorNotFound if absent.
	Update(ctx context.Context, s *models.Subscription) error

	// DeleteByID removes one record; common.ErrorNotFound if absent.
	DeleteByID(ctx context.Context, id string) error

	// DeleteAll removes every record and returns how many were removed.
	DeleteAll(ctx context.Context) (int64, error)

	// ReplaceAll atomically swaps the whole record set for subs and returns
	// how many previous records were removed.
	ReplaceAll(ctx context.Context, subs []models.Subscription) (int64, error)

	// InsertMissing atomically inserts the records whose id is not stored
	// yet, leaving existing records untouched. It returns the ids that were
	// skipped because they already existed.
	InsertMissing(ctx context.Context, subs []models.Subscription) (inserted int, skipped []string, err error)
}
