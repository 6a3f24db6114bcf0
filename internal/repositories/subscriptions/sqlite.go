package subscriptions

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/subcontrol/internal/common"
	"github.com/dmitrijs2005/subcontrol/internal/dbx"
	"github.com/dmitrijs2005/subcontrol/internal/models"
	"github.com/shopspring/decimal"
)

const columns = `id, name, description, cost, currency, billing_period, billing_cycle_days,
	start_date, next_billing_date, trial_end_date, status, notifications_enabled,
	notify_days_before, category, tags, notes, website_url, support_email,
	created_at, updated_at`

const insertQuery = `INSERT INTO subscriptions (` + columns + `)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository returns a new SQLiteRepository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) GetAll(ctx context.Context) ([]models.Subscription, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+columns+` FROM subscriptions ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to select subscriptions: %w", err)
	}
	defer rows.Close()

	result := make([]models.Subscription, 0)
	for rows.Next() {
		s, err := scanSubscription(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate subscriptions: %w", err)
	}
	return result, nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*models.Subscription, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+columns+` FROM subscriptions WHERE id = ?`, id)
	s, err := scanSubscription(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("subscription %s: %w", id, common.ErrorNotFound)
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (r *SQLiteRepository) Create(ctx context.Context, s *models.Subscription) error {
	ok, err := insertIfAbsent(ctx, r.db, s)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("subscription %s: %w", s.ID, common.ErrorAlreadyExists)
	}
	return nil
}

func (r *SQLiteRepository) Update(ctx context.Context, s *models.Subscription) error {
	args, err := values(s)
	if err != nil {
		return err
	}
	query := `UPDATE subscriptions SET name = ?, description = ?, cost = ?, currency = ?,
		billing_period = ?, billing_cycle_days = ?, start_date = ?, next_billing_date = ?,
		trial_end_date = ?, status = ?, notifications_enabled = ?, notify_days_before = ?,
		category = ?, tags = ?, notes = ?, website_url = ?, support_email = ?,
		created_at = ?, updated_at = ?
		WHERE id = ?`
	// values() starts with the id; UPDATE takes it last
	res, err := r.db.ExecContext(ctx, query, append(args[1:], args[0])...)
	if err != nil {
		return fmt.Errorf("failed to update subscription: %w", err)
	}
	return expectOneRow(res, s.ID)
}

// DeleteByID removes a record. It expects exactly one row to be affected.
func (r *SQLiteRepository) DeleteByID(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM subscriptions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete subscription: %w", err)
	}
	return expectOneRow(res, id)
}

func (r *SQLiteRepository) DeleteAll(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM subscriptions`)
	if err != nil {
		return 0, fmt.Errorf("failed to delete subscriptions: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return n, nil
}

func (r *SQLiteRepository) ReplaceAll(ctx context.Context, subs []models.Subscription) (int64, error) {
	var removed int64
	err := dbx.InTx(ctx, r.db, func(ctx context.Context, tx dbx.DBTX) error {
		res, err := tx.ExecContext(ctx, `DELETE FROM subscriptions`)
		if err != nil {
			return fmt.Errorf("failed to clear subscriptions: %w", err)
		}
		if removed, err = res.RowsAffected(); err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		for i := range subs {
			ok, err := insertIfAbsent(ctx, tx, &subs[i])
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("subscription %s: %w", subs[i].ID, common.ErrorAlreadyExists)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return removed, nil
}

func (r *SQLiteRepository) InsertMissing(ctx context.Context, subs []models.Subscription) (int, []string, error) {
	var (
		inserted int
		skipped  []string
	)
	err := dbx.InTx(ctx, r.db, func(ctx context.Context, tx dbx.DBTX) error {
		inserted, skipped = 0, nil
		for i := range subs {
			ok, err := insertIfAbsent(ctx, tx, &subs[i])
			if err != nil {
				return err
			}
			if ok {
				inserted++
			} else {
				skipped = append(skipped, subs[i].ID)
			}
		}
		return nil
	})
	if err != nil {
		return 0, nil, err
	}
	return inserted, skipped, nil
}

func insertIfAbsent(ctx context.Context, db dbx.DBTX, s *models.Subscription) (bool, error) {
	args, err := values(s)
	if err != nil {
		return false, err
	}
	res, err := db.ExecContext(ctx, insertQuery+` ON CONFLICT(id) DO NOTHING`, args...)
	if err != nil {
		return false, fmt.Errorf("failed to insert subscription: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return n == 1, nil
}

func expectOneRow(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("subscription %s: %w", id, common.ErrorNotFound)
	}
	if n != 1 {
		return fmt.Errorf("wrong rows affected count: %d", n)
	}
	return nil
}

// values renders s in column order.
func values(s *models.Subscription) ([]any, error) {
	tags := s.Tags
	if tags == nil {
		tags = []string{}
	}
	tagsJSON, err := json.Marshal(tags)
	if err != nil {
		return nil, fmt.Errorf("failed to encode tags: %w", err)
	}

	var trialEnd sql.NullString
	if s.TrialEndDate != nil {
		trialEnd = sql.NullString{String: models.FormatDate(*s.TrialEndDate), Valid: true}
	}

	return []any{
		s.ID,
		s.Name,
		nullString(s.Description),
		s.Cost.String(),
		s.Currency,
		string(s.BillingPeriod),
		s.BillingCycleDays,
		models.FormatDate(s.StartDate),
		models.FormatDate(s.NextBillingDate),
		trialEnd,
		string(s.Status),
		s.NotificationsEnabled,
		s.NotifyDaysBefore,
		s.Category,
		string(tagsJSON),
		s.Notes,
		nullString(s.WebsiteURL),
		nullString(s.SupportEmail),
		formatTimestamp(s.CreatedAt),
		formatTimestamp(s.UpdatedAt),
	}, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSubscription(row scanner) (*models.Subscription, error) {
	var s models.Subscription
	var description, trialEnd, website, support sql.NullString
	var cost, period, status, tags string
	var startDate, nextDate, createdAt, updatedAt string

	err := row.Scan(&s.ID, &s.Name, &description, &cost, &s.Currency, &period, &s.BillingCycleDays,
		&startDate, &nextDate, &trialEnd, &status, &s.NotificationsEnabled,
		&s.NotifyDaysBefore, &s.Category, &tags, &s.Notes, &website, &support,
		&createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan subscription: %w", err)
	}

	if s.Cost, err = decimal.NewFromString(cost); err != nil {
		return nil, fmt.Errorf("subscription %s: bad cost: %w", s.ID, err)
	}
	s.BillingPeriod = models.BillingPeriod(period)
	s.Status = models.Status(status)
	if s.StartDate, err = models.ParseDate(startDate); err != nil {
		return nil, fmt.Errorf("subscription %s: %w", s.ID, err)
	}
	if s.NextBillingDate, err = models.ParseDate(nextDate); err != nil {
		return nil, fmt.Errorf("subscription %s: %w", s.ID, err)
	}
	if trialEnd.Valid {
		d, err := models.ParseDate(trialEnd.String)
		if err != nil {
			return nil, fmt.Errorf("subscription %s: %w", s.ID, err)
		}
		s.TrialEndDate = &d
	}
	if err := json.Unmarshal([]byte(tags), &s.Tags); err != nil {
		return nil, fmt.Errorf("subscription %s: bad tags: %w", s.ID, err)
	}
	if len(s.Tags) == 0 {
		s.Tags = nil
	}
	if s.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return nil, fmt.Errorf("subscription %s: bad created_at: %w", s.ID, err)
	}
	if s.UpdatedAt, err = time.Parse(time.RFC3339Nano, updatedAt); err != nil {
		return nil, fmt.Errorf("subscription %s: bad updated_at: %w", s.ID, err)
	}
	s.Description = ptrString(description)
	s.WebsiteURL = ptrString(website)
	s.SupportEmail = ptrString(support)
	return &s, nil
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func nullString(p *string) sql.NullString {
	if p == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *p, Valid: true}
}

func ptrString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	v := ns.String
	return &v
}
