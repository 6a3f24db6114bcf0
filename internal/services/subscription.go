// Package services contains the application services behind the CLI.
package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/subcontrol/internal/common"
	"github.com/dmitrijs2005/subcontrol/internal/logging"
	"github.com/dmitrijs2005/subcontrol/internal/models"
	"github.com/dmitrijs2005/subcontrol/internal/repositories/subscriptions"
	"github.com/google/uuid"
)

// SubscriptionService manages the lifecycle of subscription records.
//
// Contract:
//   - Add assigns a new id and both timestamps, computes the next billing
//     date and validates before storing;
//   - Update and SetStatus mutate a stored record in place and bump UpdatedAt;
//   - Delete removes a record; unknown ids give common.ErrorNotFound.
//
// Invalid input is reported as an error wrapping common.ErrorValidation.
type SubscriptionService interface {
	List(ctx context.Context) ([]models.Subscription, error)
	Get(ctx context.Context, id string) (*models.Subscription, error)
	Add(ctx context.Context, s models.Subscription) (*models.Subscription, error)
	Update(ctx context.Context, s models.Subscription) (*models.Subscription, error)
	SetStatus(ctx context.Context, id string, status models.Status) (*models.Subscription, error)
	Delete(ctx context.Context, id string) error
}

type subscriptionService struct {
	repo  subscriptions.Repository
	log   logging.Logger
	now   func() time.Time
	newID func() string
}

func NewSubscriptionService(repo subscriptions.Repository, log logging.Logger) SubscriptionService {
	return &subscriptionService{
		repo:  repo,
		log:   log,
		now:   time.Now,
		newID: uuid.NewString,
	}
}

func (s *subscriptionService) List(ctx context.Context) ([]models.Subscription, error) {
	return s.repo.GetAll(ctx)
}

func (s *subscriptionService) Get(ctx context.Context, id string) (*models.Subscription, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *subscriptionService) Add(ctx context.Context, sub models.Subscription) (*models.Subscription, error) {
	now := s.now().UTC()

	sub.ID = s.newID()
	sub.CreatedAt = now
	sub.UpdatedAt = now
	if sub.Status == "" {
		sub.Status = models.StatusActive
	}
	normalize(&sub, now)

	if err := sub.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, &sub); err != nil {
		return nil, fmt.Errorf("save subscription: %w", err)
	}

	s.log.Info(ctx, "subscription added", "id", sub.ID, "name", sub.Name)
	return &sub, nil
}

func (s *subscriptionService) Update(ctx context.Context, sub models.Subscription) (*models.Subscription, error) {
	existing, err := s.repo.GetByID(ctx, sub.ID)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	sub.CreatedAt = existing.CreatedAt
	sub.UpdatedAt = now
	normalize(&sub, now)

	if err := sub.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, &sub); err != nil {
		return nil, fmt.Errorf("update subscription: %w", err)
	}

	s.log.Info(ctx, "subscription updated", "id", sub.ID)
	return &sub, nil
}

func (s *subscriptionService) SetStatus(ctx context.Context, id string, status models.Status) (*models.Subscription, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", common.ErrorValidation, status)
	}

	sub, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sub.Status == status {
		return sub, nil
	}

	sub.Status = status
	sub.UpdatedAt = s.now().UTC()
	if err := s.repo.Update(ctx, sub); err != nil {
		return nil, fmt.Errorf("update subscription: %w", err)
	}

	s.log.Info(ctx, "subscription status changed", "id", id, "status", status)
	return sub, nil
}

func (s *subscriptionService) Delete(ctx context.Context, id string) error {
	if err := s.repo.DeleteByID(ctx, id); err != nil {
		return err
	}
	s.log.Info(ctx, "subscription deleted", "id", id)
	return nil
}

// normalize canonicalizes user input before validation.
func normalize(sub *models.Subscription, now time.Time) {
	sub.Name = strings.TrimSpace(sub.Name)
	sub.Currency = strings.ToUpper(strings.TrimSpace(sub.Currency))
	sub.StartDate = models.CivilDate(sub.StartDate)
	if sub.TrialEndDate != nil {
		d := models.CivilDate(*sub.TrialEndDate)
		sub.TrialEndDate = &d
	}
	if sub.BillingPeriod != models.BillingCustom {
		sub.BillingCycleDays = 0
	}
	if len(sub.Tags) == 0 {
		sub.Tags = nil
	}
	sub.RefreshNextBillingDate(now)
}
