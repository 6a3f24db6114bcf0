package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// MaxNotifyDaysBefore bounds the reminder lead time.
const MaxNotifyDaysBefore = 365

// Subscription is a single tracked recurring payment.
type Subscription struct {
	ID          string `validate:"notblank"`
	Name        string `validate:"notblank"`
	Description *string

	Cost     decimal.Decimal
	Currency string `validate:"len=3,alpha"`

	BillingPeriod BillingPeriod `validate:"billing_period"`
	// BillingCycleDays is the cycle length for BillingCustom; ignored otherwise.
	BillingCycleDays int `validate:"min=0"`

	StartDate       time.Time
	NextBillingDate time.Time
	TrialEndDate    *time.Time

	Status Status `validate:"subscription_status"`

	NotificationsEnabled bool
	NotifyDaysBefore     int `validate:"min=0,max=365"`

	Category string
	Tags     []string
	Notes    string

	WebsiteURL   *string
	SupportEmail *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// RefreshNextBillingDate recomputes NextBillingDate relative to now.
func (s *Subscription) RefreshNextBillingDate(now time.Time) {
	s.NextBillingDate = NextBillingDate(s.StartDate, s.BillingPeriod, s.BillingCycleDays, now)
}

// InTrial reports whether the trial is still running on now's calendar day.
func (s *Subscription) InTrial(now time.Time) bool {
	return s.TrialEndDate != nil && !CivilDate(now).After(CivilDate(*s.TrialEndDate))
}
