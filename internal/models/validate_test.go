package models

import (
	"testing"
	"time"

	"github.com/dmitrijs2005/subcontrol/internal/common"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validSubscription() Subscription {
	now := time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)
	return Subscription{
		ID:               "5a3c8b53-2d8a-4b38-8f3a-1b1b8d0e6a01",
		Name:             "Netflix",
		Cost:             decimal.RequireFromString("9.99"),
		Currency:         "USD",
		BillingPeriod:    BillingMonthly,
		StartDate:        Date(2026, 1, 15),
		NextBillingDate:  Date(2026, 10, 15),
		Status:           StatusActive,
		NotifyDaysBefore: 3,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

func TestValidate_OK(t *testing.T) {
	require.NoError(t, validSubscription().Validate())

	s := validSubscription()
	s.Cost = decimal.Zero
	s.NotifyDaysBefore = MaxNotifyDaysBefore
	trial := s.StartDate
	s.TrialEndDate = &trial
	s.BillingPeriod = BillingCustom
	s.BillingCycleDays = 14
	require.NoError(t, s.Validate())
}

func TestValidate_Violations(t *testing.T) {
	before := Date(2025, 12, 31)

	tests := []struct {
		name   string
		mutate func(s *Subscription)
		field  string
	}{
		{"blank name", func(s *Subscription) { s.Name = "   " }, "Name"},
		{"blank id", func(s *Subscription) { s.ID = "" }, "ID"},
		{"negative cost", func(s *Subscription) { s.Cost = decimal.RequireFromString("-0.01") }, "Cost"},
		{"short currency", func(s *Subscription) { s.Currency = "US" }, "Currency"},
		{"digit currency", func(s *Subscription) { s.Currency = "U5D" }, "Currency"},
		{"unknown period", func(s *Subscription) { s.BillingPeriod = "FORTNIGHTLY" }, "BillingPeriod"},
		{"unknown status", func(s *Subscription) { s.Status = "DELETED" }, "Status"},
		{"lead time too big", func(s *Subscription) { s.NotifyDaysBefore = 366 }, "NotifyDaysBefore"},
		{"lead time negative", func(s *Subscription) { s.NotifyDaysBefore = -1 }, "NotifyDaysBefore"},
		{"trial before start", func(s *Subscription) { s.TrialEndDate = &before }, "TrialEndDate"},
		{"custom without cycle", func(s *Subscription) { s.BillingPeriod = BillingCustom }, "BillingCycleDays"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := validSubscription()
			tc.mutate(&s)
			err := s.Validate()
			require.ErrorIs(t, err, common.ErrorValidation)
			assert.Contains(t, err.Error(), tc.field)
		})
	}
}

func TestParseEnums(t *testing.T) {
	p, err := ParseBillingPeriod(" semi_annually ")
	require.NoError(t, err)
	assert.Equal(t, BillingSemiAnnually, p)
	_, err = ParseBillingPeriod("biweekly")
	assert.Error(t, err)

	st, err := ParseStatus("trial")
	require.NoError(t, err)
	assert.Equal(t, StatusTrial, st)
	_, err = ParseStatus("")
	assert.Error(t, err)
}
