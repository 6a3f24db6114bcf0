package models

import (
	"fmt"
	"strings"
)

// BillingPeriod is how often a subscription renews.
type BillingPeriod string

const (
	BillingDaily        BillingPeriod = "DAILY"
	BillingWeekly       BillingPeriod = "WEEKLY"
	BillingMonthly      BillingPeriod = "MONTHLY"
	BillingQuarterly    BillingPeriod = "QUARTERLY"
	BillingSemiAnnually BillingPeriod = "SEMI_ANNUALLY"
	BillingAnnually     BillingPeriod = "ANNUALLY"
	BillingCustom       BillingPeriod = "CUSTOM"
)

// BillingPeriods lists every known period in display order.
var BillingPeriods = []BillingPeriod{
	BillingDaily, BillingWeekly, BillingMonthly, BillingQuarterly,
	BillingSemiAnnually, BillingAnnually, BillingCustom,
}

func (p BillingPeriod) Valid() bool {
	for _, known := range BillingPeriods {
		if p == known {
			return true
		}
	}
	return false
}

// ParseBillingPeriod accepts the enumeration name in any case.
func ParseBillingPeriod(s string) (BillingPeriod, error) {
	p := BillingPeriod(strings.ToUpper(strings.TrimSpace(s)))
	if !p.Valid() {
		return "", fmt.Errorf("unknown billing period %q", s)
	}
	return p, nil
}

// Status is the lifecycle state of a subscription.
type Status string

const (
	StatusActive    Status = "ACTIVE"
	StatusTrial     Status = "TRIAL"
	StatusPaused    Status = "PAUSED"
	StatusCancelled Status = "CANCELLED"
	StatusExpired   Status = "EXPIRED"
)

var Statuses = []Status{StatusActive, StatusTrial, StatusPaused, StatusCancelled, StatusExpired}

func (s Status) Valid() bool {
	for _, known := range Statuses {
		if s == known {
			return true
		}
	}
	return false
}

func ParseStatus(s string) (Status, error) {
	st := Status(strings.ToUpper(strings.TrimSpace(s)))
	if !st.Valid() {
		return "", fmt.Errorf("unknown status %q", s)
	}
	return st, nil
}
