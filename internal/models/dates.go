package models

import (
	"fmt"
	"time"
)

// DateLayout is the canonical ISO-8601 calendar date layout.
const DateLayout = "2006-01-02"

// CivilDate drops the clock part of t, keeping t's calendar day in its own
// location, and returns that day at UTC midnight.
func CivilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Date is shorthand for a UTC-midnight calendar day.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t, nil
}

// FormatDate renders the calendar day of t as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return CivilDate(t).Format(DateLayout)
}

// addMonthsClamped adds n months to a civil date, clamping the day to the
// last day of the target month (Jan 31 + 1 month = Feb 28/29).
func addMonthsClamped(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	first := time.Date(y, m+time.Month(n), 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1).Day()
	if d > last {
		d = last
	}
	return time.Date(first.Year(), first.Month(), d, 0, 0, 0, 0, time.UTC)
}

// step returns the period length as (days, months); exactly one is non-zero.
func (p BillingPeriod) step(cycleDays int) (days, months int) {
	switch p {
	case BillingDaily:
		return 1, 0
	case BillingWeekly:
		return 7, 0
	case BillingMonthly:
		return 0, 1
	case BillingQuarterly:
		return 0, 3
	case BillingSemiAnnually:
		return 0, 6
	case BillingAnnually:
		return 0, 12
	default:
		if cycleDays < 1 {
			cycleDays = 1
		}
		return cycleDays, 0
	}
}

// NextBillingDate returns the first renewal on or after the calendar day of
// now, stepping from start by whole billing periods. The k-th renewal is
// always computed from start, so month-end clamping never drifts. A start
// in the future is itself the next billing date.
func NextBillingDate(start time.Time, period BillingPeriod, cycleDays int, now time.Time) time.Time {
	start = CivilDate(start)
	today := CivilDate(now)
	if !start.Before(today) {
		return start
	}

	days, months := period.step(cycleDays)
	if days > 0 {
		elapsed := int(today.Sub(start).Hours() / 24)
		k := (elapsed + days - 1) / days
		return start.AddDate(0, 0, k*days)
	}

	diff := (today.Year()-start.Year())*12 + int(today.Month()-start.Month())
	k := diff/months - 1
	if k < 0 {
		k = 0
	}
	next := addMonthsClamped(start, k*months)
	for next.Before(today) {
		k++
		next = addMonthsClamped(start, k*months)
	}
	return next
}
