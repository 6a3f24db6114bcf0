// Package models defines the SubControl domain: the Subscription record,
// its billing-period and status enumerations, civil-date helpers, the
// next-billing-date calculation and invariant validation.
//
// Dates that the user thinks of as calendar days (start, next billing,
// trial end) are carried as time.Time at UTC midnight; see CivilDate.
// Creation and update timestamps are full-precision UTC instants.
package models
