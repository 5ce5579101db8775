package model

import (
	"fmt"
	"time"
)

// RecurrenceKind selects how a booking request repeats.
type RecurrenceKind string

const (
	RecurrenceNone    RecurrenceKind = "none"
	RecurrenceWeekly  RecurrenceKind = "weekly"
	RecurrenceMonthly RecurrenceKind = "monthly"
)

// RecurrenceRule describes repetition for a booking request. It is consumed
// entirely at creation time to expand occurrences and is never persisted.
type RecurrenceRule struct {
	Kind    RecurrenceKind `json:"kind"`
	EndDate time.Time      `json:"end_date,omitempty"` // inclusive, date precision; required unless Kind is none
}

// Validate checks that the rule is well formed.
func (r RecurrenceRule) Validate() error {
	switch r.Kind {
	case RecurrenceNone, "":
		return nil
	case RecurrenceWeekly, RecurrenceMonthly:
		if r.EndDate.IsZero() {
			return fmt.Errorf("recurrence %s requires an end date", r.Kind)
		}
		return nil
	default:
		return fmt.Errorf("unknown recurrence kind %q", r.Kind)
	}
}

// Repeats reports whether the rule generates more than the base occurrence.
func (r RecurrenceRule) Repeats() bool {
	return r.Kind == RecurrenceWeekly || r.Kind == RecurrenceMonthly
}
