// Package recur expands a booking request into its concrete occurrences.
package recur

import (
	"errors"
	"time"

	"meetroom/internal/model"
)

// Occurrence is one concrete time range generated from a booking request.
type Occurrence struct {
	Start time.Time
	End   time.Time
}

// ErrInvalidDuration indicates the base range has a non-positive duration.
var ErrInvalidDuration = errors.New("recur: end must be after start")

// Expand generates the finite sequence of occurrences for a base range under
// the given rule. The base duration is held constant across occurrences.
//
//   - none:    exactly the base range.
//   - weekly:  base + 7k days while the occurrence start date is on or before
//     the rule end date.
//   - monthly: base + k calendar months, same day-of-month; months lacking
//     that day clamp to their last day (Jan 31 + 1 month = Feb 29 in a leap
//     year). Same termination condition.
//
// A rule end date before the base start date yields no occurrences.
func Expand(baseStart, baseEnd time.Time, rule model.RecurrenceRule) ([]Occurrence, error) {
	if !baseEnd.After(baseStart) {
		return nil, ErrInvalidDuration
	}
	if err := rule.Validate(); err != nil {
		return nil, err
	}

	duration := baseEnd.Sub(baseStart)

	if !rule.Repeats() {
		return []Occurrence{{Start: baseStart, End: baseEnd}}, nil
	}

	limit := dateOnly(rule.EndDate, baseStart.Location())

	var occurrences []Occurrence
	for k := 0; ; k++ {
		var start time.Time
		switch rule.Kind {
		case model.RecurrenceWeekly:
			start = baseStart.AddDate(0, 0, 7*k)
		case model.RecurrenceMonthly:
			start = addMonths(baseStart, k)
		}
		if dateOnly(start, start.Location()).After(limit) {
			break
		}
		occurrences = append(occurrences, Occurrence{Start: start, End: start.Add(duration)})
	}
	return occurrences, nil
}

// addMonths advances t by k calendar months, clamping the day-of-month to the
// last valid day of the target month. time.AddDate alone would normalize
// Jan 31 + 1 month into March.
func addMonths(t time.Time, k int) time.Time {
	y, m, d := t.Date()
	target := time.Date(y, m+time.Month(k), 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	if last := daysIn(target.Year(), target.Month()); d > last {
		d = last
	}
	return time.Date(target.Year(), target.Month(), d, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

func daysIn(year int, month time.Month) int {
	// Day zero of the next month is the last day of this month.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func dateOnly(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}
