// Package recur implements the pure date arithmetic behind recurring tasks:
// computing the next occurrence of a repeat pattern and expanding a pattern
// into a sequence of future dates. All functions are free of I/O and
// side effects.
package recur

import (
	"errors"
	"time"

	"github.com/taskhive/taskhive-api/internal/domain"
)

// Common errors
var (
	ErrInvalidBase  = errors.New("base time cannot be the zero value")
	ErrInvalidKind  = errors.New("repeat kind must be daily, weekly, or monthly")
	ErrInvalidCount = errors.New("count must be at least 1")
)

// Next computes the occurrence that follows base for the given repeat kind.
//
// The time of day of base (hour, minute, second, nanosecond) is preserved
// exactly in the result:
//   - daily advances by one calendar day
//   - weekly advances by seven calendar days
//   - monthly advances the month by one, keeping the day of month when it
//     exists in the target month and clamping to the target month's last
//     day otherwise (Jan 31 -> Feb 28, or Feb 29 in a leap year)
//
// Returns ErrInvalidBase for the zero time and ErrInvalidKind for any kind
// outside {daily, weekly, monthly}, including "none" and the empty string.
func Next(base time.Time, kind domain.RepeatKind) (time.Time, error) {
	if base.IsZero() {
		return time.Time{}, ErrInvalidBase
	}

	switch kind {
	case domain.RepeatKindDaily:
		return base.AddDate(0, 0, 1), nil
	case domain.RepeatKindWeekly:
		return base.AddDate(0, 0, 7), nil
	case domain.RepeatKindMonthly:
		return nextMonth(base), nil
	default:
		return time.Time{}, ErrInvalidKind
	}
}

// FutureDates expands a repeat pattern into count occurrence times, each
// computed by applying Next to the previous result (chained, not all from
// base). Returns ErrInvalidCount when count <= 0; other input errors are
// those of Next.
func FutureDates(base time.Time, kind domain.RepeatKind, count int) ([]time.Time, error) {
	if count <= 0 {
		return nil, ErrInvalidCount
	}

	dates := make([]time.Time, 0, count)
	current := base
	for i := 0; i < count; i++ {
		next, err := Next(current, kind)
		if err != nil {
			return nil, err
		}
		dates = append(dates, next)
		current = next
	}

	return dates, nil
}

// nextMonth advances base by one month, clamping the day of month to the
// last day of the target month. time.Time.AddDate is not used for the month
// step because it normalizes overflow (Jan 31 + 1 month = Mar 2 or Mar 3)
// instead of clamping.
func nextMonth(base time.Time) time.Time {
	year, month, day := base.Date()
	month++
	if month > time.December {
		month = time.January
		year++
	}

	if last := lastDayOfMonth(year, month); day > last {
		day = last
	}

	return time.Date(
		year, month, day,
		base.Hour(), base.Minute(), base.Second(), base.Nanosecond(),
		base.Location(),
	)
}

// lastDayOfMonth returns the number of days in the given month.
func lastDayOfMonth(year int, month time.Month) int {
	// Day zero of the following month is the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// SameDay reports whether a and b fall on the same calendar date in UTC,
// ignoring time of day.
func SameDay(a, b time.Time) bool {
	au, bu := a.UTC(), b.UTC()
	ay, am, ad := au.Date()
	by, bm, bd := bu.Date()
	return ay == by && am == bm && ad == bd
}

// DayOnOrBefore reports whether t's calendar date in UTC is on or before
// limit's calendar date. Comparison is by date only, never by raw
// timestamp: a time of day later than limit's must not exclude a date that
// is inside the window.
func DayOnOrBefore(t, limit time.Time) bool {
	return !dateOnly(t).After(dateOnly(limit))
}

// dateOnly truncates t to midnight UTC of its calendar date.
func dateOnly(t time.Time) time.Time {
	u := t.UTC()
	y, m, d := u.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
