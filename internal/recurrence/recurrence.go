// Package recurrence implements the yearly-recurrence date math for
// anniversaries: next occurrence, day counts and same-day matching. All
// functions are pure; the reference date is always passed in by the caller,
// which keeps the results deterministic under test.
//
// Comparisons work at day granularity: both the anchor date and the
// reference date are truncated to midnight in the reference date's location
// before any arithmetic.
package recurrence

import (
	"math"
	"time"
)

// Midnight truncates t to the start of its day, preserving the location.
func Midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func isLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// occurrenceInYear places original's month/day into the given year. A
// Feb 29 anchor falling in a non-leap year clamps to Feb 28, which keeps
// the occurrence in February instead of letting date normalization roll it
// to March 1.
func occurrenceInYear(original time.Time, year int, loc *time.Location) time.Time {
	month, day := original.Month(), original.Day()
	if month == time.February && day == 29 && !isLeapYear(year) {
		day = 28
	}
	return time.Date(year, month, day, 0, 0, 0, 0, loc)
}

// NextOccurrence returns the soonest date, today or later, on which the
// anniversary falls. For non-recurring dates it is the original date
// unchanged (even if in the past). For recurring dates the candidate is
// built from the reference year and the original month/day; a candidate
// already past rolls to the following year. The same day counts as
// occurring, not past.
func NextOccurrence(original time.Time, recurring bool, now time.Time) time.Time {
	if !recurring {
		return Midnight(original)
	}
	today := Midnight(now)
	candidate := occurrenceInYear(original, today.Year(), now.Location())
	if candidate.Before(today) {
		candidate = occurrenceInYear(original, today.Year()+1, now.Location())
	}
	return candidate
}

// DaysUntil returns the whole days from the reference day to the next
// occurrence. Zero when the anniversary is today; never negative for
// recurring dates.
func DaysUntil(original time.Time, recurring bool, now time.Time) int {
	next := NextOccurrence(original, recurring, now)
	return wholeDays(Midnight(now), next)
}

// IsToday reports whether date's month and day match the reference date's,
// irrespective of year. Used for recurring anniversaries and the
// relationship start. The anchor goes through the same leap-day clamp as
// NextOccurrence, so a Feb 29 anniversary is observed on Feb 28 in
// non-leap years.
func IsToday(date, now time.Time) bool {
	occ := occurrenceInYear(date, now.Year(), now.Location())
	return occ.Month() == now.Month() && occ.Day() == now.Day()
}

// IsSameDate reports whether date and now fall on the exact same calendar
// day, year included. Used for non-recurring anniversaries.
func IsSameDate(date, now time.Time) bool {
	return date.Year() == now.Year() && IsToday(date, now)
}

// DaysTogether returns the whole days elapsed since the relationship start,
// never negative.
func DaysTogether(start, now time.Time) int {
	days := wholeDays(Midnight(start), Midnight(now))
	if days < 0 {
		return 0
	}
	return days
}

// YearsSince returns the elapsed calendar years between start and now.
// Intended for building "<n> year anniversary" titles on a day that
// IsToday already matched, so a plain year difference is the right count.
func YearsSince(start, now time.Time) int {
	years := now.Year() - start.Year()
	if years < 0 {
		return 0
	}
	return years
}

// wholeDays counts calendar days from a to b. Rounding absorbs the odd
// hour a DST transition adds or removes inside the interval.
func wholeDays(a, b time.Time) int {
	return int(math.Round(b.Sub(a).Hours() / 24))
}
