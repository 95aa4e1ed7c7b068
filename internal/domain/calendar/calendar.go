// Package calendar implements the date bucketing used by billing: year-month
// keys, strict ISO date parsing and inclusive month counting.
//
// Dates are represented as time.Time values at midnight UTC. Callers that
// start from a wall-clock time should pass it through Truncate first.
package calendar

import (
	"fmt"
	"strings"
	"time"
)

const (
	// DateLayout is the ISO calendar date format used at every store boundary.
	DateLayout = "2006-01-02"
	// MonthLayout is the year-month bucket format.
	MonthLayout = "2006-01"
)

// Date builds a calendar date at midnight UTC.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Truncate drops the clock part of t, keeping its calendar date in t's location.
func Truncate(t time.Time) time.Time {
	y, m, d := t.Date()
	return Date(y, m, d)
}

// Today returns the local calendar date.
func Today() time.Time {
	return Truncate(time.Now())
}

// YM returns the zero padded "YYYY-MM" bucket of t.
func YM(t time.Time) string {
	return fmt.Sprintf("%04d-%02d", t.Year(), int(t.Month()))
}

// FormatYMD returns t as "YYYY-MM-DD".
func FormatYMD(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseYM parses a strict "YYYY-MM" string. ok is false for any malformed
// input, including an out of range month.
func ParseYM(s string) (year, month int, ok bool) {
	t, err := time.Parse(MonthLayout, s)
	if err != nil {
		return 0, 0, false
	}
	return t.Year(), int(t.Month()), true
}

// ParseYMD parses a strict "YYYY-MM-DD" date after trimming surrounding
// whitespace. Dates that do not exist on the calendar (2024-02-30) are
// rejected.
func ParseYMD(s string) (time.Time, bool) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// ParseOptionalYMD parses s when it is non-nil and non-blank.
func ParseOptionalYMD(s *string) (time.Time, bool) {
	if s == nil || strings.TrimSpace(*s) == "" {
		return time.Time{}, false
	}
	return ParseYMD(*s)
}

// AddMonths shifts (year, month) by delta months, rolling the year over in
// either direction.
func AddMonths(year, month, delta int) (int, int) {
	m := month + delta
	y := year + floorDiv(m-1, 12)
	m = floorMod(m-1, 12) + 1
	return y, m
}

// LastDayOfMonth returns the number of days in the given month.
func LastDayOfMonth(year, month int) int {
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// ClampedDate returns year-month-day, moving day back to the last day of the
// month when the month is shorter (Jan 31 anchored dates land on Feb 28/29).
func ClampedDate(year, month, day int) time.Time {
	if last := LastDayOfMonth(year, month); day > last {
		day = last
	}
	return Date(year, time.Month(month), day)
}

// MonthBounds returns the first and last day of the given month.
func MonthBounds(year, month int) (first, last time.Time) {
	first = Date(year, time.Month(month), 1)
	last = Date(year, time.Month(month), LastDayOfMonth(year, month))
	return first, last
}

// ElapsedMonthsInclusive counts calendar months from start through end,
// counting the starting month. A month only counts once its anniversary day
// is reached, so the count drops by one when end.day < start.day. The result
// is 0 when end is before start.
func ElapsedMonthsInclusive(start, end time.Time) int {
	if end.Before(start) {
		return 0
	}
	months := (end.Year()-start.Year())*12 + (int(end.Month()) - int(start.Month())) + 1
	if end.Day() < start.Day() {
		months--
	}
	if months < 0 {
		return 0
	}
	return months
}

// Min returns the earlier of a and b.
func Min(a, b time.Time) time.Time {
	if b.Before(a) {
		return b
	}
	return a
}

func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

func floorMod(a, b int) int {
	return a - floorDiv(a, b)*b
}
