// Package calendar answers date questions for the planning grid: month
// lengths, weekends, French public holidays and display ranges.
package calendar

import (
	"fmt"
	"time"
)

// ISOLayout is the date key format used by the planning document.
const ISOLayout = "2006-01-02"

// Date builds a UTC midnight date. Month is 1-based.
func Date(year, month, day int) time.Time {
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}

// DaysInMonth returns the number of days of a 1-based month.
func DaysInMonth(year, month int) int {
	return Date(year, month+1, 0).Day()
}

// ISO formats t as YYYY-MM-DD.
func ISO(t time.Time) string {
	return t.Format(ISOLayout)
}

// ISODate formats a year, 1-based month and day as YYYY-MM-DD.
func ISODate(year, month, day int) string {
	return fmt.Sprintf("%04d-%02d-%02d", year, month, day)
}

// ParseISO parses a YYYY-MM-DD key.
func ParseISO(s string) (time.Time, error) {
	t, err := time.ParseInLocation(ISOLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return t, nil
}

// MonthLayout is the YYYY-MM form used to name a month.
const MonthLayout = "2006-01"

// ParseMonth parses a YYYY-MM month into its year and 1-based month.
func ParseMonth(s string) (year, month int, err error) {
	t, err := time.ParseInLocation(MonthLayout, s, time.UTC)
	if err != nil {
		return 0, 0, fmt.Errorf("parse month %q: %w", s, err)
	}
	return t.Year(), int(t.Month()), nil
}

// FormatMonth formats a year and 1-based month as YYYY-MM.
func FormatMonth(year, month int) string {
	return fmt.Sprintf("%04d-%02d", year, month)
}

// IsWeekend reports whether t falls on a Saturday or Sunday.
func IsWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// IsWeekendDate is IsWeekend for a 1-based month.
func IsWeekendDate(year, month, day int) bool {
	return IsWeekend(Date(year, month, day))
}

// ISOWeek returns the ISO-8601 week number of t.
func ISOWeek(t time.Time) int {
	_, w := t.ISOWeek()
	return w
}

// StartOfWeek returns the Monday on or before t.
func StartOfWeek(t time.Time) time.Time {
	offset := (int(t.Weekday()) + 6) % 7
	y, m, d := t.Date()
	return time.Date(y, m, d-offset, 0, 0, 0, 0, time.UTC)
}

// MonthDays lists every day of a 1-based month.
func MonthDays(year, month int) []time.Time {
	n := DaysInMonth(year, month)
	out := make([]time.Time, n)
	for i := range n {
		out[i] = Date(year, month, i+1)
	}
	return out
}

// FortnightLength is the number of days shown by the biweekly view.
const FortnightLength = 14

// Fortnight lists the fourteen days starting on the Monday of start's week.
func Fortnight(start time.Time) []time.Time {
	monday := StartOfWeek(start)
	out := make([]time.Time, FortnightLength)
	for i := range FortnightLength {
		out[i] = monday.AddDate(0, 0, i)
	}
	return out
}
