package engine

import (
	"time"
)

// =============================================================================
// DAY - Calendar day abstraction (all engine dates are day-granular)
// =============================================================================

// Day is a calendar day. Time-of-day and timezone of the source value carry
// no significance: construction keeps only the local calendar fields, so two
// timestamps on the same calendar day compare equal.
type Day struct {
	t time.Time
}

// Constructors

func NewDay(year int, month time.Month, day int) Day {
	return Day{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DayOf truncates an arbitrary timestamp to its local calendar day.
func DayOf(t time.Time) Day {
	return NewDay(t.Year(), t.Month(), t.Day())
}

func Today() Day {
	return DayOf(time.Now())
}

// Comparison

func (d Day) Before(other Day) bool        { return d.t.Before(other.t) }
func (d Day) After(other Day) bool         { return d.t.After(other.t) }
func (d Day) Equal(other Day) bool         { return d.t.Equal(other.t) }
func (d Day) BeforeOrEqual(other Day) bool { return !d.t.After(other.t) }
func (d Day) AfterOrEqual(other Day) bool  { return !d.t.Before(other.t) }

// Arithmetic

func (d Day) AddDays(n int) Day   { return Day{t: d.t.AddDate(0, 0, n)} }
func (d Day) AddMonths(n int) Day { return Day{t: d.t.AddDate(0, n, 0)} }

// Properties

func (d Day) Year() int         { return d.t.Year() }
func (d Day) Month() time.Month { return d.t.Month() }
func (d Day) DayOfMonth() int   { return d.t.Day() }
func (d Day) IsZero() bool      { return d.t.IsZero() }
func (d Day) Time() time.Time   { return d.t }

func (d Day) String() string { return d.t.Format(dateKeyLayout) }

// =============================================================================
// MONTH UTILITIES
// =============================================================================

// lastDayOfMonth returns the number of days in the given month.
func lastDayOfMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -1).Day()
}

func startOfMonth(year int, month time.Month) Day { return NewDay(year, month, 1) }
