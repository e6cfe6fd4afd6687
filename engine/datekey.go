package engine

import (
	"fmt"
	"time"
)

// =============================================================================
// DATE KEY - Canonical date-to-identity encoding
// =============================================================================

// DateKey is the canonical, collision-safe identity of a dated record:
// "YYYY-MM-DD" built from the date's local calendar fields, zero-padded.
// Both ledgers and the persistence collaborator key records by it, so two
// records for the same calendar day always collide to one identity. This
// replaces the ad-hoc formatted-string keys the persistence layer would
// otherwise invent.
type DateKey string

const dateKeyLayout = "2006-01-02"

// Key encodes the day as its DateKey. Never fails: every Day is a valid
// calendar date.
func (d Day) Key() DateKey {
	return DateKey(d.t.Format(dateKeyLayout))
}

// EncodeDateKey derives the key of an arbitrary timestamp. Timestamps that
// differ only in time-of-day or timezone representation but share a calendar
// day encode identically.
func EncodeDateKey(t time.Time) DateKey {
	return DayOf(t).Key()
}

// Day decodes the key back into the calendar day it encodes.
func (k DateKey) Day() (Day, error) {
	t, err := time.Parse(dateKeyLayout, string(k))
	if err != nil {
		return Day{}, fmt.Errorf("malformed date key %q: %w", string(k), err)
	}
	return DayOf(t), nil
}

func (k DateKey) String() string { return string(k) }
