package engine

import "time"

// =============================================================================
// CYCLE WINDOW - One accounting period of a colmado
// =============================================================================

// CycleWindow is the inclusive [Start, End] date range of one accounting
// cycle. Start is an occurrence of the colmado's cut-off day (clamped to the
// month length); End is the day before the next occurrence. Windows tile the
// calendar: consecutive cycles never overlap and leave no gaps.
type CycleWindow struct {
	Start Day
	End   Day
}

// Contains returns true if the day falls within the window [Start, End].
func (w CycleWindow) Contains(d Day) bool {
	return d.AfterOrEqual(w.Start) && d.BeforeOrEqual(w.End)
}

func (w CycleWindow) String() string {
	return "[" + w.Start.String() + ", " + w.End.String() + "]"
}

// =============================================================================
// BILLING CYCLE RESOLVER
// =============================================================================

// ValidateCutOffDay checks a colmado's configured cut-off day. Out-of-range
// values are an error, never silently clamped.
func ValidateCutOffDay(cutOffDay int) error {
	if cutOffDay < 1 || cutOffDay > 31 {
		return &InvalidConfigurationError{CutOffDay: cutOffDay}
	}
	return nil
}

// ResolveCycle computes the accounting window containing the reference day
// for a store whose cycles close on cutOffDay.
//
// The start is the most recent occurrence of the cut-off day at or before
// the reference: the cut-off day in the reference month (clamped to the
// month's last day when the month is short, e.g. cut-off 31 in February),
// or the previous month's occurrence when the candidate is still ahead of
// the reference. The end is the day before the next clamped occurrence of
// the cut-off day.
//
// Resolving with any date inside the returned window yields the same window.
func ResolveCycle(reference Day, cutOffDay int) (CycleWindow, error) {
	if err := ValidateCutOffDay(cutOffDay); err != nil {
		return CycleWindow{}, err
	}

	start := cutOffInMonth(reference.Year(), reference.Month(), cutOffDay)
	if start.After(reference) {
		// Cycle has not reached its cut-off this month; step back one month.
		prev := startOfMonth(reference.Year(), reference.Month()).AddDays(-1)
		start = cutOffInMonth(prev.Year(), prev.Month(), cutOffDay)
	}

	next := startOfMonth(start.Year(), start.Month()).AddMonths(1)
	end := cutOffInMonth(next.Year(), next.Month(), cutOffDay).AddDays(-1)

	// Clamping near month-end must never invert the window. Fall back to one
	// calendar month minus one day, via true date arithmetic.
	if end.Before(start) {
		end = start.AddMonths(1).AddDays(-1)
	}

	return CycleWindow{Start: start, End: end}, nil
}

// cutOffInMonth places the cut-off day in the given month, clamped to the
// last valid day when the month is shorter than the configured day.
func cutOffInMonth(year int, month time.Month, cutOffDay int) Day {
	if last := lastDayOfMonth(year, month); cutOffDay > last {
		cutOffDay = last
	}
	return NewDay(year, month, cutOffDay)
}
