package engine_test

import (
	"errors"
	"testing"
	"time"

	"github.com/colmado/sales-engine/engine"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func day(y int, m time.Month, d int) engine.Day { return engine.NewDay(y, m, d) }

func mustResolve(t *testing.T, reference engine.Day, cutOffDay int) engine.CycleWindow {
	t.Helper()
	w, err := engine.ResolveCycle(reference, cutOffDay)
	if err != nil {
		t.Fatalf("unexpected error resolving %s / cut-off %d: %v", reference, cutOffDay, err)
	}
	return w
}

// =============================================================================
// RESOLUTION SCENARIOS
// =============================================================================

func TestResolveCycle_MidMonthReference(t *testing.T) {
	// GIVEN: cut-off day 3
	// WHEN: resolving for 2024-03-15 (past this month's cut-off)
	// THEN: window is [2024-03-03, 2024-04-02]

	w := mustResolve(t, day(2024, time.March, 15), 3)

	if !w.Start.Equal(day(2024, time.March, 3)) {
		t.Errorf("expected start 2024-03-03, got %s", w.Start)
	}
	if !w.End.Equal(day(2024, time.April, 2)) {
		t.Errorf("expected end 2024-04-02, got %s", w.End)
	}
}

func TestResolveCycle_ReferenceBeforeCutOff(t *testing.T) {
	// GIVEN: cut-off day 3
	// WHEN: resolving for 2024-03-01 (cut-off not yet reached this month)
	// THEN: window starts at the previous month's cut-off

	w := mustResolve(t, day(2024, time.March, 1), 3)

	if !w.Start.Equal(day(2024, time.February, 3)) {
		t.Errorf("expected start 2024-02-03, got %s", w.Start)
	}
	if !w.End.Equal(day(2024, time.March, 2)) {
		t.Errorf("expected end 2024-03-02, got %s", w.End)
	}
}

func TestResolveCycle_MonthEndClamp_LeapFebruary(t *testing.T) {
	// GIVEN: cut-off day 31, reference 2024-02-10 (2024 is a leap year)
	// WHEN: the February candidate clamps to Feb 29, which is after the reference
	// THEN: start steps back to Jan 31; end is the day before the next clamped
	//       occurrence, Feb 28

	w := mustResolve(t, day(2024, time.February, 10), 31)

	if !w.Start.Equal(day(2024, time.January, 31)) {
		t.Errorf("expected start 2024-01-31, got %s", w.Start)
	}
	if !w.End.Equal(day(2024, time.February, 28)) {
		t.Errorf("expected end 2024-02-28, got %s", w.End)
	}
}

func TestResolveCycle_ClampedStartAtMonthEnd(t *testing.T) {
	// GIVEN: cut-off day 31, reference exactly on a 31st
	// WHEN: resolving for 2024-03-31
	// THEN: window runs to the day before April's clamped occurrence (Apr 30),
	//       i.e. ends Apr 29, so the next cycle can start Apr 30 without overlap

	w := mustResolve(t, day(2024, time.March, 31), 31)

	if !w.Start.Equal(day(2024, time.March, 31)) {
		t.Errorf("expected start 2024-03-31, got %s", w.Start)
	}
	if !w.End.Equal(day(2024, time.April, 29)) {
		t.Errorf("expected end 2024-04-29, got %s", w.End)
	}
}

// =============================================================================
// INVARIANTS
// =============================================================================

func TestResolveCycle_IdempotentAcrossWindow(t *testing.T) {
	// GIVEN: a resolved window
	// WHEN: resolving again with every date inside it
	// THEN: the same window comes back each time

	for _, cutOff := range []int{1, 3, 15, 28, 31} {
		w := mustResolve(t, day(2024, time.February, 10), cutOff)

		for d := w.Start; d.BeforeOrEqual(w.End); d = d.AddDays(1) {
			again := mustResolve(t, d, cutOff)
			if !again.Start.Equal(w.Start) || !again.End.Equal(w.End) {
				t.Fatalf("cut-off %d: resolving %s inside %s gave %s", cutOff, d, w, again)
			}
		}
	}
}

func TestResolveCycle_WindowsTileTheCalendar(t *testing.T) {
	// GIVEN: any cut-off day
	// WHEN: resolving for two consecutive calendar days over two years
	// THEN: the windows are either identical or exactly adjacent - no gaps,
	//       no overlap

	for _, cutOff := range []int{1, 3, 15, 29, 30, 31} {
		prev := mustResolve(t, day(2024, time.January, 1), cutOff)

		d := day(2024, time.January, 2)
		for i := 0; i < 730; i++ {
			w := mustResolve(t, d, cutOff)

			same := w.Start.Equal(prev.Start) && w.End.Equal(prev.End)
			adjacent := w.Start.Equal(prev.End.AddDays(1))
			if !same && !adjacent {
				t.Fatalf("cut-off %d: window %s does not tile after %s", cutOff, w, prev)
			}

			prev = w
			d = d.AddDays(1)
		}
	}
}

func TestResolveCycle_EndNeverBeforeStart(t *testing.T) {
	// Sweep every cut-off over every day of a leap year.
	for cutOff := 1; cutOff <= 31; cutOff++ {
		for d := day(2024, time.January, 1); d.Before(day(2025, time.January, 1)); d = d.AddDays(1) {
			w := mustResolve(t, d, cutOff)
			if w.End.Before(w.Start) {
				t.Fatalf("cut-off %d at %s: inverted window %s", cutOff, d, w)
			}
			if !w.Contains(d) {
				t.Fatalf("cut-off %d: window %s does not contain its reference %s", cutOff, w, d)
			}
		}
	}
}

func TestResolveCycle_InvalidCutOffDay(t *testing.T) {
	// GIVEN: cut-off days outside [1, 31]
	// WHEN: resolving
	// THEN: InvalidConfiguration is surfaced, never clamped

	for _, cutOff := range []int{0, -5, 32, 100} {
		_, err := engine.ResolveCycle(day(2024, time.June, 1), cutOff)
		if !errors.Is(err, engine.ErrInvalidConfiguration) {
			t.Errorf("cut-off %d: expected ErrInvalidConfiguration, got %v", cutOff, err)
		}

		var cfgErr *engine.InvalidConfigurationError
		if !errors.As(err, &cfgErr) || cfgErr.CutOffDay != cutOff {
			t.Errorf("cut-off %d: expected structured error carrying the value, got %v", cutOff, err)
		}
	}

	for cutOff := 1; cutOff <= 31; cutOff++ {
		if err := engine.ValidateCutOffDay(cutOff); err != nil {
			t.Errorf("cut-off %d should be valid: %v", cutOff, err)
		}
	}
}

func TestCycleWindow_ContainsIsInclusive(t *testing.T) {
	w := engine.CycleWindow{Start: day(2024, time.March, 3), End: day(2024, time.April, 2)}

	if !w.Contains(w.Start) || !w.Contains(w.End) {
		t.Error("window bounds must be inclusive")
	}
	if w.Contains(w.Start.AddDays(-1)) || w.Contains(w.End.AddDays(1)) {
		t.Error("days outside the bounds must be excluded")
	}
}
