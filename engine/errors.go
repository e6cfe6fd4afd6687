/*
errors.go - Centralized error types for the engine

PURPOSE:
  All engine error types in one place. Callers classify with errors.Is/As;
  the HTTP layer maps client errors to 400s. The engine never produces
  user-facing text.

ERROR CATEGORIES:
  1. Configuration errors - a colmado's cut-off day outside [1, 31]
  2. Record errors - a sales or balance input with a negative field

Division by zero in margin computation is NOT an error; see metrics.go.
*/
package engine

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidConfiguration is returned when a colmado's cut-off day is
	// outside [1, 31]. Surfaced to the caller, never silently clamped.
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrInvalidRecord is returned when a sales or balance input carries a
	// negative numeric field. Rejected before upsert; ledger state is left
	// unchanged.
	ErrInvalidRecord = errors.New("invalid record")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// InvalidConfigurationError reports an out-of-range cut-off day.
type InvalidConfigurationError struct {
	CutOffDay int
}

func (e *InvalidConfigurationError) Error() string {
	return fmt.Sprintf("cut-off day %d out of range [1, 31]", e.CutOffDay)
}

func (e *InvalidConfigurationError) Unwrap() error {
	return ErrInvalidConfiguration
}

// InvalidRecordError reports which field of a record was negative.
type InvalidRecordError struct {
	Field string
	Value decimal.Decimal
}

func (e *InvalidRecordError) Error() string {
	return fmt.Sprintf("field %s must be non-negative, got %s", e.Field, e.Value)
}

func (e *InvalidRecordError) Unwrap() error {
	return ErrInvalidRecord
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid caller input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidConfiguration) ||
		errors.Is(err, ErrInvalidRecord)
}
