/*
errors.go - Error types for the payroll core

PURPOSE:
  Centralized sentinel and structured errors for final-pay calculation.
  Adapter packages (api, store) wrap these with transport context and use
  errors.Is/As to map them to HTTP statuses.

USAGE:
    if errors.Is(err, payroll.ErrValidation) {
        // 400 to the client
    }

SEE ALSO:
  - breakdown.go: Validation that produces these errors
  - rules package: ErrRuleNotFound / ErrInvalidDate counterparts
*/
package payroll

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrValidation is the root of all input-validation failures.
	// Negative monetary inputs surface as ValidationError; final-pay math
	// never silently clamps.
	ErrValidation = errors.New("validation failed")

	// ErrMissingRate is returned when PTO hours are present but no hourly
	// rate was supplied, which would silently zero the payout otherwise.
	ErrMissingRate = errors.New("hourly rate required when PTO hours are set")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// ValidationError identifies the offending field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// IsClientError returns true if the error is due to invalid caller input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrMissingRate)
}
