package rules

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrRuleNotFound is returned for jurisdictions without a rule entry.
	// Callers must surface this; falling back to a default rule would
	// silently zero a PTO payout the employee is owed.
	ErrRuleNotFound = errors.New("no final-pay rule for jurisdiction")

	// ErrInvalidDate is returned for malformed or missing dates.
	ErrInvalidDate = errors.New("invalid date")

	// ErrInvalidTerminationType is returned for unrecognized termination types.
	ErrInvalidTerminationType = errors.New("invalid termination type")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// UnknownJurisdictionError identifies which code had no rule.
type UnknownJurisdictionError struct {
	Code string
}

func (e *UnknownJurisdictionError) Error() string {
	return fmt.Sprintf("no final-pay rule for jurisdiction %q", e.Code)
}

func (e *UnknownJurisdictionError) Unwrap() error { return ErrRuleNotFound }

// UnknownTerminationTypeError identifies the rejected input.
type UnknownTerminationTypeError struct {
	Input string
}

func (e *UnknownTerminationTypeError) Error() string {
	return fmt.Sprintf("unknown termination type %q (want voluntary, involuntary, or retirement)", e.Input)
}

func (e *UnknownTerminationTypeError) Unwrap() error { return ErrInvalidTerminationType }

// IsNotFound returns true if the error indicates missing rule data.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrRuleNotFound)
}

// IsClientError returns true if the error is due to invalid caller input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidDate) ||
		errors.Is(err, ErrInvalidTerminationType)
}
