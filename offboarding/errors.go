package offboarding

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrChecklistIncomplete is returned when submission is attempted
	// before every offboarding task is confirmed.
	ErrChecklistIncomplete = errors.New("offboarding checklist incomplete")

	// ErrCaseSubmitted is returned on any mutation of a submitted case.
	// Submitted cases are terminal and immutable.
	ErrCaseSubmitted = errors.New("case already submitted")

	// ErrInvalidTransition is returned when a wizard step change is not
	// the single forward or backward step the flow allows.
	ErrInvalidTransition = errors.New("invalid step transition")

	// ErrUnknownFlag is returned when toggling a checklist flag that
	// does not exist.
	ErrUnknownFlag = errors.New("unknown checklist flag")

	// ErrCaseNotFound is returned by stores for missing case IDs.
	ErrCaseNotFound = errors.New("case not found")

	// ErrValidation is the root of step-field validation failures.
	ErrValidation = errors.New("validation failed")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// FieldError reports a missing or invalid wizard field.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

func (e *FieldError) Unwrap() error { return ErrValidation }

// UnknownFlagError reports a checklist flag that does not exist.
type UnknownFlagError struct {
	Name string
}

func (e *UnknownFlagError) Error() string {
	return fmt.Sprintf("unknown checklist flag %q", e.Name)
}

func (e *UnknownFlagError) Unwrap() error { return ErrUnknownFlag }

// TransitionError reports a rejected step change.
type TransitionError struct {
	From Step
	To   Step
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot move from step %q to %q", e.From, e.To)
}

func (e *TransitionError) Unwrap() error { return ErrInvalidTransition }

// IncompleteChecklistError lists the tasks still open.
type IncompleteChecklistError struct {
	Remaining []Flag
}

func (e *IncompleteChecklistError) Error() string {
	return fmt.Sprintf("offboarding checklist incomplete: %d task(s) remaining", len(e.Remaining))
}

func (e *IncompleteChecklistError) Unwrap() error { return ErrChecklistIncomplete }

// IsConflict returns true for errors that map to a state conflict rather
// than bad input: the request was well-formed but the case cannot accept it.
func IsConflict(err error) bool {
	return errors.Is(err, ErrCaseSubmitted) ||
		errors.Is(err, ErrInvalidTransition) ||
		errors.Is(err, ErrChecklistIncomplete)
}

// IsClientError returns true if the error is due to invalid caller input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrUnknownFlag)
}

// IsNotFound returns true if the error indicates a missing case.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrCaseNotFound)
}
