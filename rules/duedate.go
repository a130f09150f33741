/*
duedate.go - Statutory final-pay due date resolution

PURPOSE:
  Turns (termination date, termination type, jurisdiction rule) into the
  date by which the final paycheck must be issued.

ALGORITHM:
  1. Select the deadline rule: involuntary terminations use the
     involuntary rule; voluntary and retirement use the voluntary rule.
  2. Apply it:
       Immediate    -> the termination date itself
       72 Hours     -> termination date + 3 calendar days
       6 Days       -> termination date + 6 calendar days
       anything else -> next payday

NEXT PAYDAY:
  Approximated as the next payday weekday strictly after the termination
  date: a Friday termination under a Friday payday resolves to the
  FOLLOWING Friday, never the same day. The payday weekday is configurable
  (default Friday); arbitrary pay calendars (semimonthly, monthly) are not
  modeled. Deployments with real pay schedules should resolve next-payday
  deadlines against their payroll calendar instead.

SEE ALSO:
  - types.go: DeadlineRule, StateRule.DeadlineFor
*/
package rules

import "time"

// =============================================================================
// RESOLVER
// =============================================================================

// Resolver computes statutory final-pay due dates.
type Resolver struct {
	// PaydayWeekday anchors the next-payday approximation. Default Friday.
	PaydayWeekday time.Weekday
}

func NewResolver() *Resolver {
	return &Resolver{PaydayWeekday: time.Friday}
}

// Resolve returns the final-pay due date. A zero termination date is an
// explicit ErrInvalidDate: a wrong statutory deadline is a compliance
// violation, so this never guesses.
func (r *Resolver) Resolve(terminationDate Date, terminationType TerminationType, rule StateRule) (Date, error) {
	if terminationDate.IsZero() {
		return Date{}, &InvalidDateError{Input: ""}
	}
	if _, err := ParseTerminationType(string(terminationType)); err != nil {
		return Date{}, err
	}

	switch rule.DeadlineFor(terminationType) {
	case DeadlineImmediate:
		return terminationDate, nil
	case Deadline72Hours:
		return terminationDate.AddDays(3), nil
	case Deadline6Days:
		return terminationDate.AddDays(6), nil
	default:
		return r.nextPayday(terminationDate), nil
	}
}

// nextPayday returns the next payday weekday strictly after d.
func (r *Resolver) nextPayday(d Date) Date {
	payday := r.PaydayWeekday
	if payday == time.Sunday {
		// Sunday is the zero value and not a business payday; treat a
		// zero-valued Resolver as the Friday default.
		payday = time.Friday
	}
	offset := (int(payday) - int(d.Weekday()) + 7) % 7
	if offset == 0 {
		offset = 7
	}
	return d.AddDays(offset)
}
