/*
Package rules provides jurisdiction-specific final-pay rules.

PURPOSE:
  This package knows WHEN a final paycheck is due and WHETHER unused PTO
  must be paid out, per US state. It owns the rule reference data, the
  pluggable Provider interface for looking rules up, and the due-date
  resolver that turns a termination event into a statutory deadline.

KEY CONCEPTS:
  - StateRule: Per-jurisdiction deadline rules + PTO payout flag
  - DeadlineRule: "Immediate", "72 Hours", "6 Days", "Next Payday"
  - TerminationType: voluntary, involuntary, retirement
  - Provider: Lookup interface so rule data can come from code, config,
    or a database without touching callers

DESIGN PRINCIPLES:
  1. No silent defaults: an unknown jurisdiction is an explicit error,
     never a fall-through to a zero rule
  2. Reference data is immutable: lookups return copies
  3. Day granularity: statutory deadlines are calendar days

SEE ALSO:
  - provider.go: StaticProvider and the Provider interface
  - duedate.go: Resolver
  - factory package: JSON rule definitions for data-driven providers
*/
package rules

import "strings"

// =============================================================================
// TERMINATION TYPE
// =============================================================================

type TerminationType string

const (
	TerminationVoluntary   TerminationType = "voluntary"
	TerminationInvoluntary TerminationType = "involuntary"
	TerminationRetirement  TerminationType = "retirement"
)

// ParseTerminationType normalizes and validates a termination type string.
func ParseTerminationType(s string) (TerminationType, error) {
	switch TerminationType(strings.ToLower(strings.TrimSpace(s))) {
	case TerminationVoluntary:
		return TerminationVoluntary, nil
	case TerminationInvoluntary:
		return TerminationInvoluntary, nil
	case TerminationRetirement:
		return TerminationRetirement, nil
	default:
		return "", &UnknownTerminationTypeError{Input: s}
	}
}

// =============================================================================
// DEADLINE RULE
// =============================================================================

// DeadlineRule is the statutory deadline category for issuing final pay.
type DeadlineRule string

const (
	DeadlineImmediate  DeadlineRule = "Immediate"
	Deadline72Hours    DeadlineRule = "72 Hours"
	Deadline6Days      DeadlineRule = "6 Days"
	DeadlineNextPayday DeadlineRule = "Next Payday"
)

// KnownDeadlineRules lists every rule the resolver handles explicitly.
// Anything else resolves as next-payday.
var KnownDeadlineRules = []DeadlineRule{
	DeadlineImmediate,
	Deadline72Hours,
	Deadline6Days,
	DeadlineNextPayday,
}

// =============================================================================
// STATE RULE
// =============================================================================

// StateRule is the final-pay ruleset for a single jurisdiction.
type StateRule struct {
	Jurisdiction        string       // 2-letter uppercase code, e.g. "CA"
	InvoluntaryDeadline DeadlineRule // deadline when employer initiates
	VoluntaryDeadline   DeadlineRule // deadline when employee initiates
	PTOPayoutRequired   bool         // must unused PTO be paid out?
}

// DeadlineFor selects the applicable deadline rule. Retirement follows the
// voluntary rule: the employee initiated the separation.
func (r StateRule) DeadlineFor(t TerminationType) DeadlineRule {
	if t == TerminationInvoluntary {
		return r.InvoluntaryDeadline
	}
	return r.VoluntaryDeadline
}

// NormalizeCode uppercases and trims a jurisdiction code.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
