/*
provider.go - Rule lookup interface and the compiled-in rule table

PURPOSE:
  Defines Provider, the pluggable lookup contract for jurisdiction rules,
  and StaticProvider, the built-in reference table. The static table is the
  seed data and the fallback; deployments that manage rules as data layer a
  store-backed provider on top (see api.Handler and store/sqlite).

COVERAGE:
  The built-in table covers CA, CO, MA, TX, NY, FL. Every other state is
  unsupported and lookups fail with ErrRuleNotFound - an explicit gap, not
  a default.

USAGE:
  provider := rules.NewStaticProvider()
  rule, err := provider.Lookup(ctx, "ca")   // codes are normalized
  if errors.Is(err, rules.ErrRuleNotFound) { ... }

SEE ALSO:
  - types.go: StateRule
  - factory package: JSON definitions for data-backed providers
*/
package rules

import "context"

// =============================================================================
// PROVIDER - Pluggable rule source
// =============================================================================

// Provider looks up the final-pay rule for a jurisdiction. Implementations
// must normalize codes and return ErrRuleNotFound (or a wrapper) for unknown
// jurisdictions - never a default rule.
type Provider interface {
	Lookup(ctx context.Context, code string) (StateRule, error)
}

// =============================================================================
// STATIC PROVIDER - Compiled-in reference table
// =============================================================================

// builtinRules is the compiled-in reference table.
//
// Deadline entries approximate state statute:
//   CA: involuntary immediately, voluntary within 72 hours (Labor Code 201/202)
//   CO, MA: involuntary immediately, voluntary next payday
//   TX: involuntary within 6 days, voluntary next payday
//   NY, FL: next payday either way
// PTO payout is required in CA, CO, MA; TX, NY, FL defer to employer policy,
// modeled here as not required.
var builtinRules = map[string]StateRule{
	"CA": {Jurisdiction: "CA", InvoluntaryDeadline: DeadlineImmediate, VoluntaryDeadline: Deadline72Hours, PTOPayoutRequired: true},
	"CO": {Jurisdiction: "CO", InvoluntaryDeadline: DeadlineImmediate, VoluntaryDeadline: DeadlineNextPayday, PTOPayoutRequired: true},
	"MA": {Jurisdiction: "MA", InvoluntaryDeadline: DeadlineImmediate, VoluntaryDeadline: DeadlineNextPayday, PTOPayoutRequired: true},
	"TX": {Jurisdiction: "TX", InvoluntaryDeadline: Deadline6Days, VoluntaryDeadline: DeadlineNextPayday, PTOPayoutRequired: false},
	"NY": {Jurisdiction: "NY", InvoluntaryDeadline: DeadlineNextPayday, VoluntaryDeadline: DeadlineNextPayday, PTOPayoutRequired: false},
	"FL": {Jurisdiction: "FL", InvoluntaryDeadline: DeadlineNextPayday, VoluntaryDeadline: DeadlineNextPayday, PTOPayoutRequired: false},
}

// StaticProvider serves the compiled-in rule table. Stateless and safe for
// concurrent use.
type StaticProvider struct{}

func NewStaticProvider() *StaticProvider { return &StaticProvider{} }

var _ Provider = (*StaticProvider)(nil)

// Lookup returns the rule for a jurisdiction code (case-insensitive).
func (p *StaticProvider) Lookup(ctx context.Context, code string) (StateRule, error) {
	normalized := NormalizeCode(code)
	rule, ok := builtinRules[normalized]
	if !ok {
		return StateRule{}, &UnknownJurisdictionError{Code: normalized}
	}
	return rule, nil
}

// Jurisdictions returns the supported codes in stable order.
func (p *StaticProvider) Jurisdictions() []string {
	return []string{"CA", "CO", "FL", "MA", "NY", "TX"}
}

// All returns every built-in rule, ordered by jurisdiction code.
func (p *StaticProvider) All() []StateRule {
	codes := p.Jurisdictions()
	out := make([]StateRule, 0, len(codes))
	for _, c := range codes {
		out = append(out, builtinRules[c])
	}
	return out
}
