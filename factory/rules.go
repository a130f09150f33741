/*
Package factory provides JSON to Go rule conversion.

PURPOSE:
  Converts JSON jurisdiction rule definitions into rules.StateRule values.
  This keeps rule data out of code - compliance staff can define or amend
  a state's final-pay rules in JSON, store them, and the engine picks them
  up without a release.

WHY JSON?
  - Non-developers can amend jurisdiction rules
  - Easy integration with an admin UI
  - Version control for rule definitions
  - Database storage of rule configs (see store/sqlite)

JSON SCHEMA:
  {
    "jurisdiction": "CA",
    "involuntary_deadline": "Immediate",
    "voluntary_deadline": "72 Hours",
    "pto_payout_required": true
  }

KEY FEATURES:
  - Normalizes jurisdiction codes and deadline strings
  - Rejects malformed definitions instead of defaulting
  - Provides the built-in six-state preset used to seed stores

USAGE:
  f := factory.NewRuleFactory()
  rule, err := f.ParseRule(jsonStr)

  // Seed data
  for _, def := range factory.DefaultRuleSet() {
      ...
  }

SEE ALSO:
  - rules/types.go: StateRule, DeadlineRule
  - store/sqlite: persists definitions as config JSON
*/
package factory

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/saurellius/finalpay-engine/rules"
)

// =============================================================================
// JSON SCHEMA TYPES
// =============================================================================

// RuleJSON is the JSON representation of a jurisdiction rule.
type RuleJSON struct {
	Jurisdiction        string `json:"jurisdiction"`
	InvoluntaryDeadline string `json:"involuntary_deadline"`
	VoluntaryDeadline   string `json:"voluntary_deadline"`
	PTOPayoutRequired   bool   `json:"pto_payout_required"`
}

// =============================================================================
// RULE FACTORY
// =============================================================================

// RuleFactory converts JSON rule definitions to Go structs.
type RuleFactory struct{}

func NewRuleFactory() *RuleFactory {
	return &RuleFactory{}
}

// ParseRule parses a single JSON rule definition.
func (f *RuleFactory) ParseRule(jsonStr string) (rules.StateRule, error) {
	var rj RuleJSON
	if err := json.Unmarshal([]byte(jsonStr), &rj); err != nil {
		return rules.StateRule{}, fmt.Errorf("failed to parse rule JSON: %w", err)
	}
	return f.FromJSON(rj)
}

// ParseRules parses a JSON array of rule definitions.
func (f *RuleFactory) ParseRules(jsonStr string) ([]rules.StateRule, error) {
	var rjs []RuleJSON
	if err := json.Unmarshal([]byte(jsonStr), &rjs); err != nil {
		return nil, fmt.Errorf("failed to parse rule set JSON: %w", err)
	}
	out := make([]rules.StateRule, 0, len(rjs))
	for _, rj := range rjs {
		rule, err := f.FromJSON(rj)
		if err != nil {
			return nil, err
		}
		out = append(out, rule)
	}
	return out, nil
}

// FromJSON converts RuleJSON to a validated StateRule.
func (f *RuleFactory) FromJSON(rj RuleJSON) (rules.StateRule, error) {
	code := rules.NormalizeCode(rj.Jurisdiction)
	if len(code) != 2 {
		return rules.StateRule{}, fmt.Errorf("jurisdiction must be a 2-letter code, got %q", rj.Jurisdiction)
	}

	involuntary, err := parseDeadline(rj.InvoluntaryDeadline)
	if err != nil {
		return rules.StateRule{}, fmt.Errorf("involuntary_deadline: %w", err)
	}
	voluntary, err := parseDeadline(rj.VoluntaryDeadline)
	if err != nil {
		return rules.StateRule{}, fmt.Errorf("voluntary_deadline: %w", err)
	}

	return rules.StateRule{
		Jurisdiction:        code,
		InvoluntaryDeadline: involuntary,
		VoluntaryDeadline:   voluntary,
		PTOPayoutRequired:   rj.PTOPayoutRequired,
	}, nil
}

// ToJSON serializes a StateRule back to its config JSON form.
func (f *RuleFactory) ToJSON(rule rules.StateRule) (string, error) {
	b, err := json.Marshal(RuleJSON{
		Jurisdiction:        rule.Jurisdiction,
		InvoluntaryDeadline: string(rule.InvoluntaryDeadline),
		VoluntaryDeadline:   string(rule.VoluntaryDeadline),
		PTOPayoutRequired:   rule.PTOPayoutRequired,
	})
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// parseDeadline normalizes a deadline string to its canonical form.
// The resolver treats anything unknown as next-payday at runtime, but
// definitions are data entry and get strict validation instead.
func parseDeadline(s string) (rules.DeadlineRule, error) {
	normalized := strings.ToLower(strings.TrimSpace(s))
	for _, known := range rules.KnownDeadlineRules {
		if strings.ToLower(string(known)) == normalized {
			return known, nil
		}
	}
	return "", fmt.Errorf("unknown deadline rule %q (want one of: Immediate, 72 Hours, 6 Days, Next Payday)", s)
}

// =============================================================================
// PRESETS
// =============================================================================

// DefaultRuleSet returns the built-in six-state definitions used to seed
// rule stores. Mirrors rules.StaticProvider.
func DefaultRuleSet() []RuleJSON {
	return []RuleJSON{
		{Jurisdiction: "CA", InvoluntaryDeadline: "Immediate", VoluntaryDeadline: "72 Hours", PTOPayoutRequired: true},
		{Jurisdiction: "CO", InvoluntaryDeadline: "Immediate", VoluntaryDeadline: "Next Payday", PTOPayoutRequired: true},
		{Jurisdiction: "MA", InvoluntaryDeadline: "Immediate", VoluntaryDeadline: "Next Payday", PTOPayoutRequired: true},
		{Jurisdiction: "TX", InvoluntaryDeadline: "6 Days", VoluntaryDeadline: "Next Payday", PTOPayoutRequired: false},
		{Jurisdiction: "NY", InvoluntaryDeadline: "Next Payday", VoluntaryDeadline: "Next Payday", PTOPayoutRequired: false},
		{Jurisdiction: "FL", InvoluntaryDeadline: "Next Payday", VoluntaryDeadline: "Next Payday", PTOPayoutRequired: false},
	}
}
