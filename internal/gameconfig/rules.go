// internal/gameconfig/rules.go
//
// Synergy rules as data.
// A rule is a bonus plus a Condition tree. Conditions are a tagged variant
// (Kind selects which fields matter) so catalogs can ship their own rules
// without embedding code. The interpreter lives with the scoring engine.
package gameconfig

import (
	"fmt"

	"github.com/robalobadob/pbl-cardgame/internal/card"
)

// ConditionKind selects the shape of a Condition.
type ConditionKind string

const (
	// KindPersonaIs matches when the selected persona has id ID.
	KindPersonaIs ConditionKind = "persona_is"
	// KindProblemIs matches when the selected problem has id ID.
	KindProblemIs ConditionKind = "problem_is"
	// KindHasCard matches when card ID is in Set.
	KindHasCard ConditionKind = "has_card"
	// KindSetNonEmpty matches when Set holds at least one card.
	KindSetNonEmpty ConditionKind = "set_nonempty"
	// KindAllOf matches when every sub-condition matches.
	KindAllOf ConditionKind = "all_of"
	// KindAnyOf matches when at least one sub-condition matches.
	KindAnyOf ConditionKind = "any_of"
)

// SetName names one of the two solution sets.
type SetName string

const (
	SetPartners SetName = "partners"
	SetJobs     SetName = "jobs"
)

// Condition is one node of a rule's predicate.
type Condition struct {
	Kind       ConditionKind `json:"kind" yaml:"kind"`
	ID         string        `json:"id,omitempty" yaml:"id,omitempty"`
	Set        SetName       `json:"set,omitempty" yaml:"set,omitempty"`
	Conditions []Condition   `json:"conditions,omitempty" yaml:"conditions,omitempty"`
}

// SynergyRule grants Bonus when When matches the current selection.
// Feedback is shown to the player when the rule fires.
type SynergyRule struct {
	ID          string    `json:"id" yaml:"id"`
	Name        string    `json:"name" yaml:"name"`
	Description string    `json:"description" yaml:"description"`
	Bonus       int       `json:"bonus" yaml:"bonus"`
	Feedback    string    `json:"feedback,omitempty" yaml:"feedback,omitempty"`
	When        Condition `json:"when" yaml:"when"`
}

// Message is the feedback line for the rule.
func (r SynergyRule) Message() string {
	if r.Feedback != "" {
		return r.Feedback
	}
	return "✨ " + r.Name
}

// ComboRuleID identifies the catalog-independent partner + job rule.
const ComboRuleID = "partner-job-combo"

// ComboRule rewards fielding both partners and jobs. It applies to every
// config and is evaluated before the config's own rules.
var ComboRule = SynergyRule{
	ID:          ComboRuleID,
	Name:        "Partners and actions",
	Description: "At least one partner and at least one job were selected.",
	Bonus:       20,
	Feedback:    "✨ You combined partners with concrete actions!",
	When: Condition{
		Kind: KindAllOf,
		Conditions: []Condition{
			{Kind: KindSetNonEmpty, Set: SetPartners},
			{Kind: KindSetNonEmpty, Set: SetJobs},
		},
	},
}

// Validate checks the condition tree is well formed. lookup returns the type
// of a referenced card and whether it exists; pass nil to skip reference
// checks. A referenced card must have the type the condition tests for.
func (c Condition) Validate(lookup func(id string) (card.Type, bool)) error {
	switch c.Kind {
	case KindPersonaIs, KindProblemIs:
		if c.ID == "" {
			return fmt.Errorf("%s: missing id", c.Kind)
		}
	case KindHasCard:
		if c.ID == "" {
			return fmt.Errorf("%s: missing id", c.Kind)
		}
		if err := validSet(c.Set); err != nil {
			return fmt.Errorf("%s: %w", c.Kind, err)
		}
	case KindSetNonEmpty:
		if err := validSet(c.Set); err != nil {
			return fmt.Errorf("%s: %w", c.Kind, err)
		}
		return nil
	case KindAllOf, KindAnyOf:
		if len(c.Conditions) == 0 {
			return fmt.Errorf("%s: no conditions", c.Kind)
		}
		for i, sub := range c.Conditions {
			if err := sub.Validate(lookup); err != nil {
				return fmt.Errorf("%s[%d]: %w", c.Kind, i, err)
			}
		}
		return nil
	default:
		return fmt.Errorf("unknown condition kind %q", c.Kind)
	}
	if lookup == nil {
		return nil
	}
	got, ok := lookup(c.ID)
	if !ok {
		return fmt.Errorf("%s: card %q not in catalog", c.Kind, c.ID)
	}
	if want := c.cardType(); got != want {
		return fmt.Errorf("%s: card %q is a %s, want %s", c.Kind, c.ID, got, want)
	}
	return nil
}

// cardType is the card type a leaf condition refers to.
func (c Condition) cardType() card.Type {
	switch c.Kind {
	case KindPersonaIs:
		return card.TypePersona
	case KindProblemIs:
		return card.TypeProblem
	}
	if c.Set == SetPartners {
		return card.TypePartner
	}
	return card.TypeJob
}

func validSet(s SetName) error {
	if s != SetPartners && s != SetJobs {
		return fmt.Errorf("unknown set %q", s)
	}
	return nil
}
