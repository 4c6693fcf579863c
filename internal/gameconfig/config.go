// internal/gameconfig/config.go
//
// Theme-scoped game configuration.
// A Config bundles the cards for each phase, the scoring data (synergy rules,
// tier thresholds and tier copy) and a few UI flags. Configs are built once by
// the Registry and never mutated afterwards.
package gameconfig

import (
	"github.com/robalobadob/pbl-cardgame/internal/card"
)

// Tier is an evaluation grade.
type Tier string

const (
	TierS Tier = "S"
	TierA Tier = "A"
	TierB Tier = "B"
	TierC Tier = "C"
)

// Tiers lists every tier from best to worst.
var Tiers = []Tier{TierS, TierA, TierB, TierC}

// Thresholds are the minimum total scores for each tier, descending.
// C is the floor and is always 0 in shipped configs.
type Thresholds struct {
	S int `json:"S" yaml:"S"`
	A int `json:"A" yaml:"A"`
	B int `json:"B" yaml:"B"`
	C int `json:"C" yaml:"C"`
}

// Cutoff returns the threshold for t.
func (th Thresholds) Cutoff(t Tier) int {
	switch t {
	case TierS:
		return th.S
	case TierA:
		return th.A
	case TierB:
		return th.B
	}
	return th.C
}

// DefaultThresholds are the cutoffs used when no config is involved.
var DefaultThresholds = Thresholds{S: 200, A: 150, B: 100, C: 0}

// TierCopy is the player-facing text for a tier.
type TierCopy struct {
	Label   string `json:"label" yaml:"label"`
	Message string `json:"message" yaml:"message"`
}

// DefaultTierCopy is used for any tier a config leaves blank.
var DefaultTierCopy = map[Tier]TierCopy{
	TierS: {Label: "S: Excellent!", Message: "🏆 A perfect plan for solving the regional problem!"},
	TierA: {Label: "A: Great!", Message: "⭐ A highly feasible plan!"},
	TierB: {Label: "B: Good", Message: "👍 A good idea, but there is room to improve"},
	TierC: {Label: "C: Needs work", Message: "💡 Rethink your strategy and try again"},
}

// Theme is presentation data passed through to the UI untouched.
type Theme struct {
	Title    string `json:"title" yaml:"title"`
	Subtitle string `json:"subtitle" yaml:"subtitle"`
	Icon     string `json:"icon" yaml:"icon"`
	Colors   struct {
		Primary   string `json:"primary" yaml:"primary"`
		Secondary string `json:"secondary" yaml:"secondary"`
		Accent    string `json:"accent" yaml:"accent"`
	} `json:"colors" yaml:"colors"`
}

// UI holds front-end flags. MaxCardsPerType, when positive, caps how many
// partners (and, separately, jobs) a player may hold.
type UI struct {
	ShowTutorial           bool `json:"showTutorial" yaml:"showTutorial"`
	MaxCardsPerType        int  `json:"maxCardsPerType,omitempty" yaml:"maxCardsPerType,omitempty"`
	AllowMultipleSelection bool `json:"allowMultipleSelection" yaml:"allowMultipleSelection"`
}

// Cards are the per-phase card lists, each in catalog order.
type Cards struct {
	Personas []card.Card `json:"personas"`
	Problems []card.Card `json:"problems"`
	Partners []card.Card `json:"partners"`
	Jobs     []card.Card `json:"jobs"`
}

// Scoring is the data the scoring engine reads from a config.
type Scoring struct {
	Rules      []SynergyRule     `json:"synergyRules" yaml:"rules"`
	Thresholds Thresholds        `json:"evaluationThresholds" yaml:"thresholds"`
	Tiers      map[Tier]TierCopy `json:"tiers,omitempty" yaml:"tiers,omitempty"`
}

// Copy returns the text for tier t, falling back to DefaultTierCopy per field.
func (s Scoring) Copy(t Tier) TierCopy {
	out := DefaultTierCopy[t]
	if c, ok := s.Tiers[t]; ok {
		if c.Label != "" {
			out.Label = c.Label
		}
		if c.Message != "" {
			out.Message = c.Message
		}
	}
	return out
}

// Config is one playable theme.
type Config struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Theme       Theme   `json:"theme"`
	Cards       Cards   `json:"cards"`
	Scoring     Scoring `json:"scoring"`
	UI          UI      `json:"ui"`

	order   int
	catalog *card.Catalog
}

// Catalog returns the id index over every card in the config.
func (c *Config) Catalog() *card.Catalog { return c.catalog }

// Card looks up a card of this config by id.
func (c *Config) Card(id string) (card.Card, bool) { return c.catalog.Lookup(id) }

// CardsFor returns the cards offered for a given card type.
func (c *Config) CardsFor(t card.Type) []card.Card {
	switch t {
	case card.TypePersona:
		return c.Cards.Personas
	case card.TypeProblem:
		return c.Cards.Problems
	case card.TypePartner:
		return c.Cards.Partners
	case card.TypeJob:
		return c.Cards.Jobs
	}
	return nil
}

// Summary is the short form used by theme pickers.
type Summary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

// Summary returns c's picker entry.
func (c *Config) Summary() Summary {
	return Summary{ID: c.ID, Name: c.Name, Description: c.Description, Icon: c.Theme.Icon}
}
