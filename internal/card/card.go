// internal/card/card.go
//
// Card catalog for the game.
// Responsibilities:
//   - Card and Type definitions (persona / problem / partner / job).
//   - Order-preserving filtering by type.
//   - Catalog lookup by id, with "did you mean" suggestions for unknown ids.
//
// Cards are immutable once loaded; everything here hands out values, never
// pointers into the catalog.
package card

import (
	"errors"
	"strings"

	"github.com/agnivade/levenshtein"
)

// Type is the kind of a card.
type Type string

const (
	TypePersona Type = "persona"
	TypeProblem Type = "problem"
	TypePartner Type = "partner"
	TypeJob     Type = "job"
)

// Valid reports whether t is one of the four known card types.
func (t Type) Valid() bool {
	switch t {
	case TypePersona, TypeProblem, TypePartner, TypeJob:
		return true
	}
	return false
}

// ErrUnknownCard is returned when a card id is not in the catalog.
var ErrUnknownCard = errors.New("unknown card")

// Card is a single playable card.
//
// Score is optional. Problem cards carry a negative severity, partner and job
// cards a positive contribution.
type Card struct {
	ID          string   `json:"id" yaml:"id"`
	Type        Type     `json:"type" yaml:"type"`
	Title       string   `json:"title" yaml:"title"`
	Description string   `json:"description" yaml:"description"`
	Score       *int     `json:"score,omitempty" yaml:"score,omitempty"`
	Category    string   `json:"category,omitempty" yaml:"category,omitempty"`
	Tags        []string `json:"tags,omitempty" yaml:"tags,omitempty"`
}

// Points returns the card's score, or 0 when the card has none.
func (c Card) Points() int {
	if c.Score == nil {
		return 0
	}
	return *c.Score
}

// Severity returns the absolute value of the card's score.
func (c Card) Severity() int {
	p := c.Points()
	if p < 0 {
		return -p
	}
	return p
}

// IntPtr is a small helper for building cards with a score in code and tests.
func IntPtr(n int) *int { return &n }

// ByType returns the cards of type t, in their original order.
func ByType(cards []Card, t Type) []Card {
	out := make([]Card, 0, len(cards))
	for _, c := range cards {
		if c.Type == t {
			out = append(out, c)
		}
	}
	return out
}

// Catalog is a read-only, id-indexed set of cards.
type Catalog struct {
	cards []Card
	byID  map[string]int
}

// NewCatalog indexes cards by id. Duplicate ids keep the first occurrence.
func NewCatalog(cards []Card) *Catalog {
	c := &Catalog{
		cards: append([]Card(nil), cards...),
		byID:  make(map[string]int, len(cards)),
	}
	for i, card := range c.cards {
		if _, dup := c.byID[card.ID]; !dup {
			c.byID[card.ID] = i
		}
	}
	return c
}

// Cards returns a copy of every card in catalog order.
func (c *Catalog) Cards() []Card {
	return append([]Card(nil), c.cards...)
}

// Len is the number of cards in the catalog.
func (c *Catalog) Len() int { return len(c.cards) }

// ByType returns the catalog's cards of type t, in catalog order.
func (c *Catalog) ByType(t Type) []Card { return ByType(c.cards, t) }

// Lookup finds a card by id.
func (c *Catalog) Lookup(id string) (Card, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Card{}, false
	}
	return c.cards[i], true
}

// Suggest returns the known id closest to id, or "" when nothing is close
// enough to be a plausible typo.
func (c *Catalog) Suggest(id string) string {
	in := strings.ToLower(strings.TrimSpace(id))
	if in == "" {
		return ""
	}
	best, bestDist := "", -1
	for _, card := range c.cards {
		dist := levenshtein.ComputeDistance(in, strings.ToLower(card.ID))
		if dist > suggestLimit(len(card.ID)) {
			continue
		}
		if bestDist < 0 || dist < bestDist {
			best, bestDist = card.ID, dist
		}
	}
	return best
}

// suggestLimit scales the accepted edit distance with the id length.
func suggestLimit(length int) int {
	switch {
	case length <= 4:
		return 1
	case length <= 12:
		return 2
	default:
		return 3
	}
}
