package game

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/robalobadob/pbl-cardgame/internal/card"
	"github.com/robalobadob/pbl-cardgame/internal/gameconfig"
)

func TestMatches(t *testing.T) {
	persona := card.Card{ID: "per", Type: card.TypePersona}
	problem := card.Card{ID: "pro", Type: card.TypeProblem}
	sel := Selection{
		Persona:  &persona,
		Problem:  &problem,
		Partners: []card.Card{{ID: "pa1", Type: card.TypePartner}},
	}

	c := func(kind gameconfig.ConditionKind, id string, set gameconfig.SetName, subs ...gameconfig.Condition) gameconfig.Condition {
		return gameconfig.Condition{Kind: kind, ID: id, Set: set, Conditions: subs}
	}

	tests := []struct {
		name string
		cond gameconfig.Condition
		sel  Selection
		want bool
	}{
		{"persona match", c(gameconfig.KindPersonaIs, "per", ""), sel, true},
		{"persona mismatch", c(gameconfig.KindPersonaIs, "other", ""), sel, false},
		{"persona missing", c(gameconfig.KindPersonaIs, "per", ""), Selection{}, false},
		{"problem match", c(gameconfig.KindProblemIs, "pro", ""), sel, true},
		{"problem missing", c(gameconfig.KindProblemIs, "pro", ""), Selection{}, false},
		{"has partner", c(gameconfig.KindHasCard, "pa1", gameconfig.SetPartners), sel, true},
		{"card in wrong set", c(gameconfig.KindHasCard, "pa1", gameconfig.SetJobs), sel, false},
		{"partners non-empty", c(gameconfig.KindSetNonEmpty, "", gameconfig.SetPartners), sel, true},
		{"jobs empty", c(gameconfig.KindSetNonEmpty, "", gameconfig.SetJobs), sel, false},
		{"unknown set", c(gameconfig.KindSetNonEmpty, "", "villains"), sel, false},
		{
			"all of",
			c(gameconfig.KindAllOf, "", "", c(gameconfig.KindPersonaIs, "per", ""), c(gameconfig.KindProblemIs, "pro", "")),
			sel, true,
		},
		{
			"all of with a miss",
			c(gameconfig.KindAllOf, "", "", c(gameconfig.KindPersonaIs, "per", ""), c(gameconfig.KindProblemIs, "nope", "")),
			sel, false,
		},
		{"empty all of", c(gameconfig.KindAllOf, "", ""), sel, false},
		{
			"any of",
			c(gameconfig.KindAnyOf, "", "", c(gameconfig.KindPersonaIs, "nope", ""), c(gameconfig.KindProblemIs, "pro", "")),
			sel, true,
		},
		{"empty any of", c(gameconfig.KindAnyOf, "", ""), sel, false},
		{"unknown kind", c("moon_phase", "", ""), sel, false},
		{"combo rule without jobs", gameconfig.ComboRule.When, sel, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Matches(tt.cond, tt.sel))
		})
	}
}
