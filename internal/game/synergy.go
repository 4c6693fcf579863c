// internal/game/synergy.go
//
// Interpreter for synergy rule conditions. Evaluation is total: an unknown
// condition kind, or a condition over a missing persona/problem, is simply
// false.

package game

import (
	"github.com/robalobadob/pbl-cardgame/internal/gameconfig"
)

// Matches reports whether cond holds for sel.
func Matches(cond gameconfig.Condition, sel Selection) bool {
	switch cond.Kind {
	case gameconfig.KindPersonaIs:
		return sel.Persona != nil && sel.Persona.ID == cond.ID
	case gameconfig.KindProblemIs:
		return sel.Problem != nil && sel.Problem.ID == cond.ID
	case gameconfig.KindHasCard:
		return sel.Has(cond.Set, cond.ID)
	case gameconfig.KindSetNonEmpty:
		return len(sel.set(cond.Set)) > 0
	case gameconfig.KindAllOf:
		if len(cond.Conditions) == 0 {
			return false
		}
		for _, sub := range cond.Conditions {
			if !Matches(sub, sel) {
				return false
			}
		}
		return true
	case gameconfig.KindAnyOf:
		for _, sub := range cond.Conditions {
			if Matches(sub, sel) {
				return true
			}
		}
		return false
	}
	return false
}
