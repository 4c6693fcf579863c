// internal/game/types.go
//
// Core type definitions for a round of the card game.
// Defines:
//   - Phase: the four steps of a round.
//   - Selection: the cards a player has picked so far.
//   - Breakdown / Result: the scored outcome of a completed round.

package game

import (
	"github.com/robalobadob/pbl-cardgame/internal/card"
	"github.com/robalobadob/pbl-cardgame/internal/gameconfig"
)

// Phase is a step of the round.
type Phase string

const (
	PhaseSelectPersona  Phase = "select-persona"
	PhaseSelectProblem  Phase = "select-problem"
	PhaseSelectSolution Phase = "select-solution"
	PhaseResult         Phase = "result"
)

// String returns the wire name of the phase.
func (p Phase) String() string { return string(p) }

// Step is the 1-based position of the phase in the round.
func (p Phase) Step() int {
	switch p {
	case PhaseSelectPersona:
		return 1
	case PhaseSelectProblem:
		return 2
	case PhaseSelectSolution:
		return 3
	case PhaseResult:
		return 4
	}
	return 0
}

// Title is the heading shown for the phase.
func (p Phase) Title() string {
	switch p {
	case PhaseSelectPersona:
		return "🎭 Step 1: Choose your role"
	case PhaseSelectProblem:
		return "⚠️ Step 2: Choose the problem to solve"
	case PhaseSelectSolution:
		return "💡 Step 3: Build your solution"
	case PhaseResult:
		return "🎯 Result"
	}
	return ""
}

// Prompt is the one-line instruction shown under the title.
func (p Phase) Prompt() string {
	switch p {
	case PhaseSelectPersona:
		return "First pick the viewpoint you will play from."
	case PhaseSelectProblem:
		return "Next pick the challenge this region faces. Which one matters most?"
	case PhaseSelectSolution:
		return "Finally pick the partners and actions that will solve it."
	case PhaseResult:
		return "Here is how your plan scored."
	}
	return ""
}

// next is the phase that follows p on a successful advance.
func (p Phase) next() Phase {
	switch p {
	case PhaseSelectPersona:
		return PhaseSelectProblem
	case PhaseSelectProblem:
		return PhaseSelectSolution
	case PhaseSelectSolution:
		return PhaseResult
	}
	return p
}

// Selection holds a player's picks. Persona and Problem are single-valued;
// Partners and Jobs are sets keyed by card id, kept in pick order.
type Selection struct {
	Persona  *card.Card  `json:"persona"`
	Problem  *card.Card  `json:"problem"`
	Partners []card.Card `json:"partners"`
	Jobs     []card.Card `json:"jobs"`
}

// Clone returns a deep copy so callers cannot reach into session state.
func (s Selection) Clone() Selection {
	out := Selection{
		Partners: append([]card.Card{}, s.Partners...),
		Jobs:     append([]card.Card{}, s.Jobs...),
	}
	if s.Persona != nil {
		p := *s.Persona
		out.Persona = &p
	}
	if s.Problem != nil {
		p := *s.Problem
		out.Problem = &p
	}
	return out
}

// SolutionCount is the number of partners plus jobs.
func (s Selection) SolutionCount() int { return len(s.Partners) + len(s.Jobs) }

// Has reports whether card id is in the named set.
func (s Selection) Has(set gameconfig.SetName, id string) bool {
	return indexOf(s.set(set), id) >= 0
}

func (s Selection) set(name gameconfig.SetName) []card.Card {
	switch name {
	case gameconfig.SetPartners:
		return s.Partners
	case gameconfig.SetJobs:
		return s.Jobs
	}
	return nil
}

func indexOf(cards []card.Card, id string) int {
	for i, c := range cards {
		if c.ID == id {
			return i
		}
	}
	return -1
}

// toggle removes c from cards if present, otherwise appends it unless the
// set already holds limit cards (limit <= 0 means unlimited). The second return
// value reports whether the set changed.
func toggle(cards []card.Card, c card.Card, limit int) ([]card.Card, bool) {
	if i := indexOf(cards, c.ID); i >= 0 {
		out := make([]card.Card, 0, len(cards)-1)
		out = append(out, cards[:i]...)
		return append(out, cards[i+1:]...), true
	}
	if limit > 0 && len(cards) >= limit {
		return cards, false
	}
	return append(cards, c), true
}

// Breakdown is the per-component split of a total score.
type Breakdown struct {
	ProblemScore  int `json:"problemScore"`
	SolutionScore int `json:"solutionScore"`
	SynergyBonus  int `json:"synergyBonus"`
}

// Result is the scored outcome of a round.
type Result struct {
	TotalScore int             `json:"totalScore"`
	Breakdown  Breakdown       `json:"breakdown"`
	Tier       gameconfig.Tier `json:"tier"`
	Evaluation string          `json:"evaluation"`
	Feedback   []string        `json:"feedback"`
	Synergies  []string        `json:"synergies"` // ids of the rules that fired, in order
}
