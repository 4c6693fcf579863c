// internal/game/scoring.go
//
// Scoring engine.
//
// A round scores as:
//   problemScore  = |problem.score|                 (0 without a problem)
//   solutionScore = Σ score over partners ∪ jobs     (missing score = 0)
//   synergyBonus  = Σ bonus over every matching rule (combo rule first, then config rules)
//   total         = problemScore + solutionScore + synergyBonus
//
// The tier is the best of S, A, B whose cutoff the total reaches, else C.
// Feedback gets one line per matching rule plus one closing line for the tier.
//
// Scorer holds only read-only data, so a single instance is safe to share
// between goroutines.

package game

import (
	"github.com/robalobadob/pbl-cardgame/internal/card"
	"github.com/robalobadob/pbl-cardgame/internal/gameconfig"
)

// Scorer scores selections against one config's scoring data.
type Scorer struct {
	rules   []gameconfig.SynergyRule
	scoring gameconfig.Scoring
}

// NewScorer builds a scorer. The catalog-independent combo rule is always
// evaluated ahead of the supplied rules.
func NewScorer(s gameconfig.Scoring) *Scorer {
	rules := make([]gameconfig.SynergyRule, 0, len(s.Rules)+1)
	rules = append(rules, gameconfig.ComboRule)
	rules = append(rules, s.Rules...)
	return &Scorer{rules: rules, scoring: s}
}

// ScorerFor returns the scorer for a config.
func ScorerFor(cfg *gameconfig.Config) *Scorer { return NewScorer(cfg.Scoring) }

var defaultScorer = NewScorer(gameconfig.Scoring{Thresholds: gameconfig.DefaultThresholds})

// CalculateScore scores a selection with the default thresholds and only the
// combo rule. persona and problem may be nil.
func CalculateScore(persona, problem *card.Card, partners, jobs []card.Card) Result {
	return defaultScorer.Calculate(persona, problem, partners, jobs)
}

// Calculate scores a selection. persona and problem may be nil.
func (s *Scorer) Calculate(persona, problem *card.Card, partners, jobs []card.Card) Result {
	return s.Score(Selection{Persona: persona, Problem: problem, Partners: partners, Jobs: jobs})
}

// Score scores sel without modifying it.
func (s *Scorer) Score(sel Selection) Result {
	var b Breakdown
	if sel.Problem != nil {
		b.ProblemScore = sel.Problem.Severity()
	}
	for _, c := range sel.Partners {
		b.SolutionScore += c.Points()
	}
	for _, c := range sel.Jobs {
		b.SolutionScore += c.Points()
	}

	feedback := []string{}
	synergies := []string{}
	for _, r := range s.rules {
		if !Matches(r.When, sel) {
			continue
		}
		b.SynergyBonus += r.Bonus
		feedback = append(feedback, r.Message())
		synergies = append(synergies, r.ID)
	}

	total := b.ProblemScore + b.SolutionScore + b.SynergyBonus
	tier := s.Evaluate(total)
	tc := s.scoring.Copy(tier)
	return Result{
		TotalScore: total,
		Breakdown:  b,
		Tier:       tier,
		Evaluation: tc.Label,
		Feedback:   append(feedback, tc.Message),
		Synergies:  synergies,
	}
}

// Evaluate maps a total score to a tier. C is the floor: any total that
// misses B's cutoff, including negative totals, is C.
func (s *Scorer) Evaluate(total int) gameconfig.Tier {
	th := s.scoring.Thresholds
	for _, t := range []gameconfig.Tier{gameconfig.TierS, gameconfig.TierA, gameconfig.TierB} {
		if total >= th.Cutoff(t) {
			return t
		}
	}
	return gameconfig.TierC
}

// Rules returns the rules the scorer evaluates, in order.
func (s *Scorer) Rules() []gameconfig.SynergyRule {
	return append([]gameconfig.SynergyRule(nil), s.rules...)
}
