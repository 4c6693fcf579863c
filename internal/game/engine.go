// internal/game/engine.go
//
// Phase state machine for a single round.
// Responsibilities:
//   - Track the current phase and the player's picks.
//   - Apply card selections with single-select (persona, problem) or toggle
//     (partners, jobs) semantics depending on the phase.
//   - Gate advancing on the picks each phase requires.
//   - Score the round on the final advance and hand the result to the
//     History Sink.
//
// State transitions:
//   select-persona → select-problem → select-solution → result
//   Reset returns to select-persona from anywhere.
//
// Nothing here returns an error: a premature or misplaced action is a no-op
// and the boolean results tell the caller whether anything happened.

package game

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/pbl-cardgame/internal/card"
	"github.com/robalobadob/pbl-cardgame/internal/gameconfig"
	"github.com/robalobadob/pbl-cardgame/internal/history"
)

// Observer is told about every completed round.
type Observer interface {
	RoundCompleted(configID, tier string, score int)
}

// Session is one player's round against one config. It is safe for
// concurrent use; every mutation goes through its methods.
type Session struct {
	ID        string
	ConfigID  string
	CreatedAt time.Time

	cfg      *gameconfig.Config
	scorer   *Scorer
	sink     history.Sink
	observer Observer
	log      zerolog.Logger

	mu     sync.Mutex
	phase  Phase
	sel    Selection
	result *Result
}

// Option customises a Session.
type Option func(*Session)

// WithSink records completed rounds in sink.
func WithSink(sink history.Sink) Option {
	return func(s *Session) { s.sink = sink }
}

// WithObserver reports completed rounds to o.
func WithObserver(o Observer) Option {
	return func(s *Session) { s.observer = o }
}

// WithLogger replaces the global logger.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Session) { s.log = l }
}

// WithID fixes the session id instead of generating one.
func WithID(id string) Option {
	return func(s *Session) { s.ID = id }
}

// NewSession starts a round in select-persona.
func NewSession(cfg *gameconfig.Config, opts ...Option) *Session {
	s := &Session{
		ID:        uuid.NewString(),
		ConfigID:  cfg.ID,
		CreatedAt: time.Now().UTC(),
		cfg:       cfg,
		scorer:    ScorerFor(cfg),
		log:       log.Logger,
		phase:     PhaseSelectPersona,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With().Str("session", s.ID).Str("config", s.ConfigID).Logger()
	return s
}

// Config returns the config the session plays.
func (s *Session) Config() *gameconfig.Config { return s.cfg }

// Phase returns the current phase.
func (s *Session) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// Selection returns a copy of the current picks.
func (s *Session) Selection() Selection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sel.Clone()
}

// Result returns the stored result, if the round is complete.
func (s *Session) Result() (Result, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.result == nil {
		return Result{}, false
	}
	return *s.result, true
}

// SelectCard applies c to the current phase and reports whether the
// selection changed.
//
//   - select-persona: persona cards replace the current persona.
//   - select-problem: problem cards replace the current problem.
//   - select-solution: partner/job cards toggle in or out of their set.
//     Adding past ui.maxCardsPerType is refused.
//
// Anything else, including every card in the result phase, is a no-op.
func (s *Session) SelectCard(c card.Card) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	var changed bool
	switch s.phase {
	case PhaseSelectPersona:
		if c.Type != card.TypePersona {
			return false
		}
		changed = s.sel.Persona == nil || s.sel.Persona.ID != c.ID
		s.sel.Persona = &c
	case PhaseSelectProblem:
		if c.Type != card.TypeProblem {
			return false
		}
		changed = s.sel.Problem == nil || s.sel.Problem.ID != c.ID
		s.sel.Problem = &c
	case PhaseSelectSolution:
		limit := s.cfg.UI.MaxCardsPerType
		switch c.Type {
		case card.TypePartner:
			s.sel.Partners, changed = toggle(s.sel.Partners, c, limit)
		case card.TypeJob:
			s.sel.Jobs, changed = toggle(s.sel.Jobs, c, limit)
		default:
			return false
		}
	default:
		return false
	}
	if changed {
		s.log.Debug().Str("phase", s.phase.String()).Str("card", c.ID).Msg("selection changed")
	}
	return changed
}

// SelectCardID looks id up in the session's config and selects it.
func (s *Session) SelectCardID(id string) (bool, error) {
	c, ok := s.cfg.Card(id)
	if !ok {
		return false, card.ErrUnknownCard
	}
	return s.SelectCard(c), nil
}

// CanAdvance reports whether Advance would move to the next phase.
func (s *Session) CanAdvance() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.canAdvance()
}

func (s *Session) canAdvance() bool {
	switch s.phase {
	case PhaseSelectPersona:
		return s.sel.Persona != nil
	case PhaseSelectProblem:
		return s.sel.Problem != nil
	case PhaseSelectSolution:
		return s.sel.SolutionCount() > 0
	}
	return false
}

// Advance moves to the next phase and reports whether it did. Leaving
// select-solution scores the round, stores the result and records it in the
// History Sink. A sink failure is logged; the round still completes. The sink
// write is detached from ctx cancellation since the phase has already moved.
func (s *Session) Advance(ctx context.Context) bool {
	s.mu.Lock()
	if !s.canAdvance() {
		s.mu.Unlock()
		return false
	}
	from, to := s.phase, s.phase.next()
	s.phase = to
	if to != PhaseResult {
		s.mu.Unlock()
		s.log.Debug().Str("from", from.String()).Str("to", to.String()).Msg("advanced")
		return true
	}

	res := s.scorer.Score(s.sel)
	s.result = &res
	summary := summarize(s.sel, res)
	s.mu.Unlock()

	s.log.Info().Int("score", res.TotalScore).Str("tier", string(res.Tier)).Msg("round complete")
	if s.observer != nil {
		s.observer.RoundCompleted(s.ConfigID, string(res.Tier), res.TotalScore)
	}
	if s.sink != nil {
		if _, err := s.sink.SavePlay(context.WithoutCancel(ctx), summary); err != nil {
			s.log.Warn().Err(err).Msg("save play")
		}
	}
	return true
}

// Reset clears picks and result and returns to select-persona.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.phase = PhaseSelectPersona
	s.sel = Selection{}
	s.result = nil
	s.log.Debug().Msg("reset")
}

// Preview scores the current picks without changing phase or recording
// anything.
func (s *Session) Preview() Result {
	s.mu.Lock()
	sel := s.sel.Clone()
	s.mu.Unlock()
	return s.scorer.Score(sel)
}

// Snapshot is a read-only view of a session for the transport layer.
type Snapshot struct {
	ID           string      `json:"sessionId"`
	ConfigID     string      `json:"configId"`
	Phase        Phase       `json:"phase"`
	Step         int         `json:"step"`
	Title        string      `json:"title"`
	Prompt       string      `json:"prompt"`
	Options      []card.Card `json:"options"`
	Selection    Selection   `json:"selection"`
	CanAdvance   bool        `json:"canAdvance"`
	Result       *Result     `json:"result,omitempty"`
	MaxPerType   int         `json:"maxCardsPerType,omitempty"`
	ShowTutorial bool        `json:"showTutorial"`
}

// Snapshot captures the session state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := Snapshot{
		ID:           s.ID,
		ConfigID:     s.ConfigID,
		Phase:        s.phase,
		Step:         s.phase.Step(),
		Title:        s.phase.Title(),
		Prompt:       s.phase.Prompt(),
		Options:      s.options(),
		Selection:    s.sel.Clone(),
		CanAdvance:   s.canAdvance(),
		MaxPerType:   s.cfg.UI.MaxCardsPerType,
		ShowTutorial: s.cfg.UI.ShowTutorial,
	}
	if s.result != nil {
		r := *s.result
		snap.Result = &r
	}
	return snap
}

// options are the cards offered in the current phase.
func (s *Session) options() []card.Card {
	switch s.phase {
	case PhaseSelectPersona:
		return append([]card.Card{}, s.cfg.Cards.Personas...)
	case PhaseSelectProblem:
		return append([]card.Card{}, s.cfg.Cards.Problems...)
	case PhaseSelectSolution:
		out := make([]card.Card, 0, len(s.cfg.Cards.Partners)+len(s.cfg.Cards.Jobs))
		out = append(out, s.cfg.Cards.Partners...)
		return append(out, s.cfg.Cards.Jobs...)
	}
	return []card.Card{}
}

// summarize builds the history entry for a scored selection.
func summarize(sel Selection, res Result) history.Summary {
	sum := history.Summary{
		Score:      res.TotalScore,
		Evaluation: res.Evaluation,
		Partners:   titles(sel.Partners),
		Jobs:       titles(sel.Jobs),
	}
	if sel.Persona != nil {
		sum.Persona = sel.Persona.Title
	}
	if sel.Problem != nil {
		sum.Problem = sel.Problem.Title
	}
	return sum
}

func titles(cards []card.Card) []string {
	out := make([]string, 0, len(cards))
	for _, c := range cards {
		out = append(out, c.Title)
	}
	return out
}
