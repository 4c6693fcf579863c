// internal/httpserver/server.go
//
// HTTP server wiring for the card game backend.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs, access log).
//   - Public endpoints: "/", "/health", "/metrics".
//   - Config endpoints: GET /configs, GET /configs/{id}.
//   - Session endpoints (phase state machine): mounted under /sessions.
//   - Stateless scoring: POST /score.
//   - History endpoints: mounted under /history.
//
// Notes:
//   - The server is a local backend for one browser UI; there is no auth.
//   - Sessions live in a bounded in-memory store; the history sink is the
//     only thing that outlives the process.

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/pbl-cardgame/internal/card"
	"github.com/robalobadob/pbl-cardgame/internal/game"
	"github.com/robalobadob/pbl-cardgame/internal/gameconfig"
	"github.com/robalobadob/pbl-cardgame/internal/history"
	"github.com/robalobadob/pbl-cardgame/internal/metrics"
	"github.com/robalobadob/pbl-cardgame/internal/store"
)

// Deps are the collaborators the server needs.
type Deps struct {
	Registry     *gameconfig.Registry
	Sessions     store.Store
	History      history.Sink
	Metrics      *metrics.Metrics // nil means metrics.Default()
	ClientOrigin string           // "" means http://localhost:5173
}

// Server bundles the router and its collaborators.
type Server struct {
	r        *chi.Mux
	registry *gameconfig.Registry
	sessions store.Store
	history  history.Sink
	metrics  *metrics.Metrics
}

// New constructs a Server, installs middleware, and registers routes.
func New(d Deps) *Server {
	s := &Server{
		r:        chi.NewRouter(),
		registry: d.Registry,
		sessions: d.Sessions,
		history:  d.History,
		metrics:  d.Metrics,
	}
	if s.metrics == nil {
		s.metrics = metrics.Default()
	}
	origin := d.ClientOrigin
	if origin == "" {
		origin = "http://localhost:5173"
	}

	// --- middleware ---
	s.r.Use(chimw.RequestID)                 // add X-Request-ID
	s.r.Use(chimw.RealIP)                    // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(requestLogger)                   // zerolog access log
	s.r.Use(chimw.Recoverer)                 // recover from panics
	s.r.Use(chimw.Timeout(10 * time.Second)) // bound handler time
	s.r.Use(jsonContentType)                 // default JSON responses
	s.r.Use(cors(origin))                    // single-origin CORS

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"service":   "pbl-cardgame",
			"endpoints": []string{"/health", "/configs", "POST /sessions", "POST /score", "/history"},
		})
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})
	s.r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	// --- game ---
	s.r.Get("/configs", s.handleListConfigs)
	s.r.Get("/configs/{configID}", s.handleGetConfig)
	s.r.Post("/score", s.handleScore)
	s.mountSessions(s.r)
	s.mountHistory(s.r)

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found", "path": r.URL.Path})
	})

	return s
}

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.r,
		ReadHeaderTimeout: 5 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		log.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

// ------------------------------ CONFIGS ------------------------------------

func (s *Server) handleListConfigs(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.registry.Summaries())
}

func (s *Server) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	cfg, err := s.registry.Get(chi.URLParam(r, "configID"))
	if err != nil {
		writeError(w, http.StatusNotFound, "unknown_config")
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}

// ------------------------------- SCORE -------------------------------------

// scoreReq is the payload for POST /score.
type scoreReq struct {
	ConfigID   string   `json:"configId"`
	PersonaID  string   `json:"personaId"`
	ProblemID  string   `json:"problemId"`
	PartnerIDs []string `json:"partnerIds"`
	JobIDs     []string `json:"jobIds"`
}

// handleScore scores an arbitrary selection without creating a session.
// Duplicate partner/job ids count once.
func (s *Server) handleScore(w http.ResponseWriter, r *http.Request) {
	var req scoreReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	cfg, ok := s.configOrDefault(w, req.ConfigID)
	if !ok {
		return
	}

	resolve := func(id string, want card.Type) (card.Card, bool) {
		c, found := cfg.Card(id)
		if !found || c.Type != want {
			writeUnknownCard(w, cfg, id)
			return card.Card{}, false
		}
		return c, true
	}

	var sel game.Selection
	if req.PersonaID != "" {
		c, ok := resolve(req.PersonaID, card.TypePersona)
		if !ok {
			return
		}
		sel.Persona = &c
	}
	if req.ProblemID != "" {
		c, ok := resolve(req.ProblemID, card.TypeProblem)
		if !ok {
			return
		}
		sel.Problem = &c
	}
	for _, id := range dedupe(req.PartnerIDs) {
		c, ok := resolve(id, card.TypePartner)
		if !ok {
			return
		}
		sel.Partners = append(sel.Partners, c)
	}
	for _, id := range dedupe(req.JobIDs) {
		c, ok := resolve(id, card.TypeJob)
		if !ok {
			return
		}
		sel.Jobs = append(sel.Jobs, c)
	}

	writeJSON(w, http.StatusOK, game.ScorerFor(cfg).Score(sel))
}

// configOrDefault resolves a config id, writing a 404 on failure.
func (s *Server) configOrDefault(w http.ResponseWriter, id string) (*gameconfig.Config, bool) {
	if id == "" {
		return s.registry.Default(), true
	}
	cfg, err := s.registry.Get(id)
	if err != nil {
		writeError(w, http.StatusNotFound, "unknown_config")
		return nil, false
	}
	return cfg, true
}

// ------------------------------- small util --------------------------------

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("encode response")
	}
}

func writeError(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, map[string]string{"error": code})
}

// writeUnknownCard answers 404 with the closest known id, if any.
func writeUnknownCard(w http.ResponseWriter, cfg *gameconfig.Config, id string) {
	body := map[string]string{"error": "unknown_card", "cardId": id}
	if hint := cfg.Catalog().Suggest(id); hint != "" && hint != id {
		body["suggestion"] = hint
	}
	writeJSON(w, http.StatusNotFound, body)
}
