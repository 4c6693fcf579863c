// internal/httpserver/routes_sessions.go
//
// HTTP routes driving the phase state machine.
// Exposes these endpoints under /sessions:
//   - POST   /sessions               → start a round for a config (default if omitted)
//   - GET    /sessions/{id}          → current snapshot
//   - POST   /sessions/{id}/select   → select or toggle a card
//   - POST   /sessions/{id}/advance  → move to the next phase (scores on the last step)
//   - POST   /sessions/{id}/reset    → back to select-persona
//   - GET    /sessions/{id}/preview  → score the current picks without advancing
//   - DELETE /sessions/{id}          → drop the session
//
// Misplaced actions are not errors: select and advance report whether
// anything changed and always return the current snapshot.

package httpserver

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/robalobadob/pbl-cardgame/internal/card"
	"github.com/robalobadob/pbl-cardgame/internal/game"
	"github.com/robalobadob/pbl-cardgame/internal/store"
)

// mountSessions registers all /sessions routes.
func (s *Server) mountSessions(r chi.Router) {
	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", s.handleNewSession)
		r.Route("/{sessionID}", func(r chi.Router) {
			r.Get("/", s.handleGetSession)
			r.Delete("/", s.handleDeleteSession)
			r.Post("/select", s.handleSelect)
			r.Post("/advance", s.handleAdvance)
			r.Post("/reset", s.handleReset)
			r.Get("/preview", s.handlePreview)
		})
	})
}

type newSessionReq struct {
	ConfigID string `json:"configId"`
}

type selectReq struct {
	CardID string `json:"cardId"`
}

// actionResp is returned by select and advance.
type actionResp struct {
	Changed bool          `json:"changed"`
	Session game.Snapshot `json:"session"`
}

// handleNewSession creates a session. An empty body plays the default config.
func (s *Server) handleNewSession(w http.ResponseWriter, r *http.Request) {
	var req newSessionReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	cfg, ok := s.configOrDefault(w, req.ConfigID)
	if !ok {
		return
	}

	sess := game.NewSession(cfg,
		game.WithSink(s.history),
		game.WithObserver(s.metrics),
	)
	if err := s.sessions.Save(r.Context(), sess); err != nil {
		writeError(w, http.StatusInternalServerError, "session_store")
		return
	}
	s.metrics.SessionStarted(cfg.ID)
	s.metrics.SetLiveSessions(s.sessions.Len())

	writeJSON(w, http.StatusCreated, sess.Snapshot())
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.loadSession(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, sess.Snapshot())
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.Delete(r.Context(), chi.URLParam(r, "sessionID")); err != nil {
		writeError(w, http.StatusInternalServerError, "session_store")
		return
	}
	s.metrics.SetLiveSessions(s.sessions.Len())
	w.WriteHeader(http.StatusNoContent)
}

// handleSelect applies a card to the current phase. Unknown ids get a 404
// with the closest known id.
func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.loadSession(w, r)
	if !ok {
		return
	}
	var req selectReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.CardID == "" {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}

	changed, err := sess.SelectCardID(req.CardID)
	if errors.Is(err, card.ErrUnknownCard) {
		writeUnknownCard(w, sess.Config(), req.CardID)
		return
	}
	writeJSON(w, http.StatusOK, actionResp{Changed: changed, Session: sess.Snapshot()})
}

func (s *Server) handleAdvance(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.loadSession(w, r)
	if !ok {
		return
	}
	changed := sess.Advance(r.Context())
	writeJSON(w, http.StatusOK, actionResp{Changed: changed, Session: sess.Snapshot()})
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.loadSession(w, r)
	if !ok {
		return
	}
	sess.Reset()
	writeJSON(w, http.StatusOK, sess.Snapshot())
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.loadSession(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, sess.Preview())
}

// loadSession resolves {sessionID}, writing a 404 when it is gone.
func (s *Server) loadSession(w http.ResponseWriter, r *http.Request) (*game.Session, bool) {
	sess, err := s.sessions.Get(r.Context(), chi.URLParam(r, "sessionID"))
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "unknown_session")
		return nil, false
	case err != nil:
		writeError(w, http.StatusInternalServerError, "session_store")
		return nil, false
	}
	return sess, true
}
