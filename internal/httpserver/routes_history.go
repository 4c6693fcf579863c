// internal/httpserver/routes_history.go
//
// HTTP routes over the History Sink.
// Exposes three endpoints under /history:
//   - GET    /history       → recorded plays, newest first (at most 20)
//   - GET    /history/stats → aggregate statistics
//   - DELETE /history       → clear all records

package httpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/hlog"
)

// mountHistory registers all /history routes.
func (s *Server) mountHistory(r chi.Router) {
	r.Route("/history", func(r chi.Router) {
		r.Get("/", s.handleHistory)
		r.Get("/stats", s.handleHistoryStats)
		r.Delete("/", s.handleClearHistory)
	})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	records, err := s.history.History(r.Context())
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("read history")
		writeError(w, http.StatusInternalServerError, "history")
		return
	}
	writeJSON(w, http.StatusOK, records)
}

func (s *Server) handleHistoryStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.history.Stats(r.Context())
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("history stats")
		writeError(w, http.StatusInternalServerError, "history")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleClearHistory(w http.ResponseWriter, r *http.Request) {
	if err := s.history.Clear(r.Context()); err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("clear history")
		writeError(w, http.StatusInternalServerError, "history")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
