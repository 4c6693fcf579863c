package httpserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/pbl-cardgame/internal/game"
	"github.com/robalobadob/pbl-cardgame/internal/gameconfig"
	"github.com/robalobadob/pbl-cardgame/internal/history"
	"github.com/robalobadob/pbl-cardgame/internal/metrics"
	"github.com/robalobadob/pbl-cardgame/internal/store"
)

type fixture struct {
	srv  *Server
	sink history.Sink
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	reg, err := gameconfig.Load()
	require.NoError(t, err)
	sessions, err := store.NewMemoryStore(8)
	require.NoError(t, err)
	sink := history.NewMemory()
	srv := New(Deps{
		Registry: reg,
		Sessions: sessions,
		History:  sink,
		Metrics:  metrics.MustNew(prometheus.NewRegistry()),
	})
	return fixture{srv: srv, sink: sink}
}

func (f fixture) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	f.srv.Router().ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestHealth(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":true}`, rec.Body.String())
	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestPreflight(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodOptions, "/sessions", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestConfigs(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/configs", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[[]gameconfig.Summary](t, rec)
	require.Len(t, list, 2)
	assert.Equal(t, "municipality", list[0].ID)
	assert.Equal(t, "energy", list[1].ID)

	rec = f.do(t, http.MethodGet, "/configs/energy", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[map[string]any](t, rec)
	assert.Equal(t, "energy", body["id"])
	assert.Contains(t, body, "cards")
	assert.Contains(t, body, "scoring")

	rec = f.do(t, http.MethodGet, "/configs/nope", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSessionRound(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/sessions", map[string]string{"configId": "municipality"})
	require.Equal(t, http.StatusCreated, rec.Code)
	snap := decode[game.Snapshot](t, rec)
	require.NotEmpty(t, snap.ID)
	assert.Equal(t, game.PhaseSelectPersona, snap.Phase)
	assert.Len(t, snap.Options, 4)
	base := "/sessions/" + snap.ID

	// Advancing without a persona changes nothing.
	rec = f.do(t, http.MethodPost, base+"/advance", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	act := decode[actionResp](t, rec)
	assert.False(t, act.Changed)
	assert.Equal(t, game.PhaseSelectPersona, act.Session.Phase)

	steps := []string{"persona-muni-001", "", "problem-muni-001", "", "partner-muni-003", "job-muni-003", ""}
	for _, id := range steps {
		if id == "" {
			rec = f.do(t, http.MethodPost, base+"/advance", nil)
		} else {
			rec = f.do(t, http.MethodPost, base+"/select", map[string]string{"cardId": id})
		}
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		require.True(t, decode[actionResp](t, rec).Changed, id)
	}

	rec = f.do(t, http.MethodGet, base, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	snap = decode[game.Snapshot](t, rec)
	assert.Equal(t, game.PhaseResult, snap.Phase)
	require.NotNil(t, snap.Result)
	assert.Equal(t, 245, snap.Result.TotalScore)
	assert.Equal(t, gameconfig.TierS, snap.Result.Tier)

	rec = f.do(t, http.MethodGet, "/history", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	recs := decode[[]history.Record](t, rec)
	require.Len(t, recs, 1)
	assert.Equal(t, 245, recs[0].Score)
	assert.Equal(t, "Mayor", recs[0].Persona)

	rec = f.do(t, http.MethodPost, base+"/reset", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	snap = decode[game.Snapshot](t, rec)
	assert.Equal(t, game.PhaseSelectPersona, snap.Phase)
	assert.Nil(t, snap.Result)
	assert.Nil(t, snap.Selection.Persona)
}

func TestSessionDefaultsConfig(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodPost, "/sessions", nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "municipality", decode[game.Snapshot](t, rec).ConfigID)

	rec = f.do(t, http.MethodPost, "/sessions", map[string]string{"configId": "mars"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSelectUnknownCardSuggests(t *testing.T) {
	f := newFixture(t)
	snap := decode[game.Snapshot](t, f.do(t, http.MethodPost, "/sessions", nil))

	rec := f.do(t, http.MethodPost, "/sessions/"+snap.ID+"/select", map[string]string{"cardId": "persona-muni-01"})
	require.Equal(t, http.StatusNotFound, rec.Code)
	body := decode[map[string]string](t, rec)
	assert.Equal(t, "unknown_card", body["error"])
	assert.Equal(t, "persona-muni-001", body["suggestion"])

	rec = f.do(t, http.MethodPost, "/sessions/"+snap.ID+"/select", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestWrongPhaseSelectIsNoop(t *testing.T) {
	f := newFixture(t)
	snap := decode[game.Snapshot](t, f.do(t, http.MethodPost, "/sessions", nil))

	rec := f.do(t, http.MethodPost, "/sessions/"+snap.ID+"/select", map[string]string{"cardId": "job-muni-001"})
	require.Equal(t, http.StatusOK, rec.Code)
	act := decode[actionResp](t, rec)
	assert.False(t, act.Changed)
	assert.Empty(t, act.Session.Selection.Jobs)
}

func TestPreview(t *testing.T) {
	f := newFixture(t)
	snap := decode[game.Snapshot](t, f.do(t, http.MethodPost, "/sessions", nil))
	f.do(t, http.MethodPost, "/sessions/"+snap.ID+"/select", map[string]string{"cardId": "persona-muni-001"})

	rec := f.do(t, http.MethodGet, "/sessions/"+snap.ID+"/preview", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	res := decode[game.Result](t, rec)
	assert.Equal(t, 0, res.TotalScore)
	assert.Equal(t, gameconfig.TierC, res.Tier)

	// Preview never records.
	recs, err := f.sink.History(t.Context())
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestDeleteSession(t *testing.T) {
	f := newFixture(t)
	snap := decode[game.Snapshot](t, f.do(t, http.MethodPost, "/sessions", nil))

	rec := f.do(t, http.MethodDelete, "/sessions/"+snap.ID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = f.do(t, http.MethodGet, "/sessions/"+snap.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "unknown_session", decode[map[string]string](t, rec)["error"])
}

func TestScore(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/score", scoreReq{
		ConfigID:   "municipality",
		PersonaID:  "persona-muni-001",
		ProblemID:  "problem-muni-001",
		PartnerIDs: []string{"partner-muni-003", "partner-muni-003"},
		JobIDs:     []string{"job-muni-003"},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	res := decode[game.Result](t, rec)
	assert.Equal(t, 245, res.TotalScore)
	assert.Equal(t, game.Breakdown{ProblemScore: 80, SolutionScore: 115, SynergyBonus: 50}, res.Breakdown)

	// Scoring is stateless.
	recs, err := f.sink.History(t.Context())
	require.NoError(t, err)
	assert.Empty(t, recs)

	rec = f.do(t, http.MethodPost, "/score", scoreReq{PersonaID: "problem-muni-001"})
	assert.Equal(t, http.StatusNotFound, rec.Code, "a problem card is not a persona")

	rec = f.do(t, http.MethodPost, "/score", "not an object")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHistoryStatsAndClear(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()
	for _, score := range []int{100, 201} {
		_, err := f.sink.SavePlay(ctx, history.Summary{Score: score, Evaluation: "x"})
		require.NoError(t, err)
	}

	rec := f.do(t, http.MethodGet, "/history/stats", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	stats := decode[history.Stats](t, rec)
	assert.Equal(t, 2, stats.TotalPlays)
	assert.Equal(t, 151, stats.AverageScore)
	assert.Equal(t, 201, stats.HighestScore)
	assert.Equal(t, 100, stats.LowestScore)

	rec = f.do(t, http.MethodDelete, "/history", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = f.do(t, http.MethodGet, "/history", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestUnknownRoute(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodGet, "/nope", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not_found", decode[map[string]string](t, rec)["error"])
}
