package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundCompleted(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := MustNew(reg)

	m.SessionStarted("energy")
	m.RoundCompleted("energy", "S", 230)
	m.RoundCompleted("energy", "S", 240)
	m.RoundCompleted("energy", "C", 40)
	m.SetLiveSessions(3)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.sessionsStarted.WithLabelValues("energy")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.roundsCompleted.WithLabelValues("energy", "S")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.roundsCompleted.WithLabelValues("energy", "C")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.sessionsLive))

	n, err := testutil.GatherAndCount(reg, "pbl_game_round_score")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestMustNewReusesRegisteredCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	a := MustNew(reg)
	b := MustNew(reg)

	a.RoundCompleted("municipality", "A", 160)
	assert.Equal(t, 1.0, testutil.ToFloat64(b.roundsCompleted.WithLabelValues("municipality", "A")))
}

func TestDefaultIsShared(t *testing.T) {
	assert.Same(t, Default(), Default())
}
