// internal/metrics/metrics.go
//
// Prometheus collectors for game activity.
// Responsibilities:
//   - Count started sessions and completed rounds (by config and tier).
//   - Observe round scores and report the live session count.
//   - Act as the game.Observer handed to every session by the HTTP server.

// Package metrics exposes Prometheus collectors for game activity.
package metrics

import (
	"errors"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics groups the game's collectors.
type Metrics struct {
	sessionsStarted *prometheus.CounterVec
	roundsCompleted *prometheus.CounterVec
	roundScore      *prometheus.HistogramVec
	sessionsLive    prometheus.Gauge
}

var (
	defaultOnce sync.Once
	shared      *Metrics
)

// Default returns the metrics registered with the global Prometheus
// registry. Collectors are created once so repeated servers in one process
// (tests) do not panic on duplicate registration.
func Default() *Metrics {
	defaultOnce.Do(func() {
		shared = MustNew(prometheus.DefaultRegisterer)
	})
	return shared
}

// MustNew builds and registers the collectors on reg. A collector that is
// already registered is reused; any other registration error panics.
func MustNew(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &Metrics{
		sessionsStarted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pbl",
			Subsystem: "game",
			Name:      "sessions_started_total",
			Help:      "Sessions started, by config.",
		}, []string{"config"}),
		roundsCompleted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pbl",
			Subsystem: "game",
			Name:      "rounds_completed_total",
			Help:      "Rounds scored, by config and evaluation tier.",
		}, []string{"config", "tier"}),
		roundScore: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "pbl",
			Subsystem: "game",
			Name:      "round_score",
			Help:      "Total score of completed rounds.",
			Buckets:   prometheus.LinearBuckets(0, 25, 14),
		}, []string{"config"}),
		sessionsLive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "pbl",
			Subsystem: "game",
			Name:      "sessions_live",
			Help:      "Sessions currently held in memory.",
		}),
	}

	m.sessionsStarted = register(reg, m.sessionsStarted)
	m.roundsCompleted = register(reg, m.roundsCompleted)
	m.roundScore = register(reg, m.roundScore)
	m.sessionsLive = register(reg, m.sessionsLive)
	return m
}

// register registers c, returning the existing collector of the same type
// when one is already registered.
func register[C prometheus.Collector](reg prometheus.Registerer, c C) C {
	if err := reg.Register(c); err != nil {
		var already prometheus.AlreadyRegisteredError
		if errors.As(err, &already) {
			if existing, ok := already.ExistingCollector.(C); ok {
				return existing
			}
		}
		panic(err)
	}
	return c
}

// SessionStarted counts a new session.
func (m *Metrics) SessionStarted(configID string) {
	m.sessionsStarted.WithLabelValues(configID).Inc()
}

// RoundCompleted records a scored round.
func (m *Metrics) RoundCompleted(configID, tier string, score int) {
	m.roundsCompleted.WithLabelValues(configID, tier).Inc()
	m.roundScore.WithLabelValues(configID).Observe(float64(score))
}

// SetLiveSessions reports the current session count.
func (m *Metrics) SetLiveSessions(n int) {
	m.sessionsLive.Set(float64(n))
}
