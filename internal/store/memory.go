// internal/store/memory.go
//
// In-memory, bounded store of live game sessions.
//
// Characteristics:
//   - Sessions are keyed by Session.ID in an LRU cache; once the cache is
//     full the least recently used session is evicted.
//   - Concurrency-safe (the LRU cache locks internally).
//   - State is lost when the process restarts.
//   - Get returns ErrNotFound for missing or evicted ids.

package store

import (
	"context"
	"errors"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/pbl-cardgame/internal/game"
)

// DefaultSize is the session capacity used when none is given.
const DefaultSize = 1024

// ErrNotFound is returned for unknown session ids.
var ErrNotFound = errors.New("session not found")

// Store defines the persistence interface for game sessions.
type Store interface {
	// Save adds or refreshes a session.
	Save(ctx context.Context, s *game.Session) error

	// Get retrieves a session by id.
	Get(ctx context.Context, id string) (*game.Session, error)

	// Delete drops a session. Deleting an unknown id is not an error.
	Delete(ctx context.Context, id string) error

	// Len is the number of live sessions.
	Len() int
}

// memory is an LRU-backed Store.
type memory struct {
	sessions *lru.Cache[string, *game.Session]
}

// NewMemoryStore constructs a Store holding at most size sessions. A
// non-positive size means DefaultSize.
func NewMemoryStore(size int) (Store, error) {
	if size <= 0 {
		size = DefaultSize
	}
	cache, err := lru.NewWithEvict[string, *game.Session](size, func(id string, _ *game.Session) {
		log.Debug().Str("session", id).Msg("session evicted")
	})
	if err != nil {
		return nil, fmt.Errorf("session cache: %w", err)
	}
	return &memory{sessions: cache}, nil
}

// Save adds or updates the session.
func (m *memory) Save(ctx context.Context, s *game.Session) error {
	m.sessions.Add(s.ID, s)
	return nil
}

// Get looks up a session by id and marks it recently used.
func (m *memory) Get(ctx context.Context, id string) (*game.Session, error) {
	if s, ok := m.sessions.Get(id); ok {
		return s, nil
	}
	return nil, ErrNotFound
}

// Delete removes the session.
func (m *memory) Delete(ctx context.Context, id string) error {
	m.sessions.Remove(id)
	return nil
}

// Len reports the number of cached sessions.
func (m *memory) Len() int { return m.sessions.Len() }
