// internal/history/memory.go
//
// In-memory Sink. State is lost when the process exits.

package history

import (
	"context"
	"sync"
)

// Memory keeps the log in a slice guarded by a mutex.
type Memory struct {
	mu      sync.Mutex
	records []Record
	opts    options
}

// NewMemory constructs an empty in-memory sink.
func NewMemory(opts ...Option) *Memory {
	return &Memory{opts: buildOptions(opts)}
}

// SavePlay prepends a new record.
func (m *Memory) SavePlay(ctx context.Context, s Summary) (Record, error) {
	r := m.opts.stamp(s)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = prepend(m.records, r)
	return r, nil
}

// History returns a copy of the log.
func (m *Memory) History(ctx context.Context) ([]Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Record{}, m.records...), nil
}

// Stats derives aggregates from the log.
func (m *Memory) Stats(ctx context.Context) (Stats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return ComputeStats(m.records), nil
}

// Clear drops every record.
func (m *Memory) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = nil
	return nil
}
