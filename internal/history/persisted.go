// internal/history/persisted.go
//
// Sink persisted as a JSON list under one key of a kv.Store.
//
// Notes:
//   - Read-modify-write is serialised by a mutex; one process owns the key.
//   - A stored value that does not decode is treated as an empty log (and
//     overwritten by the next SavePlay), never as a failure.

package history

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/pbl-cardgame/internal/kv"
)

// Persisted stores the log in a kv.Store.
type Persisted struct {
	mu    sync.Mutex
	store kv.Store
	key   string
	opts  options
}

// NewPersisted builds a sink over store. An empty key means DefaultKey.
func NewPersisted(store kv.Store, key string, opts ...Option) *Persisted {
	if key == "" {
		key = DefaultKey
	}
	return &Persisted{store: store, key: key, opts: buildOptions(opts)}
}

// load reads and decodes the log. Must hold p.mu.
func (p *Persisted) load(ctx context.Context) ([]Record, error) {
	data, ok, err := p.store.Get(ctx, p.key)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	if !ok || len(data) == 0 {
		return nil, nil
	}
	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		log.Warn().Err(err).Str("key", p.key).Msg("corrupt history, starting fresh")
		return nil, nil
	}
	if len(records) > MaxRecords {
		records = records[:MaxRecords]
	}
	return records, nil
}

// SavePlay prepends a record and writes the log back.
func (p *Persisted) SavePlay(ctx context.Context, s Summary) (Record, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	records, err := p.load(ctx)
	if err != nil {
		return Record{}, err
	}
	r := p.opts.stamp(s)
	records = prepend(records, r)

	data, err := json.Marshal(records)
	if err != nil {
		return Record{}, fmt.Errorf("encode history: %w", err)
	}
	if err := p.store.Put(ctx, p.key, data); err != nil {
		return Record{}, fmt.Errorf("save history: %w", err)
	}
	return r, nil
}

// History returns the stored log, newest first.
func (p *Persisted) History(ctx context.Context) ([]Record, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	records, err := p.load(ctx)
	if err != nil {
		return nil, err
	}
	return append([]Record{}, records...), nil
}

// Stats derives aggregates from the stored log.
func (p *Persisted) Stats(ctx context.Context) (Stats, error) {
	records, err := p.History(ctx)
	if err != nil {
		return Stats{}, err
	}
	return ComputeStats(records), nil
}

// Clear removes the key.
func (p *Persisted) Clear(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.store.Delete(ctx, p.key); err != nil {
		return fmt.Errorf("clear history: %w", err)
	}
	return nil
}
