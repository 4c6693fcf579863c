// internal/history/history.go
//
// History Sink: append-only, bounded log of finished rounds.
//
// Characteristics:
//   - At most MaxRecords entries, newest first; older entries fall off the end.
//   - Stats are derived from the log on every call, never stored.
//   - Records carry card titles, not ids, so they stay readable after a
//     catalog changes.

package history

import (
	"context"
	"math"
	"time"

	"github.com/google/uuid"
)

const (
	// DefaultKey is the key the persisted log lives under.
	DefaultKey = "pbl_game_history"
	// MaxRecords caps the log length.
	MaxRecords = 20
	// RecentCount is how many records Stats reports as recent.
	RecentCount = 5
)

// Summary is what a finished round hands to the sink.
type Summary struct {
	Score      int
	Evaluation string
	Persona    string
	Problem    string
	Partners   []string
	Jobs       []string
}

// Record is one stored round. The JSON shape is the persisted format.
type Record struct {
	ID         string   `json:"id"`
	Timestamp  int64    `json:"timestamp"` // unix milliseconds
	Score      int      `json:"score"`
	Evaluation string   `json:"evaluation"`
	Persona    string   `json:"persona"`
	Problem    string   `json:"problem"`
	Partners   []string `json:"partners"`
	Jobs       []string `json:"jobs"`
}

// Stats are aggregates over the current log.
type Stats struct {
	TotalPlays   int      `json:"totalPlays"`
	AverageScore int      `json:"averageScore"`
	HighestScore int      `json:"highestScore"`
	LowestScore  int      `json:"lowestScore"`
	RecentPlays  []Record `json:"recentPlays"`
}

// Sink records finished rounds.
type Sink interface {
	// SavePlay stamps s with an id and time and puts it at the head of the log.
	SavePlay(ctx context.Context, s Summary) (Record, error)

	// History returns the full log, newest first.
	History(ctx context.Context) ([]Record, error)

	// Stats derives aggregates from the log.
	Stats(ctx context.Context) (Stats, error)

	// Clear empties the log.
	Clear(ctx context.Context) error
}

// Option customises a sink.
type Option func(*options)

type options struct {
	now   func() time.Time
	newID func() string
}

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithIDs overrides the record id generator.
func WithIDs(newID func() string) Option {
	return func(o *options) { o.newID = newID }
}

func buildOptions(opts []Option) options {
	o := options{now: time.Now, newID: uuid.NewString}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// stamp turns a summary into a record.
func (o options) stamp(s Summary) Record {
	return Record{
		ID:         o.newID(),
		Timestamp:  o.now().UnixMilli(),
		Score:      s.Score,
		Evaluation: s.Evaluation,
		Persona:    s.Persona,
		Problem:    s.Problem,
		Partners:   nonNil(s.Partners),
		Jobs:       nonNil(s.Jobs),
	}
}

// prepend puts r at the head of records and trims to MaxRecords.
func prepend(records []Record, r Record) []Record {
	out := make([]Record, 0, len(records)+1)
	out = append(out, r)
	out = append(out, records...)
	if len(out) > MaxRecords {
		out = out[:MaxRecords]
	}
	return out
}

// ComputeStats derives Stats from a newest-first log. The average is rounded
// half up.
func ComputeStats(records []Record) Stats {
	if len(records) == 0 {
		return Stats{RecentPlays: []Record{}}
	}
	sum := 0
	hi, lo := records[0].Score, records[0].Score
	for _, r := range records {
		sum += r.Score
		if r.Score > hi {
			hi = r.Score
		}
		if r.Score < lo {
			lo = r.Score
		}
	}
	n := RecentCount
	if len(records) < n {
		n = len(records)
	}
	return Stats{
		TotalPlays:   len(records),
		AverageScore: int(math.Floor(float64(sum)/float64(len(records)) + 0.5)),
		HighestScore: hi,
		LowestScore:  lo,
		RecentPlays:  append([]Record{}, records[:n]...),
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return append([]string{}, s...)
}
