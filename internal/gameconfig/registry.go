// internal/gameconfig/registry.go
//
// Fixed, in-memory registry of playable configs.
//
// Initialization behavior (Load):
//   - Every assets/catalogs/*.yaml file is parsed and validated exactly once
//     (sync.Once); the result (or the first error) is cached.
//   - Configs are ordered by their `order` field, then by id.
//
// Parse/NewRegistry are exported so tests and tools can build registries from
// their own YAML.
package gameconfig

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/robalobadob/pbl-cardgame/assets"
	"github.com/robalobadob/pbl-cardgame/internal/card"
)

// ErrUnknownConfig is returned by Get for an id that is not registered.
var ErrUnknownConfig = errors.New("unknown config")

// fileConfig is the on-disk shape: one flat card list, split by type on load.
type fileConfig struct {
	ID          string      `yaml:"id"`
	Name        string      `yaml:"name"`
	Description string      `yaml:"description"`
	Order       int         `yaml:"order"`
	Theme       Theme       `yaml:"theme"`
	Cards       []card.Card `yaml:"cards"`
	Scoring     Scoring     `yaml:"scoring"`
	UI          UI          `yaml:"ui"`
}

// Registry is an ordered, read-only set of configs.
type Registry struct {
	list []*Config
	byID map[string]*Config
}

var (
	loadOnce    sync.Once
	loaded      *Registry
	loadInitErr error
)

// Load returns the registry built from the embedded catalogs.
func Load() (*Registry, error) {
	loadOnce.Do(func() {
		loaded, loadInitErr = loadEmbedded()
	})
	return loaded, loadInitErr
}

func loadEmbedded() (*Registry, error) {
	files, err := assets.CatalogFiles()
	if err != nil {
		return nil, fmt.Errorf("list catalogs: %w", err)
	}
	cfgs := make([]*Config, 0, len(files))
	for _, f := range files {
		data, err := assets.Read(f)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", f, err)
		}
		cfg, err := Parse(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", f, err)
		}
		cfgs = append(cfgs, cfg)
	}
	return NewRegistry(cfgs...)
}

// Parse decodes and validates a single YAML config.
func Parse(data []byte) (*Config, error) {
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return build(fc)
}

// build splits the card list per phase, indexes it and validates the result.
func build(fc fileConfig) (*Config, error) {
	if fc.ID == "" {
		return nil, errors.New("config: missing id")
	}
	if fc.Name == "" {
		return nil, fmt.Errorf("config %s: missing name", fc.ID)
	}

	seen := make(map[string]struct{}, len(fc.Cards))
	for i, c := range fc.Cards {
		if c.ID == "" {
			return nil, fmt.Errorf("config %s: card %d has no id", fc.ID, i)
		}
		if !c.Type.Valid() {
			return nil, fmt.Errorf("config %s: card %s has unknown type %q", fc.ID, c.ID, c.Type)
		}
		if _, dup := seen[c.ID]; dup {
			return nil, fmt.Errorf("config %s: duplicate card id %s", fc.ID, c.ID)
		}
		seen[c.ID] = struct{}{}
	}

	cfg := &Config{
		ID:          fc.ID,
		Name:        fc.Name,
		Description: fc.Description,
		Theme:       fc.Theme,
		Cards: Cards{
			Personas: card.ByType(fc.Cards, card.TypePersona),
			Problems: card.ByType(fc.Cards, card.TypeProblem),
			Partners: card.ByType(fc.Cards, card.TypePartner),
			Jobs:     card.ByType(fc.Cards, card.TypeJob),
		},
		Scoring: fc.Scoring,
		UI:      fc.UI,
		order:   fc.Order,
		catalog: card.NewCatalog(fc.Cards),
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", cfg.ID, err)
	}
	return cfg, nil
}

// validate checks everything the engine relies on at play time.
func (c *Config) validate() error {
	for _, t := range []card.Type{card.TypePersona, card.TypeProblem, card.TypePartner, card.TypeJob} {
		if len(c.CardsFor(t)) == 0 {
			return fmt.Errorf("no %s cards", t)
		}
	}

	th := c.Scoring.Thresholds
	if th.C != 0 {
		return fmt.Errorf("threshold C must be 0, got %d", th.C)
	}
	if th.S < th.A || th.A < th.B || th.B < th.C {
		return fmt.Errorf("thresholds must descend S>=A>=B>=C, got %+v", th)
	}
	for t := range c.Scoring.Tiers {
		switch t {
		case TierS, TierA, TierB, TierC:
		default:
			return fmt.Errorf("unknown tier %q", t)
		}
	}

	lookup := func(id string) (card.Type, bool) {
		cd, ok := c.catalog.Lookup(id)
		return cd.Type, ok
	}
	ids := make(map[string]struct{}, len(c.Scoring.Rules))
	for i, r := range c.Scoring.Rules {
		if r.ID == "" {
			return fmt.Errorf("rule %d: missing id", i)
		}
		if r.ID == ComboRuleID {
			return fmt.Errorf("rule %s: id is reserved", r.ID)
		}
		if _, dup := ids[r.ID]; dup {
			return fmt.Errorf("duplicate rule id %s", r.ID)
		}
		ids[r.ID] = struct{}{}
		if err := r.When.Validate(lookup); err != nil {
			return fmt.Errorf("rule %s: %w", r.ID, err)
		}
	}
	return nil
}

// NewRegistry orders cfgs and rejects duplicate ids. At least one config is
// required.
func NewRegistry(cfgs ...*Config) (*Registry, error) {
	if len(cfgs) == 0 {
		return nil, errors.New("registry: no configs")
	}
	r := &Registry{byID: make(map[string]*Config, len(cfgs))}
	for _, c := range cfgs {
		if _, dup := r.byID[c.ID]; dup {
			return nil, fmt.Errorf("registry: duplicate config id %s", c.ID)
		}
		r.byID[c.ID] = c
		r.list = append(r.list, c)
	}
	sort.SliceStable(r.list, func(i, j int) bool {
		if r.list[i].order != r.list[j].order {
			return r.list[i].order < r.list[j].order
		}
		return r.list[i].ID < r.list[j].ID
	})
	return r, nil
}

// List returns every config in display order.
func (r *Registry) List() []*Config {
	return append([]*Config(nil), r.list...)
}

// Summaries returns the picker entries in display order.
func (r *Registry) Summaries() []Summary {
	out := make([]Summary, 0, len(r.list))
	for _, c := range r.list {
		out = append(out, c.Summary())
	}
	return out
}

// Get returns the config with the given id.
func (r *Registry) Get(id string) (*Config, error) {
	if c, ok := r.byID[id]; ok {
		return c, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownConfig, id)
}

// Default is the first config in display order.
func (r *Registry) Default() *Config { return r.list[0] }
