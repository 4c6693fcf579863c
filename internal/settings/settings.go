// internal/settings/settings.go
//
// Process settings read from the environment.
//
// Load order:
//   1. A .env file in the working directory, if present (values already in
//      the environment win).
//   2. Environment variables, parsed into Settings with their defaults.
//
// Environment variables:
//   PORT=5175                       HTTP listen port
//   LOG_LEVEL=info                  zerolog level
//   DB_PATH=./data/pbl.db           SQLite file for the play history
//   CLIENT_ORIGIN=http://localhost:5173
//   SESSION_CACHE_SIZE=1024         max live sessions before LRU eviction
//   HISTORY_KEY=pbl_game_history    key the history is stored under

package settings

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Settings are the runtime knobs of the binary.
type Settings struct {
	Port             string `env:"PORT" envDefault:"5175"`
	LogLevel         string `env:"LOG_LEVEL" envDefault:"info"`
	DBPath           string `env:"DB_PATH" envDefault:"./data/pbl.db"`
	ClientOrigin     string `env:"CLIENT_ORIGIN" envDefault:"http://localhost:5173"`
	SessionCacheSize int    `env:"SESSION_CACHE_SIZE" envDefault:"1024"`
	HistoryKey       string `env:"HISTORY_KEY" envDefault:"pbl_game_history"`
}

// Load reads .env (if any) and parses the environment.
func Load() (Settings, error) {
	_ = godotenv.Load()
	return Parse()
}

// Parse reads Settings from the current environment only.
func Parse() (Settings, error) {
	var s Settings
	if err := env.Parse(&s); err != nil {
		return Settings{}, fmt.Errorf("parse env: %w", err)
	}
	return s, nil
}

// Addr is the listen address for Port.
func (s Settings) Addr() string { return ":" + s.Port }
