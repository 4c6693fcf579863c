// db.go
//
// Storage bootstrap for the binary.
// Responsibilities:
//   - Open the SQLite file and apply the embedded migrations.
//   - Build the persisted History Sink over it.
//   - Assemble the HTTP server from registry, session store and sink.

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/pbl-cardgame/internal/gameconfig"
	"github.com/robalobadob/pbl-cardgame/internal/history"
	"github.com/robalobadob/pbl-cardgame/internal/httpserver"
	"github.com/robalobadob/pbl-cardgame/internal/kv"
	"github.com/robalobadob/pbl-cardgame/internal/settings"
	"github.com/robalobadob/pbl-cardgame/internal/store"
)

// openHistory opens the database at st.DBPath and returns the persisted sink
// plus a func that closes the database.
func openHistory(ctx context.Context, st settings.Settings) (history.Sink, func(), error) {
	db, err := kv.Open(st.DBPath)
	if err != nil {
		return nil, nil, fmt.Errorf("open db: %w", err)
	}
	if err := kv.Migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("migrate: %w", err)
	}
	closeDB := func() {
		if err := db.Close(); err != nil {
			log.Warn().Err(err).Msg("close db")
		}
	}
	return history.NewPersisted(kv.NewSQLite(db), st.HistoryKey), closeDB, nil
}

// buildServer wires every collaborator of the HTTP API.
func buildServer(ctx context.Context, st settings.Settings) (*httpserver.Server, func(), error) {
	reg, err := gameconfig.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load configs: %w", err)
	}
	sessions, err := store.NewMemoryStore(st.SessionCacheSize)
	if err != nil {
		return nil, nil, err
	}
	sink, closeDB, err := openHistory(ctx, st)
	if err != nil {
		return nil, nil, err
	}
	srv := httpserver.New(httpserver.Deps{
		Registry:     reg,
		Sessions:     sessions,
		History:      sink,
		ClientOrigin: st.ClientOrigin,
	})
	return srv, closeDB, nil
}

func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}
