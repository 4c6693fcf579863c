// main.go
//
// Entry point for the PBL card game binary.
// Responsibilities:
//   - Load settings (.env + environment) and set the global log level.
//   - Dispatch to the cobra subcommands: serve (default), configs, play, history.

package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/robalobadob/pbl-cardgame/internal/settings"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

// app carries what every subcommand needs after startup.
type app struct {
	settings settings.Settings
}

func newRootCommand() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:          "pblcards",
		Short:        "PBL card game: pick a persona, a problem and a team, then get scored",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			st, err := settings.Load()
			if err != nil {
				return err
			}
			if lvl, err := zerolog.ParseLevel(st.LogLevel); err == nil {
				zerolog.SetGlobalLevel(lvl)
			}
			a.settings = st
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.serve(cmd)
		},
	}

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Run the HTTP API for the browser UI",
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.serve(cmd)
			},
		},
		newConfigsCommand(a),
		newPlayCommand(a),
		newHistoryCommand(a),
	)
	return root
}

// serve starts the HTTP server and blocks until SIGINT/SIGTERM.
func (a *app) serve(cmd *cobra.Command) error {
	ctx, stop := signalContext(cmd.Context())
	defer stop()

	srv, closeDB, err := buildServer(ctx, a.settings)
	if err != nil {
		log.Fatal().Err(err).Msg("startup failed")
	}
	defer closeDB()

	log.Info().Str("port", a.settings.Port).Msg("starting pbl-cardgame server")
	if err := srv.ListenAndServe(ctx, a.settings.Addr()); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
	return nil
}
