// cli.go
//
// Terminal subcommands: list configs, play a round from flags, inspect or
// clear the play history. They share the SQLite-backed History Sink with the
// server.

package main

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/robalobadob/pbl-cardgame/internal/card"
	"github.com/robalobadob/pbl-cardgame/internal/game"
	"github.com/robalobadob/pbl-cardgame/internal/gameconfig"
	"github.com/robalobadob/pbl-cardgame/internal/history"
)

var (
	bold  = color.New(color.Bold).SprintFunc()
	gray  = color.New(color.FgHiBlack).SprintFunc()
	cyan  = color.New(color.FgCyan).SprintFunc()
	green = color.New(color.FgGreen, color.Bold).SprintFunc()
	blue  = color.New(color.FgBlue).SprintFunc()
	amber = color.New(color.FgYellow).SprintFunc()
	red   = color.New(color.FgRed).SprintFunc()
)

// tierColor paints a label the way the result screen colours tiers.
func tierColor(t gameconfig.Tier) func(a ...interface{}) string {
	switch t {
	case gameconfig.TierS:
		return green
	case gameconfig.TierA:
		return blue
	case gameconfig.TierB:
		return amber
	}
	return red
}

func newConfigsCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "configs",
		Short: "List the available game themes",
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := gameconfig.Load()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, cfg := range reg.List() {
				fmt.Fprintf(out, "%s %s  %s\n", cfg.Theme.Icon, bold(cfg.ID), cfg.Name)
				fmt.Fprintf(out, "   %s\n", gray(cfg.Description))
			}
			return nil
		},
	}
}

type playFlags struct {
	config   string
	persona  string
	problem  string
	partners []string
	jobs     []string
	noRecord bool
}

func newPlayCommand(a *app) *cobra.Command {
	var f playFlags
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play one round from flags and print the score",
		Example: "  pblcards play --config municipality --persona persona-muni-001 \\\n" +
			"    --problem problem-muni-001 --partner partner-muni-003 --job job-muni-003",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.play(cmd, f)
		},
	}
	cmd.Flags().StringVar(&f.config, "config", "", "config id (default: first theme)")
	cmd.Flags().StringVar(&f.persona, "persona", "", "persona card id")
	cmd.Flags().StringVar(&f.problem, "problem", "", "problem card id")
	cmd.Flags().StringSliceVar(&f.partners, "partner", nil, "partner card id (repeatable)")
	cmd.Flags().StringSliceVar(&f.jobs, "job", nil, "job card id (repeatable)")
	cmd.Flags().BoolVar(&f.noRecord, "no-record", false, "do not save the round to history")
	_ = cmd.MarkFlagRequired("persona")
	_ = cmd.MarkFlagRequired("problem")
	return cmd
}

// play drives a Session through every phase the way the UI does.
func (a *app) play(cmd *cobra.Command, f playFlags) error {
	ctx := cmd.Context()
	reg, err := gameconfig.Load()
	if err != nil {
		return err
	}
	cfg := reg.Default()
	if f.config != "" {
		if cfg, err = reg.Get(f.config); err != nil {
			return err
		}
	}

	var opts []game.Option
	if !f.noRecord {
		sink, closeDB, err := openHistory(ctx, a.settings)
		if err != nil {
			return err
		}
		defer closeDB()
		opts = append(opts, game.WithSink(sink))
	}
	sess := game.NewSession(cfg, opts...)

	// Repeated ids count once; passing them through would toggle them back out.
	picks := [][]string{{f.persona}, {f.problem}, uniqueIDs(append(append([]string{}, f.partners...), f.jobs...))}
	for _, ids := range picks {
		phase := sess.Phase()
		for _, id := range ids {
			if _, err := sess.SelectCardID(id); err != nil {
				return unknownCardError(cfg, id, err)
			}
		}
		if !sess.Advance(ctx) {
			return fmt.Errorf("%s: no valid card for this step", phase)
		}
	}

	res, _ := sess.Result()
	printResult(cmd.OutOrStdout(), sess.Selection(), res)
	return nil
}

// uniqueIDs drops repeated ids, keeping first-seen order.
func uniqueIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func unknownCardError(cfg *gameconfig.Config, id string, err error) error {
	if hint := cfg.Catalog().Suggest(id); hint != "" {
		return fmt.Errorf("%w: %q (did you mean %q?)", err, id, hint)
	}
	return fmt.Errorf("%w: %q", err, id)
}

func printResult(out io.Writer, sel game.Selection, res game.Result) {
	paint := tierColor(res.Tier)
	fmt.Fprintf(out, "%s %s\n", bold("Persona:"), sel.Persona.Title)
	fmt.Fprintf(out, "%s %s\n", bold("Problem:"), sel.Problem.Title)
	for _, c := range append(append([]card.Card{}, sel.Partners...), sel.Jobs...) {
		fmt.Fprintf(out, "  + %s %s\n", c.Title, gray(fmt.Sprintf("(%d)", c.Points())))
	}
	fmt.Fprintln(out)
	fmt.Fprintf(out, "%s %s  %s\n", bold("Score:"), paint(res.TotalScore), paint(res.Evaluation))
	fmt.Fprintf(out, "  problem %d + solution %d + synergy %d\n",
		res.Breakdown.ProblemScore, res.Breakdown.SolutionScore, res.Breakdown.SynergyBonus)
	for _, line := range res.Feedback {
		fmt.Fprintf(out, "  %s\n", cyan(line))
	}
}

type historyFlags struct {
	stats bool
	clear bool
}

func newHistoryCommand(a *app) *cobra.Command {
	var f historyFlags
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show, summarise or clear recorded plays",
		RunE: func(cmd *cobra.Command, args []string) error {
			if f.stats && f.clear {
				return errors.New("--stats and --clear are mutually exclusive")
			}
			ctx := cmd.Context()
			sink, closeDB, err := openHistory(ctx, a.settings)
			if err != nil {
				return err
			}
			defer closeDB()

			out := cmd.OutOrStdout()
			switch {
			case f.clear:
				if err := sink.Clear(ctx); err != nil {
					return err
				}
				fmt.Fprintln(out, "history cleared")
				return nil
			case f.stats:
				stats, err := sink.Stats(ctx)
				if err != nil {
					return err
				}
				printStats(out, stats)
				return nil
			}
			records, err := sink.History(ctx)
			if err != nil {
				return err
			}
			printRecords(out, records)
			return nil
		},
	}
	cmd.Flags().BoolVar(&f.stats, "stats", false, "print aggregate statistics")
	cmd.Flags().BoolVar(&f.clear, "clear", false, "delete every record")
	return cmd
}

func printRecords(out io.Writer, records []history.Record) {
	if len(records) == 0 {
		fmt.Fprintln(out, gray("no plays recorded"))
		return
	}
	for _, r := range records {
		when := time.UnixMilli(r.Timestamp).Local().Format("2006-01-02 15:04")
		fmt.Fprintf(out, "%s  %4d  %-16s %s / %s\n", gray(when), r.Score, r.Evaluation, r.Persona, r.Problem)
	}
}

func printStats(out io.Writer, s history.Stats) {
	fmt.Fprintf(out, "%s %d\n", bold("Plays:  "), s.TotalPlays)
	fmt.Fprintf(out, "%s %d\n", bold("Average:"), s.AverageScore)
	fmt.Fprintf(out, "%s %d\n", bold("Highest:"), s.HighestScore)
	fmt.Fprintf(out, "%s %d\n", bold("Lowest: "), s.LowestScore)
	if len(s.RecentPlays) > 0 {
		fmt.Fprintln(out, bold("Recent:"))
		printRecords(out, s.RecentPlays)
	}
}
