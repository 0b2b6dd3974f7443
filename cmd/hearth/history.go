package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/cognicore/hearth/pkg/hearth/store"
)

// historyOptions holds options for the history command.
type historyOptions struct {
	scenario string
	limit    int
}

// newHistoryCmd creates the history command.
func (a *App) newHistoryCmd() *cobra.Command {
	opts := &historyOptions{}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List journaled runs, newest first",
		Long: `List runs recorded in the SQLite journal given by --db.

Examples:
  hearth history --db runs.db
  hearth history --db runs.db --scenario party --limit 5`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.opts.dbPath == "" {
				return fmt.Errorf("history needs a run journal: pass --db")
			}

			engine, err := a.openEngine(cmd.Context())
			if err != nil {
				return err
			}
			defer engine.Close()

			runs, err := engine.Runs(cmd.Context(), opts.scenario, opts.limit)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Fprintln(a.stdout, "No runs recorded.")
				return nil
			}
			for _, r := range runs {
				printRun(a, r)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.scenario, "scenario", "", "Only runs of this scenario")
	cmd.Flags().IntVar(&opts.limit, "limit", store.DefaultListLimit, "Maximum number of runs")

	return cmd
}

func printRun(a *App, r store.Run) {
	fmt.Fprintf(a.stdout, "%s  %s  %-10s %-17s %2d steps  %3d expanded  %dms\n",
		r.ID,
		r.CreatedAt.Local().Format(time.DateTime),
		r.Scenario,
		r.Status,
		len(r.Actions),
		r.Expanded,
		r.DurationMS,
	)
	for i, action := range r.Actions {
		fmt.Fprintf(a.stdout, "    %d. %s\n", i+1, action)
	}
}
