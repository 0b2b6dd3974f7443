package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/cognicore/hearth/pkg/hearth/report"
)

// solveOptions holds options for the solve command.
type solveOptions struct {
	format string
	all    bool
}

// newSolveCmd creates the solve command.
func (a *App) newSolveCmd() *cobra.Command {
	opts := &solveOptions{}

	cmd := &cobra.Command{
		Use:   "solve [scenario...]",
		Short: "Plan the actions that reach one or more scenarios",
		Long: `Plan from the initial state to each named scenario and print the plan.

Examples:
  # Plan the morning scenario
  hearth solve morning

  # Plan every configured scenario as Prolog-style facts
  hearth solve --all --format facts

  # Write an HTML report and journal the run
  hearth solve party --format html --db runs.db > party.html`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.all && len(args) > 0 {
				return fmt.Errorf("--all does not take scenario names")
			}
			if !opts.all && len(args) == 0 {
				return fmt.Errorf("name at least one scenario or pass --all")
			}
			return a.solve(cmd.Context(), args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", "text", "Output format: text, facts or html")
	cmd.Flags().BoolVar(&opts.all, "all", false, "Solve every configured scenario")

	return cmd
}

func (a *App) solve(ctx context.Context, names []string, opts *solveOptions) error {
	render, err := renderer(opts.format)
	if err != nil {
		return err
	}

	engine, err := a.openEngine(ctx)
	if err != nil {
		return err
	}
	defer engine.Close()

	if opts.all {
		names = engine.Scenarios()
	}

	results, err := engine.SolveAll(ctx, names)
	if err != nil {
		return err
	}

	labels := engine.Labels()
	for i, res := range results {
		r, err := report.Build(res, labels)
		if err != nil {
			return err
		}
		if i > 0 && opts.format == "text" {
			fmt.Fprintln(a.stdout)
		}
		if err := render(a.stdout, r); err != nil {
			return err
		}
	}
	return nil
}

func renderer(format string) (func(io.Writer, report.Report) error, error) {
	switch format {
	case "text", "":
		return report.Text, nil
	case "facts":
		return report.Facts, nil
	case "html":
		return report.HTML, nil
	default:
		return nil, fmt.Errorf("unknown format %q (want text, facts or html)", format)
	}
}
