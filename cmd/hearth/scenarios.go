package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cognicore/hearth/pkg/hearth"
	"github.com/cognicore/hearth/pkg/hearth/fact"
	"github.com/cognicore/hearth/pkg/hearth/report"
)

// newScenariosCmd creates the scenarios command.
func (a *App) newScenariosCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scenarios",
		Short: "List the configured scenarios",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := a.openEngine(cmd.Context())
			if err != nil {
				return err
			}
			defer engine.Close()

			for _, name := range engine.Scenarios() {
				goal, _ := engine.Goal(name)
				fmt.Fprintf(a.stdout, "%-12s %s\n", name, describeLights(engine, goal))
			}
			return nil
		},
	}
}

// newShowCmd creates the show command.
func (a *App) newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <scenario>",
		Short: "Print a scenario's goal, the initial state and what is missing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := a.openEngine(cmd.Context())
			if err != nil {
				return err
			}
			defer engine.Close()

			goal, ok := engine.Goal(args[0])
			if !ok {
				return fmt.Errorf("%w: %q", hearth.ErrUnknownScenario, args[0])
			}

			fmt.Fprintf(a.stdout, "Goal (%s):\n", args[0])
			printState(a, goal.Propositions())
			fmt.Fprintln(a.stdout, "Initial State:")
			printState(a, engine.Initial().Propositions())
			fmt.Fprintln(a.stdout, "Missing:")
			missing := engine.Initial().Missing(goal)
			if len(missing) == 0 {
				fmt.Fprintln(a.stdout, "  (nothing, goal already satisfied)")
			}
			printState(a, missing)
			return nil
		},
	}
}

func printState(a *App, props []fact.Proposition) {
	for _, p := range props {
		fmt.Fprintf(a.stdout, "  %s\n", p)
	}
}

// describeLights summarizes a goal as the rooms it wants lit.
func describeLights(engine *hearth.Hearth, goal fact.State) string {
	labels := engine.Labels()
	var on []string
	for _, p := range goal.Select(report.LightPredicate) {
		if p.Arg(1) != "on" {
			continue
		}
		if l, ok := labels[p.Arg(0)]; ok {
			on = append(on, l)
		} else {
			on = append(on, p.Arg(0))
		}
	}
	if len(on) == 0 {
		return "all lights off"
	}
	return "lights on: " + strings.Join(on, ", ")
}
