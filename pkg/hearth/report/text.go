package report

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/cognicore/hearth/pkg/hearth/fact"
)

// Text writes a human-readable report: initial state, numbered plan with the
// light count after each step, and the goal.
func Text(w io.Writer, r Report) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "Scenario: %s (run %s, %s order)\n\n", r.Scenario, r.RunID, r.Ordering)

	fmt.Fprintln(bw, "Initial State:")
	writeState(bw, r.Steps[0].State)
	fmt.Fprintln(bw)

	fmt.Fprintln(bw, "Generated Plan:")
	if r.AlreadySatisfied {
		fmt.Fprintln(bw, "  (goal already satisfied, nothing to do)")
	}
	total := len(r.Rooms)
	for _, step := range r.Steps[1:] {
		fmt.Fprintf(bw, "  %2d. %-28s lights on %d/%d\n", step.Index, step.Action, step.LightsOn, total)
	}
	fmt.Fprintln(bw)

	fmt.Fprintln(bw, "Goal:")
	writeState(bw, r.Goal)
	fmt.Fprintln(bw)

	final := r.Final()
	on := make([]string, 0, final.LightsOn)
	for _, room := range r.Rooms {
		if final.Status[room] == "on" {
			on = append(on, r.Label(room))
		}
	}
	if len(on) == 0 {
		fmt.Fprintf(bw, "All lights off. Expanded %d states in %s.\n", r.Expanded, r.Duration)
	} else {
		fmt.Fprintf(bw, "Lights on: %s. Expanded %d states in %s.\n", strings.Join(on, ", "), r.Expanded, r.Duration)
	}

	return bw.Flush()
}

func writeState(w io.Writer, s fact.State) {
	for _, p := range s.Propositions() {
		fmt.Fprintf(w, "  %s\n", p)
	}
}
