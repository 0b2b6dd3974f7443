package report

import (
	"fmt"
	"io"
	"strings"
)

// Facts writes the report as Prolog-style facts that fact.ParseState can
// read back: initial/2 and goal/2 for every proposition, then plan_step/3 and
// lights_on/3 per action, all keyed by the scenario name.
func Facts(w io.Writer, r Report) error {
	var b strings.Builder
	scenario := sanitize(r.Scenario)

	fmt.Fprintf(&b, "%% run %s ordering %s expanded %d\n", r.RunID, r.Ordering, r.Expanded)
	for _, p := range r.Steps[0].State.Propositions() {
		fmt.Fprintf(&b, "initial(%s, %s).\n", scenario, flatten(p.String()))
	}
	for _, p := range r.Goal.Propositions() {
		fmt.Fprintf(&b, "goal(%s, %s).\n", scenario, flatten(p.String()))
	}
	for _, step := range r.Steps[1:] {
		fmt.Fprintf(&b, "plan_step(%s, %d, %s).\n", scenario, step.Index, flatten(step.Action))
		fmt.Fprintf(&b, "lights_on(%s, %d, %d).\n", scenario, step.Index, step.LightsOn)
	}
	if r.AlreadySatisfied {
		fmt.Fprintf(&b, "already_satisfied(%s).\n", scenario)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func sanitize(s string) string {
	return strings.ReplaceAll(s, "-", "_")
}

// flatten turns "turn_on(kitchen)" into "turn_on_kitchen" so the term stays
// a single argument for the flat fact parser.
func flatten(term string) string {
	r := strings.NewReplacer("(", "_", ")", "", ", ", "_", ",", "_", " ", "_")
	return sanitize(r.Replace(term))
}
