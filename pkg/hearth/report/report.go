// Package report renders solve results as text, Prolog-style facts or HTML.
package report

import (
	"fmt"
	"time"

	"github.com/cognicore/hearth/pkg/hearth"
	"github.com/cognicore/hearth/pkg/hearth/fact"
	"github.com/cognicore/hearth/pkg/hearth/planner"
)

// LightPredicate is the predicate whose second argument is a room's light status.
const LightPredicate = "light_status"

// Report is a solve result unfolded into per-step snapshots
type Report struct {
	RunID            string
	Scenario         string
	Ordering         string
	AlreadySatisfied bool
	Goal             fact.State
	Steps            []Step // Steps[0] is the initial state
	Rooms            []string
	Labels           map[string]string
	Expanded         int
	Duration         time.Duration
}

// Step is the state after one action
type Step struct {
	Index     int    // 0 for the initial state
	Action    string // empty for the initial state
	State     fact.State
	Status    map[string]string // room -> "on" / "off"
	LightsOn  int
	LightsOff int
}

// Final returns the last snapshot.
func (r Report) Final() Step { return r.Steps[len(r.Steps)-1] }

// Label returns the display name of a room, or the room itself.
func (r Report) Label(room string) string {
	if l, ok := r.Labels[room]; ok && l != "" {
		return l
	}
	return room
}

// Build replays the result's plan from its initial state. It fails when the
// plan does not execute, which only happens for a hand-built Result.
func Build(res hearth.Result, labels map[string]string) (Report, error) {
	states, err := planner.Execute(res.Initial, res.Actions)
	if err != nil {
		return Report{}, fmt.Errorf("replay %s: %w", res.Scenario, err)
	}

	r := Report{
		RunID:            res.ID,
		Scenario:         res.Scenario,
		Ordering:         res.Ordering.String(),
		AlreadySatisfied: res.AlreadySatisfied,
		Goal:             res.Goal,
		Labels:           labels,
		Expanded:         res.Stats.Expanded,
		Duration:         res.Duration,
		Steps:            make([]Step, len(states)),
	}

	seen := make(map[string]bool)
	for i, s := range states {
		step := snapshot(s)
		step.Index = i
		if i > 0 {
			step.Action = res.Actions[i-1].String()
		}
		r.Steps[i] = step

		for _, p := range s.Select(LightPredicate) {
			if room := p.Arg(0); p.Arity() == 2 && !seen[room] {
				seen[room] = true
				r.Rooms = append(r.Rooms, room)
			}
		}
	}
	return r, nil
}

func snapshot(s fact.State) Step {
	step := Step{State: s, Status: make(map[string]string)}
	for _, p := range s.Select(LightPredicate) {
		if p.Arity() != 2 {
			continue
		}
		step.Status[p.Arg(0)] = p.Arg(1)
		switch p.Arg(1) {
		case "on":
			step.LightsOn++
		case "off":
			step.LightsOff++
		}
	}
	return step
}
