// Package planner implements depth-first forward search over a catalog of
// ground actions.
//
// The search commits to the first plan it finds. It does not look for a
// shorter or otherwise better one. It is a graph search: a state seen
// anywhere earlier in the same invocation, including inside a subtree that
// failed, is never expanded again, not only states on the current path.
package planner

import (
	"errors"
	"fmt"

	"github.com/cognicore/hearth/pkg/hearth/catalog"
	"github.com/cognicore/hearth/pkg/hearth/fact"
)

var (
	// ErrNoPlan means every state reachable from the start was explored
	// without satisfying the goal.
	ErrNoPlan = errors.New("no plan found")

	// ErrInapplicable means an action's preconditions do not hold.
	ErrInapplicable = errors.New("action not applicable")
)

// Ordering controls the order in which applicable actions are expanded.
type Ordering int

const (
	// GoalRelevantFirst expands actions that add a missing goal proposition
	// before the rest. Catalog order is kept within each group.
	GoalRelevantFirst Ordering = iota

	// DeclarationOrder expands actions in catalog order only.
	DeclarationOrder
)

func (o Ordering) String() string {
	switch o {
	case GoalRelevantFirst:
		return "relevant"
	case DeclarationOrder:
		return "declaration"
	default:
		return fmt.Sprintf("ordering(%d)", int(o))
	}
}

// ParseOrdering maps "relevant" and "declaration" to an Ordering.
func ParseOrdering(s string) (Ordering, error) {
	switch s {
	case "", "relevant":
		return GoalRelevantFirst, nil
	case "declaration":
		return DeclarationOrder, nil
	default:
		return 0, fmt.Errorf("unknown ordering %q (want relevant or declaration)", s)
	}
}

// Option configures a Planner.
type Option func(*Planner)

// WithOrdering sets the expansion order.
func WithOrdering(o Ordering) Option {
	return func(p *Planner) { p.ordering = o }
}

// Planner searches for action sequences. It holds no per-search state and is
// safe for concurrent use.
type Planner struct {
	catalog  *catalog.Catalog
	ordering Ordering
}

// New creates a planner over cat.
func New(cat *catalog.Catalog, opts ...Option) *Planner {
	p := &Planner{catalog: cat, ordering: GoalRelevantFirst}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Ordering returns the configured expansion order.
func (p *Planner) Ordering() Ordering { return p.ordering }

// Stats describes one search invocation.
type Stats struct {
	Expanded int // states whose successors were generated
	Pruned   int // successors skipped because they were already visited
	MaxDepth int
}

// Plan returns an action sequence leading from start to a state that
// satisfies goal. The slice is empty (not nil) when start already satisfies
// goal. ErrNoPlan is returned when the search is exhausted.
func (p *Planner) Plan(goal, start fact.State) ([]catalog.Action, error) {
	plan, _, err := p.PlanWithStats(goal, start)
	return plan, err
}

// PlanWithStats is Plan plus search statistics.
func (p *Planner) PlanWithStats(goal, start fact.State) ([]catalog.Action, Stats, error) {
	s := &search{
		planner: p,
		goal:    goal,
		history: make(map[string]struct{}),
	}
	plan, ok := s.run(start, 0)
	if !ok {
		return nil, s.stats, ErrNoPlan
	}
	return plan, s.stats, nil
}

// search owns the history of a single invocation: every state visited so
// far. A state is never expanded twice, so the search is bounded by the
// number of reachable states.
type search struct {
	planner *Planner
	goal    fact.State
	history map[string]struct{}
	stats   Stats
}

func (s *search) run(state fact.State, depth int) ([]catalog.Action, bool) {
	if depth > s.stats.MaxDepth {
		s.stats.MaxDepth = depth
	}

	if state.Satisfies(s.goal) {
		return []catalog.Action{}, true
	}

	s.history[state.Key()] = struct{}{}
	s.stats.Expanded++

	for _, action := range s.planner.order(s.planner.catalog.Applicable(state), state, s.goal) {
		next, ok := Apply(action, state)
		if !ok {
			continue
		}
		if _, seen := s.history[next.Key()]; seen {
			s.stats.Pruned++
			continue
		}
		if rest, found := s.run(next, depth+1); found {
			return append([]catalog.Action{action}, rest...), true
		}
	}

	return nil, false
}

func (p *Planner) order(actions []catalog.Action, state, goal fact.State) []catalog.Action {
	if p.ordering == DeclarationOrder {
		return actions
	}
	relevant := make([]catalog.Action, 0, len(actions))
	var rest []catalog.Action
	for _, a := range actions {
		if contributes(a, state, goal) {
			relevant = append(relevant, a)
		} else {
			rest = append(rest, a)
		}
	}
	return append(relevant, rest...)
}

// contributes reports whether a adds a goal proposition that state lacks.
func contributes(a catalog.Action, state, goal fact.State) bool {
	for _, p := range a.Add().Propositions() {
		if goal.Has(p) && !state.Has(p) {
			return true
		}
	}
	return false
}

// Apply returns the successor of s under a, or false when a's preconditions
// do not hold. Deletions happen before additions, so a proposition that is
// both added and deleted ends up present. s is never modified.
func Apply(a catalog.Action, s fact.State) (fact.State, bool) {
	if !s.Satisfies(a.Pre()) {
		return fact.State{}, false
	}
	return s.Without(a.Del().Propositions()...).Union(a.Add().Propositions()...), true
}

// Satisfies reports whether state contains every proposition of goal.
func Satisfies(goal, state fact.State) bool {
	return state.Satisfies(goal)
}

// Execute applies plan to start step by step and returns every visited
// state, start first. It fails with ErrInapplicable on the first step whose
// preconditions do not hold.
func Execute(start fact.State, plan []catalog.Action) ([]fact.State, error) {
	states := make([]fact.State, 0, len(plan)+1)
	states = append(states, start)
	current := start
	for i, a := range plan {
		next, ok := Apply(a, current)
		if !ok {
			return states, fmt.Errorf("step %d %s: %w", i+1, a, ErrInapplicable)
		}
		states = append(states, next)
		current = next
	}
	return states, nil
}
