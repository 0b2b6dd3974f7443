package fact

import (
	"sort"
	"strings"
)

// State is an immutable set of propositions. Membership, not insertion order,
// defines equality. The zero value is the empty state.
//
// A goal is a State read as a partial description of the world: it is
// satisfied by any state that contains all of its propositions.
type State struct {
	props map[string]Proposition
	key   string
}

// NewState builds a state from props, dropping duplicates.
func NewState(props ...Proposition) State {
	m := make(map[string]Proposition, len(props))
	for _, p := range props {
		m[p.key] = p
	}
	return freeze(m)
}

func freeze(m map[string]Proposition) State {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return State{props: m, key: "{" + strings.Join(keys, "; ") + "}"}
}

// Has reports whether p is a member of the state.
func (s State) Has(p Proposition) bool {
	_, ok := s.props[p.key]
	return ok
}

// Len returns the number of propositions.
func (s State) Len() int { return len(s.props) }

// Empty reports whether the state holds no propositions.
func (s State) Empty() bool { return len(s.props) == 0 }

// Propositions returns the members sorted by key.
func (s State) Propositions() []Proposition {
	out := make([]Proposition, 0, len(s.props))
	for _, p := range s.props {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].key < out[j].key })
	return out
}

// Key is a canonical, order-independent encoding usable as a map key.
func (s State) Key() string {
	if s.key == "" {
		return "{}"
	}
	return s.key
}

// Equal reports set equality.
func (s State) Equal(o State) bool { return s.Key() == o.Key() }

// Satisfies reports whether every proposition of goal is a member of s.
// An empty goal is satisfied by any state.
func (s State) Satisfies(goal State) bool {
	for k := range goal.props {
		if _, ok := s.props[k]; !ok {
			return false
		}
	}
	return true
}

// Missing returns the goal propositions absent from s, sorted by key.
func (s State) Missing(goal State) []Proposition {
	var out []Proposition
	for _, p := range goal.Propositions() {
		if !s.Has(p) {
			out = append(out, p)
		}
	}
	return out
}

// Without returns a new state with props removed. s is not modified.
func (s State) Without(props ...Proposition) State {
	m := s.clone()
	for _, p := range props {
		delete(m, p.key)
	}
	return freeze(m)
}

// Union returns a new state with props added. s is not modified.
func (s State) Union(props ...Proposition) State {
	m := s.clone()
	for _, p := range props {
		m[p.key] = p
	}
	return freeze(m)
}

// Select returns the propositions with the given predicate, sorted by key.
func (s State) Select(predicate string) []Proposition {
	var out []Proposition
	for _, p := range s.Propositions() {
		if p.predicate == predicate {
			out = append(out, p)
		}
	}
	return out
}

func (s State) String() string { return s.Key() }

func (s State) clone() map[string]Proposition {
	m := make(map[string]Proposition, len(s.props))
	for k, p := range s.props {
		m[k] = p
	}
	return m
}
