package catalog

import (
	"github.com/cognicore/hearth/pkg/hearth/fact"
)

// Action is a ground action instance such as turn_on(kitchen).
// Two actions are equal iff name and bound arguments match.
type Action struct {
	name string
	args []string
	key  string
	pre  fact.State
	add  fact.State
	del  fact.State
}

// Name returns the schema name.
func (a Action) Name() string { return a.name }

// Args returns a copy of the bound arguments.
func (a Action) Args() []string { return append([]string(nil), a.args...) }

// Arg returns the i-th bound argument, or "" if out of range.
func (a Action) Arg(i int) string {
	if i < 0 || i >= len(a.args) {
		return ""
	}
	return a.args[i]
}

// Pre returns the ground preconditions.
func (a Action) Pre() fact.State { return a.pre }

// Add returns the ground add effects.
func (a Action) Add() fact.State { return a.add }

// Del returns the ground delete effects.
func (a Action) Del() fact.State { return a.del }

// Key is the canonical call form, e.g. "turn_on(kitchen)".
func (a Action) Key() string { return a.key }

// Equal compares name and bound arguments.
func (a Action) Equal(o Action) bool { return a.key == o.key }

func (a Action) String() string { return a.key }
