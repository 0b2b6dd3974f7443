// Package fact models ground propositions and the immutable states built from them.
package fact

import (
	"strconv"
	"strings"
)

// Proposition is an atomic ground fact such as light_status(kitchen, off).
// The zero value is not a valid proposition; use New.
type Proposition struct {
	predicate string
	args      []string
	key       string
}

// New creates a proposition. The argument slice is copied.
//
// Names that are not ValidName are rendered as Go-quoted strings in Key and
// String, so distinct propositions never share a key. Parse only reads the
// unquoted form.
func New(predicate string, args ...string) Proposition {
	p := Proposition{
		predicate: predicate,
		args:      append([]string(nil), args...),
	}
	p.key = render(predicate, p.args)
	return p
}

// Predicate returns the predicate name.
func (p Proposition) Predicate() string { return p.predicate }

// Args returns a copy of the ordered argument list.
func (p Proposition) Args() []string {
	return append([]string(nil), p.args...)
}

// Arg returns the i-th argument, or "" if out of range.
func (p Proposition) Arg(i int) string {
	if i < 0 || i >= len(p.args) {
		return ""
	}
	return p.args[i]
}

// Arity returns the number of arguments.
func (p Proposition) Arity() int { return len(p.args) }

// Key is the canonical text form. Two propositions are equal iff their keys are.
func (p Proposition) Key() string { return p.key }

// Equal reports whether predicate and all arguments match.
func (p Proposition) Equal(o Proposition) bool {
	if p.predicate != o.predicate || len(p.args) != len(o.args) {
		return false
	}
	for i := range p.args {
		if p.args[i] != o.args[i] {
			return false
		}
	}
	return true
}

func (p Proposition) String() string { return p.key }

// ValidName reports whether s can be written unquoted as a predicate or
// argument: non-empty, with no commas, parentheses, double quotes or
// whitespace.
func ValidName(s string) bool {
	return s != "" && !strings.ContainsAny(s, "(),\" \t\r\n\x00")
}

func name(s string) string {
	if ValidName(s) {
		return s
	}
	return strconv.Quote(s)
}

func render(predicate string, args []string) string {
	if len(args) == 0 {
		return name(predicate)
	}
	var b strings.Builder
	b.WriteString(name(predicate))
	b.WriteByte('(')
	for i, a := range args {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(name(a))
	}
	b.WriteByte(')')
	return b.String()
}
