// Package catalog holds the action schemas of a planning domain and the ground
// action instances derived from them.
//
// A Catalog is built once and never mutated afterwards, so a single value can
// be shared by any number of concurrent planners without locking.
package catalog

import (
	"fmt"
	"strings"

	"github.com/cognicore/hearth/pkg/hearth/fact"
	"github.com/cognicore/hearth/pkg/hearth/internalerr"
)

// EntityType declares a named, ordered set of constants (rooms, statuses, ...).
type EntityType struct {
	Name    string
	Members []string
}

// Param is a schema parameter ranging over the members of Type.
type Param struct {
	Name string
	Type string
}

// Template is a proposition pattern. Args starting with '?' refer to schema
// parameters; all other args are literals.
type Template struct {
	Predicate string
	Args      []string
}

// Schema is a parameterized action: name(params) with preconditions,
// add effects and delete effects.
type Schema struct {
	Name   string
	Params []Param
	Pre    []Template
	Add    []Template
	Del    []Template
}

// Catalog is the validated, read-only action table of a domain.
type Catalog struct {
	types   []EntityType
	members map[string][]string
	schemas []Schema
	actions []Action
	index   map[string]int
}

// New validates the declarations and grounds every schema.
// Instances are ordered by schema declaration order, then by binding order
// (parameters in declaration order, members in declaration order).
func New(types []EntityType, schemas []Schema) (*Catalog, error) {
	c := &Catalog{
		members: make(map[string][]string, len(types)),
		index:   make(map[string]int),
	}

	constants := make(map[string]bool)
	for _, t := range types {
		if t.Name == "" {
			return nil, invalid("entity type with empty name")
		}
		if _, dup := c.members[t.Name]; dup {
			return nil, invalid("duplicate entity type %q", t.Name)
		}
		seen := make(map[string]bool, len(t.Members))
		for _, m := range t.Members {
			if !fact.ValidName(m) || strings.HasPrefix(m, "?") {
				return nil, invalid("entity type %q: invalid member %q", t.Name, m)
			}
			if seen[m] {
				return nil, invalid("entity type %q: duplicate member %q", t.Name, m)
			}
			seen[m] = true
			constants[m] = true
		}
		members := append([]string(nil), t.Members...)
		c.members[t.Name] = members
		c.types = append(c.types, EntityType{Name: t.Name, Members: members})
	}

	names := make(map[string]bool, len(schemas))
	for _, s := range schemas {
		if err := validateSchema(s, c.members, constants); err != nil {
			return nil, err
		}
		if names[s.Name] {
			return nil, invalid("duplicate action schema %q", s.Name)
		}
		names[s.Name] = true
		c.schemas = append(c.schemas, copySchema(s))
	}

	for _, s := range c.schemas {
		for _, binding := range c.bindings(s.Params) {
			a := ground(s, binding)
			c.index[a.Key()] = len(c.actions)
			c.actions = append(c.actions, a)
		}
	}

	return c, nil
}

func validateSchema(s Schema, types map[string][]string, constants map[string]bool) error {
	if s.Name == "" {
		return invalid("action schema with empty name")
	}
	if !fact.ValidName(s.Name) {
		return invalid("invalid action schema name %q", s.Name)
	}
	params := make(map[string]bool, len(s.Params))
	for _, p := range s.Params {
		if p.Name == "" {
			return invalid("action %q: parameter with empty name", s.Name)
		}
		if params[p.Name] {
			return invalid("action %q: duplicate parameter %q", s.Name, p.Name)
		}
		if _, ok := types[p.Type]; !ok {
			return invalid("action %q: parameter %q has undeclared type %q", s.Name, p.Name, p.Type)
		}
		params[p.Name] = true
	}

	check := func(section string, tmpls []Template) error {
		for _, t := range tmpls {
			if t.Predicate == "" {
				return invalid("action %q: %s template with empty predicate", s.Name, section)
			}
			if !fact.ValidName(t.Predicate) {
				return invalid("action %q: %s template with invalid predicate %q", s.Name, section, t.Predicate)
			}
			for _, arg := range t.Args {
				if name, ok := strings.CutPrefix(arg, "?"); ok {
					if !params[name] {
						return invalid("action %q: %s %s references undeclared parameter %q",
							s.Name, section, renderTemplate(t), arg)
					}
					continue
				}
				if !constants[arg] {
					return invalid("action %q: %s %s references undeclared entity %q",
						s.Name, section, renderTemplate(t), arg)
				}
			}
		}
		return nil
	}

	if err := check("precondition", s.Pre); err != nil {
		return err
	}
	if err := check("add effect", s.Add); err != nil {
		return err
	}
	return check("delete effect", s.Del)
}

// bindings enumerates the cartesian product of parameter members.
func (c *Catalog) bindings(params []Param) []map[string]string {
	out := []map[string]string{{}}
	for _, p := range params {
		var next []map[string]string
		for _, partial := range out {
			for _, m := range c.members[p.Type] {
				b := make(map[string]string, len(partial)+1)
				for k, v := range partial {
					b[k] = v
				}
				b[p.Name] = m
				next = append(next, b)
			}
		}
		out = next
	}
	return out
}

func ground(s Schema, binding map[string]string) Action {
	args := make([]string, len(s.Params))
	for i, p := range s.Params {
		args[i] = binding[p.Name]
	}
	return Action{
		name: s.Name,
		args: args,
		key:  renderCall(s.Name, args),
		pre:  instantiate(s.Pre, binding),
		add:  instantiate(s.Add, binding),
		del:  instantiate(s.Del, binding),
	}
}

func instantiate(tmpls []Template, binding map[string]string) fact.State {
	props := make([]fact.Proposition, 0, len(tmpls))
	for _, t := range tmpls {
		args := make([]string, len(t.Args))
		for i, arg := range t.Args {
			if name, ok := strings.CutPrefix(arg, "?"); ok {
				args[i] = binding[name]
			} else {
				args[i] = arg
			}
		}
		props = append(props, fact.New(t.Predicate, args...))
	}
	return fact.NewState(props...)
}

// Actions returns every ground instance in table order.
func (c *Catalog) Actions() []Action {
	return append([]Action(nil), c.actions...)
}

// Len returns the number of ground instances.
func (c *Catalog) Len() int { return len(c.actions) }

// Schemas returns a copy of the declared schemas.
func (c *Catalog) Schemas() []Schema {
	out := make([]Schema, len(c.schemas))
	for i, s := range c.schemas {
		out[i] = copySchema(s)
	}
	return out
}

// Types returns a copy of the declared entity types.
func (c *Catalog) Types() []EntityType {
	out := make([]EntityType, len(c.types))
	for i, t := range c.types {
		out[i] = EntityType{Name: t.Name, Members: append([]string(nil), t.Members...)}
	}
	return out
}

// Members returns the members of an entity type, or nil if undeclared.
func (c *Catalog) Members(typeName string) []string {
	m, ok := c.members[typeName]
	if !ok {
		return nil
	}
	return append([]string(nil), m...)
}

// Lookup finds the ground instance name(args...).
func (c *Catalog) Lookup(name string, args ...string) (Action, bool) {
	i, ok := c.index[renderCall(name, args)]
	if !ok {
		return Action{}, false
	}
	return c.actions[i], true
}

// Applicable returns the instances whose preconditions hold in s, in table order.
func (c *Catalog) Applicable(s fact.State) []Action {
	var out []Action
	for _, a := range c.actions {
		if s.Satisfies(a.pre) {
			out = append(out, a)
		}
	}
	return out
}

func copySchema(s Schema) Schema {
	return Schema{
		Name:   s.Name,
		Params: append([]Param(nil), s.Params...),
		Pre:    copyTemplates(s.Pre),
		Add:    copyTemplates(s.Add),
		Del:    copyTemplates(s.Del),
	}
}

func copyTemplates(in []Template) []Template {
	out := make([]Template, len(in))
	for i, t := range in {
		out[i] = Template{Predicate: t.Predicate, Args: append([]string(nil), t.Args...)}
	}
	return out
}

func renderTemplate(t Template) string {
	return renderCall(t.Predicate, t.Args)
}

func renderCall(name string, args []string) string {
	return name + "(" + strings.Join(args, ", ") + ")"
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("catalog: %s: %w", fmt.Sprintf(format, args...), internalerr.ErrInvalidConfig)
}
