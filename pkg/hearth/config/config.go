package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cognicore/hearth/pkg/hearth/catalog"
	"github.com/cognicore/hearth/pkg/hearth/fact"
	"github.com/cognicore/hearth/pkg/hearth/internalerr"
)

//go:embed default.yaml
var defaultDomain []byte

// Domain is the YAML form of a planning domain
type Domain struct {
	Entities  []Entity            `yaml:"entities"`
	Actions   []Action            `yaml:"actions"`
	Initial   []string            `yaml:"initial"`
	Scenarios map[string][]string `yaml:"scenarios"`
}

// Entity declares an entity type, its members and optional display labels
type Entity struct {
	Type    string            `yaml:"type"`
	Members []string          `yaml:"members"`
	Labels  map[string]string `yaml:"labels"`
}

// Action declares an action schema. Propositions use "pred(?param, literal)" syntax.
type Action struct {
	Name   string   `yaml:"name"`
	Params []Param  `yaml:"params"`
	Pre    []string `yaml:"pre"`
	Add    []string `yaml:"add"`
	Del    []string `yaml:"del"`
}

// Param declares a typed action parameter
type Param struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

// LoadDomain loads a domain from a YAML file
func LoadDomain(path string) (*Domain, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseDomain(data)
}

// ParseDomain parses a YAML domain
func ParseDomain(data []byte) (*Domain, error) {
	var d Domain
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// Default returns the built-in smart home domain
func Default() (*Domain, error) {
	return ParseDomain(defaultDomain)
}

// Components holds the planning inputs built from a Domain
type Components struct {
	Catalog   *catalog.Catalog
	Initial   fact.State
	Scenarios map[string]fact.State
	Labels    map[string]string
}

// Build validates the domain and constructs the catalog, initial state and
// scenario goals. Initial and goal propositions are not checked against the
// declared entities.
func (d *Domain) Build() (*Components, error) {
	types := make([]catalog.EntityType, 0, len(d.Entities))
	labels := make(map[string]string)
	for _, e := range d.Entities {
		types = append(types, catalog.EntityType{Name: e.Type, Members: e.Members})
		for member, label := range e.Labels {
			labels[member] = label
		}
	}

	schemas := make([]catalog.Schema, 0, len(d.Actions))
	for _, a := range d.Actions {
		s, err := a.schema()
		if err != nil {
			return nil, err
		}
		schemas = append(schemas, s)
	}

	cat, err := catalog.New(types, schemas)
	if err != nil {
		return nil, err
	}

	initial, err := fact.ParseAll(d.Initial)
	if err != nil {
		return nil, fmt.Errorf("initial state: %v: %w", err, internalerr.ErrInvalidConfig)
	}

	scenarios := make(map[string]fact.State, len(d.Scenarios))
	for name, goal := range d.Scenarios {
		if name == "" {
			return nil, fmt.Errorf("scenario with empty name: %w", internalerr.ErrInvalidConfig)
		}
		props, err := fact.ParseAll(goal)
		if err != nil {
			return nil, fmt.Errorf("scenario %q: %v: %w", name, err, internalerr.ErrInvalidConfig)
		}
		scenarios[name] = fact.NewState(props...)
	}

	return &Components{
		Catalog:   cat,
		Initial:   fact.NewState(initial...),
		Scenarios: scenarios,
		Labels:    labels,
	}, nil
}

func (a Action) schema() (catalog.Schema, error) {
	s := catalog.Schema{Name: a.Name}
	for _, p := range a.Params {
		s.Params = append(s.Params, catalog.Param{Name: p.Name, Type: p.Type})
	}

	var err error
	if s.Pre, err = templates(a.Name, "pre", a.Pre); err != nil {
		return s, err
	}
	if s.Add, err = templates(a.Name, "add", a.Add); err != nil {
		return s, err
	}
	if s.Del, err = templates(a.Name, "del", a.Del); err != nil {
		return s, err
	}
	return s, nil
}

func templates(action, section string, lines []string) ([]catalog.Template, error) {
	props, err := fact.ParseAll(lines)
	if err != nil {
		return nil, fmt.Errorf("action %q %s: %v: %w", action, section, err, internalerr.ErrInvalidConfig)
	}
	out := make([]catalog.Template, len(props))
	for i, p := range props {
		out[i] = catalog.Template{Predicate: p.Predicate(), Args: p.Args()}
	}
	return out, nil
}
