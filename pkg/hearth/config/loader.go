package config

import (
	"fmt"
	"os"

	"github.com/cognicore/hearth/pkg/hearth/fact"
)

// Loader loads the domain file and an optional initial-state override
type Loader struct {
	DomainPath  string // YAML domain; the built-in domain when empty
	InitialPath string // facts file replacing the domain's initial state
}

// Load reads all configuration files and returns initialized components
func (l *Loader) Load() (*Components, error) {
	var (
		domain *Domain
		err    error
	)
	if l.DomainPath != "" {
		domain, err = LoadDomain(l.DomainPath)
	} else {
		domain, err = Default()
	}
	if err != nil {
		return nil, fmt.Errorf("load domain: %w", err)
	}

	comp, err := domain.Build()
	if err != nil {
		return nil, fmt.Errorf("build domain: %w", err)
	}

	if l.InitialPath != "" {
		data, err := os.ReadFile(l.InitialPath)
		if err != nil {
			return nil, fmt.Errorf("load initial state: %w", err)
		}
		initial, err := fact.ParseState(string(data))
		if err != nil {
			return nil, fmt.Errorf("parse initial state: %w", err)
		}
		comp.Initial = initial
	}

	return comp, nil
}
