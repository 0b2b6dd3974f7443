package store

import (
	"context"
	"time"
)

// Store is the journal of planning runs
type Store interface {
	Close() error

	SaveRun(ctx context.Context, r Run) error
	GetRun(ctx context.Context, id string) (Run, bool, error)
	// ListRuns returns runs newest first. An empty scenario matches all.
	ListRuns(ctx context.Context, scenario string, limit int) ([]Run, error)
}

// Status is the outcome of a run
type Status string

const (
	StatusSolved           Status = "solved"
	StatusAlreadySatisfied Status = "already_satisfied"
	StatusNoPlan           Status = "no_plan"
	StatusTimeout          Status = "timeout"
	StatusCanceled         Status = "canceled"
)

// Run represents one recorded solve call
type Run struct {
	ID         string // ULID
	Scenario   string
	Status     Status
	Ordering   string
	Actions    []string // e.g. "turn_on(kitchen)"
	Expanded   int
	DurationMS int64
	CreatedAt  time.Time
}

// DefaultListLimit applies when ListRuns is called with limit <= 0
const DefaultListLimit = 20
