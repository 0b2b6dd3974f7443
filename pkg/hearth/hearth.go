package hearth

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/felixgeelhaar/bolt/v3"
	"github.com/oklog/ulid/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/cognicore/hearth/internal/logging"
	"github.com/cognicore/hearth/pkg/hearth/catalog"
	"github.com/cognicore/hearth/pkg/hearth/config"
	"github.com/cognicore/hearth/pkg/hearth/fact"
	"github.com/cognicore/hearth/pkg/hearth/internalerr"
	"github.com/cognicore/hearth/pkg/hearth/planner"
	"github.com/cognicore/hearth/pkg/hearth/store"
)

// DefaultTimeout bounds a single solve when Options.Timeout is zero.
const DefaultTimeout = 5 * time.Second

const tracerName = "github.com/cognicore/hearth"

var (
	// ErrUnknownScenario is returned for scenario names with no configured goal.
	ErrUnknownScenario = fmt.Errorf("unknown scenario: %w", internalerr.ErrNotFound)

	// ErrTimeout is returned when planning outlives Options.Timeout.
	ErrTimeout = fmt.Errorf("planning timed out: %w", context.DeadlineExceeded)
)

// Hearth is the planning facade: a domain, a planner and an optional run journal
type Hearth struct {
	domain  *config.Components
	planner *planner.Planner
	store   store.Store
	timeout time.Duration
	log     *bolt.Logger
	tracer  trace.Tracer

	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy

	plan planFunc
}

// planFunc is the search entry point, planner.PlanWithStats by default.
type planFunc func(goal, start fact.State) ([]catalog.Action, planner.Stats, error)

// Options configures a Hearth instance
type Options struct {
	Domain   *config.Components // built-in smart home domain when nil
	Store    store.Store        // runs are not journaled when nil
	Ordering planner.Ordering
	Timeout  time.Duration // DefaultTimeout when zero, unbounded when negative
	Logger   *bolt.Logger  // logging.Get() when nil

	plan planFunc // replaces the planner's search when set
}

// New creates a Hearth instance with the given dependencies
func New(opts Options) (*Hearth, error) {
	domain := opts.Domain
	if domain == nil {
		d, err := config.Default()
		if err != nil {
			return nil, fmt.Errorf("load default domain: %w", err)
		}
		if domain, err = d.Build(); err != nil {
			return nil, fmt.Errorf("build default domain: %w", err)
		}
	}
	if domain.Catalog == nil {
		return nil, fmt.Errorf("domain has no action catalog: %w", internalerr.ErrInvalidConfig)
	}

	timeout := opts.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Get()
	}

	p := planner.New(domain.Catalog, planner.WithOrdering(opts.Ordering))
	plan := opts.plan
	if plan == nil {
		plan = p.PlanWithStats
	}
	return &Hearth{
		domain:  domain,
		planner: p,
		store:   opts.Store,
		timeout: timeout,
		log:     logger,
		tracer:  otel.Tracer(tracerName),
		entropy: ulid.Monotonic(rand.Reader, 0),
		plan:    plan,
	}, nil
}

// Close releases the run journal, if any
func (h *Hearth) Close() error {
	if h.store == nil {
		return nil
	}
	return h.store.Close()
}

// Result is the outcome of one Solve call
type Result struct {
	ID               string // ULID
	Scenario         string
	Ordering         planner.Ordering
	Goal             fact.State
	Initial          fact.State
	Actions          []catalog.Action
	AlreadySatisfied bool // Actions is empty because Initial already satisfies Goal
	Stats            planner.Stats
	Duration         time.Duration
	CreatedAt        time.Time
}

// Steps is the plan length.
func (r Result) Steps() int { return len(r.Actions) }

// Scenarios returns the configured scenario names in sorted order
func (h *Hearth) Scenarios() []string {
	names := make([]string, 0, len(h.domain.Scenarios))
	for name := range h.domain.Scenarios {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Goal returns the goal of a scenario
func (h *Hearth) Goal(name string) (fact.State, bool) {
	goal, ok := h.domain.Scenarios[name]
	return goal, ok
}

// Initial returns the configured start state
func (h *Hearth) Initial() fact.State { return h.domain.Initial }

// Catalog returns the ground action table
func (h *Hearth) Catalog() *catalog.Catalog { return h.domain.Catalog }

// Labels maps entity names to display names
func (h *Hearth) Labels() map[string]string {
	out := make(map[string]string, len(h.domain.Labels))
	for k, v := range h.domain.Labels {
		out[k] = v
	}
	return out
}

// Ordering returns the planner's expansion order
func (h *Hearth) Ordering() planner.Ordering { return h.planner.Ordering() }

// Plan returns only the action sequence for a scenario
func (h *Hearth) Plan(ctx context.Context, scenario string) ([]catalog.Action, error) {
	res, err := h.Solve(ctx, scenario)
	if err != nil {
		return nil, err
	}
	return res.Actions, nil
}

// Solve plans from the initial state to the scenario's goal. Every call
// starts from an empty search history. A scenario with no plan fails with
// planner.ErrNoPlan; the result still carries its ID and search stats.
func (h *Hearth) Solve(ctx context.Context, scenario string) (Result, error) {
	goal, ok := h.domain.Scenarios[scenario]
	if !ok {
		return Result{}, fmt.Errorf("%w: %q", ErrUnknownScenario, scenario)
	}

	ctx, span := h.tracer.Start(ctx, "hearth.solve", trace.WithAttributes(
		attribute.String("hearth.scenario", scenario),
		attribute.String("hearth.ordering", h.planner.Ordering().String()),
	))
	defer span.End()

	res := Result{
		ID:        h.newID(),
		Scenario:  scenario,
		Ordering:  h.planner.Ordering(),
		Goal:      goal,
		Initial:   h.domain.Initial,
		CreatedAt: time.Now().UTC(),
	}
	span.SetAttributes(attribute.String("hearth.run_id", res.ID))

	logging.With(h.log.Debug(),
		logging.Component("hearth"),
		logging.RunID(res.ID),
		logging.Scenario(scenario),
		logging.Ordering(res.Ordering.String()),
	).Msg("solve started")

	start := time.Now()
	actions, stats, err := h.search(ctx, goal, res.Initial)
	res.Duration = time.Since(start)
	res.Stats = stats
	if err == nil {
		res.Actions = actions
		res.AlreadySatisfied = len(actions) == 0
	}

	h.journal(ctx, res, err)

	span.SetAttributes(
		attribute.Int("hearth.steps", len(res.Actions)),
		attribute.Int("hearth.expanded", stats.Expanded),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		logging.With(h.log.Warn(),
			logging.Component("hearth"),
			logging.RunID(res.ID),
			logging.Scenario(scenario),
			logging.Duration(res.Duration),
			logging.ErrorField(err),
		).Msg("solve failed")
		return res, fmt.Errorf("solve %s: %w", scenario, err)
	}

	span.SetStatus(codes.Ok, "")
	logging.With(h.log.Info(),
		logging.Component("hearth"),
		logging.RunID(res.ID),
		logging.Scenario(scenario),
		logging.Steps(len(res.Actions)),
		logging.Expanded(stats.Expanded),
		logging.Satisfied(res.AlreadySatisfied),
		logging.Duration(res.Duration),
	).Msg("solve finished")
	return res, nil
}

type searchOutcome struct {
	actions []catalog.Action
	stats   planner.Stats
	err     error
}

// search runs the planner on its own goroutine and gives up when ctx is done
// or the timeout fires. An abandoned search runs to completion in the
// background and its outcome is dropped.
func (h *Hearth) search(ctx context.Context, goal, start fact.State) ([]catalog.Action, planner.Stats, error) {
	runCtx := ctx
	if h.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	done := make(chan searchOutcome, 1)
	go func() {
		actions, stats, err := h.plan(goal, start)
		done <- searchOutcome{actions: actions, stats: stats, err: err}
	}()

	select {
	case out := <-done:
		return out.actions, out.stats, out.err
	case <-runCtx.Done():
		if ctx.Err() != nil {
			return nil, planner.Stats{}, ctx.Err()
		}
		return nil, planner.Stats{}, ErrTimeout
	}
}

// SolveAll solves several scenarios concurrently. Results are in input
// order. The first error cancels the remaining solves and is returned.
func (h *Hearth) SolveAll(ctx context.Context, scenarios []string) ([]Result, error) {
	results := make([]Result, len(scenarios))
	g, gctx := errgroup.WithContext(ctx)
	for i, name := range scenarios {
		g.Go(func() error {
			res, err := h.Solve(gctx, name)
			results[i] = res
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

// Runs lists journaled runs, newest first
func (h *Hearth) Runs(ctx context.Context, scenario string, limit int) ([]store.Run, error) {
	if h.store == nil {
		return nil, fmt.Errorf("no run journal configured: %w", internalerr.ErrStoreUnavailable)
	}
	return h.store.ListRuns(ctx, scenario, limit)
}

// Run returns one journaled run by ID
func (h *Hearth) Run(ctx context.Context, id string) (store.Run, bool, error) {
	if h.store == nil {
		return store.Run{}, false, fmt.Errorf("no run journal configured: %w", internalerr.ErrStoreUnavailable)
	}
	return h.store.GetRun(ctx, id)
}

// journal records the run. A journal failure is logged and does not fail
// the solve.
func (h *Hearth) journal(ctx context.Context, res Result, solveErr error) {
	if h.store == nil {
		return
	}

	run := store.Run{
		ID:         res.ID,
		Scenario:   res.Scenario,
		Status:     runStatus(res, solveErr),
		Ordering:   res.Ordering.String(),
		Actions:    make([]string, len(res.Actions)),
		Expanded:   res.Stats.Expanded,
		DurationMS: res.Duration.Milliseconds(),
		CreatedAt:  res.CreatedAt,
	}
	for i, a := range res.Actions {
		run.Actions[i] = a.String()
	}

	if err := h.store.SaveRun(context.WithoutCancel(ctx), run); err != nil {
		logging.With(h.log.Warn(),
			logging.Component("journal"),
			logging.RunID(res.ID),
			logging.ErrorField(err),
		).Msg("save run failed")
	}
}

func runStatus(res Result, err error) store.Status {
	switch {
	case err == nil && res.AlreadySatisfied:
		return store.StatusAlreadySatisfied
	case err == nil:
		return store.StatusSolved
	case errors.Is(err, planner.ErrNoPlan):
		return store.StatusNoPlan
	case errors.Is(err, context.Canceled):
		return store.StatusCanceled
	default:
		return store.StatusTimeout
	}
}

func (h *Hearth) newID() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return ulid.MustNew(ulid.Now(), h.entropy).String()
}
