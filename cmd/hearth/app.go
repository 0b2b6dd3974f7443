package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/cognicore/hearth/internal/logging"
	"github.com/cognicore/hearth/pkg/hearth"
	"github.com/cognicore/hearth/pkg/hearth/config"
	"github.com/cognicore/hearth/pkg/hearth/planner"
	"github.com/cognicore/hearth/pkg/hearth/store"
	"github.com/cognicore/hearth/pkg/hearth/store/memstore"
	"github.com/cognicore/hearth/pkg/hearth/store/sqlite"
)

// Version information set at build time.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// globalOptions are the persistent flags shared by every command.
type globalOptions struct {
	domainPath  string
	initialPath string
	dbPath      string
	ordering    string
	timeout     time.Duration
	logLevel    string
	logFormat   string
}

// App represents the CLI application.
type App struct {
	root   *cobra.Command
	stdout io.Writer
	stderr io.Writer
	opts   globalOptions
}

// NewApp creates a new CLI application.
func NewApp() *App {
	app := &App{
		stdout: os.Stdout,
		stderr: os.Stderr,
	}

	app.root = &cobra.Command{
		Use:   "hearth",
		Short: "Goal-directed planner for smart home lighting",
		Long: `hearth finds a sequence of light switch actions that takes the house from
its initial state to the lights described by a scenario (morning, night,
movie, party, or any scenario in a custom domain file).

The planner searches depth-first and returns the first plan it finds.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := app.root.PersistentFlags()
	flags.StringVar(&app.opts.domainPath, "domain", "", "Domain YAML file (built-in smart home domain if empty)")
	flags.StringVar(&app.opts.initialPath, "initial", "", "Facts file overriding the domain's initial state")
	flags.StringVar(&app.opts.dbPath, "db", "", "SQLite run journal (in-memory if empty)")
	flags.StringVar(&app.opts.ordering, "ordering", "relevant", "Action expansion order: relevant or declaration")
	flags.DurationVar(&app.opts.timeout, "timeout", hearth.DefaultTimeout, "Planning timeout per scenario")
	flags.StringVar(&app.opts.logLevel, "log-level", "warn", "Log level: trace, debug, info, warn, error")
	flags.StringVar(&app.opts.logFormat, "log-format", "console", "Log format: console or json")

	app.root.AddCommand(
		app.newVersionCmd(),
		app.newSolveCmd(),
		app.newScenariosCmd(),
		app.newShowCmd(),
		app.newHistoryCmd(),
	)

	return app
}

// WithOutput sets custom output writers.
func (a *App) WithOutput(stdout, stderr io.Writer) *App {
	a.stdout = stdout
	a.stderr = stderr
	a.root.SetOut(stdout)
	a.root.SetErr(stderr)
	return a
}

// Execute runs the CLI application.
func (a *App) Execute(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	return a.root.ExecuteContext(ctx)
}

// ExecuteWithArgs runs the CLI with specific arguments (useful for testing).
func (a *App) ExecuteWithArgs(ctx context.Context, args []string) error {
	a.root.SetArgs(args)
	return a.Execute(ctx)
}

// openEngine builds the planner facade from the global flags. The caller
// must Close it.
func (a *App) openEngine(ctx context.Context) (*hearth.Hearth, error) {
	ordering, err := planner.ParseOrdering(a.opts.ordering)
	if err != nil {
		return nil, err
	}

	logging.Init(logging.Config{
		Level:  a.opts.logLevel,
		Format: a.opts.logFormat,
		Output: a.stderr,
	})

	loader := config.Loader{DomainPath: a.opts.domainPath, InitialPath: a.opts.initialPath}
	domain, err := loader.Load()
	if err != nil {
		return nil, err
	}

	var journal store.Store
	if a.opts.dbPath != "" {
		journal, err = sqlite.OpenSQLite(ctx, a.opts.dbPath)
		if err != nil {
			return nil, err
		}
	} else {
		journal = memstore.New()
	}

	engine, err := hearth.New(hearth.Options{
		Domain:   domain,
		Store:    journal,
		Ordering: ordering,
		Timeout:  a.opts.timeout,
	})
	if err != nil {
		journal.Close()
		return nil, err
	}
	return engine, nil
}

// newVersionCmd creates the version command.
func (a *App) newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(a.stdout, "hearth version %s\n", Version)
			fmt.Fprintf(a.stdout, "  Git commit: %s\n", GitCommit)
			fmt.Fprintf(a.stdout, "  Build date: %s\n", BuildDate)
		},
	}
}
