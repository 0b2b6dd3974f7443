package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/cognicore/hearth/pkg/hearth/internalerr"
	"github.com/cognicore/hearth/pkg/hearth/store"
)

// timeLayout is fixed width so that created_at sorts lexically
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// sqliteStore implements the Store interface using SQLite
type sqliteStore struct {
	db *sql.DB
}

// OpenSQLite opens a SQLite database with WAL mode enabled.
func OpenSQLite(ctx context.Context, path string) (store.Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", internalerr.ErrStoreUnavailable, err)
	}

	// Enable WAL mode for better concurrency
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %v", internalerr.ErrStoreUnavailable, err)
	}

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &sqliteStore{db: db}, nil
}

// Close closes the database connection
func (s *sqliteStore) Close() error {
	return s.db.Close()
}

// initSchema creates tables if they don't exist
func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	scenario TEXT NOT NULL,
	status TEXT NOT NULL,
	ordering TEXT,
	actions TEXT,
	expanded INTEGER DEFAULT 0,
	duration_ms INTEGER DEFAULT 0,
	created_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_runs_scenario_created ON runs(scenario, created_at);
`

	_, err := db.ExecContext(ctx, schema)
	return err
}

// SaveRun inserts or replaces a run
func (s *sqliteStore) SaveRun(ctx context.Context, r store.Run) error {
	if r.ID == "" {
		return fmt.Errorf("save run: empty id: %w", internalerr.ErrInvalidInput)
	}
	actionsJSON, err := json.Marshal(r.Actions)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
INSERT INTO runs (id, scenario, status, ordering, actions, expanded, duration_ms, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
	scenario=excluded.scenario,
	status=excluded.status,
	ordering=excluded.ordering,
	actions=excluded.actions,
	expanded=excluded.expanded,
	duration_ms=excluded.duration_ms,
	created_at=excluded.created_at;
`,
		r.ID,
		r.Scenario,
		string(r.Status),
		r.Ordering,
		string(actionsJSON),
		r.Expanded,
		r.DurationMS,
		r.CreatedAt.UTC().Format(timeLayout),
	)
	return err
}

// GetRun retrieves a run by ID
func (s *sqliteStore) GetRun(ctx context.Context, id string) (store.Run, bool, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT id, scenario, status, ordering, actions, expanded, duration_ms, created_at
FROM runs WHERE id = ?`, id)

	r, err := scanRun(row)
	if err == sql.ErrNoRows {
		return store.Run{}, false, nil
	}
	if err != nil {
		return store.Run{}, false, err
	}
	return r, true, nil
}

// ListRuns returns runs newest first, optionally filtered by scenario
func (s *sqliteStore) ListRuns(ctx context.Context, scenario string, limit int) ([]store.Run, error) {
	if limit <= 0 {
		limit = store.DefaultListLimit
	}

	rows, err := s.db.QueryContext(ctx, `
SELECT id, scenario, status, ordering, actions, expanded, duration_ms, created_at
FROM runs
WHERE ? = '' OR scenario = ?
ORDER BY created_at DESC, id DESC
LIMIT ?;
`, scenario, scenario, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []store.Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (store.Run, error) {
	var (
		r           store.Run
		status      string
		ordering    sql.NullString
		actionsJSON sql.NullString
		createdAt   string
	)
	if err := sc.Scan(&r.ID, &r.Scenario, &status, &ordering, &actionsJSON, &r.Expanded, &r.DurationMS, &createdAt); err != nil {
		return store.Run{}, err
	}
	r.Status = store.Status(status)
	r.Ordering = ordering.String

	if actionsJSON.Valid && actionsJSON.String != "" {
		if err := json.Unmarshal([]byte(actionsJSON.String), &r.Actions); err != nil {
			return store.Run{}, fmt.Errorf("decode actions for run %s: %w", r.ID, err)
		}
	}

	t, err := time.Parse(timeLayout, createdAt)
	if err != nil {
		return store.Run{}, fmt.Errorf("decode created_at for run %s: %w", r.ID, err)
	}
	r.CreatedAt = t
	return r, nil
}
