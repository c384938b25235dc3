package store

import (
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// SQLiteStore persists runs and results to SQLite.
// It is suitable for single-process use.
type SQLiteStore struct {
	db     *sql.DB
	policy RetryPolicy
	mu     sync.RWMutex
	closed bool
}

// SQLiteOption configures a SQLiteStore.
type SQLiteOption func(*SQLiteStore)

// WithRetry sets how writes are retried while the database is locked.
// Default: DefaultRetry
func WithRetry(p RetryPolicy) SQLiteOption {
	return func(s *SQLiteStore) {
		s.policy = p
	}
}

// timeLayout is fixed width so that started_at sorts as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

const schema = `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		started_at TEXT NOT NULL,
		templates TEXT NOT NULL,
		case_sensitive INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS results (
		run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		sequence INTEGER NOT NULL,
		source TEXT NOT NULL,
		line INTEGER NOT NULL,
		template TEXT NOT NULL,
		mapping TEXT NOT NULL,
		PRIMARY KEY (run_id, sequence)
	);
`

// NewSQLiteStore creates a new SQLite result store.
// The path should be a file path (e.g., "./results.db") or ":memory:" for testing.
func NewSQLiteStore(path string, opts ...SQLiteOption) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Each connection to ":memory:" is a separate database.
	db.SetMaxOpenConns(1)

	// Enable WAL mode for better concurrent read performance
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}

	s := &SQLiteStore{db: db, policy: DefaultRetry}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// SaveRun implements Store.
func (s *SQLiteStore) SaveRun(run Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStoreClosed
	}

	templates, err := marshalTemplates(run.Templates)
	if err != nil {
		return err
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now().UTC()
	}

	_, err = s.exec(`
		INSERT INTO runs (id, started_at, templates, case_sensitive)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			started_at = excluded.started_at,
			templates = excluded.templates,
			case_sensitive = excluded.case_sensitive
	`, run.ID, run.StartedAt.UTC().Format(timeLayout), string(templates), run.CaseSensitive)
	if err != nil {
		return fmt.Errorf("save run: %w", err)
	}
	return nil
}

// LoadRun implements Store.
func (s *SQLiteStore) LoadRun(runID string) (Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return Run{}, ErrStoreClosed
	}

	row := s.db.QueryRow(`
		SELECT id, started_at, templates, case_sensitive
		FROM runs WHERE id = ?
	`, runID)

	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, ErrNotFound
	}
	if err != nil {
		return Run{}, fmt.Errorf("load run: %w", err)
	}
	return run, nil
}

// ListRuns implements Store.
func (s *SQLiteStore) ListRuns() ([]Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrStoreClosed
	}

	rows, err := s.db.Query(`
		SELECT id, started_at, templates, case_sensitive
		FROM runs
		ORDER BY started_at, id
	`)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// SaveResult implements Store.
func (s *SQLiteStore) SaveResult(res Result) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return 0, ErrStoreClosed
	}

	mapping, err := marshalMapping(res.Mapping)
	if err != nil {
		return 0, err
	}

	var exists bool
	if err := s.db.QueryRow(`SELECT EXISTS(SELECT 1 FROM runs WHERE id = ?)`, res.RunID).Scan(&exists); err != nil {
		return 0, fmt.Errorf("save result: %w", err)
	}
	if !exists {
		return 0, ErrNotFound
	}

	// Sequence is max + 1 for this run
	seq, err := retry(s.policy, isBusy, func() (int, error) {
		var n int
		err := s.db.QueryRow(`
			INSERT INTO results (run_id, sequence, source, line, template, mapping)
			VALUES (
				?,
				COALESCE((SELECT MAX(sequence) FROM results WHERE run_id = ?), 0) + 1,
				?, ?, ?, ?
			)
			RETURNING sequence
		`, res.RunID, res.RunID, res.Source, res.Line, res.Template, string(mapping)).Scan(&n)
		return n, err
	})
	if err != nil {
		return 0, fmt.Errorf("save result: %w", err)
	}
	return seq, nil
}

// ListResults implements Store.
func (s *SQLiteStore) ListResults(runID string) ([]Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrStoreClosed
	}

	rows, err := s.db.Query(`
		SELECT sequence, source, line, template, mapping
		FROM results
		WHERE run_id = ?
		ORDER BY sequence
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}
	defer rows.Close()

	var results []Result
	for rows.Next() {
		res := Result{RunID: runID}
		var mapping string
		if err := rows.Scan(&res.Sequence, &res.Source, &res.Line, &res.Template, &mapping); err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		if res.Mapping, err = unmarshalMapping([]byte(mapping)); err != nil {
			return nil, err
		}
		results = append(results, res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate results: %w", err)
	}
	return results, nil
}

// DeleteRun implements Store.
func (s *SQLiteStore) DeleteRun(runID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStoreClosed
	}

	if _, err := s.exec(`DELETE FROM results WHERE run_id = ?`, runID); err != nil {
		return fmt.Errorf("delete run results: %w", err)
	}
	if _, err := s.exec(`DELETE FROM runs WHERE id = ?`, runID); err != nil {
		return fmt.Errorf("delete run: %w", err)
	}
	return nil
}

// Close implements Store.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}

	s.closed = true
	return s.db.Close()
}

// exec runs a write statement under the retry policy.
func (s *SQLiteStore) exec(query string, args ...any) (sql.Result, error) {
	return retry(s.policy, isBusy, func() (sql.Result, error) {
		return s.db.Exec(query, args...)
	})
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (Run, error) {
	var (
		run       Run
		startedAt string
		templates string
	)
	if err := row.Scan(&run.ID, &startedAt, &templates, &run.CaseSensitive); err != nil {
		return Run{}, err
	}

	var err error
	if run.StartedAt, err = time.Parse(timeLayout, startedAt); err != nil {
		return Run{}, fmt.Errorf("parse started_at: %w", err)
	}
	if run.Templates, err = unmarshalTemplates([]byte(templates)); err != nil {
		return Run{}, err
	}
	return run, nil
}
