// Package store persists scan runs and the mappings they produced.
package store

import (
	"errors"
	"time"

	"github.com/randalmurphal/retemplate/pkg/retemplate"
)

// Store persists scan runs and their results.
// Implementations must be safe for concurrent use.
type Store interface {
	// SaveRun records a run. Overwrites a run with the same ID.
	SaveRun(run Run) error

	// LoadRun retrieves a run.
	// Returns ErrNotFound if the run doesn't exist.
	LoadRun(runID string) (Run, error)

	// ListRuns returns all runs, oldest first.
	ListRuns() ([]Run, error)

	// SaveResult appends a result to its run and returns the sequence
	// number assigned to it. Returns ErrNotFound if the run doesn't exist.
	SaveResult(res Result) (int, error)

	// ListResults returns the results of a run, ordered by sequence.
	// Returns empty slice (not error) if the run has no results.
	ListResults(runID string) ([]Result, error)

	// DeleteRun removes a run and all its results.
	// Returns nil if the run doesn't exist.
	DeleteRun(runID string) error

	// Close releases any resources (connections, files).
	Close() error
}

// Run describes one scan: which templates were matched and how.
type Run struct {
	ID            string
	StartedAt     time.Time
	Templates     []string
	CaseSensitive bool
}

// Result is one mapping found during a run.
type Result struct {
	RunID string
	// Sequence is assigned by the store, starting at 1 per run.
	Sequence int
	// Source names the scanned input, usually a file path.
	Source string
	// Line is the 1-based line number within Source.
	Line     int
	Template string
	Mapping  retemplate.Mapping
}

// Sentinel errors for store operations.
var (
	// ErrNotFound indicates a run doesn't exist.
	ErrNotFound = errors.New("run not found")

	// ErrStoreClosed indicates the store has been closed.
	ErrStoreClosed = errors.New("result store closed")
)
