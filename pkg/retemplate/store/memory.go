package store

import (
	"cmp"
	"slices"
	"sync"
	"time"
)

// MemoryStore is an in-memory result store for tests and one-off scans.
// Data is lost when the process exits.
type MemoryStore struct {
	mu      sync.RWMutex
	runs    map[string]Run
	results map[string][]Result // runID -> results in sequence order
	closed  bool
}

// NewMemoryStore creates a new in-memory result store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		runs:    make(map[string]Run),
		results: make(map[string][]Result),
	}
}

// SaveRun implements Store.
func (m *MemoryStore) SaveRun(run Run) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrStoreClosed
	}

	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now().UTC()
	}
	run.Templates = slices.Clone(run.Templates)
	m.runs[run.ID] = run
	return nil
}

// LoadRun implements Store.
func (m *MemoryStore) LoadRun(runID string) (Run, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return Run{}, ErrStoreClosed
	}

	run, ok := m.runs[runID]
	if !ok {
		return Run{}, ErrNotFound
	}
	run.Templates = slices.Clone(run.Templates)
	return run, nil
}

// ListRuns implements Store.
func (m *MemoryStore) ListRuns() ([]Run, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, ErrStoreClosed
	}

	runs := make([]Run, 0, len(m.runs))
	for _, run := range m.runs {
		run.Templates = slices.Clone(run.Templates)
		runs = append(runs, run)
	}
	slices.SortFunc(runs, compareRuns)
	return runs, nil
}

// SaveResult implements Store.
func (m *MemoryStore) SaveResult(res Result) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return 0, ErrStoreClosed
	}
	if _, ok := m.runs[res.RunID]; !ok {
		return 0, ErrNotFound
	}

	res.Sequence = len(m.results[res.RunID]) + 1
	m.results[res.RunID] = append(m.results[res.RunID], res)
	return res.Sequence, nil
}

// ListResults implements Store.
func (m *MemoryStore) ListResults(runID string) ([]Result, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, ErrStoreClosed
	}
	return slices.Clone(m.results[runID]), nil
}

// DeleteRun implements Store.
func (m *MemoryStore) DeleteRun(runID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrStoreClosed
	}

	delete(m.runs, runID)
	delete(m.results, runID)
	return nil
}

// Close implements Store.
func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true
	m.runs = nil
	m.results = nil
	return nil
}

// Len returns the total number of results across all runs.
// Useful for testing.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	count := 0
	for _, results := range m.results {
		count += len(results)
	}
	return count
}

// compareRuns orders runs by start time, then ID.
func compareRuns(a, b Run) int {
	if c := a.StartedAt.Compare(b.StartedAt); c != 0 {
		return c
	}
	return cmp.Compare(a.ID, b.ID)
}
