package store_test

import (
	"testing"
	"time"

	"github.com/randalmurphal/retemplate/pkg/retemplate"
	"github.com/randalmurphal/retemplate/pkg/retemplate/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// storeFactory creates a store instance for testing.
type storeFactory func(t *testing.T) store.Store

func mapping(pairs ...string) retemplate.Mapping {
	var bindings []retemplate.Binding
	for i := 0; i+1 < len(pairs); i += 2 {
		bindings = append(bindings, retemplate.Binding{Name: pairs[i], Value: pairs[i+1]})
	}
	return retemplate.MappingOf(bindings...)
}

func newRun(id string, startedAt time.Time) store.Run {
	return store.Run{
		ID:            id,
		StartedAt:     startedAt,
		Templates:     []string{"{level}: {msg}"},
		CaseSensitive: true,
	}
}

// storeContractTest runs contract tests against any Store implementation.
func storeContractTest(t *testing.T, name string, factory storeFactory) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run(name+"/SaveRun_and_LoadRun", func(t *testing.T) {
		s := factory(t)
		defer s.Close()

		run := store.Run{
			ID:            "run-1",
			StartedAt:     base,
			Templates:     []string{"{a}-{b}", "[{level}] {msg}"},
			CaseSensitive: false,
		}
		require.NoError(t, s.SaveRun(run))

		loaded, err := s.LoadRun("run-1")
		require.NoError(t, err)
		assert.Equal(t, "run-1", loaded.ID)
		assert.True(t, base.Equal(loaded.StartedAt))
		assert.Equal(t, run.Templates, loaded.Templates)
		assert.False(t, loaded.CaseSensitive)
	})

	t.Run(name+"/SaveRun_DefaultsStartedAt", func(t *testing.T) {
		s := factory(t)
		defer s.Close()

		require.NoError(t, s.SaveRun(store.Run{ID: "run-1"}))
		loaded, err := s.LoadRun("run-1")
		require.NoError(t, err)
		assert.False(t, loaded.StartedAt.IsZero())
		assert.Empty(t, loaded.Templates)
	})

	t.Run(name+"/LoadRun_NotFound", func(t *testing.T) {
		s := factory(t)
		defer s.Close()

		_, err := s.LoadRun("run-nonexistent")
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run(name+"/SaveRun_Overwrite", func(t *testing.T) {
		s := factory(t)
		defer s.Close()

		require.NoError(t, s.SaveRun(newRun("run-1", base)))
		updated := newRun("run-1", base)
		updated.Templates = []string{"{x}"}
		require.NoError(t, s.SaveRun(updated))

		loaded, err := s.LoadRun("run-1")
		require.NoError(t, err)
		assert.Equal(t, []string{"{x}"}, loaded.Templates)

		runs, err := s.ListRuns()
		require.NoError(t, err)
		assert.Len(t, runs, 1)
	})

	t.Run(name+"/ListRuns_Ordered", func(t *testing.T) {
		s := factory(t)
		defer s.Close()

		require.NoError(t, s.SaveRun(newRun("run-c", base.Add(2*time.Second))))
		require.NoError(t, s.SaveRun(newRun("run-a", base)))
		require.NoError(t, s.SaveRun(newRun("run-b", base.Add(time.Second))))

		runs, err := s.ListRuns()
		require.NoError(t, err)
		require.Len(t, runs, 3)
		assert.Equal(t, "run-a", runs[0].ID)
		assert.Equal(t, "run-b", runs[1].ID)
		assert.Equal(t, "run-c", runs[2].ID)
	})

	t.Run(name+"/ListRuns_Empty", func(t *testing.T) {
		s := factory(t)
		defer s.Close()

		runs, err := s.ListRuns()
		require.NoError(t, err)
		assert.Empty(t, runs)
	})

	t.Run(name+"/SaveResult_and_ListResults", func(t *testing.T) {
		s := factory(t)
		defer s.Close()

		require.NoError(t, s.SaveRun(newRun("run-1", base)))

		seq, err := s.SaveResult(store.Result{
			RunID:    "run-1",
			Source:   "app.log",
			Line:     3,
			Template: "{level}: {msg}",
			Mapping:  mapping("level", "WARN", "msg", "disk full"),
		})
		require.NoError(t, err)
		assert.Equal(t, 1, seq)

		seq, err = s.SaveResult(store.Result{
			RunID:    "run-1",
			Source:   "app.log",
			Line:     7,
			Template: "{level}: {msg}",
			Mapping:  mapping("level", "INFO", "msg", "ok"),
		})
		require.NoError(t, err)
		assert.Equal(t, 2, seq)

		results, err := s.ListResults("run-1")
		require.NoError(t, err)
		require.Len(t, results, 2)

		assert.Equal(t, "run-1", results[0].RunID)
		assert.Equal(t, 1, results[0].Sequence)
		assert.Equal(t, "app.log", results[0].Source)
		assert.Equal(t, 3, results[0].Line)
		assert.Equal(t, "{level}: {msg}", results[0].Template)
		assert.True(t, mapping("level", "WARN", "msg", "disk full").Equal(results[0].Mapping))

		assert.Equal(t, 2, results[1].Sequence)
		assert.Equal(t, 7, results[1].Line)
	})

	t.Run(name+"/SaveResult_KeepsMappingOrder", func(t *testing.T) {
		s := factory(t)
		defer s.Close()

		require.NoError(t, s.SaveRun(newRun("run-1", base)))
		_, err := s.SaveResult(store.Result{RunID: "run-1", Mapping: mapping("zeta", "1", "alpha", "2")})
		require.NoError(t, err)

		results, err := s.ListResults("run-1")
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, []string{"zeta", "alpha"}, results[0].Mapping.Names())
	})

	t.Run(name+"/SaveResult_EmptyMapping", func(t *testing.T) {
		s := factory(t)
		defer s.Close()

		require.NoError(t, s.SaveRun(newRun("run-1", base)))
		_, err := s.SaveResult(store.Result{RunID: "run-1", Template: "literal"})
		require.NoError(t, err)

		results, err := s.ListResults("run-1")
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, 0, results[0].Mapping.Len())
	})

	t.Run(name+"/SaveResult_UnknownRun", func(t *testing.T) {
		s := factory(t)
		defer s.Close()

		_, err := s.SaveResult(store.Result{RunID: "run-nonexistent"})
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run(name+"/ListResults_Empty", func(t *testing.T) {
		s := factory(t)
		defer s.Close()

		results, err := s.ListResults("run-nonexistent")
		require.NoError(t, err)
		assert.Empty(t, results)
	})

	t.Run(name+"/DeleteRun", func(t *testing.T) {
		s := factory(t)
		defer s.Close()

		require.NoError(t, s.SaveRun(newRun("run-1", base)))
		require.NoError(t, s.SaveRun(newRun("run-2", base)))
		_, err := s.SaveResult(store.Result{RunID: "run-1", Mapping: mapping("x", "a")})
		require.NoError(t, err)
		_, err = s.SaveResult(store.Result{RunID: "run-2", Mapping: mapping("x", "b")})
		require.NoError(t, err)

		require.NoError(t, s.DeleteRun("run-1"))

		_, err = s.LoadRun("run-1")
		assert.ErrorIs(t, err, store.ErrNotFound)
		results, err := s.ListResults("run-1")
		require.NoError(t, err)
		assert.Empty(t, results)

		// run-2 should still exist
		results, err = s.ListResults("run-2")
		require.NoError(t, err)
		assert.Len(t, results, 1)
	})

	t.Run(name+"/DeleteRun_Nonexistent", func(t *testing.T) {
		s := factory(t)
		defer s.Close()

		assert.NoError(t, s.DeleteRun("run-nonexistent"))
	})

	t.Run(name+"/SequencePerRun", func(t *testing.T) {
		s := factory(t)
		defer s.Close()

		require.NoError(t, s.SaveRun(newRun("run-1", base)))
		require.NoError(t, s.SaveRun(newRun("run-2", base)))

		seq, err := s.SaveResult(store.Result{RunID: "run-1"})
		require.NoError(t, err)
		assert.Equal(t, 1, seq)
		seq, err = s.SaveResult(store.Result{RunID: "run-2"})
		require.NoError(t, err)
		assert.Equal(t, 1, seq)
		seq, err = s.SaveResult(store.Result{RunID: "run-1"})
		require.NoError(t, err)
		assert.Equal(t, 2, seq)
	})

	t.Run(name+"/TemplatesCopy", func(t *testing.T) {
		s := factory(t)
		defer s.Close()

		run := newRun("run-1", base)
		require.NoError(t, s.SaveRun(run))
		run.Templates[0] = "changed"

		loaded, err := s.LoadRun("run-1")
		require.NoError(t, err)
		assert.Equal(t, []string{"{level}: {msg}"}, loaded.Templates)
	})

	t.Run(name+"/Close_ThenError", func(t *testing.T) {
		s := factory(t)
		require.NoError(t, s.Close())

		assert.ErrorIs(t, s.SaveRun(newRun("run-1", base)), store.ErrStoreClosed)

		_, err := s.LoadRun("run-1")
		assert.ErrorIs(t, err, store.ErrStoreClosed)

		_, err = s.ListRuns()
		assert.ErrorIs(t, err, store.ErrStoreClosed)

		_, err = s.SaveResult(store.Result{RunID: "run-1"})
		assert.ErrorIs(t, err, store.ErrStoreClosed)

		_, err = s.ListResults("run-1")
		assert.ErrorIs(t, err, store.ErrStoreClosed)

		assert.ErrorIs(t, s.DeleteRun("run-1"), store.ErrStoreClosed)
	})
}

// TestMemoryStore runs contract tests against MemoryStore.
func TestMemoryStore(t *testing.T) {
	factory := func(t *testing.T) store.Store {
		return store.NewMemoryStore()
	}
	storeContractTest(t, "MemoryStore", factory)
}

// TestSQLiteStore runs contract tests against SQLiteStore.
func TestSQLiteStore(t *testing.T) {
	factory := func(t *testing.T) store.Store {
		s, err := store.NewSQLiteStore(":memory:")
		require.NoError(t, err)
		return s
	}
	storeContractTest(t, "SQLiteStore", factory)
}
