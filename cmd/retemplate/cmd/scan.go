package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/google/uuid"
	"github.com/randalmurphal/retemplate/pkg/retemplate"
	"github.com/randalmurphal/retemplate/pkg/retemplate/filter"
	"github.com/randalmurphal/retemplate/pkg/retemplate/store"
	"github.com/randalmurphal/retemplate/pkg/retemplate/template"
	"github.com/spf13/cobra"
)

var (
	scanTemplates []string
	scanPick      string
	scanExclude   []string
	scanWhere     string
	dbPath        string
)

var scanCmd = &cobra.Command{
	Use:   "scan [glob ...]",
	Short: "Match templates against every line of a set of files",
	Long: "Match templates against every line of the files selected by the globs (** supported), " +
		"or of stdin when no glob is given. Each scan is recorded as a run in the result store. " +
		"--timeout bounds all templates of one line together; a template that runs out of " +
		"time or --max-candidates budget is skipped for that line with a warning.",
	Example: `  retemplate scan -t '[{level}] {msg}' 'logs/**/*.log'
  retemplate scan --config rules.yaml --db results.db --pick longest 'logs/*.log'
  retemplate scan -t '{level}: {msg}' --where "level == 'ERROR'" app.log`,
	RunE: runScan,
}

func init() {
	f := scanCmd.Flags()
	f.StringArrayVarP(&scanTemplates, "template", "t", nil, "Template to match (repeatable; default from settings)")
	f.StringVar(&scanPick, "pick", "all", "Mappings kept per line and template: all, longest or shortest")
	f.StringArrayVar(&scanExclude, "exclude", nil, "Skip files matching this glob (repeatable)")
	f.StringVar(&scanWhere, "where", "", "Keep only mappings satisfying this filter expression (default from settings)")
	f.StringVar(&dbPath, "db", "", "SQLite result store (default: in-memory, discarded on exit)")
}

// scanRecord is one JSON output row.
type scanRecord struct {
	Source   string             `json:"source"`
	Line     int                `json:"line"`
	Template string             `json:"template"`
	Mapping  retemplate.Mapping `json:"mapping"`
}

// scanner carries the state of one scan run.
type scanner struct {
	runID     string
	templates []string
	pick      retemplate.Picker // nil keeps every mapping
	where     *filter.Filter    // nil keeps every mapping
	matcher   *retemplate.Matcher
	store     store.Store
	out       io.Writer
	records   []scanRecord
	lines     int
	results   int
}

func runScan(cmd *cobra.Command, args []string) error {
	templates := scanTemplates
	if len(templates) == 0 {
		templates = settings.Templates
	}
	if len(templates) == 0 {
		return errors.New("no templates: pass --template or set templates in --config")
	}
	for _, tmpl := range templates {
		if _, err := template.Parse(tmpl); err != nil {
			return err
		}
	}

	var pick retemplate.Picker
	if scanPick != "all" {
		var err error
		if pick, err = retemplate.PickerFor(scanPick); err != nil {
			return err
		}
	}

	where, err := settings.Filter()
	if err != nil {
		return err
	}
	if scanWhere != "" {
		if where, err = filter.Compile(scanWhere); err != nil {
			return err
		}
	}

	paths, err := expandGlobs(args, scanExclude)
	if err != nil {
		return err
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	s := &scanner{
		runID:     uuid.NewString(),
		templates: templates,
		pick:      pick,
		where:     where,
		matcher:   newMatcher(),
		store:     st,
		out:       cmd.OutOrStdout(),
	}
	run := store.Run{
		ID:            s.runID,
		StartedAt:     time.Now().UTC(),
		Templates:     templates,
		CaseSensitive: settings.CaseSensitive,
	}
	if err := st.SaveRun(run); err != nil {
		return err
	}
	logger.Info("scan starting",
		slog.String("run_id", s.runID),
		slog.Int("templates", len(templates)),
		slog.Int("files", len(paths)),
	)

	if len(paths) == 0 {
		err = s.scan(cmd.Context(), "-", cmd.InOrStdin())
	} else {
		err = s.scanFiles(cmd.Context(), paths)
	}
	if err != nil {
		return err
	}

	if jsonOutput {
		if s.records == nil {
			s.records = []scanRecord{}
		}
		if err := writeJSON(s.out, s.records); err != nil {
			return err
		}
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "run %s: %d results from %d lines\n", s.runID, s.results, s.lines)
	return nil
}

// expandGlobs resolves each pattern and returns the distinct matches in
// pattern order, minus those matching an exclude pattern.
func expandGlobs(patterns, exclude []string) ([]string, error) {
	var paths []string
	for _, pattern := range patterns {
		matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("glob %q: %w", pattern, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("glob %q matched no files", pattern)
		}
		slices.Sort(matches)
		for _, m := range matches {
			if slices.Contains(paths, m) {
				continue
			}
			skip, err := excluded(m, exclude)
			if err != nil {
				return nil, err
			}
			if !skip {
				paths = append(paths, m)
			}
		}
	}
	return paths, nil
}

func excluded(path string, exclude []string) (bool, error) {
	for _, pattern := range exclude {
		ok, err := doublestar.PathMatch(pattern, path)
		if err != nil {
			return false, fmt.Errorf("exclude %q: %w", pattern, err)
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

// openStore opens the SQLite store at --db, or an in-memory store.
func openStore() (store.Store, error) {
	if dbPath == "" {
		return store.NewMemoryStore(), nil
	}
	return store.NewSQLiteStore(dbPath)
}

func (s *scanner) scanFiles(ctx context.Context, paths []string) error {
	for _, path := range paths {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("open %s: %w", path, err)
		}
		err = s.scan(ctx, path, f)
		f.Close()
		if err != nil {
			return err
		}
	}
	return nil
}

// scan matches every template against each line of r.
func (s *scanner) scan(ctx context.Context, source string, r io.Reader) error {
	lines := bufio.NewScanner(r)
	lines.Buffer(make([]byte, 0, 64*1024), 1<<20)

	lineNo := 0
	for lines.Scan() {
		lineNo++
		s.lines++
		if err := s.scanLine(ctx, source, lineNo, lines.Text()); err != nil {
			return err
		}
	}
	if err := lines.Err(); err != nil {
		return fmt.Errorf("read %s: %w", source, err)
	}
	return nil
}

// scanLine matches every template against one line under a shared
// per-line timeout. A template that runs out of budget or time is logged
// and skipped; the other templates' mappings for the line are kept.
func (s *scanner) scanLine(ctx context.Context, source string, lineNo int, line string) error {
	mctx, cancel := matchContext(ctx)
	defer cancel()

	found, err := s.matcher.MatchAll(mctx, s.templates, line)
	if err != nil {
		return err
	}
	// A cancelled scan is not a slow line.
	if err := ctx.Err(); err != nil {
		return err
	}

	for _, tr := range found {
		if tr.Err != nil {
			logger.Warn("template skipped",
				slog.String("source", source),
				slog.Int("line", lineNo),
				slog.String("template", tr.Template),
				slog.String("error", tr.Err.Error()),
			)
			continue
		}
		mappings := tr.Results
		if s.where != nil {
			mappings = s.where.Apply(mappings)
		}
		if s.pick != nil && len(mappings) > 0 {
			m, err := s.pick(mappings)
			if err != nil {
				return err
			}
			mappings = retemplate.ResultSet{m}
		}
		for _, m := range mappings {
			if err := s.record(source, lineNo, tr.Template, m); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *scanner) record(source string, lineNo int, tmpl string, m retemplate.Mapping) error {
	_, err := s.store.SaveResult(store.Result{
		RunID:    s.runID,
		Source:   source,
		Line:     lineNo,
		Template: tmpl,
		Mapping:  m,
	})
	if err != nil {
		return err
	}
	s.results++

	if jsonOutput {
		s.records = append(s.records, scanRecord{Source: source, Line: lineNo, Template: tmpl, Mapping: m})
		return nil
	}
	_, err = fmt.Fprintf(s.out, "%s:%d: %s %s\n", source, lineNo, tmpl, m)
	return err
}
