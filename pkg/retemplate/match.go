package retemplate

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/randalmurphal/retemplate/pkg/retemplate/observability"
	"github.com/randalmurphal/retemplate/pkg/retemplate/template"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Matcher reverses templates against text.
//
// Create with NewMatcher() and configure with Option functions.
// Matcher is safe for concurrent use after construction.
type Matcher struct {
	cfg matchConfig
}

// NewMatcher creates a Matcher with the given options.
//
// Default configuration:
//   - case sensitive
//   - unbounded enumeration
//   - no logging, metrics or tracing
func NewMatcher(opts ...Option) *Matcher {
	cfg := defaultMatchConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	cfg.logger = observability.EnrichLogger(cfg.logger, cfg.caseSensitive, cfg.maxCandidates)
	return &Matcher{cfg: cfg}
}

// CaseSensitive reports whether the matcher compares literals with exact case.
func (m *Matcher) CaseSensitive() bool {
	return m.cfg.caseSensitive
}

// Match parses tmpl and returns every mapping under which the template
// matches a part of text.
//
// A malformed template returns an error wrapping ErrMalformedTemplate.
// An empty ResultSet (not nil) means no alignment exists.
func (m *Matcher) Match(ctx context.Context, tmpl, text string) (ResultSet, error) {
	if ctx == nil {
		return nil, ErrNilContext
	}

	t, err := template.Parse(tmpl)
	if err != nil {
		m.cfg.metrics.RecordTemplateParse(ctx, 0, err)
		observability.LogTemplateError(m.cfg.logger, tmpl, err)
		return nil, fmt.Errorf("parse template: %w", err)
	}
	m.cfg.metrics.RecordTemplateParse(ctx, len(t.Placeholders()), nil)

	return m.MatchTemplate(ctx, t, text)
}

// MatchTemplate is like Match for an already parsed template.
func (m *Matcher) MatchTemplate(ctx context.Context, t *template.Template, text string) (results ResultSet, err error) {
	if ctx == nil {
		return nil, ErrNilContext
	}

	source := t.String()
	done := observability.TimedOperation()
	observability.LogMatchStart(m.cfg.logger, source, len(text))

	execCtx := ctx
	if m.cfg.tracingEnabled {
		var span trace.Span
		execCtx, span = m.cfg.spans.StartMatchSpan(ctx, source, len(text))
		defer func() {
			m.cfg.spans.EndSpanWithError(span, err)
		}()
	}

	results, examined, err := m.enumerate(execCtx, t, text)

	durationMs := done()
	duration := time.Duration(durationMs * float64(time.Millisecond))
	m.cfg.metrics.RecordMatch(ctx, m.cfg.caseSensitive, duration, len(results), examined, err)

	if err != nil {
		observability.LogMatchError(m.cfg.logger, source, err, durationMs, examined)
		return nil, err
	}

	m.cfg.spans.AddSpanEvent(execCtx, "alignments enumerated",
		attribute.Int("results", len(results)),
		attribute.Int("candidates", examined),
	)
	observability.LogMatchComplete(m.cfg.logger, source, durationMs, len(results), examined)
	return results, nil
}

// enumerate locates every literal, walks the accepted alignments and
// extracts one mapping per alignment. It returns the number of candidate
// positions examined alongside the results.
func (m *Matcher) enumerate(ctx context.Context, t *template.Template, text string) (ResultSet, int, error) {
	source := t.String()
	if err := ctx.Err(); err != nil {
		return nil, 0, &CancellationError{Template: source, Cause: err}
	}

	// Accepted alignments place the literals on disjoint spans of text.
	if t.LiteralLen() > len(text) {
		return ResultSet{}, 0, nil
	}

	search := text
	if !m.cfg.caseSensitive {
		search = foldCase(text)
		t = t.Fold(foldCase)
	}

	literals := t.Literals()
	ends := make([][]int, len(literals))
	lens := make([]int, len(literals))
	sizes := make([]int, len(literals))
	for i, lit := range literals {
		lens[i] = len(lit)
		if i == 0 && lit == "" {
			ends[i] = []int{0}
		} else {
			ends[i] = slices.Collect(occurrences(lit, search))
		}
		sizes[i] = len(ends[i])
	}
	observability.LogOccurrences(m.cfg.logger, source, sizes)

	results := ResultSet{}
	if slices.Contains(sizes, 0) {
		return results, 0, nil
	}

	names := t.Placeholders()
	en := newEnumerator(ends, lens, m.cfg.maxCandidates)
	err := en.walk(ctx, func(cur []int) {
		results = append(results, newMapping(names, extract(text, lens, cur)))
	})

	switch {
	case errors.Is(err, ErrBudgetExceeded):
		return nil, en.examined, &BudgetExceededError{
			Limit:    m.cfg.maxCandidates,
			Template: source,
			Results:  len(results),
		}
	case err != nil:
		return nil, en.examined, &CancellationError{
			Template: source,
			Examined: en.examined,
			Cause:    err,
		}
	}
	return results, en.examined, nil
}

// TemplateResult pairs a template with the mappings it produced.
// Err is set, and Results nil, when the template ran out of candidate
// budget or was cancelled.
type TemplateResult struct {
	Template string
	Results  ResultSet
	Err      error
}

// MatchAll matches each template against text in order.
//
// A template that exceeds the candidate budget or is cancelled reports
// the error in its TemplateResult and the remaining templates still run,
// so one expensive template does not discard the others' results. Any
// other error, such as a malformed template, stops the call.
func (m *Matcher) MatchAll(ctx context.Context, templates []string, text string) ([]TemplateResult, error) {
	out := make([]TemplateResult, 0, len(templates))
	for _, tmpl := range templates {
		rs, err := m.Match(ctx, tmpl, text)
		var cancelErr *CancellationError
		switch {
		case errors.Is(err, ErrBudgetExceeded), errors.As(err, &cancelErr):
			out = append(out, TemplateResult{Template: tmpl, Err: err})
			continue
		case err != nil:
			return nil, fmt.Errorf("template %q: %w", tmpl, err)
		}
		out = append(out, TemplateResult{Template: tmpl, Results: rs})
	}
	return out, nil
}

// Match returns every mapping under which tmpl matches a part of text.
//
// Example:
//
//	results, err := retemplate.Match("This is a {whatIsThis}.", "This is a test.")
//	// results: [{whatIsThis: "test"}]
func Match(tmpl, text string, opts ...Option) (ResultSet, error) {
	return MatchContext(context.Background(), tmpl, text, opts...)
}

// MatchContext is like Match but stops early when ctx is done.
func MatchContext(ctx context.Context, tmpl, text string, opts ...Option) (ResultSet, error) {
	return NewMatcher(opts...).Match(ctx, tmpl, text)
}
