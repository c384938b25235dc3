package filter

import (
	"errors"
	"fmt"
	"strings"

	"github.com/randalmurphal/retemplate/pkg/retemplate"
)

// ScoreVar is the variable holding a mapping's score.
const ScoreVar = "_score"

// ErrSyntax indicates an expression that cannot be evaluated.
var ErrSyntax = errors.New("filter syntax error")

// Filter is a compiled boolean expression over mapping values.
// A Filter is safe for concurrent use.
type Filter struct {
	source string
	ops    []operator
}

// Option configures a Filter.
type Option func(*Filter)

// WithOperator registers a word operator such as "matches". In an
// expression it must be surrounded by spaces.
func WithOperator(name string, fn BinaryOp) Option {
	return func(f *Filter) {
		f.ops = append(f.ops, operator{token: " " + name + " ", fn: fn})
	}
}

// Compile checks expr and returns a Filter for it.
func Compile(expr string, opts ...Option) (*Filter, error) {
	f := &Filter{source: expr, ops: builtinOps}
	if len(opts) > 0 {
		f.ops = append([]operator(nil), builtinOps...)
		for _, opt := range opts {
			opt(f)
		}
	}
	if err := f.check(expr); err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrSyntax, expr, err)
	}
	return f, nil
}

// MustCompile is like Compile but panics on error.
func MustCompile(expr string, opts ...Option) *Filter {
	f, err := Compile(expr, opts...)
	if err != nil {
		panic(err)
	}
	return f
}

// String returns the source expression.
func (f *Filter) String() string {
	return f.source
}

// Match reports whether m satisfies the filter.
func (f *Filter) Match(m retemplate.Mapping) bool {
	vars := make(map[string]any, m.Len()+1)
	for _, b := range m.Bindings() {
		vars[b.Name] = b.Value
	}
	vars[ScoreVar] = m.Score()
	return f.Eval(vars)
}

// Eval evaluates the filter against arbitrary variables.
func (f *Filter) Eval(vars map[string]any) bool {
	return f.eval(f.source, vars)
}

// Apply returns the mappings of rs that satisfy the filter, in order.
func (f *Filter) Apply(rs retemplate.ResultSet) retemplate.ResultSet {
	out := retemplate.ResultSet{}
	for _, m := range rs {
		if f.Match(m) {
			out = append(out, m)
		}
	}
	return out
}

func (f *Filter) eval(expr string, vars map[string]any) bool {
	expr = strings.TrimSpace(expr)

	if left, right, ok := cut(expr, " or "); ok {
		return f.eval(left, vars) || f.eval(right, vars)
	}
	if left, right, ok := cut(expr, " and "); ok {
		return f.eval(left, vars) && f.eval(right, vars)
	}
	if inner, ok := negated(expr); ok {
		return !f.eval(inner, vars)
	}

	for _, op := range f.ops {
		if left, right, ok := cut(expr, op.token); ok {
			return op.fn(resolve(left, vars), resolve(right, vars))
		}
	}
	return truthy(resolve(expr, vars))
}

// check mirrors eval and rejects empty operands and unbalanced quotes.
func (f *Filter) check(expr string) error {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return errors.New("empty expression")
	}

	for _, sep := range []string{" or ", " and "} {
		if left, right, ok := cut(expr, sep); ok {
			if err := f.check(left); err != nil {
				return err
			}
			return f.check(right)
		}
	}
	if inner, ok := negated(expr); ok {
		return f.check(inner)
	}

	for _, op := range f.ops {
		if left, right, ok := cut(expr, op.token); ok {
			name := strings.TrimSpace(op.token)
			if strings.TrimSpace(left) == "" || strings.TrimSpace(right) == "" {
				return fmt.Errorf("operator %s needs two operands", name)
			}
			if err := checkOperand(left); err != nil {
				return err
			}
			return checkOperand(right)
		}
	}
	return checkOperand(expr)
}

func checkOperand(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if q := s[0]; q == '\'' || q == '"' {
		if len(s) < 2 || s[len(s)-1] != q || strings.IndexByte(s[1:len(s)-1], q) >= 0 {
			return fmt.Errorf("unbalanced quotes in %s", s)
		}
		return nil
	}
	if strings.ContainsAny(s, `'" `) {
		return fmt.Errorf("unexpected %q", s)
	}
	return nil
}

// negated strips a leading "not " or "!" prefix.
func negated(expr string) (string, bool) {
	if rest, ok := strings.CutPrefix(expr, "not "); ok {
		return rest, true
	}
	if rest, ok := strings.CutPrefix(expr, "!"); ok && !strings.HasPrefix(rest, "=") {
		return rest, true
	}
	return "", false
}

// cut splits expr around the first sep that is not inside quotes.
func cut(expr, sep string) (before, after string, found bool) {
	var quote byte
	for i := 0; i < len(expr); i++ {
		c := expr[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '\'' || c == '"':
			quote = c
		case strings.HasPrefix(expr[i:], sep):
			return expr[:i], expr[i+len(sep):], true
		}
	}
	return expr, "", false
}
