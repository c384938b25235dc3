package template

import (
	"fmt"
	"strings"
)

// Expander renders templates by substituting placeholder values.
//
// Create with NewExpander() and configure with Option functions.
// Expander is safe for concurrent use after construction.
type Expander struct {
	missingAction MissingAction
}

// NewExpander creates a new Expander with the given options.
//
// Default configuration:
//   - MissingAction: MissingKeep (keep {name} as-is)
//
// Example:
//
//	exp := NewExpander(WithMissingAction(MissingError))
func NewExpander(opts ...Option) *Expander {
	e := &Expander{
		missingAction: MissingKeep,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Expand renders t with values substituted for its placeholders.
//
// Errors are only returned when MissingAction is MissingError and
// a placeholder has no value.
//
// Example:
//
//	exp := NewExpander()
//	out, err := exp.Expand(MustParse("Hello {name}"), map[string]string{"name": "World"})
//	// out: "Hello World"
func (e *Expander) Expand(t *Template, values map[string]string) (string, error) {
	var b strings.Builder
	var missing []string

	for i, lit := range t.literals {
		b.WriteString(lit)
		if i >= len(t.placeholders) {
			break
		}
		name := t.placeholders[i]
		if v, ok := values[name]; ok {
			b.WriteString(v)
			continue
		}
		switch e.missingAction {
		case MissingEmpty:
		case MissingError:
			missing = append(missing, name)
			b.WriteString("{" + name + "}")
		default: // MissingKeep
			b.WriteString("{" + name + "}")
		}
	}

	if len(missing) > 0 {
		return b.String(), &UndefinedPlaceholderError{Names: missing}
	}
	return b.String(), nil
}

// ExpandString parses s and renders it with values.
func (e *Expander) ExpandString(s string, values map[string]string) (string, error) {
	t, err := Parse(s)
	if err != nil {
		return "", err
	}
	return e.Expand(t, values)
}

// ExpandAll renders t once per value set.
//
// On error (with MissingError), returns nil and the first error.
func (e *Expander) ExpandAll(t *Template, rows []map[string]string) ([]string, error) {
	if rows == nil {
		return nil, nil
	}

	out := make([]string, len(rows))
	for i, values := range rows {
		s, err := e.Expand(t, values)
		if err != nil {
			return nil, err
		}
		out[i] = s
	}
	return out, nil
}

// UndefinedPlaceholderError is returned when MissingError is set and
// one or more placeholders have no value.
type UndefinedPlaceholderError struct {
	// Names lists the placeholders without a value, in template order.
	Names []string
}

// Error implements the error interface.
func (e *UndefinedPlaceholderError) Error() string {
	if len(e.Names) == 1 {
		return fmt.Sprintf("undefined placeholder: %s", e.Names[0])
	}
	return fmt.Sprintf("undefined placeholders: %s", strings.Join(e.Names, ", "))
}

// defaultExpander keeps missing placeholders as-is.
var defaultExpander = NewExpander()

// Expand renders t with the default expander.
// Placeholders without a value stay as {name}.
func (t *Template) Expand(values map[string]string) string {
	// Default expander never returns errors (MissingKeep).
	out, _ := defaultExpander.Expand(t, values)
	return out
}
