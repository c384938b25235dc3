package template

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMalformed indicates a template whose delimiters are unbalanced or nested.
var ErrMalformed = errors.New("malformed template")

// SyntaxError describes where and why a template failed to parse.
type SyntaxError struct {
	// Template is the source that failed to parse.
	Template string
	// Offset is the byte offset of the offending delimiter.
	Offset int
	// Reason is a short description of the problem.
	Reason string
}

// Error implements the error interface.
func (e *SyntaxError) Error() string {
	return fmt.Sprintf("malformed template at offset %d: %s", e.Offset, e.Reason)
}

// Unwrap returns ErrMalformed for errors.Is support.
func (e *SyntaxError) Unwrap() error {
	return ErrMalformed
}

// SegmentKind distinguishes literal text from placeholders.
type SegmentKind int

const (
	// SegmentLiteral is fixed text matched verbatim.
	SegmentLiteral SegmentKind = iota

	// SegmentPlaceholder is a named gap filled by inferred text.
	SegmentPlaceholder
)

// String returns the kind name.
func (k SegmentKind) String() string {
	switch k {
	case SegmentLiteral:
		return "literal"
	case SegmentPlaceholder:
		return "placeholder"
	default:
		return "unknown"
	}
}

// Segment is one piece of a parsed template.
type Segment struct {
	Kind SegmentKind
	// Text is the literal text or the placeholder name.
	Text string
}

// Template is a parsed {name} template.
type Template struct {
	source       string
	literals     []string
	placeholders []string
}

// Parse splits s into literal segments and placeholder names.
//
// The result always has len(Literals()) == len(Placeholders())+1.
// Malformed templates return a *SyntaxError.
func Parse(s string) (*Template, error) {
	t := &Template{source: s}

	start := 0
	open := -1
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '{':
			if open >= 0 {
				return nil, &SyntaxError{Template: s, Offset: i, Reason: "nested '{'"}
			}
			t.literals = append(t.literals, s[start:i])
			open = i
		case '}':
			if open < 0 {
				return nil, &SyntaxError{Template: s, Offset: i, Reason: "unmatched '}'"}
			}
			name := s[open+1 : i]
			if name == "" {
				return nil, &SyntaxError{Template: s, Offset: open, Reason: "empty placeholder name"}
			}
			t.placeholders = append(t.placeholders, name)
			open = -1
			start = i + 1
		}
	}
	if open >= 0 {
		return nil, &SyntaxError{Template: s, Offset: open, Reason: "unclosed '{'"}
	}
	t.literals = append(t.literals, s[start:])

	return t, nil
}

// MustParse is like Parse but panics if the template is malformed.
func MustParse(s string) *Template {
	t, err := Parse(s)
	if err != nil {
		panic(fmt.Sprintf("template: %v", err))
	}
	return t
}

// String returns the template source.
func (t *Template) String() string {
	return t.source
}

// Literals returns the literal segments L0..Lk in template order.
func (t *Template) Literals() []string {
	return append([]string(nil), t.literals...)
}

// Placeholders returns the placeholder names P0..Pk-1 in template order.
// A name appears once per occurrence.
func (t *Template) Placeholders() []string {
	return append([]string(nil), t.placeholders...)
}

// Names returns the distinct placeholder names in order of first appearance.
func (t *Template) Names() []string {
	seen := make(map[string]bool, len(t.placeholders))
	names := make([]string, 0, len(t.placeholders))
	for _, p := range t.placeholders {
		if !seen[p] {
			seen[p] = true
			names = append(names, p)
		}
	}
	return names
}

// Segments returns the alternating literal/placeholder sequence.
// It starts and ends with a literal, which may be empty.
func (t *Template) Segments() []Segment {
	segs := make([]Segment, 0, len(t.literals)+len(t.placeholders))
	for i, lit := range t.literals {
		segs = append(segs, Segment{Kind: SegmentLiteral, Text: lit})
		if i < len(t.placeholders) {
			segs = append(segs, Segment{Kind: SegmentPlaceholder, Text: t.placeholders[i]})
		}
	}
	return segs
}

// LiteralLen returns the total byte length of all literal segments.
func (t *Template) LiteralLen() int {
	n := 0
	for _, lit := range t.literals {
		n += len(lit)
	}
	return n
}

// Fold returns a copy of the template with every literal passed through fold.
// Placeholder names are left untouched.
func (t *Template) Fold(fold func(string) string) *Template {
	literals := make([]string, len(t.literals))
	for i, lit := range t.literals {
		literals[i] = fold(lit)
	}
	var b strings.Builder
	for i, lit := range literals {
		b.WriteString(lit)
		if i < len(t.placeholders) {
			b.WriteString("{" + t.placeholders[i] + "}")
		}
	}
	return &Template{source: b.String(), literals: literals, placeholders: t.placeholders}
}
