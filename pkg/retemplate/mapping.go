package retemplate

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Binding pairs a placeholder name with the text it captured.
type Binding struct {
	Name  string
	Value string
}

// Mapping is one assignment of values to placeholders.
//
// Names keep the order of their first appearance in the template. When a
// name appears more than once, the value captured at its last appearance
// wins.
type Mapping struct {
	bindings []Binding
}

// ResultSet holds every mapping found for a template and text, in
// enumeration order. Identical mappings produced by distinct alignments
// are not merged.
type ResultSet []Mapping

// newMapping zips placeholder names with their values.
func newMapping(names, values []string) Mapping {
	bindings := make([]Binding, 0, len(names))
	for i, name := range names {
		j := slices.IndexFunc(bindings, func(b Binding) bool { return b.Name == name })
		if j >= 0 {
			bindings[j].Value = values[i]
			continue
		}
		bindings = append(bindings, Binding{Name: name, Value: values[i]})
	}
	return Mapping{bindings: bindings}
}

// MappingOf builds a Mapping from bindings, applying the same
// last-value-wins rule as matching.
func MappingOf(bindings ...Binding) Mapping {
	names := make([]string, len(bindings))
	values := make([]string, len(bindings))
	for i, b := range bindings {
		names[i] = b.Name
		values[i] = b.Value
	}
	return newMapping(names, values)
}

// Get returns the value captured for name.
func (m Mapping) Get(name string) (string, bool) {
	for _, b := range m.bindings {
		if b.Name == name {
			return b.Value, true
		}
	}
	return "", false
}

// Len returns the number of distinct placeholder names.
func (m Mapping) Len() int {
	return len(m.bindings)
}

// Names returns the placeholder names in order.
func (m Mapping) Names() []string {
	names := make([]string, len(m.bindings))
	for i, b := range m.bindings {
		names[i] = b.Name
	}
	return names
}

// Bindings returns a copy of the name/value pairs in order.
func (m Mapping) Bindings() []Binding {
	return slices.Clone(m.bindings)
}

// Map returns the mapping as a plain map.
func (m Mapping) Map() map[string]string {
	out := make(map[string]string, len(m.bindings))
	for _, b := range m.bindings {
		out[b.Name] = b.Value
	}
	return out
}

// Score returns the total length of all values, in characters.
func (m Mapping) Score() int {
	n := 0
	for _, b := range m.bindings {
		n += utf8.RuneCountInString(b.Value)
	}
	return n
}

// Equal reports whether both mappings hold the same names, order and values.
func (m Mapping) Equal(other Mapping) bool {
	return slices.Equal(m.bindings, other.bindings)
}

// String formats the mapping as {name: "value", ...}.
func (m Mapping) String() string {
	var b strings.Builder
	b.WriteByte('{')
	for i, bind := range m.bindings {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%s: %s", bind.Name, strconv.Quote(bind.Value))
	}
	b.WriteByte('}')
	return b.String()
}

// MarshalJSON encodes the mapping as a JSON object with keys in order.
func (m Mapping) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, b := range m.bindings {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(b.Name)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(b.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object of string values, keeping key order.
// A JSON null is a no-op.
func (m *Mapping) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("decode mapping: %w", err)
	}
	// null leaves the mapping unchanged, as encoding/json does.
	if tok == nil {
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("decode mapping: expected object, got %v", tok)
	}

	var bindings []Binding
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("decode mapping: %w", err)
		}
		name, _ := tok.(string)
		var value string
		if err := dec.Decode(&value); err != nil {
			return fmt.Errorf("decode mapping value %q: %w", name, err)
		}
		bindings = append(bindings, Binding{Name: name, Value: value})
	}
	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("decode mapping: %w", err)
	}

	*m = MappingOf(bindings...)
	return nil
}

// Contains reports whether rs holds a mapping equal to m.
func (rs ResultSet) Contains(m Mapping) bool {
	return slices.ContainsFunc(rs, m.Equal)
}
