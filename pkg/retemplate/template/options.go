package template

// MissingAction specifies how to handle placeholders without a value.
type MissingAction int

const (
	// MissingKeep keeps the placeholder as {name}.
	// This is the default behavior.
	MissingKeep MissingAction = iota

	// MissingEmpty renders the placeholder as an empty string.
	MissingEmpty

	// MissingError returns an *UndefinedPlaceholderError.
	MissingError
)

// String returns the action name.
func (a MissingAction) String() string {
	switch a {
	case MissingKeep:
		return "keep"
	case MissingEmpty:
		return "empty"
	case MissingError:
		return "error"
	default:
		return "unknown"
	}
}

// ParseMissingAction converts "keep", "empty" or "error" to a MissingAction.
func ParseMissingAction(s string) (MissingAction, bool) {
	switch s {
	case "keep", "":
		return MissingKeep, true
	case "empty":
		return MissingEmpty, true
	case "error":
		return MissingError, true
	}
	return MissingKeep, false
}

// Option configures an Expander.
type Option func(*Expander)

// WithMissingAction sets how placeholders without a value are handled.
//
// Default: MissingKeep
//
// Example:
//
//	exp := NewExpander(WithMissingAction(MissingError))
//	_, err := exp.ExpandString("{missing}", nil)
//	// err: "undefined placeholder: missing"
func WithMissingAction(action MissingAction) Option {
	return func(e *Expander) {
		e.missingAction = action
	}
}
