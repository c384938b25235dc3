package retemplate

import (
	"errors"
	"fmt"

	"github.com/randalmurphal/retemplate/pkg/retemplate/template"
)

// Sentinel errors for template handling.
var (
	// ErrMalformedTemplate indicates unbalanced, nested or empty {} delimiters.
	// The concrete error is a *template.SyntaxError.
	ErrMalformedTemplate = template.ErrMalformed

	// ErrNilContext indicates Match was called with a nil context.
	ErrNilContext = errors.New("context cannot be nil")
)

// Sentinel errors for enumeration and selection.
var (
	// ErrBudgetExceeded indicates enumeration examined more candidates than allowed.
	ErrBudgetExceeded = errors.New("enumeration budget exceeded")

	// ErrEmptyResultSet indicates a selection was made from an empty result set.
	ErrEmptyResultSet = errors.New("empty result set")
)

// BudgetExceededError provides context when the candidate budget runs out.
type BudgetExceededError struct {
	// Limit is the configured candidate budget.
	Limit int
	// Template is the template being matched.
	Template string
	// Results is the number of mappings found before the budget ran out.
	Results int
}

// Error implements the error interface.
func (e *BudgetExceededError) Error() string {
	return fmt.Sprintf("enumeration budget exceeded (%d candidates) for template %q after %d results",
		e.Limit, e.Template, e.Results)
}

// Unwrap returns ErrBudgetExceeded for errors.Is support.
func (e *BudgetExceededError) Unwrap() error {
	return ErrBudgetExceeded
}

// CancellationError captures the progress made when a match was cancelled.
type CancellationError struct {
	// Template is the template being matched.
	Template string
	// Examined is the number of candidate positions examined before cancellation.
	Examined int
	// Cause is the underlying cancellation cause (context.Canceled or context.DeadlineExceeded).
	Cause error
}

// Error implements the error interface.
func (e *CancellationError) Error() string {
	return fmt.Sprintf("match of %q cancelled after %d candidates: %v", e.Template, e.Examined, e.Cause)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *CancellationError) Unwrap() error {
	return e.Cause
}
