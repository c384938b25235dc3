package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/randalmurphal/retemplate/pkg/retemplate"
	"github.com/randalmurphal/retemplate/pkg/retemplate/filter"
	"github.com/randalmurphal/retemplate/pkg/retemplate/template"
)

// Recognised keys.
const (
	KeyCaseSensitive = "case_sensitive"
	KeyMaxCandidates = "max_candidates"
	KeyPick          = "pick"
	KeyTimeout       = "timeout"
	KeyTemplates     = "templates"
	KeyMissing       = "missing"
	KeyWhere         = "where"
)

// ErrInvalidSetting indicates a recognised key holds an unusable value.
var ErrInvalidSetting = errors.New("invalid setting")

// Settings are the matcher settings a configuration file can carry.
type Settings struct {
	// CaseSensitive controls literal comparison. Default: true
	CaseSensitive bool
	// MaxCandidates caps enumeration. Default: 0 (unbounded)
	MaxCandidates int
	// Pick names the selection used when one mapping is wanted:
	// "longest" (default) or "shortest".
	Pick string
	// Timeout bounds one match call. Default: 0 (none)
	Timeout time.Duration
	// Templates are matched in order by multi-template commands.
	Templates []string
	// Missing is how rendering treats placeholders without a value.
	Missing template.MissingAction
	// Where filters scanned mappings; empty keeps all of them.
	Where string
}

// DefaultSettings returns the settings used when no file is given.
func DefaultSettings() Settings {
	return Settings{
		CaseSensitive: true,
		Pick:          "longest",
		Missing:       template.MissingKeep,
	}
}

// Settings extracts and validates matcher settings.
// Missing keys keep their defaults; unknown keys are ignored.
func (c Config) Settings() (Settings, error) {
	s := DefaultSettings()

	s.CaseSensitive = c.Bool(KeyCaseSensitive, s.CaseSensitive)

	s.MaxCandidates = c.Int(KeyMaxCandidates, s.MaxCandidates)
	if s.MaxCandidates < 0 {
		return Settings{}, fmt.Errorf("%w: %s must not be negative, got %d",
			ErrInvalidSetting, KeyMaxCandidates, s.MaxCandidates)
	}

	s.Pick = c.String(KeyPick, s.Pick)
	if _, err := retemplate.PickerFor(s.Pick); err != nil {
		return Settings{}, fmt.Errorf("%w: %s: %v", ErrInvalidSetting, KeyPick, err)
	}

	s.Timeout = c.Duration(KeyTimeout, s.Timeout)
	if s.Timeout < 0 {
		return Settings{}, fmt.Errorf("%w: %s must not be negative, got %s",
			ErrInvalidSetting, KeyTimeout, s.Timeout)
	}

	if c.Has(KeyTemplates) {
		s.Templates = c.StringSlice(KeyTemplates, nil)
		if s.Templates == nil {
			return Settings{}, fmt.Errorf("%w: %s must be a list of strings", ErrInvalidSetting, KeyTemplates)
		}
		for _, tmpl := range s.Templates {
			if _, err := template.Parse(tmpl); err != nil {
				return Settings{}, fmt.Errorf("%w: %s: %w", ErrInvalidSetting, KeyTemplates, err)
			}
		}
	}

	missing, ok := template.ParseMissingAction(c.String(KeyMissing, ""))
	if !ok {
		return Settings{}, fmt.Errorf("%w: %s must be keep, empty or error", ErrInvalidSetting, KeyMissing)
	}
	s.Missing = missing

	s.Where = c.String(KeyWhere, "")
	if s.Where != "" {
		if _, err := filter.Compile(s.Where); err != nil {
			return Settings{}, fmt.Errorf("%w: %s: %w", ErrInvalidSetting, KeyWhere, err)
		}
	}

	return s, nil
}

// MatchOptions translates the settings into matcher options.
func (s Settings) MatchOptions() []retemplate.Option {
	return []retemplate.Option{
		retemplate.WithCaseSensitive(s.CaseSensitive),
		retemplate.WithMaxCandidates(s.MaxCandidates),
	}
}

// Picker returns the selection named by Pick.
func (s Settings) Picker() retemplate.Picker {
	p, err := retemplate.PickerFor(s.Pick)
	if err != nil {
		return retemplate.PickLongest
	}
	return p
}

// Filter compiles Where, returning nil when it is empty.
func (s Settings) Filter() (*filter.Filter, error) {
	if s.Where == "" {
		return nil, nil
	}
	return filter.Compile(s.Where)
}

// ExpanderOptions translates the settings into rendering options.
func (s Settings) ExpanderOptions() []template.Option {
	return []template.Option{template.WithMissingAction(s.Missing)}
}
