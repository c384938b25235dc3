/*
Package config loads matcher settings from YAML, JSON, or TOML files.

# Overview

Config wraps a decoded document and provides typed accessors that return
a default when a key is missing or holds the wrong type:

	cfg := config.New(map[string]any{
	    "case_sensitive": false,
	    "max_candidates": 100000,
	    "timeout":        "2s",
	})

	cfg.Bool("case_sensitive", true)      // false
	cfg.Int("max_candidates", 0)          // 100000
	cfg.Duration("timeout", time.Second)  // 2s
	cfg.String("pick", "longest")         // "longest"

# Settings

Settings validates the recognised keys and turns them into matcher and
rendering options:

	case_sensitive: false
	max_candidates: 100000
	pick: shortest          # longest | shortest
	timeout: 2s
	missing: error          # keep | empty | error
	where: "level == 'ERROR'"   # see package filter
	templates:
	  - "{level}: {msg}"
	  - "[{level}] {msg}"

Load and apply:

	cfg, err := config.FromFile("retemplate.yaml")
	if err != nil {
	    return err
	}
	settings, err := cfg.Settings()
	if err != nil {
	    return err
	}
	matcher := retemplate.NewMatcher(settings.MatchOptions()...)

Numbers decode differently per format (int for YAML, int64 for TOML,
float64 for JSON). The accessors accept all three.

# Thread Safety

Config is safe for concurrent read access. The underlying map is not
modified after creation.
*/
package config
