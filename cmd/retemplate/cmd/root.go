package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/randalmurphal/retemplate/pkg/retemplate"
	"github.com/randalmurphal/retemplate/pkg/retemplate/config"
	"github.com/spf13/cobra"
)

var (
	configPath    string
	logLevel      string
	ignoreCase    bool
	maxCandidates int
	timeout       string
	jsonOutput    bool
)

// settings and logger are resolved once per invocation in PersistentPreRunE.
var (
	settings config.Settings
	logger   *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:               "retemplate",
	Short:             "Reverse {name} templates against text",
	Long:              "Find every assignment of placeholder values under which a template reproduces part of a text.",
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	f := rootCmd.PersistentFlags()
	f.StringVar(&configPath, "config", "", "Settings file (.yaml, .yml, .json, .toml)")
	f.StringVar(&logLevel, "log-level", "warn", "Log level: debug, info, warn, error")
	f.BoolVarP(&ignoreCase, "ignore-case", "i", false, "Match literals case-insensitively")
	f.IntVar(&maxCandidates, "max-candidates", 0, "Stop after examining N candidate positions (0 = unlimited)")
	f.StringVar(&timeout, "timeout", "", "Abort a match after this long (e.g. 2s)")
	f.BoolVar(&jsonOutput, "json", false, "Output as JSON")

	rootCmd.AddCommand(matchCmd)
	rootCmd.AddCommand(pickCmd)
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(runsCmd)
}

// setup loads the settings file, applies flag overrides and builds the logger.
func setup(cmd *cobra.Command, args []string) error {
	level, err := parseLogLevel(logLevel)
	if err != nil {
		return err
	}
	logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	cfg := config.New(nil)
	if configPath != "" {
		if cfg, err = config.FromFile(configPath); err != nil {
			return err
		}
	}

	// Flags set on the command line win over the file.
	raw := cfg.Raw()
	flags := cmd.Flags()
	if flags.Changed("ignore-case") {
		raw[config.KeyCaseSensitive] = !ignoreCase
	}
	if flags.Changed("max-candidates") {
		raw[config.KeyMaxCandidates] = maxCandidates
	}
	if flags.Changed("timeout") {
		d, err := time.ParseDuration(timeout)
		if err != nil {
			return fmt.Errorf("invalid --timeout: %w", err)
		}
		raw[config.KeyTimeout] = d
	}

	if settings, err = cfg.Settings(); err != nil {
		return err
	}

	logger.Debug("settings resolved",
		slog.String("config", configPath),
		slog.Bool("case_sensitive", settings.CaseSensitive),
		slog.Int("max_candidates", settings.MaxCandidates),
		slog.Duration("timeout", settings.Timeout),
	)
	return nil
}

func parseLogLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(s))); err != nil {
		return 0, fmt.Errorf("invalid --log-level %q: want debug, info, warn or error", s)
	}
	return level, nil
}

// newMatcher builds a matcher from the resolved settings.
func newMatcher() *retemplate.Matcher {
	opts := append(settings.MatchOptions(), retemplate.WithLogger(logger))
	return retemplate.NewMatcher(opts...)
}

// matchContext bounds ctx by the configured timeout, if any.
func matchContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if settings.Timeout > 0 {
		return context.WithTimeout(ctx, settings.Timeout)
	}
	return context.WithCancel(ctx)
}
