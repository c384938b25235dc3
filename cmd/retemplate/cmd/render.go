package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/randalmurphal/retemplate/pkg/retemplate/template"
	"github.com/spf13/cobra"
)

var (
	renderSet     []string
	renderValues  string
	renderMissing string
)

var renderCmd = &cobra.Command{
	Use:   "render <template>",
	Short: "Fill a template's placeholders with values",
	Long:  "Fill a template's placeholders with values. The inverse of match.",
	Example: `  retemplate render 'This is a {whatIsThis}.' --set whatIsThis=test
  retemplate match --json '{a}-{b}' 'x-y' | jq '.[0]' > v.json && retemplate render '{b}-{a}' --values v.json
  retemplate match --json '{k}={v}' 'a=bc' > rows.json && retemplate render '{v}:{k}' --values rows.json`,
	Args: cobra.ExactArgs(1),
	RunE: runRender,
}

func init() {
	f := renderCmd.Flags()
	f.StringArrayVar(&renderSet, "set", nil, "Placeholder value as name=value (repeatable)")
	f.StringVar(&renderValues, "values", "", "JSON file holding an object of placeholder values, or an array of them (one line each)")
	f.StringVar(&renderMissing, "missing", "", "Placeholders without a value: keep, empty or error (default from settings, else keep)")
}

func runRender(cmd *cobra.Command, args []string) error {
	t, err := template.Parse(args[0])
	if err != nil {
		return err
	}

	rows := []map[string]string{{}}
	if renderValues != "" {
		if rows, err = readValueRows(renderValues); err != nil {
			return err
		}
	}
	for _, kv := range renderSet {
		name, value, ok := strings.Cut(kv, "=")
		if !ok {
			return fmt.Errorf("invalid --set %q: want name=value", kv)
		}
		for _, row := range rows {
			row[name] = value
		}
	}

	opts := settings.ExpanderOptions()
	if renderMissing != "" {
		action, ok := template.ParseMissingAction(renderMissing)
		if !ok {
			return fmt.Errorf("invalid --missing %q: want keep, empty or error", renderMissing)
		}
		opts = append(opts, template.WithMissingAction(action))
	}

	lines, err := template.NewExpander(opts...).ExpandAll(t, rows)
	if err != nil {
		return err
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(cmd.OutOrStdout(), line); err != nil {
			return err
		}
	}
	return nil
}

// readValueRows reads a JSON object, or an array of objects, of
// placeholder values. Each object renders one line.
func readValueRows(path string) ([]map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read values: %w", err)
	}

	if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && trimmed[0] == '[' {
		var rows []map[string]string
		if err := json.Unmarshal(trimmed, &rows); err != nil {
			return nil, fmt.Errorf("parse values: %w", err)
		}
		for i, row := range rows {
			if row == nil {
				rows[i] = map[string]string{}
			}
		}
		return rows, nil
	}

	values := make(map[string]string)
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("parse values: %w", err)
	}
	return []map[string]string{values}, nil
}
