package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/randalmurphal/retemplate/pkg/retemplate"
	"github.com/spf13/cobra"
)

// readText returns args[i] when given, otherwise stdin with one trailing
// newline removed.
func readText(cmd *cobra.Command, args []string, i int) (string, error) {
	if len(args) > i {
		return args[i], nil
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	text := strings.TrimSuffix(string(data), "\n")
	return strings.TrimSuffix(text, "\r"), nil
}

// writeJSON writes v as indented JSON followed by a newline.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// writeResults prints one mapping per line, or a JSON array.
func writeResults(w io.Writer, rs retemplate.ResultSet) error {
	if jsonOutput {
		return writeJSON(w, rs)
	}
	for _, m := range rs {
		if _, err := fmt.Fprintln(w, m); err != nil {
			return err
		}
	}
	return nil
}
