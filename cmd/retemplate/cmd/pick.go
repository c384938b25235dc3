package cmd

import (
	"errors"
	"fmt"

	"github.com/randalmurphal/retemplate/pkg/retemplate"
	"github.com/spf13/cobra"
)

var pickBy string

var pickCmd = &cobra.Command{
	Use:   "pick <template> [text]",
	Short: "Print the single longest or shortest mapping",
	Example: `  retemplate pick 'Here is a {thing} for you: {smiley}' 'Here is a smiley for you: :-)'
  retemplate pick --by shortest '{x}' abc`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runPick,
}

func init() {
	pickCmd.Flags().StringVar(&pickBy, "by", "", "Selection: longest or shortest (default from settings, else longest)")
}

func runPick(cmd *cobra.Command, args []string) error {
	pick := settings.Picker()
	if pickBy != "" {
		var err error
		if pick, err = retemplate.PickerFor(pickBy); err != nil {
			return err
		}
	}

	text, err := readText(cmd, args, 1)
	if err != nil {
		return err
	}

	ctx, cancel := matchContext(cmd.Context())
	defer cancel()

	rs, err := newMatcher().Match(ctx, args[0], text)
	if err != nil {
		return err
	}

	m, err := pick(rs)
	if errors.Is(err, retemplate.ErrEmptyResultSet) {
		return fmt.Errorf("template %q does not match", args[0])
	}
	if err != nil {
		return err
	}

	if jsonOutput {
		return writeJSON(cmd.OutOrStdout(), m)
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), m)
	return err
}
