package cmd

import (
	"github.com/randalmurphal/retemplate/pkg/retemplate"
	"github.com/spf13/cobra"
)

var matchSorted bool

var matchCmd = &cobra.Command{
	Use:   "match <template> [text]",
	Short: "Print every mapping under which the template matches the text",
	Long:  "Print every mapping under which the template matches the text. Text is read from stdin when not given.",
	Example: `  retemplate match 'Here is a {thing} for you: {smiley}' 'Here is a smiley for you: :-)'
  echo 'WHAT a great tool!' | retemplate match -i 'What a {adjective} {whatIsThis}!'`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runMatch,
}

func init() {
	matchCmd.Flags().BoolVar(&matchSorted, "sort", false, "Order mappings by total value length")
}

func runMatch(cmd *cobra.Command, args []string) error {
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
	if matchSorted {
		rs = retemplate.SortByScore(rs)
	}
	return writeResults(cmd.OutOrStdout(), rs)
}
