package cmd

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/randalmurphal/retemplate/pkg/retemplate/store"
	"github.com/spf13/cobra"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Inspect scan runs recorded in a result store",
}

var runsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded runs, oldest first",
	Args:  cobra.NoArgs,
	RunE:  runRunsList,
}

var runsShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Print the results of a run",
	Args:  cobra.ExactArgs(1),
	RunE:  runRunsShow,
}

var runsDeleteCmd = &cobra.Command{
	Use:   "delete <run-id>",
	Short: "Delete a run and its results",
	Args:  cobra.ExactArgs(1),
	RunE:  runRunsDelete,
}

func init() {
	runsCmd.PersistentFlags().StringVar(&dbPath, "db", "", "SQLite result store")
	_ = runsCmd.MarkPersistentFlagRequired("db")

	runsCmd.AddCommand(runsListCmd)
	runsCmd.AddCommand(runsShowCmd)
	runsCmd.AddCommand(runsDeleteCmd)
}

func runRunsList(cmd *cobra.Command, args []string) error {
	st, err := store.NewSQLiteStore(dbPath)
	if err != nil {
		return err
	}
	defer st.Close()

	runs, err := st.ListRuns()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		type runJSON struct {
			ID            string    `json:"id"`
			StartedAt     time.Time `json:"started_at"`
			Templates     []string  `json:"templates"`
			CaseSensitive bool      `json:"case_sensitive"`
		}
		rows := make([]runJSON, 0, len(runs))
		for _, r := range runs {
			rows = append(rows, runJSON{r.ID, r.StartedAt, r.Templates, r.CaseSensitive})
		}
		return writeJSON(out, rows)
	}

	for _, r := range runs {
		fmt.Fprintf(out, "%s  %s  %s\n", r.ID, r.StartedAt.Format(time.RFC3339), strings.Join(r.Templates, " | "))
	}
	return nil
}

func runRunsShow(cmd *cobra.Command, args []string) error {
	st, err := store.NewSQLiteStore(dbPath)
	if err != nil {
		return err
	}
	defer st.Close()

	if _, err := st.LoadRun(args[0]); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("run %s: %w", args[0], err)
		}
		return err
	}

	results, err := st.ListResults(args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		rows := make([]scanRecord, 0, len(results))
		for _, res := range results {
			rows = append(rows, scanRecord{Source: res.Source, Line: res.Line, Template: res.Template, Mapping: res.Mapping})
		}
		return writeJSON(out, rows)
	}
	for _, res := range results {
		fmt.Fprintf(out, "%s:%d: %s %s\n", res.Source, res.Line, res.Template, res.Mapping)
	}
	return nil
}

func runRunsDelete(cmd *cobra.Command, args []string) error {
	st, err := store.NewSQLiteStore(dbPath)
	if err != nil {
		return err
	}
	defer st.Close()

	if _, err := st.LoadRun(args[0]); err != nil {
		return fmt.Errorf("run %s: %w", args[0], err)
	}
	if err := st.DeleteRun(args[0]); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "deleted run %s\n", args[0])
	return nil
}
