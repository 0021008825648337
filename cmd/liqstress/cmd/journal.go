package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/liqstress/config"
	"github.com/rustyeddy/liqstress/journal"
	"github.com/rustyeddy/liqstress/pkg/dates"
	"github.com/rustyeddy/liqstress/pkg/id"
)

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Query journaled runs",
	Long: `Query and display runs recorded in the SQLite journal.

Subcommands:
  show  - Show one run with its scenario KPIs
  list  - List runs generated between two days

Examples:
  liqstress journal show 01JH8Z6V0Q9YB1T4M7C2RX5KQW
  liqstress journal show 01JH8Z6V0Q9YB1T4M7C2RX5KQW --ladder baseline
  liqstress journal list --from 2025-01-01 --to 2025-01-31`,
}

var journalShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Show a run and its scenario KPIs",
	Args:  cobra.ExactArgs(1),
	RunE:  runJournalShow,
}

var journalListCmd = &cobra.Command{
	Use:   "list",
	Short: "List runs generated between two days (inclusive)",
	Args:  cobra.NoArgs,
	RunE:  runJournalList,
}

var (
	journalDBPath string
	journalLadder string
	journalFrom   string
	journalTo     string
)

func init() {
	rootCmd.AddCommand(journalCmd)
	journalCmd.AddCommand(journalShowCmd)
	journalCmd.AddCommand(journalListCmd)

	journalCmd.PersistentFlags().StringVarP(&journalDBPath, "db", "d", config.DefaultDBPath, "path to SQLite journal DB")
	journalShowCmd.Flags().StringVar(&journalLadder, "ladder", "", "print this scenario's ladder as CSV")
	journalListCmd.Flags().StringVar(&journalFrom, "from", "", "first day YYYY-MM-DD (default 30 days ago)")
	journalListCmd.Flags().StringVar(&journalTo, "to", "", "last day YYYY-MM-DD (default today)")
}

func runJournalShow(cmd *cobra.Command, args []string) error {
	if _, err := id.Time(args[0]); err != nil {
		return fmt.Errorf("run id %q: %w", args[0], err)
	}

	j, err := journal.NewSQLite(journalDBPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer j.Close()

	ctx := cmd.Context()
	run, err := j.GetRun(ctx, args[0])
	if err != nil {
		return fmt.Errorf("get run: %w", err)
	}

	if journalLadder != "" {
		recs, err := j.ListLadder(ctx, run.RunID, journalLadder)
		if err != nil {
			return fmt.Errorf("query ladder: %w", err)
		}
		if len(recs) == 0 {
			return fmt.Errorf("run %s has no ladder for scenario %q", run.RunID, journalLadder)
		}
		return journal.WriteLadderCSV(cmd.OutOrStdout(), journal.Ladder(recs))
	}

	kpis, err := j.ListScenarioKPIs(ctx, run.RunID)
	if err != nil {
		return fmt.Errorf("query kpis: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), journal.FormatRunOrg(run, kpis))
	return nil
}

func runJournalList(cmd *cobra.Command, args []string) error {
	start, end, err := listBounds(time.Now().UTC(), journalFrom, journalTo)
	if err != nil {
		return err
	}

	j, err := journal.NewSQLite(journalDBPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer j.Close()

	runs, err := j.ListRunsBetween(cmd.Context(), start, end)
	if err != nil {
		return fmt.Errorf("query runs: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), journal.FormatRunsOrg(runs))
	return nil
}

// listBounds turns inclusive from/to days into a [start, end) range.
func listBounds(now time.Time, from, to string) (time.Time, time.Time, error) {
	end := dates.Day(now)
	if to != "" {
		var err error
		if end, err = dates.Parse(to); err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("to: %w", err)
		}
	}
	start := dates.Add(end, -30)
	if from != "" {
		var err error
		if start, err = dates.Parse(from); err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("from: %w", err)
		}
	}
	if start.After(end) {
		return time.Time{}, time.Time{}, fmt.Errorf("from %s is after to %s", start.Format(dates.Layout), end.Format(dates.Layout))
	}
	return start, dates.Add(end, 1), nil
}
