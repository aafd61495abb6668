package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"speseledger/internal/calc"
	"speseledger/internal/cli"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show totals for one month",
	Long: `Show the number of expenses, the total and the per-category totals for
one calendar month, followed by the overall totals.

Examples:
  spese summary
  spese summary --month 2024-03`,
	Args: cobra.NoArgs,
	RunE: runSummary,
}

// monthValue is a YYYY-MM flag. The zero value means the current month.
type monthValue struct {
	t time.Time
}

var _ pflag.Value = (*monthValue)(nil)

func (m *monthValue) String() string {
	if m.t.IsZero() {
		return ""
	}
	return m.t.Format("2006-01")
}

func (m *monthValue) Set(s string) error {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return fmt.Errorf("invalid month %q: want YYYY-MM", s)
	}
	m.t = t
	return nil
}

func (m *monthValue) Type() string {
	return "month"
}

var summaryMonth monthValue

func init() {
	rootCmd.AddCommand(summaryCmd)

	summaryCmd.Flags().Var(&summaryMonth, "month", "Month as YYYY-MM (default current month)")
}

func runSummary(cmd *cobra.Command, args []string) error {
	month := summaryMonth.t
	if month.IsZero() {
		month = time.Now()
	}

	return withApp(cmd, func(ctx context.Context, app *cli.App) error {
		l := app.Store.Snapshot()
		if err := cli.PrintOverview(cmd.OutOrStdout(), calc.MonthOverview(l, month.Year(), int(month.Month()))); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout())
		return cli.PrintTotals(cmd.OutOrStdout(), calc.Derive(l))
	})
}
