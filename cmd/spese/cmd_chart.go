package main

import (
	"context"

	"github.com/spf13/cobra"

	"speseledger/internal/calc"
	"speseledger/internal/cli"
)

var chartCmd = &cobra.Command{
	Use:   "chart",
	Short: "Print the chart series",
	Long: `Print one (date, amount) point per expense. Points follow insertion
order unless --chronological is given.`,
	Args: cobra.NoArgs,
	RunE: runChart,
}

var chartChronological bool

func init() {
	rootCmd.AddCommand(chartCmd)

	chartCmd.Flags().BoolVar(&chartChronological, "chronological", false, "Sort points by date")
}

func runChart(cmd *cobra.Command, args []string) error {
	return withApp(cmd, func(ctx context.Context, app *cli.App) error {
		l := app.Store.Snapshot()
		series := calc.ChartSeries(l)
		if chartChronological {
			series = calc.ChronologicalSeries(l)
		}
		return cli.PrintSeries(cmd.OutOrStdout(), series)
	})
}
