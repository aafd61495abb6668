package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"speseledger/internal/calc"
	"speseledger/internal/cli"
)

// rootCmd is the base command for the spese CLI
var rootCmd = &cobra.Command{
	Use:   "spese",
	Short: "Personal expense ledger",
	Long: `spese keeps a single ledger of dated, categorized expenses against a
declared monthly income. Every command loads the ledger from the configured
backend (DATA_BACKEND), applies at most one change, saves it and prints the
recomputed totals.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// withApp opens a session for the duration of fn.
func withApp(cmd *cobra.Command, fn func(ctx context.Context, app *cli.App) error) error {
	ctx, stop := cli.SignalContext(cmd.Context())
	defer stop()

	app, err := cli.Bootstrap(ctx)
	if err != nil {
		return err
	}
	// Close logs its own failures.
	defer func() { _ = app.Close() }()

	return fn(app.Context(ctx), app)
}

// printState re-derives the totals from the current snapshot.
func printState(cmd *cobra.Command, app *cli.App) error {
	return cli.PrintState(cmd.OutOrStdout(), calcState(app))
}

func calcState(app *cli.App) calc.State {
	return calc.Derive(app.Store.Snapshot())
}
