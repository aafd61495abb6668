package main

import (
	"context"

	"github.com/spf13/cobra"

	"speseledger/internal/cli"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List expenses and totals",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, app *cli.App) error {
			return printState(cmd, app)
		})
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
