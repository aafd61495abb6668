package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"speseledger/internal/cli"
	"speseledger/internal/core"
)

var incomeCmd = &cobra.Command{
	Use:   "income VALUE",
	Short: "Set the monthly income",
	Long: `Set the declared monthly income. The value is stored as given, negative
values included.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		value, err := core.ParseAmount(args[0])
		if err != nil {
			return fmt.Errorf("invalid income %q: %w", args[0], err)
		}
		return withApp(cmd, func(ctx context.Context, app *cli.App) error {
			err := app.Store.SetMonthlyIncome(ctx, value.Float())
			if perr := cli.PrintTotals(cmd.OutOrStdout(), calcState(app)); perr != nil {
				return perr
			}
			return err
		})
	},
}

func init() {
	rootCmd.AddCommand(incomeCmd)
}
