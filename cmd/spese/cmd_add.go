package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"speseledger/internal/cli"
	"speseledger/internal/core"
	"speseledger/internal/ledger"
)

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Record a new expense",
	Long: `Record a new expense. The date defaults to today.

Examples:
  spese add --category Food --amount 12.50
  spese add --date 2024-03-01 --category Other --other Gifts --amount 20`,
	Args: cobra.NoArgs,
	RunE: runAdd,
}

// Add command flags
var (
	addDate     string
	addCategory string
	addOther    string
	addAmount   string
)

func init() {
	rootCmd.AddCommand(addCmd)

	addCmd.Flags().StringVar(&addDate, "date", "", "Expense date, YYYY-MM-DD (default today)")
	addCmd.Flags().StringVar(&addCategory, "category", "", "One of "+strings.Join(core.Categories, ", "))
	addCmd.Flags().StringVar(&addOther, "other", "", "Category name when --category is Other")
	addCmd.Flags().StringVar(&addAmount, "amount", "", "Amount, must be positive (12.50 or 12,50)")
	_ = addCmd.MarkFlagRequired("category")
	_ = addCmd.MarkFlagRequired("amount")
}

func runAdd(cmd *cobra.Command, args []string) error {
	if !core.IsCategory(addCategory) {
		return fmt.Errorf("unknown category %q: must be one of %s", addCategory, strings.Join(core.Categories, ", "))
	}

	amount, err := core.ParseAmount(addAmount)
	if err != nil {
		return fmt.Errorf("invalid amount %q: %w", addAmount, err)
	}

	draft := core.NewDraft(time.Now())
	if addDate != "" {
		draft.Date = addDate
	}
	draft.Category = addCategory
	draft.Amount = amount.Float()

	return withApp(cmd, func(ctx context.Context, app *cli.App) error {
		category, err := core.ResolveCategory(addCategory, addOther)
		if err == nil {
			draft.Category = category
			_, err = app.Store.Add(ctx, draft)
		} else {
			err = fmt.Errorf("%w: %w", ledger.ErrRejected, err)
		}

		switch {
		case errors.Is(err, ledger.ErrRejected):
			fmt.Fprintf(cmd.ErrOrStderr(), "%v\nDraft kept:\n", err)
			_ = cli.PrintDraft(cmd.ErrOrStderr(), draft)
			return err
		case err != nil:
			// the ledger was updated in memory, show it before failing
			_ = printState(cmd, app)
			return err
		}
		return printState(cmd, app)
	})
}
