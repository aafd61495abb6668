package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"speseledger/internal/cli"
	"speseledger/internal/core"
	"speseledger/internal/ledger"
)

var deleteCmd = &cobra.Command{
	Use:   "delete [INDEX]",
	Short: "Delete an expense by position or id",
	Long: `Delete an expense by its position as shown by 'spese list', or by its id.
Later expenses shift down by one.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDelete,
}

var deleteID string

func init() {
	rootCmd.AddCommand(deleteCmd)

	deleteCmd.Flags().StringVar(&deleteID, "id", "", "Delete the expense with this id")
}

func runDelete(cmd *cobra.Command, args []string) error {
	if (len(args) == 1) == (deleteID != "") {
		return errors.New("give either INDEX or --id")
	}

	index := -1
	if len(args) == 1 {
		i, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid index %q: %w", args[0], err)
		}
		index = i
	}

	return withApp(cmd, func(ctx context.Context, app *cli.App) error {
		var (
			removed core.Expense
			err     error
		)
		if deleteID != "" {
			removed, err = app.Store.DeleteByID(ctx, deleteID)
		} else {
			removed, err = app.Store.Delete(ctx, index)
		}
		if err != nil && !errors.Is(err, ledger.ErrPersist) {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s %s %s\n\n", removed.Date, removed.Category, removed.Amount)
		if perr := printState(cmd, app); perr != nil {
			return perr
		}
		return err
	})
}
