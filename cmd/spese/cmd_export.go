package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"speseledger/internal/cli"
	"speseledger/internal/export"
	applog "speseledger/internal/log"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the ledger and derived totals",
	Long: `Export the ledger with its derived totals.

Examples:
  spese export
  spese export --format yaml
  spese export --format csv --output expenses.csv`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

// Export command flags
var (
	exportFormat string
	exportOutput string
)

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVar(&exportFormat, "format", "json", "Output format (json|yaml|csv)")
	exportCmd.Flags().StringVar(&exportOutput, "output", "", "Output file (default: stdout)")
}

func runExport(cmd *cobra.Command, args []string) error {
	format, err := export.ParseFormat(exportFormat)
	if err != nil {
		return err
	}

	return withApp(cmd, func(ctx context.Context, app *cli.App) error {
		var w io.Writer = cmd.OutOrStdout()
		if exportOutput != "" {
			f, err := os.Create(exportOutput)
			if err != nil {
				return fmt.Errorf("create %s: %w", exportOutput, err)
			}
			defer f.Close()
			w = f
		}

		l := app.Store.Snapshot()
		if err := export.Write(w, format, l); err != nil {
			return err
		}
		applog.FromContext(ctx).WithComponent(applog.ComponentExport).DebugContext(ctx, "Ledger exported",
			applog.FieldOperation, applog.OpExport,
			applog.FieldCount, l.Len(),
			applog.FieldPath, exportOutput)
		return nil
	})
}
