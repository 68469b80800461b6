package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/verdantis/carbon-canary/internal/cli"
	"github.com/verdantis/carbon-canary/internal/config"
	"github.com/verdantis/carbon-canary/internal/sheets"
	"github.com/verdantis/carbon-canary/internal/validation"
)

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export <company-id>",
		Short: "Export stored validation results to Google Sheets",
		Long: `Export a company's stored validation results to a Google Sheets
spreadsheet for filing review. Authentication uses either a service
account or OAuth2 credentials; see the sheets section of the config.`,
		Args: cobra.ExactArgs(1),
		RunE: runExport,
	}

	cmd.Flags().Int("limit", 0, "Export only the most recent N results (0 = all)")

	return cmd
}

func runExport(cmd *cobra.Command, args []string) error {
	companyID := args[0]
	limit, _ := cmd.Flags().GetInt("limit")
	ctx := cmd.Context()

	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer func() { _ = store.Close() }()

	stored, err := store.ListResults(ctx, companyID)
	if err != nil {
		return fmt.Errorf("failed to load validation results: %w", err)
	}
	if len(stored) == 0 {
		fmt.Println(cli.FormatWarning("No validation results to export"))
		return nil
	}
	if limit > 0 && len(stored) > limit {
		stored = stored[:limit]
	}

	sheetsCfg, err := config.LoadSheetsConfig()
	if err != nil {
		return fmt.Errorf("failed to load sheets configuration: %w", err)
	}

	writer, err := sheets.NewWriter(ctx, *sheetsCfg, slog.Default())
	if err != nil {
		return fmt.Errorf("failed to create sheets writer: %w", err)
	}

	results := make([]*validation.Result, len(stored))
	for i := range stored {
		results[i] = &stored[i]
	}

	if err := writer.Write(ctx, results); err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	fmt.Println(cli.FormatSuccess(fmt.Sprintf("Exported %d validation results", len(results))))
	return nil
}
