package main

import (
	"fmt"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/verdantis/carbon-canary/internal/cli"
	"github.com/verdantis/carbon-canary/internal/report"
	"github.com/verdantis/carbon-canary/internal/validation"
)

func batchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch [company-id...]",
		Short: "Validate a portfolio of companies",
		Long: `Run validation for several companies in one pass. With no arguments
every registered company is validated. Failures are isolated per
company; one bad company never aborts the rest.`,
		RunE: runBatch,
	}

	cmd.Flags().IntP("year", "y", time.Now().Year()-1, "Reporting year to validate")
	cmd.Flags().IntP("concurrency", "c", 4, "Number of validations to run in parallel")
	cmd.Flags().String("detail", "executive", "Report detail per company (executive, summary, comprehensive)")

	return cmd
}

func runBatch(cmd *cobra.Command, args []string) error {
	year, _ := cmd.Flags().GetInt("year")
	concurrency, _ := cmd.Flags().GetInt("concurrency")
	detail, _ := cmd.Flags().GetString("detail")

	// Interruptions leave completed validations persisted
	handler := cli.NewInterruptHandler(os.Stdout)
	ctx := handler.HandleInterrupts(cmd.Context(), true)

	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer func() { _ = store.Close() }()

	engine, err := initEngine(store)
	if err != nil {
		return err
	}

	companyIDs := args
	if len(companyIDs) == 0 {
		companies, listErr := store.ListCompanies(ctx)
		if listErr != nil {
			return fmt.Errorf("failed to list companies: %w", listErr)
		}
		for i := range companies {
			companyIDs = append(companyIDs, companies[i].ID)
		}
	}
	if len(companyIDs) == 0 {
		fmt.Println(cli.FormatWarning("No companies to validate"))
		return nil
	}

	bar := progressbar.NewOptions(len(companyIDs),
		progressbar.OptionSetDescription("Validating"),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)

	batch := engine.ValidateBatch(ctx, companyIDs, year, concurrency, func() {
		_ = bar.Add(1)
	})
	_ = bar.Finish()

	formatter := report.NewCLIFormatter()
	for _, result := range batch.Results {
		fmt.Println(formatter.Format(result, report.Detail(detail)))
		fmt.Println()
	}

	for _, failure := range batch.Errors {
		fmt.Println(cli.FormatError(fmt.Sprintf("%s: %v", failure.CompanyID, failure.Err)))
	}

	fmt.Println(summarizeBatch(batch))
	if handler.WasInterrupted() {
		return fmt.Errorf("batch interrupted after %d of %d companies",
			len(batch.Results)+len(batch.Errors), len(companyIDs))
	}
	return nil
}

func summarizeBatch(batch validation.BatchResult) string {
	passed, warned, failed := 0, 0, 0
	for _, result := range batch.Results {
		switch result.Status {
		case validation.StatusPassed:
			passed++
		case validation.StatusWarning:
			warned++
		default:
			failed++
		}
	}
	return cli.FormatInfo(fmt.Sprintf(
		"Batch complete: %d passed, %d warnings, %d failed, %d errors",
		passed, warned, failed, len(batch.Errors)))
}
