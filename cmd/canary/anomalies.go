package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/verdantis/carbon-canary/internal/report"
)

func anomaliesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "anomalies <company-id>",
		Short: "Detect anomalies in a company's emissions data",
		Long: `Run only the anomaly detectors for one company and reporting year:
year-over-year variance, same-month statistical outliers, industry
benchmark deviation, and operational data consistency.`,
		Args: cobra.ExactArgs(1),
		RunE: runAnomalies,
	}

	cmd.Flags().IntP("year", "y", time.Now().Year()-1, "Reporting year to analyze")

	return cmd
}

func runAnomalies(cmd *cobra.Command, args []string) error {
	companyID := args[0]
	year, _ := cmd.Flags().GetInt("year")

	ctx := cmd.Context()

	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer func() { _ = store.Close() }()

	engine, err := initEngine(store)
	if err != nil {
		return err
	}

	rep, err := engine.DetectAnomalies(ctx, companyID, year)
	if err != nil {
		return fmt.Errorf("anomaly detection failed: %w", err)
	}

	formatter := report.NewCLIFormatter()
	fmt.Println(formatter.FormatAnomalyReport(rep))

	return nil
}
