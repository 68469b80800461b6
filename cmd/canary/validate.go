package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/verdantis/carbon-canary/internal/report"
)

func validateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <company-id>",
		Short: "Validate a company's emissions data",
		Long: `Run the full validation pipeline for one company and reporting year:
cross-verify totals against the EPA GHGRP registry, detect anomalies,
score confidence, and classify compliance readiness.`,
		Args: cobra.ExactArgs(1),
		RunE: runValidate,
	}

	cmd.Flags().IntP("year", "y", time.Now().Year()-1, "Reporting year to validate")
	cmd.Flags().String("detail", "summary", "Report detail (executive, summary, comprehensive)")

	return cmd
}

func runValidate(cmd *cobra.Command, args []string) error {
	companyID := args[0]
	year, _ := cmd.Flags().GetInt("year")
	detail, _ := cmd.Flags().GetString("detail")

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

	result, err := engine.Validate(ctx, companyID, year)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	formatter := report.NewCLIFormatter()
	fmt.Println(formatter.Format(result, report.Detail(detail)))

	return nil
}
