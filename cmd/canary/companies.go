package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/verdantis/carbon-canary/internal/report"
)

func companiesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "companies",
		Short: "List registered companies",
		RunE:  runCompanies,
	}
}

func runCompanies(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer func() { _ = store.Close() }()

	companies, err := store.ListCompanies(ctx)
	if err != nil {
		return fmt.Errorf("failed to list companies: %w", err)
	}

	formatter := report.NewCLIFormatter()
	fmt.Println(formatter.FormatCompanies(companies))

	return nil
}
