package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/verdantis/carbon-canary/internal/config"
	"github.com/verdantis/carbon-canary/internal/ghgrp"
	"github.com/verdantis/carbon-canary/internal/report"
)

func searchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <company-id>",
		Short: "Search the EPA GHGRP registry for a company",
		Long: `Query the EPA Greenhouse Gas Reporting Program registry for facilities
matching a registered company, ranked by match confidence.`,
		Args: cobra.ExactArgs(1),
		RunE: runSearch,
	}

	cmd.Flags().IntP("year", "y", time.Now().Year()-1, "Reporting year for match ranking")
	cmd.Flags().IntP("limit", "n", 5, "Maximum matches to display")

	return cmd
}

func runSearch(cmd *cobra.Command, args []string) error {
	companyID := args[0]
	year, _ := cmd.Flags().GetInt("year")
	limit, _ := cmd.Flags().GetInt("limit")

	ctx := cmd.Context()

	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer func() { _ = store.Close() }()

	company, err := store.GetCompany(ctx, companyID)
	if err != nil {
		return fmt.Errorf("failed to load company: %w", err)
	}
	if company == nil {
		return fmt.Errorf("company %s is not registered", companyID)
	}

	gateway := ghgrp.NewClient(config.LoadRegistryConfig())
	matches, err := gateway.Search(ctx, company, year)
	if err != nil {
		return fmt.Errorf("registry search failed: %w", err)
	}
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}

	formatter := report.NewCLIFormatter()
	fmt.Println(formatter.FormatMatches(matches))

	return nil
}
