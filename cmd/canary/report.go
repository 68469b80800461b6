package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/verdantis/carbon-canary/internal/report"
)

func reportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report <validation-id>",
		Short: "Display a stored validation result",
		Args:  cobra.ExactArgs(1),
		RunE:  runReport,
	}

	cmd.Flags().String("detail", "comprehensive", "Report detail (executive, summary, comprehensive)")

	return cmd
}

func runReport(cmd *cobra.Command, args []string) error {
	detail, _ := cmd.Flags().GetString("detail")
	ctx := cmd.Context()

	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer func() { _ = store.Close() }()

	result, err := store.GetResult(ctx, args[0])
	if err != nil {
		return fmt.Errorf("failed to load validation result: %w", err)
	}

	formatter := report.NewCLIFormatter()
	fmt.Println(formatter.Format(result, report.Detail(detail)))

	return nil
}
