package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/verdantis/carbon-canary/internal/cli"
	"github.com/verdantis/carbon-canary/internal/model"
)

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import companies or emissions calculations from CSV",
	}

	cmd.AddCommand(importCompaniesCmd())
	cmd.AddCommand(importCalculationsCmd())

	return cmd
}

func importCompaniesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "companies <file.csv>",
		Short: "Import companies from a CSV file",
		Long: `Import companies from a CSV file with a header row and columns:
id,name,ticker,cik,industry,sector,headquarters_country,annual_revenue_usd

A missing id is generated. Existing companies are updated in place.`,
		Args: cobra.ExactArgs(1),
		RunE: runImportCompanies,
	}
}

func importCalculationsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "calculations <file.csv>",
		Short: "Import emissions calculations from a CSV file",
		Long: `Import emissions calculations from a CSV file with a header row and
columns:
id,period_start,period_end,scope1_tco2e,scope2_tco2e,fuel_consumption,electricity_consumption

Dates use the 2006-01-02 format. A missing id is generated. Existing
calculations are updated in place.`,
		Args: cobra.ExactArgs(1),
		RunE: runImportCalculations,
	}

	cmd.Flags().String("company", "", "Company ID the calculations belong to (required)")
	_ = cmd.MarkFlagRequired("company")

	return cmd
}

func runImportCompanies(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	rows, err := readCSV(args[0], 8)
	if err != nil {
		return err
	}

	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer func() { _ = store.Close() }()

	imported := 0
	for i, row := range rows {
		revenue, parseErr := parseFloat(row[7])
		if parseErr != nil {
			return fmt.Errorf("row %d: invalid annual_revenue_usd: %w", i+2, parseErr)
		}

		company := model.Company{
			ID:                  row[0],
			Name:                row[1],
			Ticker:              row[2],
			CIK:                 row[3],
			Industry:            row[4],
			Sector:              row[5],
			HeadquartersCountry: row[6],
			AnnualRevenueUSD:    revenue,
		}
		if company.ID == "" {
			company.ID = uuid.New().String()
		}

		if err := store.SaveCompany(ctx, &company); err != nil {
			return fmt.Errorf("row %d: %w", i+2, err)
		}
		imported++
	}

	fmt.Println(cli.FormatSuccess(fmt.Sprintf("Imported %d companies", imported)))
	return nil
}

func runImportCalculations(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	companyID, _ := cmd.Flags().GetString("company")

	rows, err := readCSV(args[0], 7)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		fmt.Println(cli.FormatWarning("No calculations found in file"))
		return nil
	}

	calcs := make([]model.EmissionsCalculation, 0, len(rows))
	for i, row := range rows {
		calc, parseErr := parseCalculation(companyID, row)
		if parseErr != nil {
			return fmt.Errorf("row %d: %w", i+2, parseErr)
		}
		calcs = append(calcs, calc)
	}

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
		return fmt.Errorf("company %s is not registered; import companies first", companyID)
	}

	if err := store.SaveCalculations(ctx, calcs); err != nil {
		return fmt.Errorf("failed to save calculations: %w", err)
	}

	fmt.Println(cli.FormatSuccess(fmt.Sprintf("Imported %d calculations for %s", len(calcs), company.Name)))
	return nil
}

func parseCalculation(companyID string, row []string) (model.EmissionsCalculation, error) {
	calc := model.EmissionsCalculation{
		ID:        row[0],
		CompanyID: companyID,
	}
	if calc.ID == "" {
		calc.ID = uuid.New().String()
	}

	var err error
	if calc.PeriodStart, err = time.Parse("2006-01-02", row[1]); err != nil {
		return calc, fmt.Errorf("invalid period_start: %w", err)
	}
	if calc.PeriodEnd, err = time.Parse("2006-01-02", row[2]); err != nil {
		return calc, fmt.Errorf("invalid period_end: %w", err)
	}
	if calc.Scope1TCO2e, err = parseFloat(row[3]); err != nil {
		return calc, fmt.Errorf("invalid scope1_tco2e: %w", err)
	}
	if calc.Scope2TCO2e, err = parseFloat(row[4]); err != nil {
		return calc, fmt.Errorf("invalid scope2_tco2e: %w", err)
	}
	if calc.FuelConsumption, err = parseFloat(row[5]); err != nil {
		return calc, fmt.Errorf("invalid fuel_consumption: %w", err)
	}
	if calc.ElectricityConsumption, err = parseFloat(row[6]); err != nil {
		return calc, fmt.Errorf("invalid electricity_consumption: %w", err)
	}

	return calc, calc.Validate()
}

// readCSV reads a CSV file with a header row, enforcing a column count.
func readCSV(path string, columns int) ([][]string, error) {
	f, err := os.Open(path) // #nosec G304
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = columns

	// Skip header
	if _, err := reader.Read(); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	var rows [][]string
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row: %w", err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func parseFloat(s string) (float64, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.ParseFloat(s, 64)
}
