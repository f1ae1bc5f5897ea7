package cmd

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/merchantiq/feecost/internal/analytics"
	"github.com/merchantiq/feecost/internal/batch"
	"github.com/merchantiq/feecost/internal/decode"
	"github.com/merchantiq/feecost/internal/domain"
	"github.com/merchantiq/feecost/internal/feetable"
	"github.com/merchantiq/feecost/internal/logging"
	"github.com/merchantiq/feecost/internal/schema"
)

var (
	inputFile string
	mccCode   int
	outFile   string
	brandDir  string
)

var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Compute fee costs for a transaction file",
	Long: `Reads a CSV or XLSX transaction export, matches every row against the
card and network fee tables for the given MCC, and prints an aggregate cost
report as JSON. With --out, the per-transaction enriched records are also
written to a CSV file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runProcess()
	},
}

func init() {
	rootCmd.AddCommand(processCmd)

	processCmd.Flags().StringVar(&inputFile, "file", "", "transaction file to process (.csv or .xlsx)")
	processCmd.Flags().IntVar(&mccCode, "mcc", 5499, "merchant category code for fee matching")
	processCmd.Flags().StringVar(&outFile, "out", "", "write enriched records to this CSV file")
	processCmd.Flags().StringVar(&brandDir, "brand-dir", "", "directory with fee table overrides")
	processCmd.MarkFlagRequired("file")
}

func runProcess() error {
	data, err := os.ReadFile(inputFile)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	headers, rows, err := decode.Decode(filepath.Base(inputFile), data)
	if err != nil {
		return fmt.Errorf("decode %s: %w", inputFile, err)
	}

	records, rowErrs := schema.BuildCostRecords(headers, rows)
	if len(records) == 0 && len(rowErrs) > 0 {
		return fmt.Errorf("no usable rows: %s", rowErrs[0].Error())
	}
	for _, e := range rowErrs {
		fmt.Fprintf(os.Stderr, "warning: %s\n", e.Error())
	}

	tables, err := feetable.Load(brandDir)
	if err != nil {
		return fmt.Errorf("load fee tables: %w", err)
	}

	level := "warn"
	if verbose {
		level = "debug"
	}
	logger := logging.New(level, "console")
	defer logger.Sync()

	processor := batch.NewProcessor(tables, logger)
	enriched := processor.Process(records, mccCode)
	report := analytics.Aggregate(enriched)

	if outFile != "" {
		if err := writeEnrichedCSV(outFile, enriched); err != nil {
			return fmt.Errorf("write enriched output: %w", err)
		}
		fmt.Fprintf(os.Stderr, "wrote %d enriched records to %s\n", len(enriched), outFile)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	return nil
}

func writeEnrichedCSV(path string, records []domain.EnrichedRecord) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := []string{
		"transaction_id", "transaction_date", "amount", "transaction_type",
		"card_brand", "card_type", "mcc", "product",
		"card_cost", "network_cost", "total_cost", "match_found",
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, r := range records {
		date := ""
		if r.HasDate() {
			date = r.TransactionDate.Format("2006-01-02")
		}
		row := []string{
			r.TransactionID,
			date,
			r.Amount.String(),
			string(r.TransactionType),
			string(r.CardBrand),
			r.CardType,
			fmt.Sprintf("%d", r.MCC),
			r.Product,
			r.CardCost.String(),
			r.NetworkCost.String(),
			r.TotalCost.String(),
			fmt.Sprintf("%t", r.MatchFound),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return w.Error()
}
