// Generates deterministic sample transaction files under testdata/.
//
// transactions.csv uses the strict storage schema (card_type holds the
// network brand). cost_transactions.csv uses the cost-pipeline schema with a
// timestamp column and separate card_brand / card_type axes, spanning four
// weeks so the weekly trend has enough buckets.
package main

import (
	"encoding/csv"
	"fmt"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"time"
)

func main() {
	rng := rand.New(rand.NewSource(42))
	baseDir := findTestdataDir()

	// Date range: four full weeks.
	startDate := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)
	dayRange := 28

	merchants := make([]string, 10)
	for i := range merchants {
		merchants[i] = fmt.Sprintf("MERCH_%03d", i+1)
	}

	brands := []string{"Visa", "Mastercard", "Visa", "Mastercard", "Amex", "Discover"}
	cardTypes := []string{"Credit", "Credit", "Debit", "Debit (Prepaid)"}

	generateStorageCSV(rng, baseDir, merchants, brands, startDate, dayRange)
	generateCostCSV(rng, baseDir, merchants, brands, cardTypes, startDate, dayRange)

	fmt.Println("Test data generation complete.")
}

func generateStorageCSV(rng *rand.Rand, baseDir string, merchants, brands []string, start time.Time, dayRange int) {
	filePath := filepath.Join(baseDir, "transactions.csv")
	f, err := os.Create(filePath)
	if err != nil {
		panic(err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	w.Write([]string{
		"transaction_id", "transaction_date", "merchant_id",
		"amount", "transaction_type", "card_type",
	})

	count := 200
	for i := 0; i < count; i++ {
		date := start.AddDate(0, 0, rng.Intn(dayRange))

		// Amount between 1 and 500, two decimal places.
		amount := 1 + rng.Float64()*499
		amount = math.Round(amount*100) / 100

		// Type distribution: 90% sale, 8% refund, 2% void.
		txnType := "Sale"
		switch roll := rng.Float64(); {
		case roll >= 0.98:
			txnType = "Void"
		case roll >= 0.90:
			txnType = "Refund"
		}

		w.Write([]string{
			txnID(rng),
			date.Format("2006-01-02"),
			merchants[rng.Intn(len(merchants))],
			fmt.Sprintf("%.2f", amount),
			txnType,
			brands[rng.Intn(len(brands))],
		})
	}

	fmt.Printf("Generated %d storage records -> transactions.csv\n", count)
}

func generateCostCSV(rng *rand.Rand, baseDir string, merchants, brands, cardTypes []string, start time.Time, dayRange int) {
	filePath := filepath.Join(baseDir, "cost_transactions.csv")
	f, err := os.Create(filePath)
	if err != nil {
		panic(err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	w.Write([]string{
		"transaction_id", "merchant_id", "date", "amount",
		"card_type", "card_brand", "transaction_type",
	})

	count := 300
	for i := 0; i < count; i++ {
		ts := start.AddDate(0, 0, rng.Intn(dayRange)).
			Add(time.Duration(rng.Intn(24))*time.Hour + time.Duration(rng.Intn(60))*time.Minute)

		// Amount bands: 10% small ticket (< 5), 5% large ticket (>= 1000),
		// 5% refund (negative), 2% zero, rest mid-range.
		var amount float64
		switch roll := rng.Float64(); {
		case roll < 0.10:
			amount = 0.50 + rng.Float64()*4.49
		case roll < 0.15:
			amount = 1000 + rng.Float64()*2000
		case roll < 0.20:
			amount = -(5 + rng.Float64()*195)
		case roll < 0.22:
			amount = 0
		default:
			amount = 5 + rng.Float64()*495
		}
		amount = math.Round(amount*100) / 100

		txnType := "Sale"
		if amount < 0 {
			txnType = "Refund"
		}

		w.Write([]string{
			txnID(rng),
			merchants[rng.Intn(len(merchants))],
			ts.Format("2006-01-02 15:04:05"),
			fmt.Sprintf("%.2f", amount),
			cardTypes[rng.Intn(len(cardTypes))],
			brands[rng.Intn(len(brands))],
			txnType,
		})
	}

	fmt.Printf("Generated %d cost records -> cost_transactions.csv\n", count)
}

// txnID builds a fixed-length ID: TXN plus 12 digits.
func txnID(rng *rand.Rand) string {
	return fmt.Sprintf("TXN%012d", rng.Int63n(1e12))
}

func findTestdataDir() string {
	candidates := []string{"testdata", "./testdata"}
	for _, c := range candidates {
		if info, err := os.Stat(c); err == nil && info.IsDir() {
			return c
		}
	}
	return "testdata"
}
