package schema

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/merchantiq/feecost/internal/domain"
)

// costRequiredColumns are the headers the cost pipeline needs. Dates are
// optional there: without one the record is simply excluded from trend
// bucketing.
var costRequiredColumns = []string{"transaction_id", "card_brand", "card_type", "amount"}

// timestampFormats extend the date formats for cost-pipeline rows carrying a
// full timestamp column.
var timestampFormats = []string{time.RFC3339, "2006-01-02 15:04:05"}

// BuildStoredRecords converts rows that already passed Validate into typed
// records for persistence. Fields are trusted not to fail parsing here.
func BuildStoredRecords(rows []map[string]string, batchID string) []domain.TransactionRecord {
	records := make([]domain.TransactionRecord, 0, len(rows))
	for _, row := range rows {
		date, _ := ParseDate(row["transaction_date"])
		amount, _ := decimal.NewFromString(strings.TrimSpace(row["amount"]))
		records = append(records, domain.TransactionRecord{
			TransactionID:   strings.TrimSpace(row["transaction_id"]),
			TransactionDate: date,
			MerchantID:      strings.TrimSpace(row["merchant_id"]),
			Amount:          amount,
			TransactionType: strings.TrimSpace(row["transaction_type"]),
			CardBrand:       domain.CardBrand(strings.TrimSpace(row["card_type"])),
			BatchID:         batchID,
		})
	}
	return records
}

// BuildCostRecords converts decoded rows into cost-pipeline records. Unlike
// Validate it accepts non-positive amounts (refunds and voids are priced at
// zero downstream) and tolerates missing dates. A row is excluded only when
// its identity or amount cannot be read at all; such failures are collected
// as row-tagged errors and processing continues.
func BuildCostRecords(headers []string, rows []map[string]string) ([]domain.TransactionRecord, []domain.ValidationError) {
	var errs []domain.ValidationError

	present := make(map[string]bool)
	for _, h := range NormalizeHeaders(headers) {
		present[h] = true
	}
	var missing []string
	for _, col := range costRequiredColumns {
		if !present[col] {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, []domain.ValidationError{{
			Row:     0,
			Column:  strings.Join(missing, ", "),
			Message: "Missing required columns: " + strings.Join(missing, ", "),
			Kind:    domain.ErrMissingColumns,
		}}
	}

	records := make([]domain.TransactionRecord, 0, len(rows))
	for i, row := range rows {
		rowNum := i + 2

		id := strings.TrimSpace(row["transaction_id"])
		if id == "" {
			errs = append(errs, domain.ValidationError{
				Row: rowNum, Column: "transaction_id",
				Message: "Required field cannot be empty",
				Kind:    domain.ErrMissingValue,
			})
			continue
		}

		amount, err := decimal.NewFromString(strings.TrimSpace(row["amount"]))
		if err != nil {
			errs = append(errs, domain.ValidationError{
				Row: rowNum, Column: "amount",
				Message: "Amount must be numeric",
				Kind:    domain.ErrInvalidType,
			})
			continue
		}

		records = append(records, domain.TransactionRecord{
			TransactionID:   id,
			TransactionDate: parseRowDate(row),
			MerchantID:      strings.TrimSpace(row["merchant_id"]),
			Amount:          amount,
			TransactionType: strings.TrimSpace(row["transaction_type"]),
			CardType:        strings.TrimSpace(row["card_type"]),
			CardBrand:       domain.CardBrand(strings.TrimSpace(row["card_brand"])),
		})
	}
	return records, errs
}

// parseRowDate reads the first usable date or timestamp column. A row with
// no parseable date gets a zero date; the trend engine skips it rather than
// failing the report.
func parseRowDate(row map[string]string) time.Time {
	for _, key := range []string{"date", "timestamp", "transaction_date"} {
		v := strings.TrimSpace(row[key])
		if v == "" {
			continue
		}
		if t, err := ParseDate(v); err == nil {
			return t
		}
		for _, layout := range timestampFormats {
			if t, err := time.Parse(layout, v); err == nil {
				return t
			}
		}
	}
	return time.Time{}
}
