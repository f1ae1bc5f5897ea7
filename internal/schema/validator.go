// Package schema validates decoded transaction rows and turns them into
// typed records.
//
// Two row populations exist on purpose. The storage pipeline (Validate) is
// strict: amounts must be positive, every enum must hold. The cost pipeline
// (BuildCostRecords) accepts non-positive amounts so refunds and voids flow
// through batch processing as zero-cost, unmatched records.
package schema

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/merchantiq/feecost/internal/domain"
)

// RequiredColumns are the headers every transaction file must carry, after
// trimming and lowercasing.
var RequiredColumns = []string{
	"transaction_id", "transaction_date", "merchant_id",
	"amount", "transaction_type", "card_type",
}

var validTransactionTypes = []string{"Sale", "Refund", "Void"}

// The storage-file card_type column carries the network brand.
var validCardBrands = []string{"Visa", "Mastercard", "Amex", "Discover"}

// dateFormats are tried in order: DD/MM/YYYY, YYYY-MM-DD, MM/DD/YYYY.
var dateFormats = []string{"02/01/2006", "2006-01-02", "01/02/2006"}

// Result is the outcome of validating one decoded file.
type Result struct {
	Headers   []string                 `json:"headers"`
	ValidRows []map[string]string      `json:"-"`
	Errors    []domain.ValidationError `json:"errors"`
}

// NormalizeHeaders trims and lowercases every header name.
func NormalizeHeaders(headers []string) []string {
	out := make([]string, len(headers))
	for i, h := range headers {
		out[i] = strings.ToLower(strings.TrimSpace(h))
	}
	return out
}

// MissingColumns returns the required headers absent from the normalized set.
func MissingColumns(headers []string) []string {
	present := make(map[string]bool, len(headers))
	for _, h := range NormalizeHeaders(headers) {
		present[h] = true
	}
	var missing []string
	for _, col := range RequiredColumns {
		if !present[col] {
			missing = append(missing, col)
		}
	}
	return missing
}

// Validate checks headers and rows under the strict storage rules. A missing
// required header fails the whole file with a single MISSING_COLUMNS error
// and no row processing. Otherwise every row is fully checked: all violated
// fields are reported, rows with zero errors are collected in input order,
// and all errors across all rows are concatenated in order. Row numbers are
// 1-indexed with the header as row 1.
func Validate(headers []string, rows []map[string]string) Result {
	normalized := NormalizeHeaders(headers)

	if missing := MissingColumns(headers); len(missing) > 0 {
		return Result{
			Headers: normalized,
			Errors: []domain.ValidationError{{
				Row:     0,
				Column:  strings.Join(missing, ", "),
				Message: "Missing required columns: " + strings.Join(missing, ", "),
				Kind:    domain.ErrMissingColumns,
			}},
		}
	}

	res := Result{Headers: normalized}
	for i, row := range rows {
		rowNum := i + 2 // header is row 1
		rowErrs := validateRow(row, rowNum)
		if len(rowErrs) == 0 {
			res.ValidRows = append(res.ValidRows, row)
		}
		res.Errors = append(res.Errors, rowErrs...)
	}
	return res
}

func validateRow(row map[string]string, rowNum int) []domain.ValidationError {
	var errs []domain.ValidationError

	fail := func(column, message string, kind domain.ErrorKind) {
		errs = append(errs, domain.ValidationError{
			Row: rowNum, Column: column, Message: message, Kind: kind,
		})
	}

	// Missing-value checks look at the raw cell. A whitespace-only value is
	// present but malformed, so it falls through to the per-field checks
	// below and reports exactly one error.
	for _, col := range RequiredColumns {
		if row[col] == "" {
			fail(col, "Required field cannot be empty", domain.ErrMissingValue)
		}
	}

	if v := row["transaction_id"]; v != "" && strings.TrimSpace(v) == "" {
		fail("transaction_id", "Invalid transaction ID format", domain.ErrInvalidFormat)
	}
	if v := row["merchant_id"]; v != "" && strings.TrimSpace(v) == "" {
		fail("merchant_id", "Invalid merchant ID format", domain.ErrInvalidFormat)
	}

	if v := row["transaction_date"]; v != "" {
		if _, err := ParseDate(v); err != nil {
			fail("transaction_date",
				"Invalid date format (use DD/MM/YYYY, YYYY-MM-DD, or MM/DD/YYYY)",
				domain.ErrInvalidDate)
		}
	}

	if v := row["amount"]; v != "" {
		amount, err := decimal.NewFromString(strings.TrimSpace(v))
		if err != nil || amount.Sign() <= 0 {
			fail("amount", "Amount must be a positive number", domain.ErrInvalidType)
		}
	}

	if v := row["transaction_type"]; v != "" && !contains(validTransactionTypes, v) {
		fail("transaction_type",
			"Transaction type must be one of: "+strings.Join(validTransactionTypes, ", "),
			domain.ErrInvalidType)
	}

	if v := row["card_type"]; v != "" && !contains(validCardBrands, v) {
		fail("card_type",
			"Card type must be one of: "+strings.Join(validCardBrands, ", "),
			domain.ErrInvalidType)
	}

	return errs
}

// ParseDate parses a date under the supported formats, in order.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
