package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TypeSale   TransactionType = "Sale"
	TypeRefund TransactionType = "Refund"
	TypeVoid   TransactionType = "Void"
)

type CardBrand string

const (
	BrandVisa       CardBrand = "Visa"
	BrandMastercard CardBrand = "Mastercard"
	BrandAmex       CardBrand = "Amex"
	BrandDiscover   CardBrand = "Discover"
)

// TransactionRecord is a single validated transaction row. It is built once
// at the decoding boundary and never mutated afterwards.
type TransactionRecord struct {
	TransactionID   string          `json:"transaction_id"`
	TransactionDate time.Time       `json:"transaction_date"`
	MerchantID      string          `json:"merchant_id"`
	Amount          decimal.Decimal `json:"amount"`
	TransactionType string          `json:"transaction_type"`
	CardType        string          `json:"card_type"`
	CardBrand       CardBrand       `json:"card_brand,omitempty"`
	BatchID         string          `json:"batch_id,omitempty"`
}

// HasDate reports whether the record carries a usable date for trend
// bucketing. Records from sources without a date column have a zero date.
func (t *TransactionRecord) HasDate() bool {
	return !t.TransactionDate.IsZero()
}
