package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Upload tracks one ingested transaction file. FileHash makes ingestion
// idempotent: a byte-identical re-upload is skipped.
type Upload struct {
	ID          string    `json:"id"`
	Filename    string    `json:"filename"`
	FileType    string    `json:"file_type"`
	MerchantID  string    `json:"merchant_id,omitempty"`
	FileHash    string    `json:"file_hash"`
	RecordCount int       `json:"record_count"`
	ErrorCount  int       `json:"error_count"`
	UploadedAt  time.Time `json:"uploaded_at"`
}

// CostReport is the persisted summary of one processed batch, kept for
// audit/history. The full per-record breakdown is returned to the caller
// but not stored.
type CostReport struct {
	ID               string          `json:"id"`
	MerchantID       string          `json:"merchant_id,omitempty"`
	Filename         string          `json:"filename"`
	MCC              int             `json:"mcc"`
	TransactionCount int             `json:"transaction_count"`
	UnmatchedCount   int             `json:"unmatched_count"`
	TotalVolume      decimal.Decimal `json:"total_volume"`
	TotalCost        decimal.Decimal `json:"total_cost"`
	EffectiveRate    decimal.Decimal `json:"effective_rate"`
	CreatedAt        time.Time       `json:"created_at"`
}
