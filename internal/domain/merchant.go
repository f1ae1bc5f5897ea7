package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Merchant is a merchant profile. MCC is stored as the 4-digit string it
// appears as on statements.
type Merchant struct {
	MerchantID  string           `json:"merchant_id"`
	Name        string           `json:"merchant_name"`
	MCC         string           `json:"mcc"`
	Industry    string           `json:"industry,omitempty"`
	CurrentRate *decimal.Decimal `json:"current_rate,omitempty"`
	FixedFee    *decimal.Decimal `json:"fixed_fee,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
}
