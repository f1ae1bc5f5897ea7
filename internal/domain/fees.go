package domain

import "github.com/shopspring/decimal"

// Fee programs at the card level. Small ticket applies below the $5 threshold
// regardless of MCC; industry rules are keyed per MCC.
const (
	ProductSmallTicket = "Small Ticket Fee Program (All)"
	ProductIndustry    = "Industry Fee Program (All)"
)

// Network fee entry names. Mastercard entries are matched by substring,
// Visa entries by exact fee_name plus card_type.
const (
	FeeMastercardBrandVolume   = "Acquirer Brand Volume"
	FeeMastercardLargeTicket   = "Transactions => 1000 USD"
	FeeMastercardStatusInquiry = "Account Status Inquiry Service Fee"
	FeeVisaService             = "Acquirer Service Fee"
	FeeVisaProcessing          = "Acquirer Processing Fee"
)

// FeeRule is one card-level fee tier. MCC is nil for MCC-agnostic rules
// (the small-ticket program). PercentRate is in percentage points: 1.65
// means 1.65%.
type FeeRule struct {
	CardType    string           `json:"card_type"`
	Product     string           `json:"product"`
	MCC         *int             `json:"mcc"`
	PercentRate decimal.Decimal  `json:"percent_rate"`
	FixedRate   decimal.Decimal  `json:"fixed_rate"`
	MaxFee      *decimal.Decimal `json:"max_fee"`
}

// NetworkFeeRule is one network assessment/processing fee component.
// CardType is empty for brand-wide entries (Mastercard).
type NetworkFeeRule struct {
	FeeName     string          `json:"fee_name"`
	CardType    string          `json:"card_type,omitempty"`
	PercentRate decimal.Decimal `json:"percent_rate"`
	FixedRate   decimal.Decimal `json:"fixed_rate"`
}

// NetworkRate is the resolved network fee for one transaction: the composed
// percent and fixed components, before cost arithmetic.
type NetworkRate struct {
	PercentRate decimal.Decimal `json:"percent_rate"`
	FixedRate   decimal.Decimal `json:"fixed_rate"`
}
