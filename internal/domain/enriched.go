package domain

import "github.com/shopspring/decimal"

// EnrichedRecord is a TransactionRecord plus the resolved fee data and
// computed costs. One is produced per input record during batch processing
// and is immutable afterwards.
//
// Invariants: TotalCost == CardCost + NetworkCost for every record, and all
// three are zero with MatchFound=false when Amount <= 0.
type EnrichedRecord struct {
	TransactionRecord

	MCC                int              `json:"mcc"`
	Product            string           `json:"product,omitempty"`
	PercentRate        decimal.Decimal  `json:"percent_rate"`
	FixedRate          decimal.Decimal  `json:"fixed_rate"`
	MaxFee             *decimal.Decimal `json:"max_fee,omitempty"`
	CardCost           decimal.Decimal  `json:"card_cost"`
	NetworkPercentRate decimal.Decimal  `json:"network_percent_rate"`
	NetworkFixedRate   decimal.Decimal  `json:"network_fixed_rate"`
	NetworkCost        decimal.Decimal  `json:"network_cost"`
	TotalCost          decimal.Decimal  `json:"total_cost"`
	MatchFound         bool             `json:"match_found"`
}
