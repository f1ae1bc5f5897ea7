// Package analytics derives summary statistics and a weekly cost trend from
// enriched transaction records. Reports are recomputed on demand and never
// stored by this package.
package analytics

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/merchantiq/feecost/internal/domain"
)

// DimensionStats is one group-by bucket.
type DimensionStats struct {
	Count         int             `json:"count"`
	Volume        decimal.Decimal `json:"volume"`
	CardCost      decimal.Decimal `json:"card_cost"`
	NetworkCost   decimal.Decimal `json:"network_cost"`
	TotalCost     decimal.Decimal `json:"total_cost"`
	EffectiveRate decimal.Decimal `json:"effective_rate"`
}

// AggregateReport is the full summary over one processed batch. Summary
// metrics cover only records with a positive amount and a card-fee match;
// everything else is counted as unmatched.
type AggregateReport struct {
	TransactionCount int `json:"transaction_count"`
	UnmatchedCount   int `json:"unmatched_count"`

	TotalVolume      decimal.Decimal `json:"total_volume"`
	TotalCardCost    decimal.Decimal `json:"total_card_cost"`
	TotalNetworkCost decimal.Decimal `json:"total_network_cost"`
	TotalCost        decimal.Decimal `json:"total_cost"`
	EffectiveRate    decimal.Decimal `json:"effective_rate"`
	AverageCost      decimal.Decimal `json:"average_cost"`

	ByProduct         map[string]DimensionStats `json:"by_product"`
	ByCardType        map[string]DimensionStats `json:"by_card_type"`
	ByTransactionType map[string]DimensionStats `json:"by_transaction_type"`

	Trend *TrendReport `json:"trend,omitempty"`
}

// Aggregate builds the report for a batch of enriched records.
func Aggregate(records []domain.EnrichedRecord) AggregateReport {
	report := AggregateReport{
		ByProduct:         make(map[string]DimensionStats),
		ByCardType:        make(map[string]DimensionStats),
		ByTransactionType: make(map[string]DimensionStats),
	}

	var included []domain.EnrichedRecord
	for i := range records {
		rec := &records[i]
		if rec.Amount.Sign() > 0 && rec.MatchFound {
			included = append(included, *rec)
		} else {
			report.UnmatchedCount++
		}
	}

	report.TransactionCount = len(included)
	for i := range included {
		rec := &included[i]
		report.TotalVolume = report.TotalVolume.Add(rec.Amount)
		report.TotalCardCost = report.TotalCardCost.Add(rec.CardCost)
		report.TotalNetworkCost = report.TotalNetworkCost.Add(rec.NetworkCost)
		report.TotalCost = report.TotalCost.Add(rec.TotalCost)

		accumulate(report.ByProduct, rec.Product, rec)
		accumulate(report.ByCardType, rec.CardType, rec)
		accumulate(report.ByTransactionType, rec.TransactionType, rec)
	}

	if report.TotalVolume.Sign() > 0 {
		report.EffectiveRate = report.TotalCost.Div(report.TotalVolume).Round(6)
	}
	if report.TransactionCount > 0 {
		report.AverageCost = report.TotalCost.
			Div(decimal.NewFromInt(int64(report.TransactionCount))).Round(4)
	}

	finalizeRates(report.ByProduct)
	finalizeRates(report.ByCardType)
	finalizeRates(report.ByTransactionType)

	report.Trend = weeklyTrend(included)
	return report
}

func accumulate(dim map[string]DimensionStats, key string, rec *domain.EnrichedRecord) {
	if key == "" {
		key = "(unknown)"
	}
	stats := dim[key]
	stats.Count++
	stats.Volume = stats.Volume.Add(rec.Amount)
	stats.CardCost = stats.CardCost.Add(rec.CardCost)
	stats.NetworkCost = stats.NetworkCost.Add(rec.NetworkCost)
	stats.TotalCost = stats.TotalCost.Add(rec.TotalCost)
	dim[key] = stats
}

func finalizeRates(dim map[string]DimensionStats) {
	for key, stats := range dim {
		if stats.Volume.Sign() > 0 {
			stats.EffectiveRate = stats.TotalCost.Div(stats.Volume).Round(6)
			dim[key] = stats
		}
	}
}

// SortedKeys returns the bucket names of a dimension in lexical order, for
// callers that need deterministic iteration (CLI rendering, CSV export).
func SortedKeys(dim map[string]DimensionStats) []string {
	keys := make([]string, 0, len(dim))
	for k := range dim {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
