package fees

import "github.com/shopspring/decimal"

// Cost computes a single fee: amount * percentRate / 100 + fixedRate, capped
// at maxFee when one is set. PercentRate is in percentage points (1.65 means
// 1.65%). The result is rounded to 4 decimal places with banker's rounding
// (round half-to-even).
//
// Negative amounts are not rejected; the caller decides whether a negative
// cost applies.
func Cost(amount, percentRate, fixedRate decimal.Decimal, maxFee *decimal.Decimal) decimal.Decimal {
	cost := amount.Mul(percentRate).Shift(-2).Add(fixedRate)
	if maxFee != nil && cost.GreaterThan(*maxFee) {
		cost = *maxFee
	}
	return cost.RoundBank(4)
}

// NormalizeCardType maps the transaction-file spelling of prepaid cards to
// the fee-schedule spelling. All other card types pass through unchanged.
func NormalizeCardType(cardType string) string {
	if cardType == "Debit (Prepaid)" {
		return "Prepaid"
	}
	return cardType
}
