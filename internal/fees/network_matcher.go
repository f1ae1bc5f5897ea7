package fees

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/merchantiq/feecost/internal/domain"
	"github.com/merchantiq/feecost/internal/feetable"
)

// largeTicketMin is the inclusive lower bound of the Mastercard
// large-transaction surcharge: $1000.00 and above pay it.
var largeTicketMin = decimal.NewFromInt(1000)

// NetworkMatcher resolves the network assessment/processing fee for a
// transaction, independently of the card-level fee table.
type NetworkMatcher struct {
	tables *feetable.Registry
}

func NewNetworkMatcher(tables *feetable.Registry) *NetworkMatcher {
	return &NetworkMatcher{tables: tables}
}

// Match resolves the composed network rate for (brand, cardType, amount).
//
// Mastercard composes three named entries matched by fee-name substring: the
// brand-volume assessment percent, the status-inquiry fixed fee, and the
// large-transaction surcharge percent added only at $1000 and above. Entries
// missing from the table contribute zero.
//
// Visa looks up the service (percent) and processing (fixed) entries for the
// card type, with prepaid cards billed at the debit tier; both entries must
// exist or the result is not-found.
func (m *NetworkMatcher) Match(brand domain.CardBrand, cardType string, amount decimal.Decimal) (domain.NetworkRate, bool) {
	rules, ok := m.tables.NetworkRules(brand)
	if !ok {
		return domain.NetworkRate{}, false
	}

	switch brand {
	case domain.BrandMastercard:
		return matchMastercard(rules, amount), true
	case domain.BrandVisa:
		return matchVisa(rules, cardType)
	default:
		return domain.NetworkRate{}, false
	}
}

func matchMastercard(rules []domain.NetworkFeeRule, amount decimal.Decimal) domain.NetworkRate {
	var rate domain.NetworkRate
	for _, rule := range rules {
		switch {
		case strings.Contains(rule.FeeName, domain.FeeMastercardBrandVolume):
			rate.PercentRate = rate.PercentRate.Add(rule.PercentRate)
		case strings.Contains(rule.FeeName, domain.FeeMastercardLargeTicket):
			if amount.GreaterThanOrEqual(largeTicketMin) {
				rate.PercentRate = rate.PercentRate.Add(rule.PercentRate)
			}
		case strings.Contains(rule.FeeName, domain.FeeMastercardStatusInquiry):
			rate.FixedRate = rate.FixedRate.Add(rule.FixedRate)
		}
	}
	return rate
}

func matchVisa(rules []domain.NetworkFeeRule, cardType string) (domain.NetworkRate, bool) {
	normalized := NormalizeCardType(cardType)
	if normalized == "Prepaid" {
		normalized = "Debit"
	}

	var rate domain.NetworkRate
	foundService, foundProcessing := false, false
	for _, rule := range rules {
		if rule.CardType != normalized {
			continue
		}
		switch rule.FeeName {
		case domain.FeeVisaService:
			rate.PercentRate = rule.PercentRate
			foundService = true
		case domain.FeeVisaProcessing:
			rate.FixedRate = rule.FixedRate
			foundProcessing = true
		}
	}
	if !foundService || !foundProcessing {
		return domain.NetworkRate{}, false
	}
	return rate, true
}
