package fees

import (
	"github.com/shopspring/decimal"

	"github.com/merchantiq/feecost/internal/domain"
	"github.com/merchantiq/feecost/internal/feetable"
)

// smallTicketMax is the exclusive upper bound of the small-ticket program:
// amounts strictly below $5.00 are small ticket, $5.00 itself is not.
var smallTicketMax = decimal.NewFromInt(5)

// CardMatcher resolves the card-level fee rule for a transaction.
type CardMatcher struct {
	tables *feetable.Registry
}

func NewCardMatcher(tables *feetable.Registry) *CardMatcher {
	return &CardMatcher{tables: tables}
}

// Match finds the fee rule for (brand, cardType, mcc, amount). Amounts below
// the small-ticket threshold select the MCC-agnostic small-ticket program;
// everything else selects the industry program for the supplied MCC. The
// first rule whose (card_type, product, mcc) matches exactly wins. ok is
// false for brands without a schedule or when no rule matches.
func (m *CardMatcher) Match(brand domain.CardBrand, cardType string, mcc int, amount decimal.Decimal) (domain.FeeRule, bool) {
	rules, ok := m.tables.CardRules(brand)
	if !ok {
		return domain.FeeRule{}, false
	}

	normalized := NormalizeCardType(cardType)

	product := domain.ProductIndustry
	var targetMCC *int
	if amount.LessThan(smallTicketMax) {
		product = domain.ProductSmallTicket
	} else {
		targetMCC = &mcc
	}

	for _, rule := range rules {
		if rule.CardType == normalized && rule.Product == product && mccEqual(rule.MCC, targetMCC) {
			return rule, true
		}
	}
	return domain.FeeRule{}, false
}

func mccEqual(a, b *int) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
