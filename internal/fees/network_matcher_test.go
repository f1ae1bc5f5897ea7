package fees

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/merchantiq/feecost/internal/domain"
	"github.com/merchantiq/feecost/internal/feetable"
)

func newNetworkMatcher(t *testing.T) *NetworkMatcher {
	t.Helper()
	tables, err := feetable.Default()
	require.NoError(t, err)
	return NewNetworkMatcher(tables)
}

func TestNetworkMatcherMatch(t *testing.T) {
	m := newNetworkMatcher(t)

	tests := []struct {
		name     string
		brand    domain.CardBrand
		cardType string
		amount   string

		wantOK      bool
		wantPercent string
		wantFixed   string
	}{
		{
			name:  "mastercard base composition",
			brand: domain.BrandMastercard, cardType: "Credit", amount: "100.00",
			wantOK: true, wantPercent: "0.13", wantFixed: "0.025",
		},
		{
			name:  "mastercard just below large ticket",
			brand: domain.BrandMastercard, cardType: "Credit", amount: "999.99",
			wantOK: true, wantPercent: "0.13", wantFixed: "0.025",
		},
		{
			name:  "mastercard surcharge at exactly one thousand",
			brand: domain.BrandMastercard, cardType: "Credit", amount: "1000.00",
			wantOK: true, wantPercent: "0.14", wantFixed: "0.025",
		},
		{
			name:  "mastercard surcharge above one thousand",
			brand: domain.BrandMastercard, cardType: "Debit", amount: "1500.00",
			wantOK: true, wantPercent: "0.14", wantFixed: "0.025",
		},
		{
			name:  "visa credit tier",
			brand: domain.BrandVisa, cardType: "Credit", amount: "100.00",
			wantOK: true, wantPercent: "0.14", wantFixed: "0.0195",
		},
		{
			name:  "visa debit tier",
			brand: domain.BrandVisa, cardType: "Debit", amount: "100.00",
			wantOK: true, wantPercent: "0.13", wantFixed: "0.0155",
		},
		{
			name:  "visa prepaid billed at debit tier",
			brand: domain.BrandVisa, cardType: "Debit (Prepaid)", amount: "100.00",
			wantOK: true, wantPercent: "0.13", wantFixed: "0.0155",
		},
		{
			name:  "visa card type without entries",
			brand: domain.BrandVisa, cardType: "Corporate", amount: "100.00",
			wantOK: false,
		},
		{
			name:  "amex has no network table",
			brand: domain.BrandAmex, cardType: "Credit", amount: "100.00",
			wantOK: false,
		},
		{
			name:  "unknown brand",
			brand: domain.CardBrand("JCB"), cardType: "Credit", amount: "100.00",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rate, ok := m.Match(tt.brand, tt.cardType, d(tt.amount))
			assert.Equal(t, tt.wantOK, ok)
			if !tt.wantOK {
				return
			}
			assert.True(t, rate.PercentRate.Equal(d(tt.wantPercent)),
				"percent = %s, want %s", rate.PercentRate, tt.wantPercent)
			assert.True(t, rate.FixedRate.Equal(d(tt.wantFixed)),
				"fixed = %s, want %s", rate.FixedRate, tt.wantFixed)
		})
	}
}

func TestMatchMastercardMissingEntriesContributeZero(t *testing.T) {
	// Only the brand volume entry exists.
	rules := []domain.NetworkFeeRule{
		{FeeName: domain.FeeMastercardBrandVolume, PercentRate: d("0.13")},
	}

	rate := matchMastercard(rules, d("1500.00"))
	assert.True(t, rate.PercentRate.Equal(d("0.13")))
	assert.True(t, rate.FixedRate.IsZero())
}

func TestMatchVisaRequiresBothEntries(t *testing.T) {
	rules := []domain.NetworkFeeRule{
		{FeeName: domain.FeeVisaService, CardType: "Credit", PercentRate: d("0.14")},
	}

	_, ok := matchVisa(rules, "Credit")
	assert.False(t, ok, "missing processing entry must fail the lookup")
}
