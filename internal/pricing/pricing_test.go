package pricing

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/merchantiq/feecost/internal/domain"
	"github.com/merchantiq/feecost/internal/repository"
)

func newService(t *testing.T) (*Service, *repository.MerchantRepo) {
	t.Helper()
	db, err := repository.InitDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	merchants := repository.NewMerchantRepo(db)
	return NewService(merchants, nil), merchants
}

func amounts(vals ...string) []decimal.Decimal {
	out := make([]decimal.Decimal, len(vals))
	for i, v := range vals {
		out[i] = dec(v)
	}
	return out
}

func TestEstimateFeesRateCardDefaults(t *testing.T) {
	svc, _ := newService(t)

	est, err := svc.EstimateFees(FeeRequest{
		MCC:     "5411",
		Amounts: amounts("100.00", "50.00"),
	})
	require.NoError(t, err)

	assert.Equal(t, 2, est.TransactionCount)
	assert.True(t, est.TotalVolume.Equal(dec("150")))
	assert.True(t, est.AppliedRate.Equal(dec("0.020")), "grocery base rate from the rate card")
	assert.True(t, est.FixedFee.Equal(dec("0.00")))
	assert.True(t, est.TotalFees.Equal(dec("3")))
	assert.True(t, est.EffectiveRate.Equal(dec("0.02")))
	assert.True(t, est.AverageTicket.Equal(dec("75")))
}

func TestEstimateFeesExplicitRateWins(t *testing.T) {
	svc, _ := newService(t)

	rate := dec("0.029")
	fixed := dec("0.25")
	est, err := svc.EstimateFees(FeeRequest{
		MCC:         "5411",
		Amounts:     amounts("100.00"),
		CurrentRate: &rate,
		FixedFee:    &fixed,
	})
	require.NoError(t, err)

	assert.True(t, est.AppliedRate.Equal(rate))
	assert.True(t, est.TotalFees.Equal(dec("3.15")))
}

func TestEstimateFeesMinimumFloor(t *testing.T) {
	svc, _ := newService(t)

	rate := dec("0.02")
	fixed := dec("0")
	minimum := dec("0.50")
	est, err := svc.EstimateFees(FeeRequest{
		MCC:         "5411",
		Amounts:     amounts("1.00", "100.00"),
		CurrentRate: &rate,
		FixedFee:    &fixed,
		MinimumFee:  &minimum,
	})
	require.NoError(t, err)

	// 1.00 yields 0.02, floored to 0.50; 100.00 yields 2.00 untouched.
	assert.True(t, est.TotalFees.Equal(dec("2.50")))
}

func TestEstimateFeesUnknownMCCFallback(t *testing.T) {
	svc, _ := newService(t)

	est, err := svc.EstimateFees(FeeRequest{
		MCC:     "9999",
		Amounts: amounts("100.00"),
	})
	require.NoError(t, err)

	assert.True(t, est.AppliedRate.Equal(dec("0.025")))
	assert.True(t, est.FixedFee.Equal(dec("0.30")))
	assert.True(t, est.TotalFees.Equal(dec("2.80")))
	assert.True(t, est.EffectiveRate.Equal(dec("0.028")))
}

func TestEstimateFeesMerchantProfile(t *testing.T) {
	svc, merchants := newService(t)

	rate := dec("0.0185")
	fixed := dec("0.10")
	require.NoError(t, merchants.Upsert(&domain.Merchant{
		MerchantID:  "MERCH_PRICE",
		Name:        "Corner Bistro",
		MCC:         "5812",
		CurrentRate: &rate,
		FixedFee:    &fixed,
		CreatedAt:   time.Now().UTC(),
	}))

	est, err := svc.EstimateFees(FeeRequest{
		MerchantID: "MERCH_PRICE",
		Amounts:    amounts("200.00"),
	})
	require.NoError(t, err)

	assert.Equal(t, "5812", est.MCC, "MCC comes from the stored profile")
	assert.True(t, est.AppliedRate.Equal(rate), "stored rate beats the rate card")
	assert.True(t, est.FixedFee.Equal(fixed))
	assert.True(t, est.TotalFees.Equal(dec("3.80")))
	assert.True(t, est.EffectiveRate.Equal(dec("0.019")))

	margin, err := svc.EstimateMargin(MarginRequest{
		MerchantID: "MERCH_PRICE",
		Amounts:    amounts("200.00"),
	})
	require.NoError(t, err)
	assert.Equal(t, "5812", margin.MCC)
}

func TestEstimateFeesErrors(t *testing.T) {
	svc, _ := newService(t)

	_, err := svc.EstimateFees(FeeRequest{MCC: "5411"})
	assert.ErrorContains(t, err, "no transactions")

	_, err = svc.EstimateFees(FeeRequest{Amounts: amounts("10.00")})
	assert.ErrorContains(t, err, "mcc is required")

	_, err = svc.EstimateFees(FeeRequest{
		MerchantID: "NOPE",
		Amounts:    amounts("10.00"),
	})
	assert.ErrorContains(t, err, "not found")
}

func TestEstimateMarginDefaults(t *testing.T) {
	svc, _ := newService(t)

	est, err := svc.EstimateMargin(MarginRequest{
		MCC:     "5411",
		Amounts: amounts("150.00", "50.00"),
	})
	require.NoError(t, err)

	assert.Equal(t, 2, est.TransactionCount)
	assert.True(t, est.TotalVolume.Equal(dec("200")))
	assert.True(t, est.AverageTicket.Equal(dec("100")))
	assert.True(t, est.DesiredMargin.Equal(dec("0.015")))
	assert.True(t, est.RecommendedRate.Equal(dec("0.015")))
	// 200 * 0.015 + 0.30 * 2
	assert.True(t, est.EstimatedTotalFees.Equal(dec("3.60")))
	assert.True(t, est.EstimatedEffectiveRate.Equal(dec("0.018")))
}

func TestEstimateMarginCustomInputs(t *testing.T) {
	svc, _ := newService(t)

	margin := dec("0.02")
	minimum := dec("0")
	est, err := svc.EstimateMargin(MarginRequest{
		MCC:           "5411",
		Amounts:       amounts("100.00"),
		DesiredMargin: &margin,
		MinimumFee:    &minimum,
	})
	require.NoError(t, err)

	assert.True(t, est.EstimatedTotalFees.Equal(dec("2")))
	assert.True(t, est.EstimatedEffectiveRate.Equal(dec("0.02")))
}

func TestEstimateMarginErrors(t *testing.T) {
	svc, _ := newService(t)

	_, err := svc.EstimateMargin(MarginRequest{MCC: "5411"})
	assert.ErrorContains(t, err, "no transactions")

	_, err = svc.EstimateMargin(MarginRequest{
		MCC:     "5411",
		Amounts: amounts("50.00", "-60.00"),
	})
	assert.ErrorContains(t, err, "greater than zero")
}
