// Package pricing estimates merchant processing fees from flat rate
// models. This is the quoting side: given a sample of transaction amounts,
// project fees under a current rate, or back out the rate needed to hit a
// target margin. The interchange cost pipeline lives in costing.
package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/merchantiq/feecost/internal/domain"
	"github.com/merchantiq/feecost/internal/repository"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// rateCard is the standard pricing default for a merchant category.
type rateCard struct {
	BaseRate decimal.Decimal
	FixedFee decimal.Decimal
}

var standardRates = map[string]rateCard{
	"5812": {dec("0.029"), dec("0.30")}, // Eating Places and Restaurants
	"5411": {dec("0.020"), dec("0.00")}, // Grocery Stores
	"5541": {dec("0.025"), dec("0.00")}, // Service Stations
	"5311": {dec("0.023"), dec("0.15")}, // Department Stores
	"7011": {dec("0.028"), dec("0.25")}, // Hotels and Motels
}

var (
	fallbackRate      = dec("0.025")
	defaultFixedFee   = dec("0.30")
	defaultMargin     = dec("0.015")
	defaultMinimumFee = dec("0.30")
)

// FeeRequest asks for a fee projection under a current rate. Nil optional
// fields fall back to the stored merchant profile, then the standard rate
// card for the MCC.
type FeeRequest struct {
	MerchantID  string
	MCC         string
	Amounts     []decimal.Decimal
	CurrentRate *decimal.Decimal
	FixedFee    *decimal.Decimal
	MinimumFee  *decimal.Decimal
}

type FeeEstimate struct {
	TransactionCount int             `json:"transaction_count"`
	TotalVolume      decimal.Decimal `json:"total_volume"`
	TotalFees        decimal.Decimal `json:"total_fees"`
	EffectiveRate    decimal.Decimal `json:"effective_rate"`
	AverageTicket    decimal.Decimal `json:"average_ticket"`
	MCC              string          `json:"mcc"`
	AppliedRate      decimal.Decimal `json:"applied_rate"`
	FixedFee         decimal.Decimal `json:"fixed_fee"`
	MinimumFee       decimal.Decimal `json:"minimum_fee"`
}

// MarginRequest asks for the rate needed to hit a target margin.
type MarginRequest struct {
	MerchantID    string
	MCC           string
	Amounts       []decimal.Decimal
	DesiredMargin *decimal.Decimal
	MinimumFee    *decimal.Decimal
}

type MarginEstimate struct {
	TransactionCount       int             `json:"transaction_count"`
	TotalVolume            decimal.Decimal `json:"total_volume"`
	AverageTicket          decimal.Decimal `json:"average_ticket"`
	DesiredMargin          decimal.Decimal `json:"desired_margin"`
	RecommendedRate        decimal.Decimal `json:"recommended_rate"`
	EstimatedTotalFees     decimal.Decimal `json:"estimated_total_fees"`
	EstimatedEffectiveRate decimal.Decimal `json:"estimated_effective_rate"`
	MCC                    string          `json:"mcc"`
	MinimumFee             decimal.Decimal `json:"minimum_fee"`
}

// Service runs fee and margin estimates, pulling stored merchant rates
// when the request leaves them out.
type Service struct {
	merchants *repository.MerchantRepo
	logger    *zap.Logger
}

func NewService(merchants *repository.MerchantRepo, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{merchants: merchants, logger: logger}
}

// EstimateFees projects fees for a sample of amounts. Per transaction the
// fee is amount*rate + fixed, floored at minimum. Rate and fixed fee
// resolve request value first, then the merchant profile, then the
// standard rate card, then flat defaults.
func (s *Service) EstimateFees(req FeeRequest) (*FeeEstimate, error) {
	if len(req.Amounts) == 0 {
		return nil, fmt.Errorf("no transactions provided")
	}
	merchant, err := s.lookupMerchant(req.MerchantID)
	if err != nil {
		return nil, err
	}
	mccCode, err := resolveMCC(req.MCC, merchant)
	if err != nil {
		return nil, err
	}

	card, tabled := standardRates[mccCode]

	rate := fallbackRate
	switch {
	case req.CurrentRate != nil:
		rate = *req.CurrentRate
	case merchant != nil && merchant.CurrentRate != nil:
		rate = *merchant.CurrentRate
	case tabled:
		rate = card.BaseRate
	}

	fixed := defaultFixedFee
	switch {
	case req.FixedFee != nil:
		fixed = *req.FixedFee
	case merchant != nil && merchant.FixedFee != nil:
		fixed = *merchant.FixedFee
	case tabled:
		fixed = card.FixedFee
	}

	minimum := decimal.Zero
	if req.MinimumFee != nil {
		minimum = *req.MinimumFee
	}

	var volume, fees decimal.Decimal
	for _, amount := range req.Amounts {
		volume = volume.Add(amount)
		fee := amount.Mul(rate).Add(fixed)
		if fee.LessThan(minimum) {
			fee = minimum
		}
		fees = fees.Add(fee)
	}

	count := decimal.NewFromInt(int64(len(req.Amounts)))
	est := &FeeEstimate{
		TransactionCount: len(req.Amounts),
		TotalVolume:      volume,
		TotalFees:        fees.Round(4),
		AverageTicket:    volume.Div(count).Round(4),
		MCC:              mccCode,
		AppliedRate:      rate,
		FixedFee:         fixed,
		MinimumFee:       minimum,
	}
	if volume.Sign() > 0 {
		est.EffectiveRate = fees.Div(volume).Round(6)
	}

	s.logger.Debug("fee estimate",
		zap.String("mcc", mccCode),
		zap.Int("transactions", est.TransactionCount),
		zap.String("applied_rate", rate.String()),
	)
	return est, nil
}

// EstimateMargin backs out the rate and projected fees needed to hit the
// desired margin over a sample of amounts. The minimum fee is charged per
// transaction on top of the margin rate.
func (s *Service) EstimateMargin(req MarginRequest) (*MarginEstimate, error) {
	if len(req.Amounts) == 0 {
		return nil, fmt.Errorf("no transactions provided")
	}
	merchant, err := s.lookupMerchant(req.MerchantID)
	if err != nil {
		return nil, err
	}
	mccCode, err := resolveMCC(req.MCC, merchant)
	if err != nil {
		return nil, err
	}

	margin := defaultMargin
	if req.DesiredMargin != nil {
		margin = *req.DesiredMargin
	}
	minimum := defaultMinimumFee
	if req.MinimumFee != nil {
		minimum = *req.MinimumFee
	}

	var volume decimal.Decimal
	for _, amount := range req.Amounts {
		volume = volume.Add(amount)
	}
	if volume.Sign() <= 0 {
		return nil, fmt.Errorf("total transaction volume must be greater than zero")
	}

	count := decimal.NewFromInt(int64(len(req.Amounts)))
	fees := volume.Mul(margin).Add(minimum.Mul(count))

	s.logger.Debug("margin estimate",
		zap.String("mcc", mccCode),
		zap.Int("transactions", len(req.Amounts)),
		zap.String("desired_margin", margin.String()),
	)
	return &MarginEstimate{
		TransactionCount:       len(req.Amounts),
		TotalVolume:            volume,
		AverageTicket:          volume.Div(count).Round(4),
		DesiredMargin:          margin,
		RecommendedRate:        margin,
		EstimatedTotalFees:     fees.Round(4),
		EstimatedEffectiveRate: fees.Div(volume).Round(6),
		MCC:                    mccCode,
		MinimumFee:             minimum,
	}, nil
}

func (s *Service) lookupMerchant(merchantID string) (*domain.Merchant, error) {
	if merchantID == "" || s.merchants == nil {
		return nil, nil
	}
	m, err := s.merchants.GetByID(merchantID)
	if err != nil {
		return nil, fmt.Errorf("lookup merchant: %w", err)
	}
	if m == nil {
		return nil, fmt.Errorf("merchant %s not found", merchantID)
	}
	return m, nil
}

func resolveMCC(mcc string, merchant *domain.Merchant) (string, error) {
	if mcc == "" && merchant != nil {
		mcc = merchant.MCC
	}
	if mcc == "" {
		return "", fmt.Errorf("mcc is required")
	}
	return mcc, nil
}
