// Package costing runs the cost pipeline: decode a transaction file, build
// cost records, enrich them against the fee tables, aggregate, and persist
// the summary.
package costing

import (
	"fmt"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/merchantiq/feecost/internal/analytics"
	"github.com/merchantiq/feecost/internal/batch"
	"github.com/merchantiq/feecost/internal/decode"
	"github.com/merchantiq/feecost/internal/domain"
	"github.com/merchantiq/feecost/internal/repository"
	"github.com/merchantiq/feecost/internal/schema"
)

// ProcessResult carries the full output of one cost run: every enriched
// record, the aggregate report, and any per-row build errors.
type ProcessResult struct {
	ReportID string                    `json:"report_id"`
	MCC      int                       `json:"mcc"`
	Records  []domain.EnrichedRecord   `json:"records"`
	Report   analytics.AggregateReport `json:"report"`
	Errors   []domain.ValidationError  `json:"errors,omitempty"`
}

// Service orchestrates cost runs.
type Service struct {
	processor *batch.Processor
	reports   *repository.ReportRepo
	merchants *repository.MerchantRepo
	logger    *zap.Logger
}

func NewService(processor *batch.Processor, reports *repository.ReportRepo, merchants *repository.MerchantRepo, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{processor: processor, reports: reports, merchants: merchants, logger: logger}
}

// ProcessFile runs the cost pipeline over raw file bytes. mcc may be zero if
// merchantID names a stored merchant with an MCC on file. A structural
// header failure aborts the run; individual bad rows are reported and
// skipped.
func (s *Service) ProcessFile(filename string, data []byte, merchantID string, mcc int) (*ProcessResult, error) {
	if mcc == 0 {
		resolved, err := s.resolveMCC(merchantID)
		if err != nil {
			return nil, err
		}
		mcc = resolved
	}

	headers, rows, err := decode.Decode(filename, data)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", filename, err)
	}

	records, buildErrs := schema.BuildCostRecords(headers, rows)
	if len(buildErrs) > 0 && buildErrs[0].Kind == domain.ErrMissingColumns {
		return nil, fmt.Errorf("invalid file: %s", buildErrs[0].Message)
	}

	enriched := s.processor.Process(records, mcc)
	report := analytics.Aggregate(enriched)

	summary := &domain.CostReport{
		ID:               uuid.NewString(),
		MerchantID:       merchantID,
		Filename:         filepath.Base(filename),
		MCC:              mcc,
		TransactionCount: report.TransactionCount,
		UnmatchedCount:   report.UnmatchedCount,
		TotalVolume:      report.TotalVolume,
		TotalCost:        report.TotalCost,
		EffectiveRate:    report.EffectiveRate,
		CreatedAt:        time.Now().UTC(),
	}
	if s.reports != nil {
		if err := s.reports.Insert(summary); err != nil {
			// History is best-effort: the computed result is still valid.
			s.logger.Warn("persist cost report failed", zap.Error(err))
		}
	}

	s.logger.Info("cost run complete",
		zap.String("report_id", summary.ID),
		zap.Int("mcc", mcc),
		zap.Int("records", len(enriched)),
		zap.Int("unmatched", report.UnmatchedCount),
		zap.String("total_cost", report.TotalCost.String()),
	)

	return &ProcessResult{
		ReportID: summary.ID,
		MCC:      mcc,
		Records:  enriched,
		Report:   report,
		Errors:   buildErrs,
	}, nil
}

func (s *Service) resolveMCC(merchantID string) (int, error) {
	if merchantID == "" || s.merchants == nil {
		return 0, fmt.Errorf("mcc is required")
	}
	m, err := s.merchants.GetByID(merchantID)
	if err != nil {
		return 0, fmt.Errorf("lookup merchant: %w", err)
	}
	if m == nil {
		return 0, fmt.Errorf("merchant %s not found", merchantID)
	}
	mcc, err := strconv.Atoi(m.MCC)
	if err != nil {
		return 0, fmt.Errorf("merchant %s has invalid MCC %q", merchantID, m.MCC)
	}
	return mcc, nil
}
