package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/merchantiq/feecost/internal/domain"
)

type ReportRepo struct {
	db *sql.DB
}

func NewReportRepo(db *sql.DB) *ReportRepo {
	return &ReportRepo{db: db}
}

func (r *ReportRepo) Insert(rep *domain.CostReport) error {
	_, err := r.db.Exec(
		`INSERT INTO cost_reports
		(id, merchant_id, filename, mcc, transaction_count, unmatched_count,
		 total_volume, total_cost, effective_rate, created_at)
		VALUES (?,?,?,?,?,?,?,?,?,?)`,
		rep.ID, nullableString(rep.MerchantID), rep.Filename, rep.MCC,
		rep.TransactionCount, rep.UnmatchedCount, rep.TotalVolume.String(),
		rep.TotalCost.String(), rep.EffectiveRate.String(),
		rep.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("insert cost report: %w", err)
	}
	return nil
}

func (r *ReportRepo) List(limit int) ([]domain.CostReport, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.Query(
		`SELECT id, merchant_id, filename, mcc, transaction_count, unmatched_count,
		        total_volume, total_cost, effective_rate, created_at
		 FROM cost_reports ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	var reports []domain.CostReport
	for rows.Next() {
		var rep domain.CostReport
		var merchantID sql.NullString
		var volume, cost, rate, createdAt string
		if err := rows.Scan(&rep.ID, &merchantID, &rep.Filename, &rep.MCC,
			&rep.TransactionCount, &rep.UnmatchedCount,
			&volume, &cost, &rate, &createdAt); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		rep.MerchantID = merchantID.String
		if rep.TotalVolume, err = decimal.NewFromString(volume); err != nil {
			return nil, fmt.Errorf("parse total_volume: %w", err)
		}
		if rep.TotalCost, err = decimal.NewFromString(cost); err != nil {
			return nil, fmt.Errorf("parse total_cost: %w", err)
		}
		if rep.EffectiveRate, err = decimal.NewFromString(rate); err != nil {
			return nil, fmt.Errorf("parse effective_rate: %w", err)
		}
		rep.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		reports = append(reports, rep)
	}
	return reports, rows.Err()
}
