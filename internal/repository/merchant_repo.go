package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/merchantiq/feecost/internal/domain"
)

type MerchantRepo struct {
	db *sql.DB
}

func NewMerchantRepo(db *sql.DB) *MerchantRepo {
	return &MerchantRepo{db: db}
}

// Upsert inserts a merchant profile or replaces an existing one with the
// same merchant_id.
func (r *MerchantRepo) Upsert(m *domain.Merchant) error {
	_, err := r.db.Exec(
		`INSERT INTO merchants
		(merchant_id, merchant_name, mcc, industry, current_rate, fixed_fee, created_at)
		VALUES (?,?,?,?,?,?,?)
		ON CONFLICT(merchant_id) DO UPDATE SET
			merchant_name = excluded.merchant_name,
			mcc = excluded.mcc,
			industry = excluded.industry,
			current_rate = excluded.current_rate,
			fixed_fee = excluded.fixed_fee`,
		m.MerchantID, m.Name, m.MCC, nullableString(m.Industry),
		nullableDecimal(m.CurrentRate), nullableDecimal(m.FixedFee),
		m.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("upsert merchant: %w", err)
	}
	return nil
}

func (r *MerchantRepo) GetByID(merchantID string) (*domain.Merchant, error) {
	row := r.db.QueryRow(
		`SELECT merchant_id, merchant_name, mcc, industry, current_rate, fixed_fee, created_at
		 FROM merchants WHERE merchant_id = ?`, merchantID)
	m, err := scanMerchant(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return m, err
}

func (r *MerchantRepo) List() ([]domain.Merchant, error) {
	rows, err := r.db.Query(
		`SELECT merchant_id, merchant_name, mcc, industry, current_rate, fixed_fee, created_at
		 FROM merchants ORDER BY merchant_id`)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	var merchants []domain.Merchant
	for rows.Next() {
		m, err := scanMerchant(rows)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		merchants = append(merchants, *m)
	}
	return merchants, rows.Err()
}

func scanMerchant(row rowScanner) (*domain.Merchant, error) {
	var m domain.Merchant
	var industry, currentRate, fixedFee sql.NullString
	var createdAt string

	if err := row.Scan(&m.MerchantID, &m.Name, &m.MCC, &industry,
		&currentRate, &fixedFee, &createdAt); err != nil {
		return nil, err
	}

	m.Industry = industry.String
	if currentRate.Valid {
		d, err := decimal.NewFromString(currentRate.String)
		if err != nil {
			return nil, fmt.Errorf("parse current_rate: %w", err)
		}
		m.CurrentRate = &d
	}
	if fixedFee.Valid {
		d, err := decimal.NewFromString(fixedFee.String)
		if err != nil {
			return nil, fmt.Errorf("parse fixed_fee: %w", err)
		}
		m.FixedFee = &d
	}
	m.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return &m, nil
}

func nullableDecimal(d *decimal.Decimal) any {
	if d == nil {
		return nil
	}
	return d.String()
}
