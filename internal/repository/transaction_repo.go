package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/merchantiq/feecost/internal/domain"
)

type TransactionRepo struct {
	db *sql.DB
}

func NewTransactionRepo(db *sql.DB) *TransactionRepo {
	return &TransactionRepo{db: db}
}

// BulkInsert stores validated transactions, skipping duplicates by
// transaction_id. It returns the number actually inserted.
func (r *TransactionRepo) BulkInsert(records []domain.TransactionRecord) (int, error) {
	sqlTx, err := r.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer sqlTx.Rollback()

	stmt, err := sqlTx.Prepare(
		`INSERT OR IGNORE INTO transactions
		(transaction_id, transaction_date, merchant_id, amount,
		 transaction_type, card_brand, batch_id, created_at)
		VALUES (?,?,?,?,?,?,?,?)`,
	)
	if err != nil {
		return 0, fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC().Format(time.RFC3339)
	inserted := 0
	for i := range records {
		rec := &records[i]
		res, err := stmt.Exec(
			rec.TransactionID, rec.TransactionDate.Format(time.RFC3339),
			rec.MerchantID, rec.Amount.String(), rec.TransactionType,
			string(rec.CardBrand), rec.BatchID, now,
		)
		if err != nil {
			return inserted, fmt.Errorf("insert row %d: %w", i, err)
		}
		ra, _ := res.RowsAffected()
		inserted += int(ra)
	}

	if err := sqlTx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return inserted, nil
}

func (r *TransactionRepo) Count() (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM transactions").Scan(&count)
	return count, err
}

func (r *TransactionRepo) GetByID(id string) (*domain.TransactionRecord, error) {
	row := r.db.QueryRow(
		`SELECT transaction_id, transaction_date, merchant_id, amount,
		        transaction_type, card_brand, batch_id
		 FROM transactions WHERE transaction_id = ?`, id)
	rec, err := scanTransaction(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return rec, err
}

type TransactionFilter struct {
	MerchantID      string
	TransactionType string
	BatchID         string
	Page            int
	Limit           int
}

func (r *TransactionRepo) List(f TransactionFilter) ([]domain.TransactionRecord, int, error) {
	where := ""
	var args []any
	add := func(clause string, arg any) {
		if where == "" {
			where = " WHERE " + clause
		} else {
			where += " AND " + clause
		}
		args = append(args, arg)
	}
	if f.MerchantID != "" {
		add("merchant_id = ?", f.MerchantID)
	}
	if f.TransactionType != "" {
		add("transaction_type = ?", f.TransactionType)
	}
	if f.BatchID != "" {
		add("batch_id = ?", f.BatchID)
	}

	var total int
	if err := r.db.QueryRow("SELECT COUNT(*) FROM transactions"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count: %w", err)
	}

	if f.Limit <= 0 {
		f.Limit = 50
	}
	if f.Page <= 0 {
		f.Page = 1
	}
	offset := (f.Page - 1) * f.Limit

	querySQL := `SELECT transaction_id, transaction_date, merchant_id, amount,
	                    transaction_type, card_brand, batch_id
	             FROM transactions` + where + ` ORDER BY transaction_date DESC LIMIT ? OFFSET ?`
	args = append(args, f.Limit, offset)

	rows, err := r.db.Query(querySQL, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	var records []domain.TransactionRecord
	for rows.Next() {
		rec, err := scanTransaction(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan: %w", err)
		}
		records = append(records, *rec)
	}
	return records, total, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (*domain.TransactionRecord, error) {
	var rec domain.TransactionRecord
	var dateStr, amountStr, brand string
	var batchID sql.NullString

	if err := row.Scan(&rec.TransactionID, &dateStr, &rec.MerchantID,
		&amountStr, &rec.TransactionType, &brand, &batchID); err != nil {
		return nil, err
	}

	date, err := time.Parse(time.RFC3339, dateStr)
	if err != nil {
		return nil, fmt.Errorf("parse date: %w", err)
	}
	amount, err := decimal.NewFromString(amountStr)
	if err != nil {
		return nil, fmt.Errorf("parse amount: %w", err)
	}

	rec.TransactionDate = date
	rec.Amount = amount
	rec.CardBrand = domain.CardBrand(brand)
	rec.BatchID = batchID.String
	return &rec, nil
}
