package repository

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// InitDB opens (or creates) a SQLite database at the given path and ensures
// all required tables exist. Pass ":memory:" for an in-memory database.
func InitDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	// Enable WAL mode for better concurrent read performance.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set wal mode: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	if err := createTables(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}

	return db, nil
}

// Monetary columns are TEXT: decimal amounts round-trip exactly as strings,
// where REAL would reintroduce float drift.
func createTables(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS uploads (
			id TEXT PRIMARY KEY,
			filename TEXT NOT NULL,
			file_type TEXT NOT NULL,
			merchant_id TEXT,
			file_hash TEXT UNIQUE NOT NULL,
			record_count INTEGER NOT NULL,
			error_count INTEGER NOT NULL,
			uploaded_at DATETIME NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_uploads_merchant ON uploads(merchant_id)`,

		`CREATE TABLE IF NOT EXISTS transactions (
			transaction_id TEXT PRIMARY KEY,
			transaction_date DATETIME NOT NULL,
			merchant_id TEXT NOT NULL,
			amount TEXT NOT NULL,
			transaction_type TEXT NOT NULL,
			card_brand TEXT NOT NULL,
			batch_id TEXT,
			created_at DATETIME NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_transactions_merchant ON transactions(merchant_id)`,
		`CREATE INDEX IF NOT EXISTS idx_transactions_batch ON transactions(batch_id)`,
		`CREATE INDEX IF NOT EXISTS idx_transactions_date ON transactions(transaction_date)`,

		`CREATE TABLE IF NOT EXISTS merchants (
			merchant_id TEXT PRIMARY KEY,
			merchant_name TEXT NOT NULL,
			mcc TEXT NOT NULL,
			industry TEXT,
			current_rate TEXT,
			fixed_fee TEXT,
			created_at DATETIME NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_merchants_mcc ON merchants(mcc)`,

		`CREATE TABLE IF NOT EXISTS cost_reports (
			id TEXT PRIMARY KEY,
			merchant_id TEXT,
			filename TEXT NOT NULL,
			mcc INTEGER NOT NULL,
			transaction_count INTEGER NOT NULL,
			unmatched_count INTEGER NOT NULL,
			total_volume TEXT NOT NULL,
			total_cost TEXT NOT NULL,
			effective_rate TEXT NOT NULL,
			created_at DATETIME NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_cost_reports_merchant ON cost_reports(merchant_id)`,
		`CREATE INDEX IF NOT EXISTS idx_cost_reports_created ON cost_reports(created_at)`,
	}

	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("exec %q: %w", stmt[:40], err)
		}
	}
	return nil
}
