package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/merchantiq/feecost/internal/domain"
)

type UploadRepo struct {
	db *sql.DB
}

func NewUploadRepo(db *sql.DB) *UploadRepo {
	return &UploadRepo{db: db}
}

// ExistsByHash reports whether a byte-identical file was already ingested.
func (r *UploadRepo) ExistsByHash(hash string) (bool, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM uploads WHERE file_hash = ?", hash).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("query hash: %w", err)
	}
	return count > 0, nil
}

func (r *UploadRepo) Insert(u *domain.Upload) error {
	_, err := r.db.Exec(
		`INSERT INTO uploads
		(id, filename, file_type, merchant_id, file_hash, record_count, error_count, uploaded_at)
		VALUES (?,?,?,?,?,?,?,?)`,
		u.ID, u.Filename, u.FileType, nullableString(u.MerchantID), u.FileHash,
		u.RecordCount, u.ErrorCount, u.UploadedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("insert upload: %w", err)
	}
	return nil
}

func (r *UploadRepo) List(limit int) ([]domain.Upload, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.Query(
		`SELECT id, filename, file_type, merchant_id, file_hash,
		        record_count, error_count, uploaded_at
		 FROM uploads ORDER BY uploaded_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	var uploads []domain.Upload
	for rows.Next() {
		var u domain.Upload
		var merchantID sql.NullString
		var uploadedAt string
		if err := rows.Scan(&u.ID, &u.Filename, &u.FileType, &merchantID,
			&u.FileHash, &u.RecordCount, &u.ErrorCount, &uploadedAt); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		u.MerchantID = merchantID.String
		u.UploadedAt, _ = time.Parse(time.RFC3339, uploadedAt)
		uploads = append(uploads, u)
	}
	return uploads, rows.Err()
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
