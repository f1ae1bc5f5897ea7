// Package ingestion runs the storage pipeline for uploaded transaction
// files: decode, validate under the strict schema rules, persist valid rows.
package ingestion

import (
	"crypto/sha256"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/merchantiq/feecost/internal/decode"
	"github.com/merchantiq/feecost/internal/domain"
	"github.com/merchantiq/feecost/internal/repository"
	"github.com/merchantiq/feecost/internal/schema"
)

// IngestResult is returned from an ingestion run. Structural is true when
// the file failed header validation: no rows were processed and Errors holds
// the single MISSING_COLUMNS entry.
type IngestResult struct {
	UploadID          string                   `json:"upload_id"`
	BatchID           string                   `json:"batch_id"`
	RecordsIngested   int                      `json:"records_ingested"`
	DuplicatesSkipped int                      `json:"duplicates_skipped"`
	RowsRejected      int                      `json:"rows_rejected"`
	Structural        bool                     `json:"structural_failure"`
	AlreadyIngested   bool                     `json:"already_ingested"`
	Errors            []domain.ValidationError `json:"errors,omitempty"`
}

// Service handles ingestion of transaction files for storage.
type Service struct {
	uploadRepo *repository.UploadRepo
	txnRepo    *repository.TransactionRepo
	logger     *zap.Logger
}

func NewService(uploadRepo *repository.UploadRepo, txnRepo *repository.TransactionRepo, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{uploadRepo: uploadRepo, txnRepo: txnRepo, logger: logger}
}

// IngestFile decodes, validates, and stores one uploaded file. Re-uploading
// a byte-identical file is a no-op. Per-row validation failures reject only
// the offending rows; a missing required header rejects the whole file.
func (s *Service) IngestFile(filename string, data []byte, merchantID string) (*IngestResult, error) {
	hash := fmt.Sprintf("%x", sha256.Sum256(data))
	exists, err := s.uploadRepo.ExistsByHash(hash)
	if err != nil {
		return nil, fmt.Errorf("check hash: %w", err)
	}
	if exists {
		return &IngestResult{AlreadyIngested: true}, nil
	}

	headers, rows, err := decode.Decode(filename, data)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", filename, err)
	}

	result := schema.Validate(headers, rows)
	if len(result.Errors) > 0 && result.Errors[0].Kind == domain.ErrMissingColumns {
		return &IngestResult{Structural: true, Errors: result.Errors}, nil
	}

	batchID := uuid.NewString()
	records := schema.BuildStoredRecords(result.ValidRows, batchID)
	inserted, err := s.txnRepo.BulkInsert(records)
	if err != nil {
		return nil, fmt.Errorf("insert records: %w", err)
	}

	upload := &domain.Upload{
		ID:          uuid.NewString(),
		Filename:    filepath.Base(filename),
		FileType:    strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), "."),
		MerchantID:  merchantID,
		FileHash:    hash,
		RecordCount: len(records),
		ErrorCount:  len(result.Errors),
		UploadedAt:  time.Now().UTC(),
	}
	if err := s.uploadRepo.Insert(upload); err != nil {
		return nil, fmt.Errorf("insert upload: %w", err)
	}

	s.logger.Info("file ingested",
		zap.String("upload_id", upload.ID),
		zap.String("filename", upload.Filename),
		zap.Int("rows", len(rows)),
		zap.Int("stored", inserted),
		zap.Int("rejected", len(rows)-len(records)),
	)

	return &IngestResult{
		UploadID:          upload.ID,
		BatchID:           batchID,
		RecordsIngested:   inserted,
		DuplicatesSkipped: len(records) - inserted,
		RowsRejected:      len(rows) - len(records),
		Errors:            result.Errors,
	}, nil
}
