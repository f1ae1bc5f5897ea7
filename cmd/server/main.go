package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/merchantiq/feecost/internal/api"
	"github.com/merchantiq/feecost/internal/batch"
	"github.com/merchantiq/feecost/internal/config"
	"github.com/merchantiq/feecost/internal/costing"
	"github.com/merchantiq/feecost/internal/feetable"
	"github.com/merchantiq/feecost/internal/ingestion"
	"github.com/merchantiq/feecost/internal/logging"
	"github.com/merchantiq/feecost/internal/pricing"
	"github.com/merchantiq/feecost/internal/repository"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := logging.New(cfg.LogLevel, cfg.LogFormat)
	defer logger.Sync()

	logger.Info("initializing database", zap.String("path", cfg.DBPath))
	db, err := repository.InitDB(cfg.DBPath)
	if err != nil {
		logger.Fatal("init database", zap.Error(err))
	}
	defer db.Close()

	tables, err := feetable.Load(cfg.FeeTableDir)
	if err != nil {
		logger.Fatal("load fee tables", zap.Error(err))
	}

	// Create repositories.
	txnRepo := repository.NewTransactionRepo(db)
	uploadRepo := repository.NewUploadRepo(db)
	merchantRepo := repository.NewMerchantRepo(db)
	reportRepo := repository.NewReportRepo(db)

	// Create services.
	processor := batch.NewProcessor(tables, logger)
	ingestionSvc := ingestion.NewService(uploadRepo, txnRepo, logger)
	costingSvc := costing.NewService(processor, reportRepo, merchantRepo, logger)
	pricingSvc := pricing.NewService(merchantRepo, logger)

	// Seed transactions from testdata if the DB is empty.
	count, err := txnRepo.Count()
	if err != nil {
		logger.Fatal("count transactions", zap.Error(err))
	}
	if count == 0 {
		if err := seedTransactions(ingestionSvc, logger); err != nil {
			logger.Warn("seed transactions", zap.Error(err))
		}
	} else {
		logger.Info("database already populated", zap.Int("transactions", count))
	}

	router := api.NewRouter(txnRepo, merchantRepo, reportRepo, uploadRepo,
		ingestionSvc, costingSvc, pricingSvc, cfg.MaxUploadBytes(), logger)

	logger.Info("fee cost engine listening",
		zap.String("addr", "http://localhost:"+cfg.Port),
		zap.String("api_base", "/api/v1"))

	if err := http.ListenAndServe(":"+cfg.Port, router); err != nil {
		logger.Fatal("server failed", zap.Error(err))
	}
}

func seedTransactions(svc *ingestion.Service, logger *zap.Logger) error {
	candidates := []string{
		filepath.Join("testdata", "transactions.csv"),
	}
	if exe, err := os.Executable(); err == nil {
		dir := filepath.Dir(exe)
		candidates = append(candidates,
			filepath.Join(dir, "testdata", "transactions.csv"),
			filepath.Join(dir, "..", "..", "testdata", "transactions.csv"),
		)
	}

	var data []byte
	var path string
	var loadErr error
	for _, c := range candidates {
		data, loadErr = os.ReadFile(c)
		if loadErr == nil {
			path = c
			break
		}
	}
	if loadErr != nil {
		return fmt.Errorf("no transactions.csv in candidate paths: %w", loadErr)
	}

	result, err := svc.IngestFile(filepath.Base(path), data, "")
	if err != nil {
		return fmt.Errorf("ingest seed file: %w", err)
	}

	logger.Info("seeded transactions",
		zap.String("path", path),
		zap.Int("stored", result.RecordsIngested),
		zap.Int("rejected", result.RowsRejected),
	)
	return nil
}
