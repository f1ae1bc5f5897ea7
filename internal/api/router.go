package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/merchantiq/feecost/internal/costing"
	"github.com/merchantiq/feecost/internal/ingestion"
	"github.com/merchantiq/feecost/internal/pricing"
	"github.com/merchantiq/feecost/internal/repository"
)

// NewRouter creates the Chi router with all API routes mounted.
func NewRouter(
	txnRepo *repository.TransactionRepo,
	merchantRepo *repository.MerchantRepo,
	reportRepo *repository.ReportRepo,
	uploadRepo *repository.UploadRepo,
	ingestionSvc *ingestion.Service,
	costingSvc *costing.Service,
	pricingSvc *pricing.Service,
	maxUploadBytes int64,
	logger *zap.Logger,
) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	h := &Handlers{
		txnRepo:        txnRepo,
		merchantRepo:   merchantRepo,
		reportRepo:     reportRepo,
		uploadRepo:     uploadRepo,
		ingestionSvc:   ingestionSvc,
		costingSvc:     costingSvc,
		pricingSvc:     pricingSvc,
		maxUploadBytes: maxUploadBytes,
		logger:         logger,
	}

	r := chi.NewRouter()

	// Middleware.
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.SetHeader("Content-Type", "application/json"))

	r.Route("/api/v1", func(r chi.Router) {
		// Ingestion.
		r.Post("/transactions/upload", h.UploadTransactions)
		r.Get("/transactions", h.ListTransactions)
		r.Get("/transactions/{id}", h.GetTransaction)
		r.Get("/uploads", h.ListUploads)

		// Cost runs.
		r.Post("/costs/process", h.ProcessCosts)
		r.Get("/reports", h.ListReports)

		// Fee calculators.
		r.Post("/calculations/merchant-fee", h.CalculateMerchantFee)
		r.Post("/calculations/desired-margin", h.CalculateDesiredMargin)

		// Merchants.
		r.Get("/merchants", h.ListMerchants)
		r.Post("/merchants", h.CreateMerchant)
		r.Get("/merchants/{id}", h.GetMerchant)

		// MCC directory.
		r.Get("/mccs", h.ListMCCs)
		r.Get("/mccs/search", h.SearchMCCs)
		r.Get("/mccs/{code}", h.GetMCC)
	})

	return r
}
