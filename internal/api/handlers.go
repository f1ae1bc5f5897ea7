package api

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/merchantiq/feecost/internal/costing"
	"github.com/merchantiq/feecost/internal/domain"
	"github.com/merchantiq/feecost/internal/ingestion"
	"github.com/merchantiq/feecost/internal/mcc"
	"github.com/merchantiq/feecost/internal/pricing"
	"github.com/merchantiq/feecost/internal/repository"
)

// Handlers groups all HTTP handler methods and their dependencies.
type Handlers struct {
	txnRepo        *repository.TransactionRepo
	merchantRepo   *repository.MerchantRepo
	reportRepo     *repository.ReportRepo
	uploadRepo     *repository.UploadRepo
	ingestionSvc   *ingestion.Service
	costingSvc     *costing.Service
	pricingSvc     *pricing.Service
	maxUploadBytes int64
	logger         *zap.Logger
}

// --- helpers ---

func (h *Handlers) writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("encode response", zap.Error(err))
	}
}

func (h *Handlers) writeError(w http.ResponseWriter, status int, msg string) {
	h.writeJSON(w, status, map[string]string{"error": msg})
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 1 {
		return def
	}
	return v
}

// readUploadedFile pulls the multipart "file" field, bounded by the
// configured upload size.
func (h *Handlers) readUploadedFile(w http.ResponseWriter, r *http.Request) (string, []byte, bool) {
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid multipart form: "+err.Error())
		return "", nil, false
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "file field is required: "+err.Error())
		return "", nil, false
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, "read file: "+err.Error())
		return "", nil, false
	}
	return header.Filename, data, true
}

// --- ingestion ---

func (h *Handlers) UploadTransactions(w http.ResponseWriter, r *http.Request) {
	filename, data, ok := h.readUploadedFile(w, r)
	if !ok {
		return
	}

	result, err := h.ingestionSvc.IngestFile(filename, data, r.FormValue("merchant_id"))
	if err != nil {
		h.writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if result.Structural {
		h.writeJSON(w, http.StatusUnprocessableEntity, result)
		return
	}
	h.writeJSON(w, http.StatusOK, result)
}

func (h *Handlers) ListTransactions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := repository.TransactionFilter{
		MerchantID:      q.Get("merchant_id"),
		TransactionType: q.Get("type"),
		BatchID:         q.Get("batch_id"),
		Page:            parseIntDefault(q.Get("page"), 1),
		Limit:           parseIntDefault(q.Get("limit"), 50),
	}

	txns, total, err := h.txnRepo.List(filter)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if txns == nil {
		txns = []domain.TransactionRecord{}
	}
	h.writeJSON(w, http.StatusOK, map[string]any{
		"transactions": txns,
		"total":        total,
		"page":         filter.Page,
		"limit":        filter.Limit,
	})
}

func (h *Handlers) GetTransaction(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	txn, err := h.txnRepo.GetByID(id)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if txn == nil {
		h.writeError(w, http.StatusNotFound, "transaction not found")
		return
	}
	h.writeJSON(w, http.StatusOK, txn)
}

func (h *Handlers) ListUploads(w http.ResponseWriter, r *http.Request) {
	uploads, err := h.uploadRepo.List(parseIntDefault(r.URL.Query().Get("limit"), 50))
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if uploads == nil {
		uploads = []domain.Upload{}
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"uploads": uploads})
}

// --- cost runs ---

func (h *Handlers) ProcessCosts(w http.ResponseWriter, r *http.Request) {
	filename, data, ok := h.readUploadedFile(w, r)
	if !ok {
		return
	}

	mccCode := 0
	if v := r.FormValue("mcc"); v != "" {
		if err := mcc.Validate(v); err != nil {
			h.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		mccCode, _ = strconv.Atoi(strings.TrimSpace(v))
	}

	result, err := h.costingSvc.ProcessFile(filename, data, r.FormValue("merchant_id"), mccCode)
	if err != nil {
		h.writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	h.writeJSON(w, http.StatusOK, result)
}

func (h *Handlers) ListReports(w http.ResponseWriter, r *http.Request) {
	reports, err := h.reportRepo.List(parseIntDefault(r.URL.Query().Get("limit"), 50))
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if reports == nil {
		reports = []domain.CostReport{}
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"reports": reports})
}

// --- fee calculators ---

type calcTransaction struct {
	Amount decimal.Decimal `json:"amount"`
}

func calcAmounts(txns []calcTransaction) []decimal.Decimal {
	out := make([]decimal.Decimal, len(txns))
	for i, txn := range txns {
		out[i] = txn.Amount
	}
	return out
}

type merchantFeeRequest struct {
	MerchantID   string            `json:"merchant_id"`
	MCC          string            `json:"mcc"`
	Transactions []calcTransaction `json:"transactions"`
	CurrentRate  *decimal.Decimal  `json:"current_rate"`
	FixedFee     *decimal.Decimal  `json:"fixed_fee"`
	MinimumFee   *decimal.Decimal  `json:"minimum_fee"`
}

func (h *Handlers) CalculateMerchantFee(w http.ResponseWriter, r *http.Request) {
	var req merchantFeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	if len(req.Transactions) == 0 {
		h.writeError(w, http.StatusBadRequest, "transactions are required")
		return
	}
	if req.MCC != "" {
		if err := mcc.Validate(req.MCC); err != nil {
			h.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	est, err := h.pricingSvc.EstimateFees(pricing.FeeRequest{
		MerchantID:  req.MerchantID,
		MCC:         strings.TrimSpace(req.MCC),
		Amounts:     calcAmounts(req.Transactions),
		CurrentRate: req.CurrentRate,
		FixedFee:    req.FixedFee,
		MinimumFee:  req.MinimumFee,
	})
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.writeJSON(w, http.StatusOK, est)
}

type desiredMarginRequest struct {
	MerchantID    string            `json:"merchant_id"`
	MCC           string            `json:"mcc"`
	Transactions  []calcTransaction `json:"transactions"`
	DesiredMargin *decimal.Decimal  `json:"desired_margin"`
	MinimumFee    *decimal.Decimal  `json:"minimum_fee"`
}

func (h *Handlers) CalculateDesiredMargin(w http.ResponseWriter, r *http.Request) {
	var req desiredMarginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	if len(req.Transactions) == 0 {
		h.writeError(w, http.StatusBadRequest, "transactions are required")
		return
	}
	if req.MCC != "" {
		if err := mcc.Validate(req.MCC); err != nil {
			h.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	est, err := h.pricingSvc.EstimateMargin(pricing.MarginRequest{
		MerchantID:    req.MerchantID,
		MCC:           strings.TrimSpace(req.MCC),
		Amounts:       calcAmounts(req.Transactions),
		DesiredMargin: req.DesiredMargin,
		MinimumFee:    req.MinimumFee,
	})
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.writeJSON(w, http.StatusOK, est)
}

// --- merchants ---

type merchantRequest struct {
	MerchantID  string `json:"merchant_id"`
	Name        string `json:"merchant_name"`
	MCC         string `json:"mcc"`
	Industry    string `json:"industry"`
	CurrentRate string `json:"current_rate"`
	FixedFee    string `json:"fixed_fee"`
}

func (h *Handlers) CreateMerchant(w http.ResponseWriter, r *http.Request) {
	var req merchantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	if req.MerchantID == "" || req.Name == "" {
		h.writeError(w, http.StatusBadRequest, "merchant_id and merchant_name are required")
		return
	}
	if err := mcc.Validate(req.MCC); err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	m := &domain.Merchant{
		MerchantID: req.MerchantID,
		Name:       req.Name,
		MCC:        strings.TrimSpace(req.MCC),
		Industry:   req.Industry,
		CreatedAt:  time.Now().UTC(),
	}
	if req.CurrentRate != "" {
		d, err := decimal.NewFromString(req.CurrentRate)
		if err != nil {
			h.writeError(w, http.StatusBadRequest, "invalid current_rate")
			return
		}
		m.CurrentRate = &d
	}
	if req.FixedFee != "" {
		d, err := decimal.NewFromString(req.FixedFee)
		if err != nil {
			h.writeError(w, http.StatusBadRequest, "invalid fixed_fee")
			return
		}
		m.FixedFee = &d
	}

	if err := h.merchantRepo.Upsert(m); err != nil {
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	h.writeJSON(w, http.StatusCreated, m)
}

func (h *Handlers) ListMerchants(w http.ResponseWriter, r *http.Request) {
	merchants, err := h.merchantRepo.List()
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if merchants == nil {
		merchants = []domain.Merchant{}
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"merchants": merchants})
}

func (h *Handlers) GetMerchant(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	m, err := h.merchantRepo.GetByID(id)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if m == nil {
		h.writeError(w, http.StatusNotFound, "merchant not found")
		return
	}
	h.writeJSON(w, http.StatusOK, m)
}

// --- MCC directory ---

func (h *Handlers) ListMCCs(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]any{"mccs": mcc.All()})
}

func (h *Handlers) SearchMCCs(w http.ResponseWriter, r *http.Request) {
	results := mcc.Search(r.URL.Query().Get("q"))
	if results == nil {
		results = []mcc.Entry{}
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"mccs": results})
}

func (h *Handlers) GetMCC(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	entry, ok := mcc.Lookup(code)
	if !ok {
		h.writeError(w, http.StatusNotFound, "MCC not found")
		return
	}
	h.writeJSON(w, http.StatusOK, entry)
}
