package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/wonny/pairscan/internal/contracts"
	"github.com/wonny/pairscan/internal/pairs"
	"github.com/wonny/pairscan/internal/panel"
	"github.com/wonny/pairscan/internal/storage"
	"github.com/wonny/pairscan/pkg/logger"
)

// PairsHandler handles pair scan API endpoints
// ⭐ SSOT: 페어 스캔 API 핸들러는 이 구조체에서만
type PairsHandler struct {
	priceRepo *storage.PriceRepository
	scanRepo  *storage.ScanRepository
	builder   *panel.Builder
	scanner   *pairs.Scanner
	logger    *logger.Logger
}

// NewPairsHandler creates a new pairs handler.
func NewPairsHandler(priceRepo *storage.PriceRepository, scanRepo *storage.ScanRepository, builder *panel.Builder, scanner *pairs.Scanner, log *logger.Logger) *PairsHandler {
	return &PairsHandler{
		priceRepo: priceRepo,
		scanRepo:  scanRepo,
		builder:   builder,
		scanner:   scanner,
		logger:    log,
	}
}

// ScanRequest is the POST /api/scan body.
type ScanRequest struct {
	Symbols []string `json:"symbols"` // empty = every stored symbol
	From    string   `json:"from"`    // YYYY-MM-DD
	To      string   `json:"to"`
}

// ScanResponse wraps a stored scan run.
type ScanResponse struct {
	RunID  int64                 `json:"run_id"`
	Report *contracts.ScanReport `json:"report"`
}

// Scan runs a pair scan over stored prices and persists the result.
// POST /api/scan
func (h *PairsHandler) Scan(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req ScanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	from, to, err := parseDateRange(req.From, req.To)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	symbols := req.Symbols
	if len(symbols) == 0 {
		symbols, err = h.priceRepo.ListCodes(ctx)
		if err != nil {
			h.logger.WithError(err).Error("Failed to list symbols")
			respondError(w, http.StatusInternalServerError, "Failed to list symbols")
			return
		}
	}

	series, err := h.priceRepo.GetUniverse(ctx, symbols, from, to)
	if err != nil {
		h.logger.WithError(err).Error("Failed to load prices")
		respondError(w, http.StatusInternalServerError, "Failed to load prices")
		return
	}

	pricePanel, err := h.builder.Build(series)
	if err != nil {
		if errors.Is(err, contracts.ErrEmptyPanel) {
			respondError(w, http.StatusUnprocessableEntity, "No price data for the requested range")
			return
		}
		h.logger.WithError(err).Error("Failed to build panel")
		respondError(w, http.StatusInternalServerError, "Failed to build panel")
		return
	}

	report, err := h.scanner.Scan(ctx, pricePanel)
	if err != nil {
		h.logger.WithError(err).Error("Scan failed")
		respondError(w, http.StatusInternalServerError, "Scan failed")
		return
	}

	runID, err := h.scanRepo.SaveReport(ctx, report)
	if err != nil {
		h.logger.WithError(err).Error("Failed to save scan report")
		respondError(w, http.StatusInternalServerError, "Failed to save scan report")
		return
	}

	respondJSON(w, http.StatusOK, ScanResponse{RunID: runID, Report: report})
}

// LatestPairs returns the pair table of the most recent scan run.
// GET /api/pairs/latest
func (h *PairsHandler) LatestPairs(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	runID, err := h.scanRepo.GetLatestRunID(ctx)
	if err != nil {
		respondError(w, http.StatusNotFound, "No scan run found")
		return
	}

	records, err := h.scanRepo.GetPairs(ctx, runID)
	if err != nil {
		h.logger.WithError(err).Error("Failed to load pairs")
		respondError(w, http.StatusInternalServerError, "Failed to load pairs")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"run_id": runID,
		"pairs":  records,
	})
}

// parseDateRange parses YYYY-MM-DD bounds. Empty from defaults to one
// year back, empty to defaults to today.
func parseDateRange(fromStr, toStr string) (time.Time, time.Time, error) {
	now := time.Now().UTC().Truncate(24 * time.Hour)

	to := now
	if toStr != "" {
		var err error
		to, err = time.Parse("2006-01-02", toStr)
		if err != nil {
			return time.Time{}, time.Time{}, errors.New("invalid 'to' date format (expected YYYY-MM-DD)")
		}
	}

	from := to.AddDate(-1, 0, 0)
	if fromStr != "" {
		var err error
		from, err = time.Parse("2006-01-02", fromStr)
		if err != nil {
			return time.Time{}, time.Time{}, errors.New("invalid 'from' date format (expected YYYY-MM-DD)")
		}
	}

	if from.After(to) {
		return time.Time{}, time.Time{}, errors.New("'from' must not be after 'to'")
	}
	return from, to, nil
}
