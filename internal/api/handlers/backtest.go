package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/wonny/pairscan/internal/backtest"
	"github.com/wonny/pairscan/internal/contracts"
	"github.com/wonny/pairscan/internal/panel"
	"github.com/wonny/pairscan/internal/storage"
	"github.com/wonny/pairscan/pkg/logger"
)

// BacktestHandler handles backtest and optimization API endpoints
// ⭐ SSOT: 백테스트 API 핸들러는 이 구조체에서만
type BacktestHandler struct {
	priceRepo    *storage.PriceRepository
	backtestRepo *storage.BacktestRepository
	builder      *panel.Builder
	simulator    *backtest.Simulator
	optimizer    *backtest.Optimizer
	logger       *logger.Logger
}

// NewBacktestHandler creates a new backtest handler.
func NewBacktestHandler(priceRepo *storage.PriceRepository, backtestRepo *storage.BacktestRepository, builder *panel.Builder, sim *backtest.Simulator, opt *backtest.Optimizer, log *logger.Logger) *BacktestHandler {
	return &BacktestHandler{
		priceRepo:    priceRepo,
		backtestRepo: backtestRepo,
		builder:      builder,
		simulator:    sim,
		optimizer:    opt,
		logger:       log,
	}
}

// BacktestRequest is the POST /api/backtest body.
type BacktestRequest struct {
	SymbolA string  `json:"symbol_a"`
	SymbolB string  `json:"symbol_b"`
	From    string  `json:"from"`
	To      string  `json:"to"`
	EntryZ  float64 `json:"entry_z"`
	ExitZ   float64 `json:"exit_z"`
	Window  int     `json:"window"`
}

// Run backtests one pair with the given thresholds.
// POST /api/backtest
func (h *BacktestHandler) Run(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req BacktestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	cfg := backtest.SimConfig{EntryZ: req.EntryZ, ExitZ: req.ExitZ, Window: req.Window}
	if req.EntryZ == 0 && req.ExitZ == 0 {
		cfg = backtest.DefaultSimConfig()
		cfg.Window = req.Window
	}

	pair, status, err := h.loadPair(ctx, req.SymbolA, req.SymbolB, req.From, req.To)
	if err != nil {
		respondError(w, status, err.Error())
		return
	}

	result, err := h.simulator.Run(pair, cfg)
	if err != nil {
		if errors.Is(err, contracts.ErrInvalidConfiguration) {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.WithError(err).Error("Backtest failed")
		respondError(w, http.StatusInternalServerError, "Backtest failed")
		return
	}

	if err := h.backtestRepo.Save(ctx, result); err != nil {
		h.logger.WithError(err).Warn("Failed to persist backtest summary")
	}

	respondJSON(w, http.StatusOK, result)
}

// OptimizeRequest is the POST /api/optimize body.
type OptimizeRequest struct {
	SymbolA         string    `json:"symbol_a"`
	SymbolB         string    `json:"symbol_b"`
	From            string    `json:"from"`
	To              string    `json:"to"`
	EntryCandidates []float64 `json:"entry_candidates"`
	ExitCandidates  []float64 `json:"exit_candidates"`
}

// Optimize sweeps a threshold grid for one pair.
// POST /api/optimize
func (h *BacktestHandler) Optimize(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req OptimizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if len(req.EntryCandidates) == 0 || len(req.ExitCandidates) == 0 {
		respondError(w, http.StatusBadRequest, "entry_candidates and exit_candidates are required")
		return
	}

	pair, status, err := h.loadPair(ctx, req.SymbolA, req.SymbolB, req.From, req.To)
	if err != nil {
		respondError(w, status, err.Error())
		return
	}

	result, err := h.optimizer.Optimize(ctx, pair, req.EntryCandidates, req.ExitCandidates)
	if err != nil {
		h.logger.WithError(err).Error("Optimization failed")
		respondError(w, http.StatusInternalServerError, "Optimization failed")
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// Best returns the stored highest-Sharpe run for a pair.
// GET /api/backtest/best?symbol_a=...&symbol_b=...
func (h *BacktestHandler) Best(w http.ResponseWriter, r *http.Request) {
	symbolA := r.URL.Query().Get("symbol_a")
	symbolB := r.URL.Query().Get("symbol_b")
	if symbolA == "" || symbolB == "" {
		respondError(w, http.StatusBadRequest, "symbol_a and symbol_b are required")
		return
	}

	best, err := h.backtestRepo.GetBestByPair(r.Context(), symbolA, symbolB)
	if err != nil {
		respondError(w, http.StatusNotFound, "No backtest found for pair")
		return
	}

	respondJSON(w, http.StatusOK, best)
}

// loadPair builds an aligned price pair for two symbols from storage.
func (h *BacktestHandler) loadPair(ctx context.Context, symbolA, symbolB, fromStr, toStr string) (*contracts.PricePair, int, error) {
	if symbolA == "" || symbolB == "" {
		return nil, http.StatusBadRequest, errors.New("symbol_a and symbol_b are required")
	}

	from, to, err := parseDateRange(fromStr, toStr)
	if err != nil {
		return nil, http.StatusBadRequest, err
	}

	series, err := h.priceRepo.GetUniverse(ctx, []string{symbolA, symbolB}, from, to)
	if err != nil {
		h.logger.WithError(err).Error("Failed to load prices")
		return nil, http.StatusInternalServerError, errors.New("failed to load prices")
	}

	pricePanel, err := h.builder.Build(series)
	if err != nil {
		return nil, http.StatusUnprocessableEntity, errors.New("no price data for the requested range")
	}

	pair, err := pricePanel.Pair(symbolA, symbolB)
	if err != nil {
		return nil, http.StatusUnprocessableEntity, err
	}
	return pair, http.StatusOK, nil
}
