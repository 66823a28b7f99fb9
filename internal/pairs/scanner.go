package pairs

import (
	"context"
	"math"
	"time"

	"github.com/wonny/pairscan/internal/contracts"
	"github.com/wonny/pairscan/internal/stats"
	"github.com/wonny/pairscan/pkg/logger"
)

// ScannerConfig holds pair scan parameters.
type ScannerConfig struct {
	CorrelationThreshold float64 // 추천 범위 0.5 ~ 0.95
	PValueThreshold      float64 // 추천 범위 0.01 ~ 0.1
	MinObservations      int     // minimum overlapping dates per pair
	HalfLifeCapDays      float64
	MaxLag               int // unit-root test lag order, 0 = heuristic
}

// DefaultScannerConfig returns the documented defaults.
func DefaultScannerConfig() ScannerConfig {
	return ScannerConfig{
		CorrelationThreshold: 0.8,
		PValueThreshold:      0.05,
		MinObservations:      30,
		HalfLifeCapDays:      252,
	}
}

// Scanner finds cointegrated pairs in a price panel: a cheap
// correlation pre-filter prunes the O(N²) candidate space before the
// expensive cointegration tests.
// ⭐ SSOT: 페어 스캔은 여기서만
type Scanner struct {
	config ScannerConfig
	tester *Tester
	logger *logger.Logger
}

// NewScanner creates a scanner.
func NewScanner(config ScannerConfig, log *logger.Logger) *Scanner {
	if config.MinObservations <= 0 {
		config.MinObservations = 30
	}
	return &Scanner{
		config: config,
		tester: NewTester(config.PValueThreshold),
		logger: log,
	}
}

// Scan runs the two-stage filter over the panel. A scan that finds
// nothing returns a report with an EmptyReason, not an error; only a
// structurally invalid panel is a hard failure.
func (s *Scanner) Scan(ctx context.Context, panel *contracts.PricePanel) (*contracts.ScanReport, error) {
	report := &contracts.ScanReport{
		Date:                 time.Now(),
		CorrelationThreshold: s.config.CorrelationThreshold,
		PValueThreshold:      s.config.PValueThreshold,
	}

	if panel == nil || panel.NumAssets() < 2 {
		report.EmptyReason = contracts.ReasonTooFewAssets
		return report, nil
	}

	if err := panel.Validate(); err != nil {
		return nil, err
	}

	report.TotalAssets = panel.NumAssets()

	s.logger.WithFields(map[string]interface{}{
		"assets":         report.TotalAssets,
		"observations":   panel.Len(),
		"corr_threshold": s.config.CorrelationThreshold,
	}).Info("Pair scan started")

	candidates := s.correlationCandidates(panel)
	report.CandidateCount = len(candidates)

	if len(candidates) == 0 {
		report.EmptyReason = contracts.ReasonNoCandidates
		s.logger.Info("No pair cleared the correlation filter")
		return report, nil
	}

	s.logger.Infof("Correlation filter kept %d candidate pairs", len(candidates))

	for i, candidate := range candidates {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		a, _ := panel.Series(candidate.SymbolA)
		b, _ := panel.Series(candidate.SymbolB)

		if len(a) < s.config.MinObservations || len(b) < s.config.MinObservations {
			continue
		}

		coint := s.tester.Test(a, b)
		if !coint.IsCointegrated {
			continue
		}

		spread := ComputeSpreadProfile(a, b, SpreadOptions{
			HalfLifeCapDays: s.config.HalfLifeCapDays,
			MaxLag:          s.config.MaxLag,
		})

		report.Pairs = append(report.Pairs, contracts.PairRecord{
			SymbolA:     candidate.SymbolA,
			SymbolB:     candidate.SymbolB,
			Correlation: candidate.Correlation,
			Coint:       coint,
			Spread:      spread,
		})

		if (i+1)%10 == 0 {
			s.logger.Debugf("Cointegration progress: %d/%d", i+1, len(candidates))
		}
	}

	if len(report.Pairs) == 0 {
		report.EmptyReason = contracts.ReasonNoCointegration
		s.logger.Info("No candidate cleared the cointegration filter")
		return report, nil
	}

	contracts.SortPairRecords(report.Pairs)

	s.logger.WithFields(map[string]interface{}{
		"candidates": report.CandidateCount,
		"pairs":      len(report.Pairs),
	}).Info("Pair scan completed")

	return report, nil
}

// correlationCandidates computes the log-return correlation matrix and
// keeps the upper-triangular pairs above the threshold.
func (s *Scanner) correlationCandidates(panel *contracts.PricePanel) []contracts.CandidatePair {
	assets := panel.Assets()

	returns := make(map[string][]float64, len(assets))
	for _, code := range assets {
		series, _ := panel.Series(code)
		returns[code] = stats.LogReturns(series)
	}

	var candidates []contracts.CandidatePair
	for i := 0; i < len(assets); i++ {
		for j := i + 1; j < len(assets); j++ {
			corr := stats.Correlation(returns[assets[i]], returns[assets[j]])
			if math.IsNaN(corr) {
				continue
			}
			if math.Abs(corr) >= s.config.CorrelationThreshold {
				candidates = append(candidates, contracts.CandidatePair{
					SymbolA:     assets[i],
					SymbolB:     assets[j],
					Correlation: corr,
				})
			}
		}
	}

	return candidates
}
