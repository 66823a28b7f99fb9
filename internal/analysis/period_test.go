package analysis

import (
	"context"
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/pairscan/internal/backtest"
	"github.com/wonny/pairscan/internal/contracts"
	"github.com/wonny/pairscan/internal/pairs"
	"github.com/wonny/pairscan/pkg/logger"
)

func TestInvestmentScore(t *testing.T) {
	// neutral inputs land on the weighted midpoints
	neutral := contracts.BacktestSummary{TotalReturn: 0, SharpeRatio: 0, MaxDrawdown: 0, WinRate: 0.5}
	// 50*0.3 + 50*0.25 + 100*0.2 + 50*0.15 + 80*0.1 = 63.0
	assert.InDelta(t, 63.0, InvestmentScore(neutral, 0.8), 1e-9)

	// extremes clamp to the 0-100 band
	great := contracts.BacktestSummary{TotalReturn: 1.0, SharpeRatio: 5, MaxDrawdown: 0, WinRate: 1}
	assert.InDelta(t, 100.0, InvestmentScore(great, 1.0), 1e-9)

	awful := contracts.BacktestSummary{TotalReturn: -1.0, SharpeRatio: -5, MaxDrawdown: -0.5, WinRate: 0}
	assert.InDelta(t, 0.0, InvestmentScore(awful, 0), 1e-9)
}

func TestInvestmentScore_Monotonic(t *testing.T) {
	base := contracts.BacktestSummary{TotalReturn: 0.05, SharpeRatio: 0.8, MaxDrawdown: -0.05, WinRate: 0.55}
	better := base
	better.TotalReturn = 0.10

	assert.Greater(t, InvestmentScore(better, 0.8), InvestmentScore(base, 0.8))
}

func buildTestPanel(n int) *contracts.PricePanel {
	rng := rand.New(rand.NewSource(77))
	dates := make([]time.Time, n)
	start := time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC)

	base := make([]float64, n)
	partner := make([]float64, n)
	indep := make([]float64, n)

	level, level2, spread := 0.0, 0.0, 0.0
	for i := 0; i < n; i++ {
		dates[i] = start.AddDate(0, 0, i)
		level += rng.NormFloat64() * 0.01
		level2 += rng.NormFloat64() * 0.01
		spread = 0.5*spread + rng.NormFloat64()*0.005
		base[i] = 100 * math.Exp(level)
		partner[i] = base[i] * math.Exp(spread)
		indep[i] = 100 * math.Exp(level2)
	}

	panel := contracts.NewPricePanel(dates)
	panel.Prices["A"] = base
	panel.Prices["B"] = partner
	panel.Prices["C"] = indep
	return panel
}

func newTestAnalyzer(maxPairs int) *Analyzer {
	log := logger.NewNop()
	scanner := pairs.NewScanner(pairs.DefaultScannerConfig(), log)
	sim := backtest.NewSimulator(log)
	return NewAnalyzer(scanner, sim, backtest.DefaultSimConfig(), maxPairs, log)
}

func TestAnalyzer_AnalyzePeriod(t *testing.T) {
	panel := buildTestPanel(500)

	result, err := newTestAnalyzer(0).AnalyzePeriod(context.Background(), panel, 12)
	require.NoError(t, err)

	assert.Equal(t, 12, result.Months)
	require.NotEmpty(t, result.Pairs)

	// 점수 내림차순 정렬
	for i := 1; i < len(result.Pairs); i++ {
		assert.GreaterOrEqual(t, result.Pairs[i-1].InvestmentScore, result.Pairs[i].InvestmentScore)
	}

	// A/B 페어가 최상위
	top := result.Pairs[0]
	symbols := []string{top.Record.SymbolA, top.Record.SymbolB}
	assert.Contains(t, symbols, "A")
	assert.Contains(t, symbols, "B")

	// 기간 창이 lookback에 맞게 잘린다
	assert.True(t, result.From.After(panel.Dates[0]))
}

func TestAnalyzer_AnalyzePeriods(t *testing.T) {
	panel := buildTestPanel(500)

	results, err := newTestAnalyzer(5).AnalyzePeriods(context.Background(), panel, []int{3, 6, 12})
	require.NoError(t, err)
	require.Len(t, results, 3)

	for _, r := range results {
		assert.LessOrEqual(t, len(r.Pairs), 5)
	}
}

func TestAnalyzer_EmptyPeriod(t *testing.T) {
	// 단일 종목: 스캔할 페어 없음
	dates := []time.Time{time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)}
	panel := contracts.NewPricePanel(dates)
	panel.Prices["A"] = []float64{100}

	result, err := newTestAnalyzer(0).AnalyzePeriod(context.Background(), panel, 6)
	require.NoError(t, err)
	assert.Empty(t, result.Pairs)
	assert.NotEmpty(t, result.Empty)
}

func TestTrailingWindow(t *testing.T) {
	panel := buildTestPanel(400)

	window := trailingWindow(panel, 3)
	assert.Less(t, window.Len(), panel.Len())
	assert.InDelta(t, 90, window.Len(), 2) // daily dates, 3*30 days

	// 전체 기간보다 긴 lookback은 패널 그대로
	assert.Equal(t, panel.Len(), trailingWindow(panel, 24).Len())
}
