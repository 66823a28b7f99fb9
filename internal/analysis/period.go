package analysis

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/wonny/pairscan/internal/backtest"
	"github.com/wonny/pairscan/internal/contracts"
	"github.com/wonny/pairscan/internal/pairs"
	"github.com/wonny/pairscan/pkg/logger"
)

// 투자가치 평가 가중치
const (
	weightTotalReturn = 0.30
	weightSharpe      = 0.25
	weightDrawdown    = 0.20
	weightWinRate     = 0.15
	weightCorrelation = 0.10
)

// PairPerformance couples a scanned pair with its backtest and an
// aggregate investment score (0-100).
type PairPerformance struct {
	Record          contracts.PairRecord      `json:"record"`
	Backtest        contracts.BacktestSummary `json:"backtest"`
	InvestmentScore float64                   `json:"investment_score"`
}

// PeriodResult holds the scored pairs of one lookback period.
type PeriodResult struct {
	Months int               `json:"months"`
	From   time.Time         `json:"from"`
	To     time.Time         `json:"to"`
	Pairs  []PairPerformance `json:"pairs"`
	Empty  string            `json:"empty_reason,omitempty"`
}

// Analyzer runs the scan + backtest pipeline over multiple lookback
// periods and ranks pairs by investment score.
// ⭐ SSOT: 기간별 분석은 여기서만
type Analyzer struct {
	scanner   *pairs.Scanner
	simulator *backtest.Simulator
	simConfig backtest.SimConfig
	maxPairs  int
	logger    *logger.Logger
}

// NewAnalyzer creates an analyzer. maxPairs <= 0 keeps every pair.
func NewAnalyzer(scanner *pairs.Scanner, sim *backtest.Simulator, simConfig backtest.SimConfig, maxPairs int, log *logger.Logger) *Analyzer {
	return &Analyzer{
		scanner:   scanner,
		simulator: sim,
		simConfig: simConfig,
		maxPairs:  maxPairs,
		logger:    log,
	}
}

// AnalyzePeriods runs one analysis per lookback period over the same
// panel. Periods that find nothing produce an empty result, not an
// error.
func (a *Analyzer) AnalyzePeriods(ctx context.Context, panel *contracts.PricePanel, periodsMonths []int) ([]PeriodResult, error) {
	results := make([]PeriodResult, 0, len(periodsMonths))
	for _, months := range periodsMonths {
		result, err := a.AnalyzePeriod(ctx, panel, months)
		if err != nil {
			return nil, err
		}
		results = append(results, *result)
	}
	return results, nil
}

// AnalyzePeriod scans the trailing window of the panel, backtests every
// found pair, and ranks by investment score descending.
func (a *Analyzer) AnalyzePeriod(ctx context.Context, panel *contracts.PricePanel, months int) (*PeriodResult, error) {
	window := trailingWindow(panel, months)

	result := &PeriodResult{Months: months}
	if window.Len() > 0 {
		result.From = window.Dates[0]
		result.To = window.Dates[window.Len()-1]
	}

	report, err := a.scanner.Scan(ctx, window)
	if err != nil {
		return nil, err
	}
	if report.IsEmpty() {
		result.Empty = string(report.EmptyReason)
		return result, nil
	}

	for _, record := range report.Pairs {
		pair, err := window.Pair(record.SymbolA, record.SymbolB)
		if err != nil {
			return nil, err
		}

		run, err := a.simulator.Run(pair, a.simConfig)
		if err != nil {
			return nil, err
		}

		result.Pairs = append(result.Pairs, PairPerformance{
			Record:          record,
			Backtest:        run.Summary,
			InvestmentScore: InvestmentScore(run.Summary, record.Correlation),
		})
	}

	sort.SliceStable(result.Pairs, func(i, j int) bool {
		return result.Pairs[i].InvestmentScore > result.Pairs[j].InvestmentScore
	})
	if a.maxPairs > 0 && len(result.Pairs) > a.maxPairs {
		result.Pairs = result.Pairs[:a.maxPairs]
	}

	a.logger.WithFields(map[string]interface{}{
		"months": months,
		"pairs":  len(result.Pairs),
	}).Info("Period analysis completed")

	return result, nil
}

// InvestmentScore normalizes the backtest metrics onto 0-100 scales and
// blends them with the evaluation weights.
//
//	수익률: 0% = 50점, 20% = 100점, -10% = 0점
//	샤프:   0 = 50점, 2 = 100점, -1 = 0점 (25점/단위)
//	손실:   0% = 100점, -10% = 50점, -20% = 0점
//	승률:   비율 그대로 백분율 점수
//	상관:   |상관계수| 백분율 점수
func InvestmentScore(summary contracts.BacktestSummary, correlation float64) float64 {
	totalReturn := clampScore(50 + summary.TotalReturn*250)
	sharpe := clampScore(50 + summary.SharpeRatio*25)
	drawdown := clampScore(100 - math.Abs(summary.MaxDrawdown)*500)
	winRate := clampScore(summary.WinRate * 100)
	corr := clampScore(math.Abs(correlation) * 100)

	score := totalReturn*weightTotalReturn +
		sharpe*weightSharpe +
		drawdown*weightDrawdown +
		winRate*weightWinRate +
		corr*weightCorrelation

	return math.Round(score*100) / 100
}

func clampScore(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// trailingWindow slices the last months*30 calendar days off the panel.
func trailingWindow(panel *contracts.PricePanel, months int) *contracts.PricePanel {
	if panel == nil || panel.Len() == 0 || months <= 0 {
		return panel
	}

	end := panel.Dates[panel.Len()-1]
	cutoff := end.AddDate(0, 0, -months*30)

	start := sort.Search(panel.Len(), func(i int) bool {
		return !panel.Dates[i].Before(cutoff)
	})
	if start == 0 {
		return panel
	}

	window := contracts.NewPricePanel(panel.Dates[start:])
	for code, series := range panel.Prices {
		window.Prices[code] = series[start:]
	}
	return window
}
