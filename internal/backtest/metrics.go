package backtest

import (
	"math"

	"github.com/wonny/pairscan/internal/contracts"
	"github.com/wonny/pairscan/internal/stats"
)

const tradingDaysPerYear = 252

// computeSummary derives the scalar metrics from the per-period
// returns and the equity curve.
func computeSummary(returns, equity []float64) contracts.BacktestSummary {
	summary := contracts.BacktestSummary{
		ReturnPeriods: len(returns),
		MaxDrawdown:   maxDrawdown(equity),
	}

	if len(equity) > 0 {
		summary.TotalReturn = equity[len(equity)-1] - 1
	}
	if len(returns) > 0 {
		summary.AnnualizedReturn = annualize(summary.TotalReturn, len(returns))
		summary.SharpeRatio = sharpeRatio(returns)
		summary.WinRate = winRate(returns)
	}

	return summary
}

// annualize compounds a total return over n daily periods to a yearly
// rate.
func annualize(totalReturn float64, periods int) float64 {
	if periods == 0 || totalReturn <= -1 {
		return 0
	}
	return math.Pow(1+totalReturn, tradingDaysPerYear/float64(periods)) - 1
}

// sharpeRatio is the annualized mean/std of daily returns, zero risk-free
// rate. Zero volatility yields zero, not a division blowup.
func sharpeRatio(returns []float64) float64 {
	std := stats.Std(returns)
	if std == 0 || math.IsNaN(std) {
		return 0
	}
	return math.Sqrt(tradingDaysPerYear) * stats.Mean(returns) / std
}

// maxDrawdown is the worst peak-to-trough decline of the equity curve.
// Always <= 0; 0 means the curve never fell below a prior peak.
func maxDrawdown(equity []float64) float64 {
	peak := math.Inf(-1)
	worst := 0.0
	for _, v := range equity {
		if v > peak {
			peak = v
		}
		dd := v/peak - 1
		if dd < worst {
			worst = dd
		}
	}
	return worst
}

// winRate is the share of profitable periods among the periods where a
// position was actually held (nonzero return).
func winRate(returns []float64) float64 {
	wins, active := 0, 0
	for _, r := range returns {
		if r == 0 {
			continue
		}
		active++
		if r > 0 {
			wins++
		}
	}
	if active == 0 {
		return 0
	}
	return float64(wins) / float64(active)
}
