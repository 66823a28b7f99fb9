package report

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/wonny/pairscan/internal/analysis"
	"github.com/wonny/pairscan/internal/contracts"
)

// Renderer formats scan and analysis results as markdown. Names maps
// stock codes to display names; unmapped codes render as-is.
type Renderer struct {
	names map[string]string
}

// NewRenderer creates a renderer with an optional code -> name map.
func NewRenderer(names map[string]string) *Renderer {
	return &Renderer{names: names}
}

func (r *Renderer) displayName(code string) string {
	if name, ok := r.names[code]; ok && name != "" {
		return fmt.Sprintf("%s(%s)", name, code)
	}
	return code
}

// ScanReport renders one scan run as a markdown document.
func (r *Renderer) ScanReport(report *contracts.ScanReport) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# 페어 스캔 결과 (%s)\n\n", report.Date.Format("2006-01-02"))
	fmt.Fprintf(&b, "- 분석 종목: %d개\n", report.TotalAssets)
	fmt.Fprintf(&b, "- 상관계수 후보: %d쌍 (임계값 %.2f)\n", report.CandidateCount, report.CorrelationThreshold)
	fmt.Fprintf(&b, "- 공적분 페어: %d쌍 (p < %.2f)\n\n", len(report.Pairs), report.PValueThreshold)

	if report.IsEmpty() {
		fmt.Fprintf(&b, "> 결과 없음: %s\n", report.EmptyReason)
		return b.String()
	}

	b.WriteString("| 순위 | 페어 | 상관계수 | p-value | 헤지비율 | 반감기 | 정상성 |\n")
	b.WriteString("|------|------|----------|---------|----------|--------|--------|\n")
	for i, p := range report.Pairs {
		fmt.Fprintf(&b, "| %d | %s / %s | %.3f | %.4f | %.3f | %s | %.2f |\n",
			i+1,
			r.displayName(p.SymbolA), r.displayName(p.SymbolB),
			p.Correlation, p.Coint.PValue, p.Spread.HedgeRatio,
			formatHalfLife(p.Spread.HalfLifeDays), p.Spread.StationarityScore,
		)
	}

	return b.String()
}

// BacktestResult renders one backtest summary as a markdown section.
func (r *Renderer) BacktestResult(result *contracts.BacktestResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "## 백테스트: %s / %s\n\n", r.displayName(result.SymbolA), r.displayName(result.SymbolB))
	fmt.Fprintf(&b, "- 진입 z: %.2f, 청산 z: %.2f, 윈도우: %d일\n\n", result.EntryZ, result.ExitZ, result.Window)

	s := result.Summary
	b.WriteString("| 지표 | 값 |\n|------|----|\n")
	fmt.Fprintf(&b, "| 총 수익률 | %.2f%% |\n", s.TotalReturn*100)
	fmt.Fprintf(&b, "| 연환산 수익률 | %.2f%% |\n", s.AnnualizedReturn*100)
	fmt.Fprintf(&b, "| 샤프 비율 | %.2f |\n", s.SharpeRatio)
	fmt.Fprintf(&b, "| 최대 손실 | %.2f%% |\n", s.MaxDrawdown*100)
	fmt.Fprintf(&b, "| 승률 | %.1f%% |\n", s.WinRate*100)
	fmt.Fprintf(&b, "| 기간 수 | %d |\n", s.ReturnPeriods)

	return b.String()
}

// PeriodAnalysis renders multi-period analysis results.
func (r *Renderer) PeriodAnalysis(results []analysis.PeriodResult, generatedAt time.Time) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# 기간별 페어 분석 (%s)\n", generatedAt.Format("2006-01-02 15:04"))

	for _, period := range results {
		fmt.Fprintf(&b, "\n## %d개월\n\n", period.Months)

		if len(period.Pairs) == 0 {
			reason := period.Empty
			if reason == "" {
				reason = "결과 없음"
			}
			fmt.Fprintf(&b, "> %s\n", reason)
			continue
		}

		b.WriteString("| 순위 | 페어 | 투자점수 | 총 수익률 | 샤프 | 최대 손실 | 승률 |\n")
		b.WriteString("|------|------|----------|-----------|------|-----------|------|\n")
		for i, p := range period.Pairs {
			fmt.Fprintf(&b, "| %d | %s / %s | %.2f | %.2f%% | %.2f | %.2f%% | %.1f%% |\n",
				i+1,
				r.displayName(p.Record.SymbolA), r.displayName(p.Record.SymbolB),
				p.InvestmentScore,
				p.Backtest.TotalReturn*100, p.Backtest.SharpeRatio,
				p.Backtest.MaxDrawdown*100, p.Backtest.WinRate*100,
			)
		}
	}

	return b.String()
}

func formatHalfLife(days float64) string {
	if math.IsNaN(days) {
		return "-"
	}
	return fmt.Sprintf("%.1f일", days)
}
