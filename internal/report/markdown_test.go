package report

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/wonny/pairscan/internal/analysis"
	"github.com/wonny/pairscan/internal/contracts"
)

func sampleReport() *contracts.ScanReport {
	return &contracts.ScanReport{
		Date:                 time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		TotalAssets:          10,
		CandidateCount:       3,
		CorrelationThreshold: 0.8,
		PValueThreshold:      0.05,
		Pairs: []contracts.PairRecord{
			{
				SymbolA:     "005930",
				SymbolB:     "000660",
				Correlation: 0.91,
				Coint:       contracts.CointegrationResult{PValue: 0.012, IsCointegrated: true},
				Spread:      contracts.SpreadProfile{HedgeRatio: 1.05, HalfLifeDays: 14.2, StationarityScore: 0.97},
			},
		},
	}
}

func TestRenderer_ScanReport(t *testing.T) {
	r := NewRenderer(map[string]string{"005930": "삼성전자"})
	md := r.ScanReport(sampleReport())

	assert.Contains(t, md, "# 페어 스캔 결과 (2024-03-15)")
	assert.Contains(t, md, "삼성전자(005930)")
	assert.Contains(t, md, "000660") // unmapped code stays raw
	assert.Contains(t, md, "0.0120")
	assert.Contains(t, md, "14.2일")
}

func TestRenderer_ScanReport_Empty(t *testing.T) {
	report := sampleReport()
	report.Pairs = nil
	report.EmptyReason = contracts.ReasonNoCandidates

	md := NewRenderer(nil).ScanReport(report)
	assert.Contains(t, md, string(contracts.ReasonNoCandidates))
	assert.NotContains(t, md, "| 순위 |")
}

func TestRenderer_ScanReport_NaNHalfLife(t *testing.T) {
	report := sampleReport()
	report.Pairs[0].Spread.HalfLifeDays = math.NaN()

	md := NewRenderer(nil).ScanReport(report)
	assert.Contains(t, md, "| - |")
	assert.NotContains(t, md, "NaN")
}

func TestRenderer_BacktestResult(t *testing.T) {
	result := &contracts.BacktestResult{
		SymbolA: "005930", SymbolB: "000660",
		EntryZ: 2.0, ExitZ: 0.5, Window: 60,
		Summary: contracts.BacktestSummary{
			TotalReturn:      0.123,
			AnnualizedReturn: 0.081,
			SharpeRatio:      1.35,
			MaxDrawdown:      -0.042,
			WinRate:          0.58,
			ReturnPeriods:    251,
		},
	}

	md := NewRenderer(nil).BacktestResult(result)
	assert.Contains(t, md, "12.30%")
	assert.Contains(t, md, "1.35")
	assert.Contains(t, md, "-4.20%")
	assert.Contains(t, md, "58.0%")
}

func TestRenderer_PeriodAnalysis(t *testing.T) {
	results := []analysis.PeriodResult{
		{
			Months: 6,
			Pairs: []analysis.PairPerformance{
				{
					Record:          contracts.PairRecord{SymbolA: "005930", SymbolB: "000660", Correlation: 0.9},
					Backtest:        contracts.BacktestSummary{TotalReturn: 0.08, SharpeRatio: 1.1, MaxDrawdown: -0.03, WinRate: 0.6},
					InvestmentScore: 72.5,
				},
			},
		},
		{Months: 12, Empty: "no pair cleared the correlation filter"},
	}

	md := NewRenderer(nil).PeriodAnalysis(results, time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC))

	assert.Contains(t, md, "## 6개월")
	assert.Contains(t, md, "72.50")
	assert.Contains(t, md, "## 12개월")
	assert.Contains(t, md, "> no pair cleared the correlation filter")

	// 두 섹션 모두 존재
	assert.Equal(t, 2, strings.Count(md, "\n## "))
}
