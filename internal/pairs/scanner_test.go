package pairs

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/pairscan/internal/contracts"
	"github.com/wonny/pairscan/pkg/logger"
)

func testDates(n int) []time.Time {
	dates := make([]time.Time, n)
	start := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	for i := range dates {
		dates[i] = start.AddDate(0, 0, i)
	}
	return dates
}

func testPanel(series map[string][]float64) *contracts.PricePanel {
	n := 0
	for _, s := range series {
		n = len(s)
		break
	}
	panel := contracts.NewPricePanel(testDates(n))
	for code, s := range series {
		panel.Prices[code] = s
	}
	return panel
}

func TestScanner_ScaledPairFound(t *testing.T) {
	a := geometricWalk(1, 120)
	b := make([]float64, len(a))
	for i, v := range a {
		b[i] = 2 * v
	}

	panel := testPanel(map[string][]float64{"005930": a, "000660": b})

	scanner := NewScanner(DefaultScannerConfig(), logger.NewNop())
	report, err := scanner.Scan(context.Background(), panel)
	require.NoError(t, err)

	require.Len(t, report.Pairs, 1)
	assert.Equal(t, contracts.ReasonNone, report.EmptyReason)
	assert.Equal(t, 1, report.CandidateCount)

	pair := report.Pairs[0]
	assert.InDelta(t, 1.0, pair.Correlation, 1e-9)
	assert.True(t, pair.Coint.IsCointegrated)
	assert.Less(t, pair.Coint.PValue, 0.05)
}

func TestScanner_IndependentWalksRejected(t *testing.T) {
	panel := testPanel(map[string][]float64{
		"005930": geometricWalk(31, 250),
		"000660": geometricWalk(32, 250),
		"035420": geometricWalk(33, 250),
	})

	scanner := NewScanner(DefaultScannerConfig(), logger.NewNop())
	report, err := scanner.Scan(context.Background(), panel)
	require.NoError(t, err)

	assert.True(t, report.IsEmpty())
	assert.Equal(t, contracts.ReasonNoCandidates, report.EmptyReason)
	assert.Equal(t, 3, report.TotalAssets)
	assert.Zero(t, report.CandidateCount)
}

func TestScanner_TooFewAssets(t *testing.T) {
	scanner := NewScanner(DefaultScannerConfig(), logger.NewNop())

	report, err := scanner.Scan(context.Background(), testPanel(map[string][]float64{
		"005930": geometricWalk(1, 100),
	}))
	require.NoError(t, err)
	assert.Equal(t, contracts.ReasonTooFewAssets, report.EmptyReason)

	report, err = scanner.Scan(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, contracts.ReasonTooFewAssets, report.EmptyReason)
}

func TestScanner_MisalignedPanel(t *testing.T) {
	panel := contracts.NewPricePanel(testDates(100))
	panel.Prices["005930"] = geometricWalk(1, 100)
	panel.Prices["000660"] = geometricWalk(2, 90)

	scanner := NewScanner(DefaultScannerConfig(), logger.NewNop())
	_, err := scanner.Scan(context.Background(), panel)
	assert.ErrorIs(t, err, contracts.ErrMisalignedPanel)
}

func TestScanner_CanceledContext(t *testing.T) {
	a := geometricWalk(1, 120)
	b := make([]float64, len(a))
	for i, v := range a {
		b[i] = 2 * v
	}
	panel := testPanel(map[string][]float64{"005930": a, "000660": b})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	scanner := NewScanner(DefaultScannerConfig(), logger.NewNop())
	_, err := scanner.Scan(ctx, panel)
	assert.ErrorIs(t, err, context.Canceled)
}

// The scan result must not depend on insertion order of the asset map.
func TestScanner_OrderInvariant(t *testing.T) {
	a := geometricWalk(5, 150)
	b := meanRevertingPartner(a, 6, 0.4)
	c := geometricWalk(7, 150)

	forward := testPanel(map[string][]float64{"A": a, "B": b, "C": c})
	reversed := testPanel(map[string][]float64{"C": c, "B": b, "A": a})

	scanner := NewScanner(DefaultScannerConfig(), logger.NewNop())

	r1, err := scanner.Scan(context.Background(), forward)
	require.NoError(t, err)
	r2, err := scanner.Scan(context.Background(), reversed)
	require.NoError(t, err)

	require.Equal(t, len(r1.Pairs), len(r2.Pairs))
	for i := range r1.Pairs {
		assert.Equal(t, r1.Pairs[i].SymbolA, r2.Pairs[i].SymbolA)
		assert.Equal(t, r1.Pairs[i].SymbolB, r2.Pairs[i].SymbolB)
		assert.Equal(t, r1.Pairs[i].Coint.PValue, r2.Pairs[i].Coint.PValue)
	}
}

// Loosening the correlation threshold never shrinks the candidate set.
func TestScanner_ThresholdMonotonic(t *testing.T) {
	panel := testPanel(map[string][]float64{
		"A": geometricWalk(41, 200),
		"B": geometricWalk(42, 200),
		"C": geometricWalk(43, 200),
		"D": geometricWalk(44, 200),
	})

	prev := -1
	for _, threshold := range []float64{0.9, 0.5, 0.1, 0.0001} {
		cfg := DefaultScannerConfig()
		cfg.CorrelationThreshold = threshold
		scanner := NewScanner(cfg, logger.NewNop())

		candidates := scanner.correlationCandidates(panel)
		if prev >= 0 {
			assert.GreaterOrEqual(t, len(candidates), prev,
				"threshold %v produced fewer candidates than a stricter one", threshold)
		}
		prev = len(candidates)
	}
}

func TestScanner_SortedByPValue(t *testing.T) {
	a := geometricWalk(50, 250)
	b := meanRevertingPartner(a, 51, 0.3)
	c := meanRevertingPartner(a, 52, 0.7)

	cfg := DefaultScannerConfig()
	cfg.CorrelationThreshold = 0.5
	scanner := NewScanner(cfg, logger.NewNop())

	report, err := scanner.Scan(context.Background(), testPanel(map[string][]float64{
		"A": a, "B": b, "C": c,
	}))
	require.NoError(t, err)

	for i := 1; i < len(report.Pairs); i++ {
		assert.LessOrEqual(t, report.Pairs[i-1].Coint.PValue, report.Pairs[i].Coint.PValue)
	}
}
