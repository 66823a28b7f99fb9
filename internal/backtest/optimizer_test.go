package backtest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/pairscan/pkg/logger"
)

func newTestOptimizer() *Optimizer {
	log := logger.NewNop()
	return NewOptimizer(NewSimulator(log), log)
}

func TestOptimizer_SweepsGrid(t *testing.T) {
	pair := revertingPair(13, 400)
	candidates := []float64{0.5, 1.0, 1.5, 2.0}

	result, err := newTestOptimizer().Optimize(context.Background(), pair, candidates, candidates)
	require.NoError(t, err)

	// 4x4 grid minus the diagonal and below: 6 valid cells
	assert.Len(t, result.Grid, 6)
	require.NotNil(t, result.Best)
	assert.Greater(t, result.Best.EntryZ, result.Best.ExitZ)

	// the best cell carries the grid's maximum Sharpe
	for _, cell := range result.Grid {
		assert.LessOrEqual(t, cell.SharpeRatio, result.Best.SharpeRatio)
	}
}

func TestOptimizer_SweepOrderIsSorted(t *testing.T) {
	pair := revertingPair(13, 200)

	result, err := newTestOptimizer().Optimize(context.Background(), pair,
		[]float64{2.0, 1.0}, []float64{0.75, 0.25})
	require.NoError(t, err)

	require.Len(t, result.Grid, 4)
	assert.Equal(t, 1.0, result.Grid[0].EntryZ)
	assert.Equal(t, 0.25, result.Grid[0].ExitZ)
	assert.Equal(t, 1.0, result.Grid[1].EntryZ)
	assert.Equal(t, 0.75, result.Grid[1].ExitZ)
	assert.Equal(t, 2.0, result.Grid[2].EntryZ)
	assert.Equal(t, 2.0, result.Grid[3].EntryZ)
}

func TestOptimizer_EmptyGrid(t *testing.T) {
	pair := revertingPair(13, 200)

	result, err := newTestOptimizer().Optimize(context.Background(), pair,
		[]float64{0.5}, []float64{1.0, 2.0})
	require.NoError(t, err)

	assert.True(t, result.IsEmpty())
	assert.Nil(t, result.Best)
	assert.NotEmpty(t, result.Reason)
}

func TestOptimizer_Deterministic(t *testing.T) {
	pair := revertingPair(17, 300)
	candidates := []float64{0.5, 1.0, 1.5, 2.0}

	r1, err := newTestOptimizer().Optimize(context.Background(), pair, candidates, candidates)
	require.NoError(t, err)
	r2, err := newTestOptimizer().Optimize(context.Background(), pair, candidates, candidates)
	require.NoError(t, err)

	assert.Equal(t, r1.Best, r2.Best)
	assert.Equal(t, r1.Grid, r2.Grid)
}

func TestOptimizer_CanceledContext(t *testing.T) {
	pair := revertingPair(13, 200)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestOptimizer().Optimize(ctx, pair, []float64{2.0}, []float64{0.5})
	assert.ErrorIs(t, err, context.Canceled)
}
