package pairs

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/pairscan/internal/contracts"
)

func TestTester_CointegratedPair(t *testing.T) {
	a := geometricWalk(10, 300)
	b := meanRevertingPartner(a, 11, 0.3)

	result := NewTester(0.05).Test(a, b)

	assert.True(t, result.IsCointegrated)
	assert.Less(t, result.PValue, 0.05)
	assert.LessOrEqual(t, result.PValue, result.EGPValue)
	assert.LessOrEqual(t, result.PValue, result.TracePValue)
}

func TestTester_IndependentWalks(t *testing.T) {
	a := geometricWalk(20, 300)
	b := geometricWalk(21, 300)

	result := NewTester(0.05).Test(a, b)

	assert.False(t, result.IsCointegrated)
	assert.GreaterOrEqual(t, result.PValue, 0.05)
}

func TestTester_ProxyPValue(t *testing.T) {
	a := geometricWalk(10, 300)
	b := meanRevertingPartner(a, 11, 0.3)

	result := NewTester(0.05).Test(a, b)

	if result.TraceCointegrated {
		assert.Equal(t, tracePValueCointegrated, result.TracePValue)
	} else {
		assert.Equal(t, tracePValueRejected, result.TracePValue)
	}
}

func TestTester_ShortSeries(t *testing.T) {
	a := []float64{100, 101, 102, 103}
	b := []float64{200, 202, 204, 206}

	result := NewTester(0.05).Test(a, b)

	assert.False(t, result.IsCointegrated)
	assert.Equal(t, 1.0, result.PValue)
	assert.True(t, math.IsNaN(result.EGStatistic))
	assert.True(t, math.IsNaN(result.TraceStatistic))
}

func TestTester_CollinearPairEncodesAsJSON(t *testing.T) {
	a := geometricWalk(30, 100)
	b := make([]float64, len(a))
	for i, v := range a {
		b[i] = 2 * v
	}

	result := NewTester(0.05).Test(a, b)
	require.True(t, result.IsCointegrated)
	assert.True(t, math.IsInf(result.EGStatistic, -1))

	report := &contracts.ScanReport{
		Pairs: []contracts.PairRecord{{SymbolA: "a", SymbolB: "b", Coint: result}},
	}
	data, err := json.Marshal(report)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"eg_statistic":null`)
}

func TestNewTester_DefaultThreshold(t *testing.T) {
	assert.Equal(t, 0.05, NewTester(0).pValueThreshold)
	assert.Equal(t, 0.01, NewTester(0.01).pValueThreshold)
}
