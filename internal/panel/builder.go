package panel

import (
	"math"
	"sort"
	"time"

	"github.com/wonny/pairscan/internal/contracts"
	"github.com/wonny/pairscan/pkg/logger"
)

// Quote is one raw daily close observation as fetched from a provider.
type Quote struct {
	Date  time.Time `json:"date"`
	Close float64   `json:"close"`
}

// Builder aligns raw per-symbol quote series into a clean PricePanel.
// Alignment uses the union of all observed dates; gaps are forward
// filled, leading gaps back filled. Non-positive or non-finite closes
// count as gaps. Columns with too few real observations are dropped.
// ⭐ SSOT: 패널 정제는 여기서만
type Builder struct {
	minObservations int
	logger          *logger.Logger
}

// NewBuilder creates a builder. minObservations <= 0 falls back to 30.
func NewBuilder(minObservations int, log *logger.Logger) *Builder {
	if minObservations <= 0 {
		minObservations = 30
	}
	return &Builder{minObservations: minObservations, logger: log}
}

// Build produces an aligned panel from raw quote series. Symbols that
// cannot be cleaned are dropped, not fatal; an input with no usable
// dates at all returns ErrEmptyPanel.
func (b *Builder) Build(series map[string][]Quote) (*contracts.PricePanel, error) {
	dates := unionDates(series)
	if len(dates) == 0 {
		return nil, contracts.ErrEmptyPanel
	}

	panel := contracts.NewPricePanel(dates)

	for symbol, quotes := range series {
		column, observed := alignColumn(dates, quotes)
		if column == nil || observed < b.minObservations {
			b.logger.WithFields(map[string]interface{}{
				"symbol":   symbol,
				"observed": observed,
				"required": b.minObservations,
			}).Warn("Dropping symbol with too few observations")
			continue
		}
		panel.Prices[symbol] = column
	}

	b.logger.WithFields(map[string]interface{}{
		"symbols": panel.NumAssets(),
		"dates":   panel.Len(),
	}).Info("Price panel built")

	return panel, nil
}

// unionDates collects the sorted union of all quote dates, truncated to
// day precision.
func unionDates(series map[string][]Quote) []time.Time {
	seen := make(map[time.Time]struct{})
	for _, quotes := range series {
		for _, q := range quotes {
			seen[day(q.Date)] = struct{}{}
		}
	}

	dates := make([]time.Time, 0, len(seen))
	for d := range seen {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates
}

// alignColumn maps one quote series onto the shared date index.
// Returns the filled column and the number of real (unfilled)
// observations; a column with no valid close at all is nil.
func alignColumn(dates []time.Time, quotes []Quote) ([]float64, int) {
	byDate := make(map[time.Time]float64, len(quotes))
	for _, q := range quotes {
		if validClose(q.Close) {
			byDate[day(q.Date)] = q.Close
		}
	}
	if len(byDate) == 0 {
		return nil, 0
	}

	column := make([]float64, len(dates))
	observed := 0
	last := math.NaN()
	for i, d := range dates {
		if v, ok := byDate[d]; ok {
			last = v
			observed++
		}
		column[i] = last
	}

	// back fill the leading gap with the first real close
	first := math.NaN()
	for _, v := range column {
		if !math.IsNaN(v) {
			first = v
			break
		}
	}
	for i := range column {
		if math.IsNaN(column[i]) {
			column[i] = first
		} else {
			break
		}
	}

	return column, observed
}

func validClose(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}

func day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
