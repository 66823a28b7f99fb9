package contracts

import (
	"fmt"
	"math"
	"sort"
	"time"
)

// PricePanel is an aligned panel of daily close prices.
// Every series shares the same strictly increasing date index; the data
// provider is responsible for filling gaps and dropping bad columns
// before the panel reaches the scanner.
// ⭐ SSOT: 스캔 입력 데이터 계약은 여기서만 정의
type PricePanel struct {
	Dates  []time.Time          `json:"dates"`
	Prices map[string][]float64 `json:"prices"` // key: stock code
}

// NewPricePanel constructs a panel over the given date index.
func NewPricePanel(dates []time.Time) *PricePanel {
	return &PricePanel{
		Dates:  dates,
		Prices: make(map[string][]float64),
	}
}

// Assets returns the asset codes in deterministic (sorted) order.
func (p *PricePanel) Assets() []string {
	codes := make([]string, 0, len(p.Prices))
	for code := range p.Prices {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// Len returns the number of dates in the panel.
func (p *PricePanel) Len() int {
	return len(p.Dates)
}

// NumAssets returns the number of asset columns.
func (p *PricePanel) NumAssets() int {
	return len(p.Prices)
}

// Series returns the price series for a code.
func (p *PricePanel) Series(code string) ([]float64, bool) {
	s, ok := p.Prices[code]
	return s, ok
}

// Pair extracts an aligned price pair from the panel.
func (p *PricePanel) Pair(codeA, codeB string) (*PricePair, error) {
	a, ok := p.Prices[codeA]
	if !ok {
		return nil, fmt.Errorf("asset %s not in panel", codeA)
	}
	b, ok := p.Prices[codeB]
	if !ok {
		return nil, fmt.Errorf("asset %s not in panel", codeB)
	}

	return &PricePair{
		SymbolA: codeA,
		SymbolB: codeB,
		Dates:   p.Dates,
		A:       a,
		B:       b,
	}, nil
}

// Validate checks the structural invariants of the panel: equal column
// lengths, strictly increasing dates, positive finite prices. Violations
// are hard failures for the caller, not per-pair skips.
func (p *PricePanel) Validate() error {
	if p == nil || len(p.Prices) == 0 {
		return ErrEmptyPanel
	}

	for i := 1; i < len(p.Dates); i++ {
		if !p.Dates[i].After(p.Dates[i-1]) {
			return fmt.Errorf("%w: date index not strictly increasing at position %d", ErrMisalignedPanel, i)
		}
	}

	n := len(p.Dates)
	for code, series := range p.Prices {
		if len(series) != n {
			return fmt.Errorf("%w: series %s has %d points, index has %d", ErrMisalignedPanel, code, len(series), n)
		}
		for i, v := range series {
			if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
				return fmt.Errorf("%w: series %s has invalid price %v at position %d", ErrMisalignedPanel, code, v, i)
			}
		}
	}

	return nil
}

// PricePair is a pair of aligned price series extracted from a panel.
type PricePair struct {
	SymbolA string      `json:"symbol_a"`
	SymbolB string      `json:"symbol_b"`
	Dates   []time.Time `json:"dates"`
	A       []float64   `json:"a"`
	B       []float64   `json:"b"`
}

// Len returns the number of aligned observations.
func (p *PricePair) Len() int {
	n := len(p.A)
	if len(p.B) < n {
		n = len(p.B)
	}
	return n
}
