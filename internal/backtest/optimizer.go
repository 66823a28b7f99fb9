package backtest

import (
	"context"
	"sort"

	"github.com/wonny/pairscan/internal/contracts"
	"github.com/wonny/pairscan/pkg/logger"
)

// Optimizer sweeps a threshold grid and picks the best Sharpe ratio.
// ⭐ SSOT: 임계값 최적화는 여기서만
type Optimizer struct {
	simulator *Simulator
	logger    *logger.Logger
}

// NewOptimizer creates an optimizer.
func NewOptimizer(sim *Simulator, log *logger.Logger) *Optimizer {
	return &Optimizer{simulator: sim, logger: log}
}

// Optimize backtests every entry/exit combination with entry > exit and
// returns the grid plus the Sharpe-best cell. The sweep order is entry
// ascending then exit ascending; ties keep the first cell encountered,
// so the result is deterministic for a given candidate set. An empty
// grid is reportable, not an error.
func (o *Optimizer) Optimize(ctx context.Context, pair *contracts.PricePair, entries, exits []float64) (*contracts.OptimizationResult, error) {
	entries = sortedCopy(entries)
	exits = sortedCopy(exits)

	result := &contracts.OptimizationResult{}

	for _, entry := range entries {
		for _, exit := range exits {
			if entry <= exit {
				continue
			}
			if err := ctx.Err(); err != nil {
				return nil, err
			}

			run, err := o.simulator.Run(pair, SimConfig{EntryZ: entry, ExitZ: exit})
			if err != nil {
				return nil, err
			}

			cell := contracts.OptimizationCell{
				EntryZ:      entry,
				ExitZ:       exit,
				TotalReturn: run.Summary.TotalReturn,
				SharpeRatio: run.Summary.SharpeRatio,
			}
			result.Grid = append(result.Grid, cell)

			if result.Best == nil || cell.SharpeRatio > result.Best.SharpeRatio {
				best := cell
				result.Best = &best
			}
		}
	}

	if result.IsEmpty() {
		result.Reason = "no entry/exit combination with entry > exit in the candidate set"
		o.logger.Warn("Threshold sweep evaluated no configuration")
		return result, nil
	}

	o.logger.WithFields(map[string]interface{}{
		"pair":    pair.SymbolA + "/" + pair.SymbolB,
		"cells":   len(result.Grid),
		"entry_z": result.Best.EntryZ,
		"exit_z":  result.Best.ExitZ,
		"sharpe":  result.Best.SharpeRatio,
	}).Info("Threshold sweep completed")

	return result, nil
}

func sortedCopy(xs []float64) []float64 {
	out := make([]float64, len(xs))
	copy(out, xs)
	sort.Float64s(out)
	return out
}
