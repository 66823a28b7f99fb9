package storage

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/pairscan/internal/contracts"
)

// BacktestRepository persists backtest summaries.
// ⭐ SSOT: 백테스트 결과 저장소는 여기서만
type BacktestRepository struct {
	pool *pgxpool.Pool
}

// NewBacktestRepository creates a new backtest repository.
func NewBacktestRepository(pool *pgxpool.Pool) *BacktestRepository {
	return &BacktestRepository{pool: pool}
}

// Save stores one backtest summary.
func (r *BacktestRepository) Save(ctx context.Context, result *contracts.BacktestResult) error {
	query := `
		INSERT INTO pairscan.backtest_results
			(symbol_a, symbol_b, entry_z, exit_z, window_size,
			 total_return, annualized_return, sharpe_ratio, max_drawdown, win_rate, return_periods)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	s := result.Summary
	_, err := r.pool.Exec(ctx, query,
		result.SymbolA, result.SymbolB, result.EntryZ, result.ExitZ, result.Window,
		s.TotalReturn, s.AnnualizedReturn, s.SharpeRatio, s.MaxDrawdown, s.WinRate, s.ReturnPeriods,
	)
	return err
}

// BacktestRow is one persisted backtest summary.
type BacktestRow struct {
	SymbolA string
	SymbolB string
	EntryZ  float64
	ExitZ   float64
	Window  int
	Summary contracts.BacktestSummary
}

// GetBestByPair returns the highest-Sharpe run for a pair.
func (r *BacktestRepository) GetBestByPair(ctx context.Context, symbolA, symbolB string) (*BacktestRow, error) {
	query := `
		SELECT symbol_a, symbol_b, entry_z, exit_z, window_size,
		       total_return, annualized_return, sharpe_ratio, max_drawdown, win_rate, return_periods
		FROM pairscan.backtest_results
		WHERE symbol_a = $1 AND symbol_b = $2
		ORDER BY sharpe_ratio DESC, created_at ASC
		LIMIT 1
	`

	var row BacktestRow
	err := r.pool.QueryRow(ctx, query, symbolA, symbolB).Scan(
		&row.SymbolA, &row.SymbolB, &row.EntryZ, &row.ExitZ, &row.Window,
		&row.Summary.TotalReturn, &row.Summary.AnnualizedReturn, &row.Summary.SharpeRatio,
		&row.Summary.MaxDrawdown, &row.Summary.WinRate, &row.Summary.ReturnPeriods,
	)
	if err != nil {
		return nil, err
	}
	return &row, nil
}
