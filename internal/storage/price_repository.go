package storage

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/pairscan/internal/panel"
)

// PriceRepository persists daily close prices.
// ⭐ SSOT: 가격 데이터 저장소는 여기서만
type PriceRepository struct {
	pool *pgxpool.Pool
}

// NewPriceRepository creates a new price repository.
func NewPriceRepository(pool *pgxpool.Pool) *PriceRepository {
	return &PriceRepository{pool: pool}
}

// Save upserts a single close price.
func (r *PriceRepository) Save(ctx context.Context, stockCode string, quote panel.Quote) error {
	query := `
		INSERT INTO pairscan.daily_prices (stock_code, trade_date, close_price)
		VALUES ($1, $2, $3)
		ON CONFLICT (stock_code, trade_date) DO UPDATE SET
			close_price = EXCLUDED.close_price
	`

	_, err := r.pool.Exec(ctx, query, stockCode, quote.Date, quote.Close)
	return err
}

// SaveBatch upserts multiple close prices for one stock.
func (r *PriceRepository) SaveBatch(ctx context.Context, stockCode string, quotes []panel.Quote) error {
	for _, q := range quotes {
		if err := r.Save(ctx, stockCode, q); err != nil {
			return err
		}
	}
	return nil
}

// GetByCodeAndDateRange retrieves closes for a code within a date range.
func (r *PriceRepository) GetByCodeAndDateRange(ctx context.Context, stockCode string, from, to time.Time) ([]panel.Quote, error) {
	query := `
		SELECT trade_date, close_price
		FROM pairscan.daily_prices
		WHERE stock_code = $1 AND trade_date BETWEEN $2 AND $3
		ORDER BY trade_date ASC
	`

	rows, err := r.pool.Query(ctx, query, stockCode, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var quotes []panel.Quote
	for rows.Next() {
		var q panel.Quote
		if err := rows.Scan(&q.Date, &q.Close); err != nil {
			return nil, err
		}
		quotes = append(quotes, q)
	}
	return quotes, rows.Err()
}

// GetUniverse retrieves closes for every given code within a date range.
func (r *PriceRepository) GetUniverse(ctx context.Context, stockCodes []string, from, to time.Time) (map[string][]panel.Quote, error) {
	series := make(map[string][]panel.Quote, len(stockCodes))
	for _, code := range stockCodes {
		quotes, err := r.GetByCodeAndDateRange(ctx, code, from, to)
		if err != nil {
			return nil, err
		}
		if len(quotes) > 0 {
			series[code] = quotes
		}
	}
	return series, nil
}

// ListCodes returns every stock code present in the price table.
func (r *PriceRepository) ListCodes(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT DISTINCT stock_code FROM pairscan.daily_prices ORDER BY stock_code`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var codes []string
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return nil, err
		}
		codes = append(codes, code)
	}
	return codes, rows.Err()
}
