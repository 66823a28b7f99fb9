package storage

import (
	"context"
	"math"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/pairscan/internal/contracts"
)

// ScanRepository persists pair scan runs and their pair tables.
// ⭐ SSOT: 스캔 결과 저장소는 여기서만
type ScanRepository struct {
	pool *pgxpool.Pool
}

// NewScanRepository creates a new scan repository.
func NewScanRepository(pool *pgxpool.Pool) *ScanRepository {
	return &ScanRepository{pool: pool}
}

// SaveReport stores a scan run with its pairs in one transaction and
// returns the run id.
func (r *ScanRepository) SaveReport(ctx context.Context, report *contracts.ScanReport) (int64, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	var runID int64
	err = tx.QueryRow(ctx, `
		INSERT INTO pairscan.scan_runs
			(run_date, total_assets, candidate_count, correlation_threshold, p_value_threshold, empty_reason)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`, report.Date, report.TotalAssets, report.CandidateCount,
		report.CorrelationThreshold, report.PValueThreshold, string(report.EmptyReason),
	).Scan(&runID)
	if err != nil {
		return 0, err
	}

	for _, p := range report.Pairs {
		_, err = tx.Exec(ctx, `
			INSERT INTO pairscan.pair_records
				(scan_run_id, symbol_a, symbol_b, correlation, p_value, is_cointegrated,
				 eg_statistic, eg_p_value, trace_statistic, trace_cointegrated,
				 hedge_ratio, spread_mean, spread_std, half_life_days, stationarity_score)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		`, runID, p.SymbolA, p.SymbolB, p.Correlation, p.Coint.PValue, p.Coint.IsCointegrated,
			nullifyNaN(p.Coint.EGStatistic), p.Coint.EGPValue,
			nullifyNaN(p.Coint.TraceStatistic), p.Coint.TraceCointegrated,
			p.Spread.HedgeRatio, p.Spread.SpreadMean, p.Spread.SpreadStd,
			nullifyNaN(p.Spread.HalfLifeDays), p.Spread.StationarityScore,
		)
		if err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return runID, nil
}

// GetPairs retrieves the pair table of a run in its persisted order.
func (r *ScanRepository) GetPairs(ctx context.Context, runID int64) ([]contracts.PairRecord, error) {
	query := `
		SELECT symbol_a, symbol_b, correlation, p_value, is_cointegrated,
		       eg_statistic, eg_p_value, trace_statistic, trace_cointegrated,
		       hedge_ratio, spread_mean, spread_std, half_life_days, stationarity_score
		FROM pairscan.pair_records
		WHERE scan_run_id = $1
		ORDER BY p_value ASC, abs(correlation) DESC
	`

	rows, err := r.pool.Query(ctx, query, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []contracts.PairRecord
	for rows.Next() {
		var rec contracts.PairRecord
		var egStat, traceStat, halfLife *float64
		err := rows.Scan(
			&rec.SymbolA, &rec.SymbolB, &rec.Correlation,
			&rec.Coint.PValue, &rec.Coint.IsCointegrated,
			&egStat, &rec.Coint.EGPValue, &traceStat, &rec.Coint.TraceCointegrated,
			&rec.Spread.HedgeRatio, &rec.Spread.SpreadMean, &rec.Spread.SpreadStd,
			&halfLife, &rec.Spread.StationarityScore,
		)
		if err != nil {
			return nil, err
		}
		rec.Coint.EGStatistic = denullify(egStat)
		rec.Coint.TraceStatistic = denullify(traceStat)
		rec.Spread.HalfLifeDays = denullify(halfLife)
		records = append(records, rec)
	}
	return records, rows.Err()
}

// GetLatestRunID returns the id of the most recent scan run.
func (r *ScanRepository) GetLatestRunID(ctx context.Context) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `SELECT id FROM pairscan.scan_runs ORDER BY run_date DESC LIMIT 1`).Scan(&id)
	return id, err
}

// nullifyNaN maps the NaN sentinel to SQL NULL.
func nullifyNaN(v float64) *float64 {
	if math.IsNaN(v) {
		return nil
	}
	return &v
}

func denullify(v *float64) float64 {
	if v == nil {
		return math.NaN()
	}
	return *v
}
