package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/wonny/pairscan/internal/pairs"
	"github.com/wonny/pairscan/internal/panel"
	"github.com/wonny/pairscan/internal/storage"
	"github.com/wonny/pairscan/pkg/logger"
	"github.com/wonny/pairscan/pkg/redis"
)

// cache key for the most recent scan report
const latestScanKey = "scan:latest"

// DailyScanJob runs a full pair scan over stored prices and persists
// the result.
// ⭐ SSOT: 일일 페어 스캔 스케줄은 이 Job에서만
type DailyScanJob struct {
	priceRepo    *storage.PriceRepository
	scanRepo     *storage.ScanRepository
	builder      *panel.Builder
	scanner      *pairs.Scanner
	cache        *redis.Cache
	symbols      []string
	lookbackDays int
	logger       *logger.Logger
}

// NewDailyScanJob creates a new daily scan job. An empty symbol list
// scans every stored symbol.
func NewDailyScanJob(priceRepo *storage.PriceRepository, scanRepo *storage.ScanRepository, builder *panel.Builder, scanner *pairs.Scanner, cache *redis.Cache, symbols []string, lookbackDays int, log *logger.Logger) *DailyScanJob {
	if lookbackDays <= 0 {
		lookbackDays = 365
	}
	return &DailyScanJob{
		priceRepo:    priceRepo,
		scanRepo:     scanRepo,
		builder:      builder,
		scanner:      scanner,
		cache:        cache,
		symbols:      symbols,
		lookbackDays: lookbackDays,
		logger:       log,
	}
}

// Name returns the job name
func (j *DailyScanJob) Name() string {
	return "daily_scan"
}

// Schedule returns the cron schedule (weekdays at 5 PM KST, after sync)
func (j *DailyScanJob) Schedule() string {
	return "0 0 17 * * 1-5"
}

// Run builds a panel from stored prices, scans it, and persists the
// report.
func (j *DailyScanJob) Run(ctx context.Context) error {
	j.logger.Info("Starting scheduled pair scan")

	symbols := j.symbols
	if len(symbols) == 0 {
		var err error
		symbols, err = j.priceRepo.ListCodes(ctx)
		if err != nil {
			return fmt.Errorf("list symbols: %w", err)
		}
	}

	to := time.Now()
	from := to.AddDate(0, 0, -j.lookbackDays)

	series, err := j.priceRepo.GetUniverse(ctx, symbols, from, to)
	if err != nil {
		return fmt.Errorf("load prices: %w", err)
	}

	pricePanel, err := j.builder.Build(series)
	if err != nil {
		return fmt.Errorf("build panel: %w", err)
	}

	report, err := j.scanner.Scan(ctx, pricePanel)
	if err != nil {
		return fmt.Errorf("scan: %w", err)
	}

	runID, err := j.scanRepo.SaveReport(ctx, report)
	if err != nil {
		return fmt.Errorf("save report: %w", err)
	}

	if j.cache != nil {
		if err := j.cache.Set(ctx, latestScanKey, report, redis.TTLScan); err != nil {
			j.logger.WithError(err).Warn("Failed to cache scan report")
		}
	}

	j.logger.WithFields(map[string]interface{}{
		"run_id": runID,
		"pairs":  len(report.Pairs),
	}).Info("Daily pair scan completed")
	return nil
}
