package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/wonny/pairscan/internal/marketdata"
	"github.com/wonny/pairscan/internal/storage"
	"github.com/wonny/pairscan/pkg/logger"
)

// PriceSyncJob pulls daily closes for the configured universe into the
// price table.
// ⭐ SSOT: 가격 동기화 스케줄은 이 Job에서만
type PriceSyncJob struct {
	client       *marketdata.Client
	priceRepo    *storage.PriceRepository
	symbols      []string
	lookbackDays int
	logger       *logger.Logger
}

// NewPriceSyncJob creates a new price sync job.
func NewPriceSyncJob(client *marketdata.Client, priceRepo *storage.PriceRepository, symbols []string, lookbackDays int, log *logger.Logger) *PriceSyncJob {
	if lookbackDays <= 0 {
		lookbackDays = 7
	}
	return &PriceSyncJob{
		client:       client,
		priceRepo:    priceRepo,
		symbols:      symbols,
		lookbackDays: lookbackDays,
		logger:       log,
	}
}

// Name returns the job name
func (j *PriceSyncJob) Name() string {
	return "price_sync"
}

// Schedule returns the cron schedule (weekdays at 4:30 PM KST, after close)
func (j *PriceSyncJob) Schedule() string {
	return "0 30 16 * * 1-5"
}

// Run fetches and upserts recent closes for every symbol.
func (j *PriceSyncJob) Run(ctx context.Context) error {
	j.logger.Info("Starting scheduled price sync")

	to := time.Now()
	from := to.AddDate(0, 0, -j.lookbackDays)

	series, err := j.client.FetchUniverse(ctx, j.symbols, from, to)
	if err != nil {
		return fmt.Errorf("fetch universe: %w", err)
	}

	saved := 0
	for symbol, quotes := range series {
		if err := j.priceRepo.SaveBatch(ctx, symbol, quotes); err != nil {
			return fmt.Errorf("save %s: %w", symbol, err)
		}
		saved += len(quotes)
	}

	j.logger.WithFields(map[string]interface{}{
		"symbols": len(series),
		"quotes":  saved,
	}).Info("Price sync completed")
	return nil
}
