package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/wonny/pairscan/internal/backtest"
	"github.com/wonny/pairscan/internal/marketdata"
	"github.com/wonny/pairscan/internal/pairs"
	"github.com/wonny/pairscan/internal/panel"
	"github.com/wonny/pairscan/internal/storage"
	"github.com/wonny/pairscan/internal/strategyconfig"
	"github.com/wonny/pairscan/pkg/config"
	"github.com/wonny/pairscan/pkg/database"
	"github.com/wonny/pairscan/pkg/httputil"
	"github.com/wonny/pairscan/pkg/logger"
)

// initCore loads configuration and builds the logger.
// 모든 커맨드의 공통 부트스트랩
func initCore() (*config.Config, *logger.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	if verbose {
		cfg.LogLevel = "debug"
	}
	return cfg, logger.New(cfg), nil
}

// initMarketClient builds the rate-limited Naver Finance client.
func initMarketClient(cfg *config.Config, log *logger.Logger) *marketdata.Client {
	httpClient := httputil.New(log).WithRateLimit(cfg.Naver.RatePerSec)
	return marketdata.NewClient(httpClient, cfg.Naver, log)
}

// runParams holds the parameters of one scan/backtest run, merged from
// the optional strategy file and environment defaults.
type runParams struct {
	Strategy *strategyconfig.Config // nil without --strategy
	Symbols  []string
	Lookback int
	Scanner  pairs.ScannerConfig
	Sim      backtest.SimConfig
}

// resolveParams merges the strategy file (when given) over the
// environment defaults. An explicit --symbols flag wins over both.
func resolveParams(cfg *config.Config, strategyPath, symbolsCSV string) (*runParams, error) {
	params := &runParams{
		Lookback: 365,
		Scanner: pairs.ScannerConfig{
			CorrelationThreshold: cfg.Scan.CorrelationThreshold,
			PValueThreshold:      cfg.Scan.CointPValueThreshold,
			MinObservations:      cfg.Scan.MinObservations,
			HalfLifeCapDays:      cfg.Scan.HalfLifeCapDays,
		},
		Sim: backtest.DefaultSimConfig(),
	}
	params.Sim.Window = cfg.Scan.WindowSize

	if strategyPath != "" {
		strategy, _, err := strategyconfig.Load(strategyPath)
		if err != nil {
			return nil, fmt.Errorf("load strategy: %w", err)
		}
		params.Strategy = strategy
		params.Symbols = strategy.Universe.Symbols
		params.Lookback = strategy.Universe.LookbackDays
		params.Scanner = pairs.ScannerConfig{
			CorrelationThreshold: strategy.Scan.CorrelationThreshold,
			PValueThreshold:      strategy.Scan.PValueThreshold,
			MinObservations:      strategy.Scan.MinObservations,
			HalfLifeCapDays:      strategy.Scan.HalfLifeCapDays,
		}
		params.Sim = backtest.SimConfig{
			EntryZ: strategy.Backtest.EntryZ,
			ExitZ:  strategy.Backtest.ExitZ,
			Window: strategy.Backtest.Window,
		}
	}

	if symbolsCSV != "" {
		params.Symbols = splitCSV(symbolsCSV)
	}
	return params, nil
}

// loadSeries loads daily closes for the symbols, either from Naver
// Finance or from the local price table. The returned cleanup closes
// the database connection when one was opened.
func loadSeries(ctx context.Context, cfg *config.Config, log *logger.Logger, source string, symbols []string, from, to time.Time) (map[string][]panel.Quote, func(), error) {
	noop := func() {}

	switch source {
	case "naver":
		client := initMarketClient(cfg, log)
		series, err := client.FetchUniverse(ctx, symbols, from, to)
		if err != nil {
			return nil, noop, fmt.Errorf("fetch prices: %w", err)
		}
		return series, noop, nil

	case "db":
		db, err := database.New(cfg)
		if err != nil {
			return nil, noop, fmt.Errorf("connect to database: %w", err)
		}
		priceRepo := storage.NewPriceRepository(db.Pool)

		if len(symbols) == 0 {
			symbols, err = priceRepo.ListCodes(ctx)
			if err != nil {
				db.Close()
				return nil, noop, fmt.Errorf("list symbols: %w", err)
			}
		}

		series, err := priceRepo.GetUniverse(ctx, symbols, from, to)
		if err != nil {
			db.Close()
			return nil, noop, fmt.Errorf("load prices: %w", err)
		}
		return series, db.Close, nil

	default:
		return nil, noop, fmt.Errorf("unknown source: %s (valid: naver, db)", source)
	}
}
