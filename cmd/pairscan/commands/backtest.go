package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/pairscan/internal/backtest"
	"github.com/wonny/pairscan/internal/contracts"
	"github.com/wonny/pairscan/internal/panel"
	"github.com/wonny/pairscan/internal/report"
	"github.com/wonny/pairscan/internal/storage"
	"github.com/wonny/pairscan/pkg/config"
	"github.com/wonny/pairscan/pkg/database"
	"github.com/wonny/pairscan/pkg/logger"
)

// backtestCmd represents the backtest command
var backtestCmd = &cobra.Command{
	Use:   "backtest",
	Short: "페어 백테스트",
	Long: `한 페어의 z-score 전략을 과거 데이터로 시뮬레이션합니다.

백테스트는 다음을 산출합니다:
- 가격비율의 롤링 z-score와 진입/청산 시그널
- 히스테리시스 포지션과 전략 수익률
- Sharpe, 연환산 수익률, MDD, 승률

Example:
  go run ./cmd/pairscan backtest run --pair 005930,000660
  go run ./cmd/pairscan backtest run --pair 005930,000660 --entry 2.5 --exit 0.5
  go run ./cmd/pairscan backtest run --pair 005930,000660 --from 2024-01-01 --save`,
}

var (
	backtestRunCmd = &cobra.Command{
		Use:   "run",
		Short: "백테스트 실행",
		Long: `지정된 페어에 대해 백테스트를 실행합니다.

Flags:
  --pair    종목 코드 2개 (쉼표 구분, 필수)
  --from    시작 날짜 (YYYY-MM-DD, 기본: 1년 전)
  --to      종료 날짜 (YYYY-MM-DD, 기본: 오늘)
  --entry   진입 z-score (기본: 2.0)
  --exit    청산 z-score (기본: 0.5)
  --window  롤링 윈도우 (기본: min(60, n/4))

Example:
  go run ./cmd/pairscan backtest run --pair 005930,000660
  go run ./cmd/pairscan backtest run --pair 005930,000660 --window 30`,
		RunE: runBacktest,
	}

	// Flags
	backtestPair   string
	backtestFrom   string
	backtestTo     string
	backtestEntry  float64
	backtestExit   float64
	backtestWindow int
	backtestSource string
	backtestSave   bool
)

func init() {
	rootCmd.AddCommand(backtestCmd)
	backtestCmd.AddCommand(backtestRunCmd)

	// Flags
	backtestRunCmd.Flags().StringVar(&backtestPair, "pair", "", "종목 코드 2개 (쉼표 구분, 필수)")
	backtestRunCmd.Flags().StringVar(&backtestFrom, "from", "", "시작 날짜 (YYYY-MM-DD)")
	backtestRunCmd.Flags().StringVar(&backtestTo, "to", "", "종료 날짜 (YYYY-MM-DD, 기본: 오늘)")
	backtestRunCmd.Flags().Float64Var(&backtestEntry, "entry", 2.0, "진입 z-score")
	backtestRunCmd.Flags().Float64Var(&backtestExit, "exit", 0.5, "청산 z-score")
	backtestRunCmd.Flags().IntVar(&backtestWindow, "window", 0, "롤링 윈도우 (0 = min(60, n/4))")
	backtestRunCmd.Flags().StringVar(&backtestSource, "source", "naver", "가격 소스 (naver|db)")
	backtestRunCmd.Flags().BoolVar(&backtestSave, "save", false, "결과를 DB에 저장")

	backtestRunCmd.MarkFlagRequired("pair")
}

func runBacktest(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Pairscan Backtest ===")

	cfg, log, err := initCore()
	if err != nil {
		return err
	}

	ctx := context.Background()

	pair, cleanup, err := loadPricePair(ctx, cfg, log, backtestSource, backtestPair, backtestFrom, backtestTo)
	if err != nil {
		return err
	}
	defer cleanup()

	simConfig := backtest.SimConfig{
		EntryZ: backtestEntry,
		ExitZ:  backtestExit,
		Window: backtestWindow,
	}

	fmt.Printf("\n📊 Pair: %s / %s (%d observations)\n", pair.SymbolA, pair.SymbolB, len(pair.Dates))
	fmt.Printf("🎯 Thresholds: entry |z| > %.2f, exit |z| < %.2f\n\n", simConfig.EntryZ, simConfig.ExitZ)

	result, err := backtest.NewSimulator(log).Run(pair, simConfig)
	if err != nil {
		return fmt.Errorf("run backtest: %w", err)
	}

	fmt.Println(report.NewRenderer(nil).BacktestResult(result))

	if backtestSave {
		db, err := database.New(cfg)
		if err != nil {
			return fmt.Errorf("connect to database: %w", err)
		}
		defer db.Close()

		if err := storage.NewBacktestRepository(db.Pool).Save(ctx, result); err != nil {
			return fmt.Errorf("save result: %w", err)
		}
		fmt.Println("💾 Result saved")
	}

	fmt.Printf("✅ Backtest completed: Sharpe %.2f over %d periods\n",
		result.Summary.SharpeRatio, result.Summary.ReturnPeriods)
	return nil
}

// loadPricePair loads the two price series and aligns them into a pair.
func loadPricePair(ctx context.Context, cfg *config.Config, log *logger.Logger, source, pairCSV, fromStr, toStr string) (*contracts.PricePair, func(), error) {
	noop := func() {}

	codes := splitCSV(pairCSV)
	if len(codes) != 2 {
		return nil, noop, fmt.Errorf("--pair expects exactly two codes, got %d", len(codes))
	}

	to, err := parseDateOrDefault(toStr, time.Now())
	if err != nil {
		return nil, noop, err
	}
	from, err := parseDateOrDefault(fromStr, to.AddDate(-1, 0, 0))
	if err != nil {
		return nil, noop, err
	}

	series, cleanup, err := loadSeries(ctx, cfg, log, source, codes, from, to)
	if err != nil {
		return nil, cleanup, err
	}

	pricePanel, err := panel.NewBuilder(0, log).Build(series)
	if err != nil {
		return nil, cleanup, fmt.Errorf("build panel: %w", err)
	}

	pair, err := pricePanel.Pair(codes[0], codes[1])
	if err != nil {
		return nil, cleanup, fmt.Errorf("align pair: %w", err)
	}
	return pair, cleanup, nil
}
