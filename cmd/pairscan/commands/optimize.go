package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wonny/pairscan/internal/backtest"
)

// optimizeCmd represents the optimize command
var optimizeCmd = &cobra.Command{
	Use:   "optimize",
	Short: "임계값 그리드 탐색",
	Long: `진입/청산 z-score 후보의 데카르트 곱을 백테스트하고
Sharpe 비율이 가장 높은 조합을 찾습니다.

entry <= exit 인 조합은 건너뜁니다.

Example:
  go run ./cmd/pairscan optimize --pair 005930,000660
  go run ./cmd/pairscan optimize --pair 005930,000660 --entries 1.5,2.0,2.5 --exits 0.0,0.5
  go run ./cmd/pairscan optimize --pair 005930,000660 --strategy config/strategy/kospi_pairs_v1.yaml`,
	RunE: runOptimize,
}

var (
	// Flags
	optimizePair     string
	optimizeFrom     string
	optimizeTo       string
	optimizeEntries  string
	optimizeExits    string
	optimizeStrategy string
	optimizeSource   string
)

func init() {
	rootCmd.AddCommand(optimizeCmd)

	// Flags
	optimizeCmd.Flags().StringVar(&optimizePair, "pair", "", "종목 코드 2개 (쉼표 구분, 필수)")
	optimizeCmd.Flags().StringVar(&optimizeFrom, "from", "", "시작 날짜 (YYYY-MM-DD)")
	optimizeCmd.Flags().StringVar(&optimizeTo, "to", "", "종료 날짜 (YYYY-MM-DD, 기본: 오늘)")
	optimizeCmd.Flags().StringVar(&optimizeEntries, "entries", "1.0,1.5,2.0,2.5", "진입 z-score 후보 (쉼표 구분)")
	optimizeCmd.Flags().StringVar(&optimizeExits, "exits", "0.0,0.25,0.5,0.75", "청산 z-score 후보 (쉼표 구분)")
	optimizeCmd.Flags().StringVar(&optimizeStrategy, "strategy", "", "전략 YAML 파일 경로 (후보 그리드 사용)")
	optimizeCmd.Flags().StringVar(&optimizeSource, "source", "naver", "가격 소스 (naver|db)")

	optimizeCmd.MarkFlagRequired("pair")
}

func runOptimize(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Pairscan Threshold Optimizer ===")

	cfg, log, err := initCore()
	if err != nil {
		return err
	}

	entries, err := parseFloatCSV(optimizeEntries)
	if err != nil {
		return fmt.Errorf("parse --entries: %w", err)
	}
	exits, err := parseFloatCSV(optimizeExits)
	if err != nil {
		return fmt.Errorf("parse --exits: %w", err)
	}

	if optimizeStrategy != "" {
		params, err := resolveParams(cfg, optimizeStrategy, "")
		if err != nil {
			return err
		}
		entries = params.Strategy.Optimize.EntryCandidates
		exits = params.Strategy.Optimize.ExitCandidates
	}

	ctx := context.Background()

	pair, cleanup, err := loadPricePair(ctx, cfg, log, optimizeSource, optimizePair, optimizeFrom, optimizeTo)
	if err != nil {
		return err
	}
	defer cleanup()

	fmt.Printf("\n📊 Pair: %s / %s (%d observations)\n", pair.SymbolA, pair.SymbolB, len(pair.Dates))
	fmt.Printf("🔍 Grid: %d entry x %d exit candidates\n\n", len(entries), len(exits))

	optimizer := backtest.NewOptimizer(backtest.NewSimulator(log), log)
	result, err := optimizer.Optimize(ctx, pair, entries, exits)
	if err != nil {
		return fmt.Errorf("optimize: %w", err)
	}

	if result.IsEmpty() {
		fmt.Printf("⚠️  No configuration evaluated: %s\n", result.Reason)
		return nil
	}

	fmt.Printf("%-8s  %-8s  %-12s  %-8s\n", "Entry", "Exit", "Return", "Sharpe")
	fmt.Println("────────────────────────────────────────────")
	for _, cell := range result.Grid {
		marker := "  "
		if result.Best != nil && cell.EntryZ == result.Best.EntryZ && cell.ExitZ == result.Best.ExitZ {
			marker = "⭐"
		}
		fmt.Printf("%-8.2f  %-8.2f  %-12s  %-8s %s\n",
			cell.EntryZ, cell.ExitZ, fmtPct(cell.TotalReturn), fmtFloat(cell.SharpeRatio, 2), marker)
	}

	fmt.Printf("\n✅ Best: entry %.2f / exit %.2f (Sharpe %.2f, return %s)\n",
		result.Best.EntryZ, result.Best.ExitZ, result.Best.SharpeRatio, fmtPct(result.Best.TotalReturn))
	return nil
}
