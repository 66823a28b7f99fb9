package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/pairscan/internal/pairs"
	"github.com/wonny/pairscan/internal/panel"
	"github.com/wonny/pairscan/internal/report"
	"github.com/wonny/pairscan/internal/storage"
	"github.com/wonny/pairscan/internal/strategyconfig"
	"github.com/wonny/pairscan/pkg/database"
)

// scanCmd represents the scan command
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "공적분 페어 스캔",
	Long: `가격 패널에서 공적분된 페어를 찾습니다.

파이프라인:
- 로그수익률 상관관계 사전 필터 (기본 |r| >= 0.8)
- Engle-Granger / Johansen trace 공적분 검정
- 스프레드 프로파일 (헤지비율, 반감기, 정상성 점수)

Example:
  go run ./cmd/pairscan scan --symbols 005930,000660,035420
  go run ./cmd/pairscan scan --strategy config/strategy/kospi_pairs_v1.yaml
  go run ./cmd/pairscan scan --source db --save`,
	RunE: runScan,
}

var (
	// Flags
	scanStrategy string
	scanSymbols  string
	scanFrom     string
	scanTo       string
	scanSource   string
	scanSave     bool
	scanOutput   string
)

func init() {
	rootCmd.AddCommand(scanCmd)

	// Flags
	scanCmd.Flags().StringVar(&scanStrategy, "strategy", "", "전략 YAML 파일 경로")
	scanCmd.Flags().StringVar(&scanSymbols, "symbols", "", "종목 코드 (쉼표 구분)")
	scanCmd.Flags().StringVar(&scanFrom, "from", "", "시작 날짜 (YYYY-MM-DD, 기본: lookback 역산)")
	scanCmd.Flags().StringVar(&scanTo, "to", "", "종료 날짜 (YYYY-MM-DD, 기본: 오늘)")
	scanCmd.Flags().StringVar(&scanSource, "source", "naver", "가격 소스 (naver|db)")
	scanCmd.Flags().BoolVar(&scanSave, "save", false, "스캔 결과를 DB에 저장")
	scanCmd.Flags().StringVar(&scanOutput, "output", "", "마크다운 리포트 저장 경로 (기본: stdout)")
}

func runScan(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Pairscan Scanner ===")

	cfg, log, err := initCore()
	if err != nil {
		return err
	}

	params, err := resolveParams(cfg, scanStrategy, scanSymbols)
	if err != nil {
		return err
	}
	if len(params.Symbols) == 0 && scanSource != "db" {
		return fmt.Errorf("no symbols: pass --symbols or --strategy")
	}

	to, err := parseDateOrDefault(scanTo, time.Now())
	if err != nil {
		return err
	}
	from, err := parseDateOrDefault(scanFrom, to.AddDate(0, 0, -params.Lookback))
	if err != nil {
		return err
	}

	fmt.Printf("\n📅 Period: %s ~ %s\n", from.Format("2006-01-02"), to.Format("2006-01-02"))
	fmt.Printf("🎯 Thresholds: |r| >= %.2f, p < %.3f\n", params.Scanner.CorrelationThreshold, params.Scanner.PValueThreshold)
	if params.Strategy != nil {
		hash, err := strategyconfig.Hash(params.Strategy)
		if err != nil {
			return fmt.Errorf("hash strategy: %w", err)
		}
		fmt.Printf("🔖 Strategy: %s (config %s)\n", params.Strategy.Meta.StrategyID, hash[:12])
	}
	fmt.Println()

	ctx := context.Background()

	series, cleanup, err := loadSeries(ctx, cfg, log, scanSource, params.Symbols, from, to)
	if err != nil {
		return err
	}
	defer cleanup()

	builder := panel.NewBuilder(params.Scanner.MinObservations, log)
	pricePanel, err := builder.Build(series)
	if err != nil {
		return fmt.Errorf("build panel: %w", err)
	}

	scanner := pairs.NewScanner(params.Scanner, log)
	scanReport, err := scanner.Scan(ctx, pricePanel)
	if err != nil {
		return fmt.Errorf("scan: %w", err)
	}

	// Resolve display names for the report (best effort)
	names := map[string]string{}
	if scanSource == "naver" {
		client := initMarketClient(cfg, log)
		codes := make([]string, 0, len(scanReport.Pairs)*2)
		for _, pair := range scanReport.Pairs {
			codes = append(codes, pair.SymbolA, pair.SymbolB)
		}
		if fetched, err := client.FetchNames(ctx, codes); err == nil {
			names = fetched
		}
	}

	markdown := report.NewRenderer(names).ScanReport(scanReport)
	if scanOutput != "" {
		if err := os.WriteFile(scanOutput, []byte(markdown), 0o644); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
		fmt.Printf("📝 Report written to %s\n", scanOutput)
	} else {
		fmt.Println(markdown)
	}

	if scanSave {
		db, err := database.New(cfg)
		if err != nil {
			return fmt.Errorf("connect to database: %w", err)
		}
		defer db.Close()

		runID, err := storage.NewScanRepository(db.Pool).SaveReport(ctx, scanReport)
		if err != nil {
			return fmt.Errorf("save report: %w", err)
		}
		fmt.Printf("💾 Saved as scan run #%d\n", runID)
	}

	fmt.Printf("\n✅ Scan completed: %d assets, %d candidates, %d pairs\n",
		scanReport.TotalAssets, scanReport.CandidateCount, len(scanReport.Pairs))
	return nil
}
