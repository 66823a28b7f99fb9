package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/pairscan/internal/analysis"
	"github.com/wonny/pairscan/internal/backtest"
	"github.com/wonny/pairscan/internal/pairs"
	"github.com/wonny/pairscan/internal/panel"
	"github.com/wonny/pairscan/internal/report"
)

// reportCmd represents the report command
var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "기간별 분석 리포트",
	Long: `여러 룩백 기간(예: 3/6/12개월)에 걸쳐 스캔과 백테스트를
반복하고 투자 점수로 순위를 매긴 마크다운 리포트를 생성합니다.

투자 점수 가중치:
- 총수익률 30%, Sharpe 25%, MDD 20%, 승률 15%, 상관관계 10%

Example:
  go run ./cmd/pairscan report --strategy config/strategy/kospi_pairs_v1.yaml
  go run ./cmd/pairscan report --strategy config/strategy/kospi_pairs_v1.yaml --output report.md`,
	RunE: runReport,
}

var (
	// Flags
	reportStrategy string
	reportSource   string
	reportOutput   string
	reportTop      int
)

func init() {
	rootCmd.AddCommand(reportCmd)

	// Flags
	reportCmd.Flags().StringVar(&reportStrategy, "strategy", "", "전략 YAML 파일 경로 (필수)")
	reportCmd.Flags().StringVar(&reportSource, "source", "naver", "가격 소스 (naver|db)")
	reportCmd.Flags().StringVar(&reportOutput, "output", "", "마크다운 저장 경로 (기본: stdout)")
	reportCmd.Flags().IntVar(&reportTop, "top", 10, "기간별 최대 페어 수")

	reportCmd.MarkFlagRequired("strategy")
}

func runReport(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Pairscan Period Analysis ===")

	cfg, log, err := initCore()
	if err != nil {
		return err
	}

	params, err := resolveParams(cfg, reportStrategy, "")
	if err != nil {
		return err
	}
	periods := params.Strategy.Analysis.PeriodsMonths
	if len(periods) == 0 {
		return fmt.Errorf("strategy has no analysis periods")
	}

	to := time.Now()
	from := to.AddDate(0, 0, -params.Lookback)

	fmt.Printf("\n📅 Lookback: %s ~ %s\n", from.Format("2006-01-02"), to.Format("2006-01-02"))
	fmt.Printf("🗓  Periods: %v months\n\n", periods)

	ctx := context.Background()

	series, cleanup, err := loadSeries(ctx, cfg, log, reportSource, params.Symbols, from, to)
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
	simulator := backtest.NewSimulator(log)
	analyzer := analysis.NewAnalyzer(scanner, simulator, params.Sim, reportTop, log)

	results, err := analyzer.AnalyzePeriods(ctx, pricePanel, periods)
	if err != nil {
		return fmt.Errorf("analyze: %w", err)
	}

	// Resolve display names (best effort)
	names := map[string]string{}
	if reportSource == "naver" {
		client := initMarketClient(cfg, log)
		if fetched, err := client.FetchNames(ctx, pricePanel.Assets()); err == nil {
			names = fetched
		}
	}

	markdown := report.NewRenderer(names).PeriodAnalysis(results, time.Now())
	if reportOutput != "" {
		if err := os.WriteFile(reportOutput, []byte(markdown), 0o644); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
		fmt.Printf("📝 Report written to %s\n", reportOutput)
	} else {
		fmt.Println(markdown)
	}

	fmt.Printf("✅ Analyzed %d periods over %d assets\n", len(results), pricePanel.NumAssets())
	return nil
}
