package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	configFile string
	env        string
	verbose    bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "pairscan",
	Short: "Pairscan - 통계적 페어 트레이딩 스캐너",
	Long: `Pairscan Unified CLI

공적분 기반 페어 발굴부터 z-score 백테스트, 임계값 최적화까지.
상관관계 사전 필터 → 공적분 검정 → 스프레드 프로파일 순서의 파이프라인.

Usage:
  go run ./cmd/pairscan [command]

Examples:
  go run ./cmd/pairscan scan --symbols 005930,000660,035420
  go run ./cmd/pairscan backtest run --pair 005930,000660
  go run ./cmd/pairscan api
  go run ./cmd/pairscan db ping`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default is .env)")
	rootCmd.PersistentFlags().StringVar(&env, "env", "development", "environment (development|staging|production)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
