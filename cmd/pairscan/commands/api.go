package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/pairscan/internal/api"
	"github.com/wonny/pairscan/internal/api/handlers"
	"github.com/wonny/pairscan/internal/backtest"
	"github.com/wonny/pairscan/internal/pairs"
	"github.com/wonny/pairscan/internal/panel"
	"github.com/wonny/pairscan/internal/storage"
	"github.com/wonny/pairscan/pkg/database"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "API 서버 시작",
	Long: `REST API 서버를 시작합니다.

이 명령어는:
- HTTP API 서버 시작
- 페어 스캔/백테스트 트리거 제공
- 저장된 결과 조회 엔드포인트 제공

Endpoints:
  GET  /health             - Health check
  POST /api/scan           - 페어 스캔 실행
  GET  /api/pairs/latest   - 최근 스캔 결과 조회
  POST /api/backtest       - 백테스트 실행
  GET  /api/backtest/best  - 페어별 최고 결과 조회
  POST /api/optimize       - 임계값 그리드 탐색

Example:
  go run ./cmd/pairscan api
  go run ./cmd/pairscan api --port 8090`,
	RunE: runAPIServer,
}

var (
	apiPort string
)

func init() {
	rootCmd.AddCommand(apiCmd)

	// Flags
	apiCmd.Flags().StringVar(&apiPort, "port", "", "API 서버 포트 (기본: PORT env)")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Pairscan API Server ===")

	// 1. Load config and logger
	cfg, log, err := initCore()
	if err != nil {
		return err
	}

	// Override port if flag is set
	if apiPort != "" {
		cfg.Port = apiPort
	}

	log.WithFields(map[string]interface{}{
		"port": cfg.Port,
		"env":  cfg.Env,
	}).Info("Initializing API server")

	// 2. Connect to database
	db, err := database.New(cfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	log.Info("Connected to database")

	// 3. Create repositories
	priceRepo := storage.NewPriceRepository(db.Pool)
	scanRepo := storage.NewScanRepository(db.Pool)
	backtestRepo := storage.NewBacktestRepository(db.Pool)

	// 4. Create pipeline components
	builder := panel.NewBuilder(cfg.Scan.MinObservations, log)
	scanner := pairs.NewScanner(pairs.ScannerConfig{
		CorrelationThreshold: cfg.Scan.CorrelationThreshold,
		PValueThreshold:      cfg.Scan.CointPValueThreshold,
		MinObservations:      cfg.Scan.MinObservations,
		HalfLifeCapDays:      cfg.Scan.HalfLifeCapDays,
	}, log)
	simulator := backtest.NewSimulator(log)
	optimizer := backtest.NewOptimizer(simulator, log)

	// 5. Create handlers
	pairsHandler := handlers.NewPairsHandler(priceRepo, scanRepo, builder, scanner, log)
	backtestHandler := handlers.NewBacktestHandler(priceRepo, backtestRepo, builder, simulator, optimizer, log)

	// 6. Create router and server
	router := api.NewRouter(pairsHandler, backtestHandler, log)
	server := api.New(cfg, log, router)

	// 7. Start server with graceful shutdown
	go func() {
		if err := server.Start(); err != nil {
			log.WithError(err).Fatal("Failed to start server")
		}
	}()

	log.Info("API server started successfully")
	fmt.Printf("\n✅ Server running on http://localhost:%s\n", cfg.Port)
	fmt.Println("\nAvailable endpoints:")
	fmt.Println("  GET  /health")
	fmt.Println("  POST /api/scan")
	fmt.Println("  GET  /api/pairs/latest")
	fmt.Println("  POST /api/backtest")
	fmt.Println("  GET  /api/backtest/best")
	fmt.Println("  POST /api/optimize")
	fmt.Println("\nPress Ctrl+C to stop")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Info("Server stopped")
	return nil
}
