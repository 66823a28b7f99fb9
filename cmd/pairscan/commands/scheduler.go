package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/wonny/pairscan/internal/pairs"
	"github.com/wonny/pairscan/internal/panel"
	"github.com/wonny/pairscan/internal/scheduler"
	"github.com/wonny/pairscan/internal/scheduler/jobs"
	"github.com/wonny/pairscan/internal/storage"
	"github.com/wonny/pairscan/pkg/database"
	"github.com/wonny/pairscan/pkg/redis"
)

// schedulerCmd represents the scheduler command
var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "스케줄러 관리",
	Long: `스케줄러를 시작하거나 작업을 관리합니다.

이 명령어는:
- 스케줄러 데몬 시작
- 등록된 작업 조회
- 작업 실행 이력 조회

Subcommands:
  start   - 스케줄러 시작
  list    - 등록된 작업 목록
  run     - 특정 작업 즉시 실행
  status  - 작업 실행 상태 조회

Example:
  go run ./cmd/pairscan scheduler start
  go run ./cmd/pairscan scheduler list
  go run ./cmd/pairscan scheduler run daily_scan`,
}

var (
	schedulerStartCmd = &cobra.Command{
		Use:   "start",
		Short: "스케줄러 시작",
		Long: `스케줄러를 시작하고 등록된 모든 작업을 스케줄합니다.

등록되는 작업:
- price_sync: 평일 오후 4시 30분 (일봉 종가 동기화)
- daily_scan: 평일 오후 5시 (전체 페어 스캔 + 결과 저장)

스케줄러는 Ctrl+C로 종료할 수 있습니다.`,
		RunE: runScheduler,
	}

	schedulerListCmd = &cobra.Command{
		Use:   "list",
		Short: "등록된 작업 목록",
		RunE:  listJobs,
	}

	schedulerRunCmd = &cobra.Command{
		Use:   "run [job_name]",
		Short: "특정 작업 즉시 실행",
		Args:  cobra.ExactArgs(1),
		RunE:  runJob,
	}

	schedulerStatusCmd = &cobra.Command{
		Use:   "status",
		Short: "작업 실행 상태 조회",
		RunE:  showStatus,
	}

	// Flags
	schedulerStrategy string
)

func init() {
	rootCmd.AddCommand(schedulerCmd)
	schedulerCmd.AddCommand(schedulerStartCmd)
	schedulerCmd.AddCommand(schedulerListCmd)
	schedulerCmd.AddCommand(schedulerRunCmd)
	schedulerCmd.AddCommand(schedulerStatusCmd)

	// Flags
	schedulerCmd.PersistentFlags().StringVar(&schedulerStrategy, "strategy", "", "전략 YAML 파일 경로 (universe 지정)")
}

func runScheduler(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Pairscan Scheduler ===")

	// Initialize dependencies
	sched, err := initScheduler()
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}

	// Start scheduler
	sched.Start()

	fmt.Println("\n✅ Scheduler started successfully")
	fmt.Println("\nRegistered jobs:")
	for _, jobName := range sched.Jobs() {
		fmt.Printf("  - %s\n", jobName)
	}
	fmt.Println("\nPress Ctrl+C to stop")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	fmt.Println("\nShutting down scheduler...")
	sched.Stop()
	fmt.Println("Scheduler stopped")

	return nil
}

func listJobs(cmd *cobra.Command, args []string) error {
	sched, err := initScheduler()
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}

	fmt.Println("Registered jobs:")
	for _, jobName := range sched.Jobs() {
		fmt.Printf("  - %s\n", jobName)
	}

	return nil
}

func runJob(cmd *cobra.Command, args []string) error {
	jobName := args[0]

	fmt.Printf("Running job: %s\n", jobName)

	sched, err := initScheduler()
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}

	if err := sched.RunJob(jobName); err != nil {
		return fmt.Errorf("run job: %w", err)
	}

	fmt.Println("Job started (running in background)")
	return nil
}

func showStatus(cmd *cobra.Command, args []string) error {
	sched, err := initScheduler()
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}

	fmt.Println("Job Statistics:")
	fmt.Println()

	for _, jobName := range sched.Jobs() {
		history, err := sched.History(jobName)
		if err != nil {
			continue
		}

		fmt.Printf("📊 %s\n", jobName)
		fmt.Printf("   Total Runs: %d\n", len(history.Results))
		fmt.Printf("   Success Rate: %.1f%%\n", history.SuccessRate()*100)

		if latest := history.Latest(); latest != nil {
			fmt.Printf("   Last Run: %s (success=%v)\n",
				latest.StartTime.Format("2006-01-02 15:04:05"), latest.Success)
		}

		fmt.Println()
	}

	return nil
}

func initScheduler() (*scheduler.Scheduler, error) {
	// 1. Load config and logger
	cfg, log, err := initCore()
	if err != nil {
		return nil, err
	}

	// 2. Resolve universe (strategy file optional, DB fallback)
	params, err := resolveParams(cfg, schedulerStrategy, "")
	if err != nil {
		return nil, err
	}
	var symbols []string
	if params.Strategy != nil {
		symbols = params.Symbols
	}

	// 3. Connect to database
	db, err := database.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	// 4. Create Naver client
	client := initMarketClient(cfg, log)

	// 5. Create repositories
	priceRepo := storage.NewPriceRepository(db.Pool)
	scanRepo := storage.NewScanRepository(db.Pool)

	// 6. Create pipeline components
	builder := panel.NewBuilder(params.Scanner.MinObservations, log)
	scanner := pairs.NewScanner(params.Scanner, log)

	// 7. Create scan cache (no-op when Redis is disabled)
	var cache *redis.Cache
	redisClient, err := redis.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	if redisClient.Enabled() {
		cache = redis.NewCache(redisClient, "pairscan")
	}

	// 8. Create scheduler
	sched := scheduler.New(log)

	// 9. Register jobs
	if err := sched.AddJob(jobs.NewPriceSyncJob(client, priceRepo, symbols, 7, log)); err != nil {
		return nil, err
	}
	if err := sched.AddJob(jobs.NewDailyScanJob(priceRepo, scanRepo, builder, scanner, cache, symbols, params.Lookback, log)); err != nil {
		return nil, err
	}

	return sched, nil
}
