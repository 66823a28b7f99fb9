package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/pairscan/internal/storage"
	"github.com/wonny/pairscan/pkg/database"
)

// dbCmd represents the db command
var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "데이터베이스 관리",
	Long: `데이터베이스 연결을 테스트하고 스키마를 초기화합니다.

Subcommands:
  ping  - 연결 테스트 및 풀 통계
  init  - 스키마 생성 (idempotent)

Example:
  go run ./cmd/pairscan db ping
  go run ./cmd/pairscan db init`,
}

var (
	dbPingCmd = &cobra.Command{
		Use:   "ping",
		Short: "PostgreSQL 연결 테스트",
		Long: `데이터베이스 연결을 테스트하고 풀 통계를 표시합니다.

이 명령어는:
- config에서 DATABASE_URL 로드
- 데이터베이스 연결 생성
- Ping 테스트
- Connection Pool 통계 표시

Example:
  go run ./cmd/pairscan db ping
  go run ./cmd/pairscan db ping --env production`,
		RunE: runDBPing,
	}

	dbInitCmd = &cobra.Command{
		Use:   "init",
		Short: "스키마 초기화",
		RunE:  runDBInit,
	}
)

func init() {
	rootCmd.AddCommand(dbCmd)
	dbCmd.AddCommand(dbPingCmd)
	dbCmd.AddCommand(dbInitCmd)
}

func runDBPing(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Pairscan Database Connection Test ===")

	// Load configuration
	fmt.Println("Loading configuration...")
	cfg, _, err := initCore()
	if err != nil {
		return fmt.Errorf("❌ Failed to load config: %w", err)
	}
	fmt.Printf("✅ Config loaded (ENV: %s)\n", cfg.Env)
	fmt.Printf("   Database URL: %s\n\n", maskPassword(cfg.Database.URL))

	// Create database connection
	fmt.Println("Connecting to database...")
	db, err := database.New(cfg)
	if err != nil {
		return fmt.Errorf("❌ Failed to connect to database: %w", err)
	}
	defer db.Close()
	fmt.Println("✅ Database connection established")

	// Check connection
	fmt.Println("Testing connection (Ping)...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.Ping(ctx); err != nil {
		return fmt.Errorf("❌ Ping failed: %w", err)
	}
	fmt.Println("✅ Ping successful")

	// Pool statistics
	stat := db.Pool.Stat()
	fmt.Println("\nConnection Pool Statistics:")
	PrintKeyValue("Total Conns", fmt.Sprintf("%d", stat.TotalConns()), 14)
	PrintKeyValue("Idle Conns", fmt.Sprintf("%d", stat.IdleConns()), 14)
	PrintKeyValue("Acquired", fmt.Sprintf("%d", stat.AcquiredConns()), 14)
	PrintKeyValue("Max Conns", fmt.Sprintf("%d", stat.MaxConns()), 14)

	fmt.Println("\n✅ All database tests passed")
	return nil
}

func runDBInit(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Pairscan Schema Init ===")

	cfg, _, err := initCore()
	if err != nil {
		return err
	}

	db, err := database.New(cfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := storage.InitSchema(ctx, db.Pool); err != nil {
		return fmt.Errorf("init schema: %w", err)
	}

	fmt.Println("✅ Schema initialized")
	return nil
}
