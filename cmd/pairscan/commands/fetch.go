package commands

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/pairscan/internal/storage"
	"github.com/wonny/pairscan/pkg/database"
)

// fetchCmd represents the fetch command
var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "시세 데이터 수집",
	Long: `Naver Finance에서 시세 데이터를 수집합니다.

Subcommands:
  prices   - 일봉 종가 수집 후 DB 저장
  names    - 종목명 조회
  listing  - KOSPI/KOSDAQ 시가총액 상위 목록 조회

Example:
  go run ./cmd/pairscan fetch prices --symbols 005930,000660 --days 365
  go run ./cmd/pairscan fetch names --symbols 005930,000660
  go run ./cmd/pairscan fetch listing --market kospi --pages 2`,
}

var (
	fetchPricesCmd = &cobra.Command{
		Use:   "prices",
		Short: "일봉 종가 수집",
		Long: `지정된 종목의 일봉 종가를 수집하여 DB에 저장합니다.

Example:
  go run ./cmd/pairscan fetch prices --symbols 005930,000660
  go run ./cmd/pairscan fetch prices --symbols 005930 --days 730`,
		RunE: runFetchPrices,
	}

	fetchNamesCmd = &cobra.Command{
		Use:   "names",
		Short: "종목명 조회",
		RunE:  runFetchNames,
	}

	fetchListingCmd = &cobra.Command{
		Use:   "listing",
		Short: "시장 종목 목록 조회",
		RunE:  runFetchListing,
	}

	// Flags
	fetchSymbols string
	fetchDays    int
	fetchDryRun  bool
	fetchMarket  string
	fetchPages   int
)

func init() {
	rootCmd.AddCommand(fetchCmd)
	fetchCmd.AddCommand(fetchPricesCmd)
	fetchCmd.AddCommand(fetchNamesCmd)
	fetchCmd.AddCommand(fetchListingCmd)

	// Flags
	fetchPricesCmd.Flags().StringVar(&fetchSymbols, "symbols", "", "종목 코드 (쉼표 구분, 필수)")
	fetchPricesCmd.Flags().IntVar(&fetchDays, "days", 365, "수집 기간 (일)")
	fetchPricesCmd.Flags().BoolVar(&fetchDryRun, "dry-run", false, "DB 저장 없이 건수만 출력")
	fetchPricesCmd.MarkFlagRequired("symbols")

	fetchNamesCmd.Flags().StringVar(&fetchSymbols, "symbols", "", "종목 코드 (쉼표 구분, 필수)")
	fetchNamesCmd.MarkFlagRequired("symbols")

	fetchListingCmd.Flags().StringVar(&fetchMarket, "market", "kospi", "시장 (kospi|kosdaq)")
	fetchListingCmd.Flags().IntVar(&fetchPages, "pages", 1, "조회 페이지 수")
}

func runFetchPrices(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Pairscan Price Fetcher ===")

	cfg, log, err := initCore()
	if err != nil {
		return err
	}

	symbols := splitCSV(fetchSymbols)
	to := time.Now()
	from := to.AddDate(0, 0, -fetchDays)

	fmt.Printf("\n📅 Period: %s ~ %s\n", from.Format("2006-01-02"), to.Format("2006-01-02"))
	fmt.Printf("📦 Symbols: %d\n\n", len(symbols))

	ctx := context.Background()

	client := initMarketClient(cfg, log)
	series, err := client.FetchUniverse(ctx, symbols, from, to)
	if err != nil {
		return fmt.Errorf("fetch universe: %w", err)
	}

	if fetchDryRun {
		for symbol, quotes := range series {
			fmt.Printf("  - %s: %d quotes\n", symbol, len(quotes))
		}
		fmt.Println("\n✅ Dry run completed (nothing saved)")
		return nil
	}

	db, err := database.New(cfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	priceRepo := storage.NewPriceRepository(db.Pool)
	saved := 0
	for symbol, quotes := range series {
		if err := priceRepo.SaveBatch(ctx, symbol, quotes); err != nil {
			return fmt.Errorf("save %s: %w", symbol, err)
		}
		fmt.Printf("  - %s: %d quotes\n", symbol, len(quotes))
		saved += len(quotes)
	}

	fmt.Printf("\n✅ Saved %d quotes for %d symbols\n", saved, len(series))
	return nil
}

func runFetchNames(cmd *cobra.Command, args []string) error {
	cfg, log, err := initCore()
	if err != nil {
		return err
	}

	client := initMarketClient(cfg, log)
	names, err := client.FetchNames(context.Background(), splitCSV(fetchSymbols))
	if err != nil {
		return fmt.Errorf("fetch names: %w", err)
	}

	codes := make([]string, 0, len(names))
	for code := range names {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	for _, code := range codes {
		PrintKeyValue(code, names[code], 8)
	}
	return nil
}

func runFetchListing(cmd *cobra.Command, args []string) error {
	cfg, log, err := initCore()
	if err != nil {
		return err
	}

	var market int
	switch fetchMarket {
	case "kospi":
		market = 0
	case "kosdaq":
		market = 1
	default:
		return fmt.Errorf("unknown market: %s (valid: kospi, kosdaq)", fetchMarket)
	}

	ctx := context.Background()
	client := initMarketClient(cfg, log)

	total := 0
	for page := 1; page <= fetchPages; page++ {
		listing, err := client.FetchMarketListing(ctx, market, page)
		if err != nil {
			return fmt.Errorf("fetch listing page %d: %w", page, err)
		}

		codes := make([]string, 0, len(listing))
		for code := range listing {
			codes = append(codes, code)
		}
		sort.Strings(codes)

		for _, code := range codes {
			PrintKeyValue(code, listing[code], 8)
		}
		total += len(listing)
	}

	fmt.Printf("\n✅ %d symbols listed\n", total)
	return nil
}
