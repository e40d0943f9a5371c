package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"golang-stock-ranker/internal/ranker/config"
	"golang-stock-ranker/internal/ranker/dto"
	"golang-stock-ranker/internal/ranker/repository"
	"golang-stock-ranker/internal/ranker/service"
	"golang-stock-ranker/pkg/logger"

	"github.com/spf13/cobra"
)

var (
	configPath string
	tickers    []string
	topK       int
	output     string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Runs one ranking pass and prints the result",
	RunE:  runRank,
}

func runRank(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger, err := logger.New(cfg.Logger.Level, cfg.Logger.Encoding)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = appLogger.Sync() }()

	// One-shot mode runs without postgres and redis; the universe comes from
	// flags or the config file.
	yahooFinanceRepo, err := repository.NewYahooFinanceRepository(cfg, appLogger, nil)
	if err != nil {
		return fmt.Errorf("failed to initialize Yahoo Finance repository: %w", err)
	}

	rankerSvc := service.NewRankerService(cfg, appLogger, yahooFinanceRepo, nil, nil, nil)

	table, err := rankerSvc.Rank(ctx, &dto.RankRequest{Universe: tickers})
	if err != nil {
		return err
	}

	switch output {
	case "csv":
		return service.WriteCSV(os.Stdout, table)
	case "list":
		return service.WriteLeaderboard(os.Stdout, table, topK)
	default:
		if err := service.WriteTable(os.Stdout, table, topK); err != nil {
			return err
		}
		fmt.Println()
		fmt.Println("Top ranked stocks:")
		return service.WriteLeaderboard(os.Stdout, table, topK)
	}
}

func main() {
	rootCmd := &cobra.Command{Use: "rank"}

	runCmd.Flags().StringVarP(&configPath, "config", "c", "configs/config-ranker.yaml", "Path to the configuration file")
	runCmd.Flags().StringSliceVarP(&tickers, "tickers", "t", nil, "Universe override, e.g. -t AAPL,MSFT,GOOGL")
	runCmd.Flags().IntVarP(&topK, "top", "k", 0, "Truncate output to the top K rows (0 = all)")
	runCmd.Flags().StringVarP(&output, "output", "o", "table", "Output format: table, csv or list")

	rootCmd.AddCommand(runCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing rank CLI: %s\n", err)
		os.Exit(1)
	}
}
