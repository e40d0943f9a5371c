package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang-stock-ranker/internal/ranker/config"
	delivery "golang-stock-ranker/internal/ranker/delivery/http"
	"golang-stock-ranker/internal/ranker/dto"
	"golang-stock-ranker/internal/ranker/repository"
	"golang-stock-ranker/internal/ranker/service"
	"golang-stock-ranker/pkg/logger"
	"golang-stock-ranker/pkg/postgres"
	"golang-stock-ranker/pkg/redis"
	"golang-stock-ranker/pkg/telegram"

	"github.com/labstack/echo/v4"
	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
)

var configPath string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Starts the ranker service",
	Run:   runServe,
}

func runServe(cmd *cobra.Command, args []string) {
	// Create a context that is canceled on interrupt signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	appLogger, err := logger.New(cfg.Logger.Level, cfg.Logger.Encoding)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = appLogger.Sync() }()

	appLogger.Info("Starting Ranker Service", logger.Field("name", cfg.App.Name))

	// Initialize database
	postgresCfg := postgres.Config{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		DBName:          cfg.Database.DBName,
		SSLMode:         cfg.Database.SSLMode,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}
	db, err := postgres.NewDB(postgresCfg)
	if err != nil {
		appLogger.Fatal("Failed to initialize database", logger.ErrorField(err))
	}
	if sqlDB, err := db.DB.DB(); err == nil {
		defer sqlDB.Close()
	}

	// Initialize Redis
	redisCfg := redis.Config{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	}
	redisClient, err := redis.NewClient(redisCfg)
	if err != nil {
		appLogger.Fatal("Failed to initialize Redis", logger.ErrorField(err))
	}
	defer redisClient.Close()

	// Initialize repositories
	stocksRepo := repository.NewStocksRepository(db.DB)
	profileRepo := repository.NewRankingProfileRepository(db.DB)
	yahooFinanceRepo, err := repository.NewYahooFinanceRepository(cfg, appLogger, redisClient)
	if err != nil {
		appLogger.Fatal("Failed to initialize Yahoo Finance repository", logger.ErrorField(err))
	}

	// Initialize services
	rankerSvc := service.NewRankerService(cfg, appLogger, yahooFinanceRepo, stocksRepo, profileRepo, redisClient)
	profileSvc := service.NewProfileService(profileRepo, appLogger)

	// Optional Telegram digest for scheduled re-ranks
	var telegramNotifier telegram.Notifier
	if cfg.Telegram.Enabled {
		telegramNotifier, err = telegram.NewClient(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
		if err != nil {
			appLogger.Fatal("Failed to initialize Telegram notifier", logger.ErrorField(err))
		}
	}

	// Scheduled re-rank
	var cronRunner *cron.Cron
	if cfg.Ranker.RerankCron != "" {
		cronRunner = cron.New()
		_, err := cronRunner.AddFunc(cfg.Ranker.RerankCron, func() {
			rerank(ctx, appLogger, rankerSvc, telegramNotifier, cfg.Ranker.TopK)
		})
		if err != nil {
			appLogger.Fatal("Invalid rerank cron expression", logger.ErrorField(err), logger.StringField("cron", cfg.Ranker.RerankCron))
		}
		cronRunner.Start()
		appLogger.Info("Scheduled re-ranking enabled", logger.StringField("cron", cfg.Ranker.RerankCron))
	}

	// Initialize Echo server
	e := echo.New()
	e.HideBanner = true

	// Initialize handlers and routes
	apiV1 := e.Group("/api/v1")

	rankingHandler := delivery.NewRankingHandler(rankerSvc, appLogger)
	rankingsGroup := apiV1.Group("/rankings")
	rankingHandler.RegisterRoutes(rankingsGroup)

	profileHandler := delivery.NewProfileHandler(profileSvc, appLogger)
	profilesGroup := apiV1.Group("/profiles")
	profileHandler.RegisterRoutes(profilesGroup)

	// Start server
	go func() {
		addr := fmt.Sprintf(":%d", cfg.API.Port)
		appLogger.Info("HTTP server starting", logger.Field("address", addr))
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			appLogger.Error("HTTP server failed to start", logger.ErrorField(err))
			stop() // trigger shutdown
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()

	appLogger.Info("Shutting down server...")

	if cronRunner != nil {
		cronRunner.Stop()
	}

	// Gracefully shutdown the server
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		appLogger.Fatal("Server forced to shutdown", logger.ErrorField(err))
	}

	appLogger.Info("Server exiting")
}

// rerank refreshes the cached snapshot and pushes a digest to Telegram.
func rerank(ctx context.Context, appLogger *logger.Logger, rankerSvc service.RankerService, notifier telegram.Notifier, topK int) {
	table, err := rankerSvc.Rank(ctx, &dto.RankRequest{})
	if err != nil {
		appLogger.Error("Scheduled re-rank failed", logger.ErrorField(err))
		return
	}

	if notifier != nil {
		if err := notifier.SendMessage(telegram.FormatRankingDigest(table, topK)); err != nil {
			appLogger.Error("Failed to send ranking digest", logger.ErrorField(err))
		}
	}
}

func main() {
	rootCmd := &cobra.Command{Use: "ranker-service"}

	serveCmd.Flags().StringVarP(&configPath, "config", "c", "configs/config-ranker.yaml", "Path to the configuration file")

	rootCmd.AddCommand(serveCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing ranker-service CLI: %s\n", err)
		os.Exit(1)
	}
}
