package config

import (
	"time"

	"golang-stock-ranker/pkg/config"
)

// YahooFinance holds the configuration for the Yahoo Finance API.
type YahooFinance struct {
	BaseURL              string        `mapstructure:"base_url"`
	MaxRequestPerMinute  int           `mapstructure:"max_request_per_minute"`
	PriceCacheTTL        time.Duration `mapstructure:"price_cache_ttl"`
	FundamentalsCacheTTL time.Duration `mapstructure:"fundamentals_cache_ttl"`
}

// Telegram holds configuration for the Telegram notifier.
type Telegram struct {
	Enabled  bool   `mapstructure:"enabled"`
	BotToken string `mapstructure:"bot_token"`
	ChatID   int64  `mapstructure:"chat_id"`
}

// Ranker holds the ranking pipeline configuration.
type Ranker struct {
	// Universe is the default list of stock codes to rank. When empty the
	// universe is loaded from the stocks table.
	Universe []string `mapstructure:"universe"`

	// Weights maps the recognized keys (momentum, volatility, value, size)
	// to signed weights. Negative inverts a factor's contribution.
	Weights map[string]float64 `mapstructure:"weights"`

	MomentumWindow   int `mapstructure:"momentum_window"`
	VolatilityWindow int `mapstructure:"volatility_window"`
	LookbackDays     int `mapstructure:"lookback_days"`
	TopK             int `mapstructure:"top_k"`

	// MaxConcurrentFetch bounds parallel per-stock data retrieval. The
	// pipeline itself stays single-threaded.
	MaxConcurrentFetch int `mapstructure:"max_concurrent_fetch"`

	// RerankCron triggers a scheduled re-rank in serve mode when set.
	RerankCron string `mapstructure:"rerank_cron"`

	SnapshotCacheTTL time.Duration `mapstructure:"snapshot_cache_ttl"`
}

// Config holds the full configuration for the ranker service.
type Config struct {
	App          config.App      `mapstructure:"app"`
	Logger       config.Logger   `mapstructure:"logger"`
	Database     config.Database `mapstructure:"database"`
	Redis        config.Redis    `mapstructure:"redis"`
	API          config.API      `mapstructure:"api"`
	YahooFinance YahooFinance    `mapstructure:"yahoo_finance"`
	Telegram     Telegram        `mapstructure:"telegram"`
	Ranker       Ranker          `mapstructure:"ranker"`
}

// Load loads the ranker configuration from the given path and applies
// defaults for the lookback windows.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := config.Load(path, &cfg); err != nil {
		return nil, err
	}

	if cfg.Ranker.MomentumWindow <= 0 {
		cfg.Ranker.MomentumWindow = 126
	}
	if cfg.Ranker.VolatilityWindow <= 0 {
		cfg.Ranker.VolatilityWindow = 63
	}
	if cfg.Ranker.LookbackDays <= 0 {
		// Two calendar years covers the 126-session momentum window with
		// slack for holidays and halts.
		cfg.Ranker.LookbackDays = 730
	}
	if cfg.Ranker.MaxConcurrentFetch <= 0 {
		cfg.Ranker.MaxConcurrentFetch = 5
	}
	if cfg.Ranker.TopK <= 0 {
		cfg.Ranker.TopK = 10
	}
	if cfg.Ranker.SnapshotCacheTTL <= 0 {
		cfg.Ranker.SnapshotCacheTTL = 24 * time.Hour
	}
	if cfg.YahooFinance.BaseURL == "" {
		cfg.YahooFinance.BaseURL = "https://query1.finance.yahoo.com"
	}
	if cfg.YahooFinance.MaxRequestPerMinute <= 0 {
		cfg.YahooFinance.MaxRequestPerMinute = 30
	}
	if cfg.YahooFinance.PriceCacheTTL <= 0 {
		cfg.YahooFinance.PriceCacheTTL = 15 * time.Minute
	}
	if cfg.YahooFinance.FundamentalsCacheTTL <= 0 {
		cfg.YahooFinance.FundamentalsCacheTTL = 6 * time.Hour
	}

	return &cfg, nil
}
