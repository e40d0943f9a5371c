package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang-stock-ranker/internal/ranker/config"
	"golang-stock-ranker/internal/ranker/dto"
	"golang-stock-ranker/pkg/common"
	"golang-stock-ranker/pkg/logger"
	redisPkg "golang-stock-ranker/pkg/redis"

	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

// YahooFinanceRepository is the data provider boundary of the ranking
// pipeline. Both methods report per-stock unavailability with an error; a
// stock is never silently omitted.
type YahooFinanceRepository interface {
	GetPriceHistory(ctx context.Context, stockCode string, lookbackDays int) ([]dto.PricePoint, error)
	GetFundamentals(ctx context.Context, stockCode string) (*dto.Fundamentals, error)
}

type yahooFinanceRepository struct {
	cfg            *config.Config
	log            *logger.Logger
	httpClient     *http.Client
	requestLimiter *rate.Limiter
	// fundamentalsCache avoids re-hitting quoteSummary for values that move
	// on quarterly timescales.
	fundamentalsCache *cache.Cache
	// redisClient caches raw price history between runs; nil disables the
	// cache (one-shot CLI mode).
	redisClient *redisPkg.Client
}

// NewYahooFinanceRepository creates a rate-limited Yahoo Finance client.
// redisClient may be nil.
func NewYahooFinanceRepository(cfg *config.Config, log *logger.Logger, redisClient *redisPkg.Client) (YahooFinanceRepository, error) {
	if cfg.YahooFinance.MaxRequestPerMinute <= 0 {
		return nil, fmt.Errorf("yahoo_finance.max_request_per_minute must be positive")
	}
	secondsPerRequest := time.Minute / time.Duration(cfg.YahooFinance.MaxRequestPerMinute)
	return &yahooFinanceRepository{
		cfg: cfg,
		log: log,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		requestLimiter:    rate.NewLimiter(rate.Every(secondsPerRequest), 1),
		fundamentalsCache: cache.New(cfg.YahooFinance.FundamentalsCacheTTL, 2*cfg.YahooFinance.FundamentalsCacheTTL),
		redisClient:       redisClient,
	}, nil
}

// GetPriceHistory returns the daily closing series for a stock, ordered
// oldest first, covering at least the requested lookback window.
func (r *yahooFinanceRepository) GetPriceHistory(ctx context.Context, stockCode string, lookbackDays int) ([]dto.PricePoint, error) {
	cacheKey := fmt.Sprintf(common.RedisKeyPriceHistory, stockCode, lookbackDays)
	if r.redisClient != nil {
		if cached, err := r.redisClient.Get(ctx, cacheKey).Bytes(); err == nil {
			var prices []dto.PricePoint
			if err := json.Unmarshal(cached, &prices); err == nil {
				return prices, nil
			}
		}
	}

	url := fmt.Sprintf("%s/v8/finance/chart/%s?range=%dd&interval=1d", r.cfg.YahooFinance.BaseURL, stockCode, lookbackDays)
	body, err := r.sendRequest(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("price history for %s: %w", stockCode, err)
	}

	var response dto.YahooChartResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("price history for %s: %w", stockCode, err)
	}
	if response.Chart.Error != nil {
		return nil, fmt.Errorf("price history for %s: %s", stockCode, response.Chart.Error.Description)
	}
	if len(response.Chart.Result) == 0 || len(response.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, fmt.Errorf("price history for %s: empty chart result", stockCode)
	}

	result := response.Chart.Result[0]
	closes := result.Indicators.Quote[0].Close
	var prices []dto.PricePoint
	for i, ts := range result.Timestamp {
		if i >= len(closes) || closes[i] == nil {
			// Yahoo pads halted sessions with nulls; skip them.
			continue
		}
		prices = append(prices, dto.PricePoint{
			Date:  time.Unix(ts, 0).UTC(),
			Close: *closes[i],
		})
	}
	if len(prices) == 0 {
		return nil, fmt.Errorf("price history for %s: no usable closes", stockCode)
	}

	if r.redisClient != nil {
		if payload, err := json.Marshal(prices); err == nil {
			if err := r.redisClient.Set(ctx, cacheKey, payload, r.cfg.YahooFinance.PriceCacheTTL).Err(); err != nil {
				r.log.ErrorContext(ctx, "Failed to cache price history", logger.ErrorField(err), logger.StringField("stock_code", stockCode))
			}
		}
	}

	return prices, nil
}

// GetFundamentals returns the fundamentals snapshot for a stock. Missing
// individual fields are returned as zero values; callers decide the fallback.
func (r *yahooFinanceRepository) GetFundamentals(ctx context.Context, stockCode string) (*dto.Fundamentals, error) {
	if cached, ok := r.fundamentalsCache.Get(stockCode); ok {
		return cached.(*dto.Fundamentals), nil
	}

	url := fmt.Sprintf("%s/v10/finance/quoteSummary/%s?modules=defaultKeyStatistics,summaryDetail,price", r.cfg.YahooFinance.BaseURL, stockCode)
	body, err := r.sendRequest(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("fundamentals for %s: %w", stockCode, err)
	}

	var response dto.YahooQuoteSummaryResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("fundamentals for %s: %w", stockCode, err)
	}
	if response.QuoteSummary.Error != nil {
		return nil, fmt.Errorf("fundamentals for %s: %s", stockCode, response.QuoteSummary.Error.Description)
	}
	if len(response.QuoteSummary.Result) == 0 {
		return nil, fmt.Errorf("fundamentals for %s: empty quote summary", stockCode)
	}

	result := response.QuoteSummary.Result[0]
	fundamentals := &dto.Fundamentals{}
	if v, ok := result.DefaultKeyStatistics.TrailingEps.Float(); ok {
		fundamentals.TrailingEPS = v
	}
	if v, ok := result.DefaultKeyStatistics.BookValue.Float(); ok {
		fundamentals.BookValuePerShare = v
	}
	if v, ok := result.DefaultKeyStatistics.SharesOut.Float(); ok {
		fundamentals.SharesOutstanding = v
	}
	if v, ok := result.SummaryDetail.MarketCap.Float(); ok {
		fundamentals.MarketCap = v
	} else if price, ok := result.Price.RegularMarketPrice.Float(); ok && fundamentals.SharesOutstanding > 0 {
		fundamentals.MarketCap = price * fundamentals.SharesOutstanding
	}

	r.fundamentalsCache.Set(stockCode, fundamentals, cache.DefaultExpiration)

	return fundamentals, nil
}

func (r *yahooFinanceRepository) sendRequest(ctx context.Context, url string) ([]byte, error) {
	if err := r.requestLimiter.Wait(ctx); err != nil {
		r.log.ErrorContext(ctx, "Failed to wait for request limit", logger.ErrorField(err), logger.StringField("url", url))
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		r.log.ErrorContext(ctx, "Failed to create new http request", logger.ErrorField(err), logger.StringField("url", url))
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36")
	req.Header.Set("Accept", "application/json, text/plain, */*")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		r.log.ErrorContext(ctx, "Failed to send request to Yahoo Finance API", logger.ErrorField(err), logger.StringField("url", url))
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		r.log.ErrorContext(ctx, "Received non-OK response from Yahoo Finance API", logger.IntField("status_code", resp.StatusCode), logger.StringField("url", url))
		return nil, fmt.Errorf("yahoo finance returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		r.log.ErrorContext(ctx, "Failed to read response body from Yahoo Finance API", logger.ErrorField(err), logger.StringField("url", url))
		return nil, err
	}

	return body, nil
}
