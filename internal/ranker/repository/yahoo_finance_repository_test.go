package repository

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"golang-stock-ranker/internal/ranker/config"
	"golang-stock-ranker/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const chartPayload = `{
  "chart": {
    "result": [{
      "meta": {"symbol": "AAPL", "regularMarketPrice": 103.0},
      "timestamp": [1700000000, 1700086400, 1700172800],
      "indicators": {"quote": [{"close": [101.0, null, 103.0]}]}
    }],
    "error": null
  }
}`

const quoteSummaryPayload = `{
  "quoteSummary": {
    "result": [{
      "defaultKeyStatistics": {
        "trailingEps": {"raw": 6.42, "fmt": "6.42"},
        "bookValue": {"raw": 4.25, "fmt": "4.25"},
        "sharesOutstanding": {"raw": 15000000000, "fmt": "15B"}
      },
      "summaryDetail": {
        "marketCap": {"raw": 2800000000000, "fmt": "2.8T"}
      },
      "price": {
        "regularMarketPrice": {"raw": 186.4, "fmt": "186.40"}
      }
    }],
    "error": null
  }
}`

func newTestRepository(t *testing.T, handler http.Handler) YahooFinanceRepository {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := &config.Config{
		YahooFinance: config.YahooFinance{
			BaseURL:              server.URL,
			MaxRequestPerMinute:  600,
			PriceCacheTTL:        time.Minute,
			FundamentalsCacheTTL: time.Minute,
		},
	}
	log, err := logger.New("error", "json")
	require.NoError(t, err)

	repo, err := NewYahooFinanceRepository(cfg, log, nil)
	require.NoError(t, err)
	return repo
}

func TestGetPriceHistoryParsesChart(t *testing.T) {
	repo := newTestRepository(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "/v8/finance/chart/AAPL")
		fmt.Fprint(w, chartPayload)
	}))

	prices, err := repo.GetPriceHistory(context.Background(), "AAPL", 30)
	require.NoError(t, err)

	// The null close (halted session) is skipped, not zero-filled.
	require.Len(t, prices, 2)
	assert.Equal(t, 101.0, prices[0].Close)
	assert.Equal(t, 103.0, prices[1].Close)
	assert.True(t, prices[0].Date.Before(prices[1].Date))
}

func TestGetPriceHistoryReportsUnavailability(t *testing.T) {
	repo := newTestRepository(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	_, err := repo.GetPriceHistory(context.Background(), "NOPE", 30)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "NOPE")
}

func TestGetFundamentalsParsesQuoteSummary(t *testing.T) {
	repo := newTestRepository(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "/v10/finance/quoteSummary/AAPL")
		fmt.Fprint(w, quoteSummaryPayload)
	}))

	fundamentals, err := repo.GetFundamentals(context.Background(), "AAPL")
	require.NoError(t, err)

	assert.Equal(t, 6.42, fundamentals.TrailingEPS)
	assert.Equal(t, 4.25, fundamentals.BookValuePerShare)
	assert.Equal(t, 2.8e12, fundamentals.MarketCap)
	assert.Equal(t, 1.5e10, fundamentals.SharesOutstanding)
}

func TestGetFundamentalsUsesInMemoryCache(t *testing.T) {
	var calls int
	repo := newTestRepository(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		fmt.Fprint(w, quoteSummaryPayload)
	}))

	_, err := repo.GetFundamentals(context.Background(), "AAPL")
	require.NoError(t, err)
	_, err = repo.GetFundamentals(context.Background(), "AAPL")
	require.NoError(t, err)

	assert.Equal(t, 1, calls)
}

func TestGetFundamentalsDerivesMarketCapFromShares(t *testing.T) {
	payload := strings.Replace(quoteSummaryPayload, `"marketCap": {"raw": 2800000000000, "fmt": "2.8T"}`, `"marketCap": {}`, 1)
	repo := newTestRepository(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, payload)
	}))

	fundamentals, err := repo.GetFundamentals(context.Background(), "AAPL")
	require.NoError(t, err)

	assert.InDelta(t, 186.4*1.5e10, fundamentals.MarketCap, 1)
}
