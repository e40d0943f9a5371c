package service

import (
	"context"
	"fmt"
	"math"
	"testing"

	"golang-stock-ranker/internal/ranker/config"
	"golang-stock-ranker/internal/ranker/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubMarketData is an in-memory data provider. Stocks missing from the maps
// report unavailability with an error, like the real provider contract.
type stubMarketData struct {
	prices       map[string][]dto.PricePoint
	fundamentals map[string]*dto.Fundamentals
}

func (s *stubMarketData) GetPriceHistory(_ context.Context, stockCode string, _ int) ([]dto.PricePoint, error) {
	prices, ok := s.prices[stockCode]
	if !ok {
		return nil, fmt.Errorf("no price data for %s", stockCode)
	}
	return prices, nil
}

func (s *stubMarketData) GetFundamentals(_ context.Context, stockCode string) (*dto.Fundamentals, error) {
	fundamentals, ok := s.fundamentals[stockCode]
	if !ok {
		return nil, fmt.Errorf("no fundamentals for %s", stockCode)
	}
	return fundamentals, nil
}

func testConfig() *config.Config {
	return &config.Config{
		Ranker: config.Ranker{
			MomentumWindow:     2,
			VolatilityWindow:   2,
			LookbackDays:       10,
			MaxConcurrentFetch: 2,
			TopK:               10,
		},
	}
}

func newTestRanker(t *testing.T, data *stubMarketData) RankerService {
	t.Helper()
	return NewRankerService(testConfig(), testLogger(t), data, nil, nil, nil)
}

func momentumUniverse() *stubMarketData {
	return &stubMarketData{
		prices: map[string][]dto.PricePoint{
			"AAA": pricesFromCloses([]float64{100, 105, 110}), // momentum 0.10
			"BBB": pricesFromCloses([]float64{100, 110, 120}), // momentum 0.20
			"CCC": pricesFromCloses([]float64{100, 115, 130}), // momentum 0.30
		},
		fundamentals: map[string]*dto.Fundamentals{},
	}
}

func TestRankMomentumOnlyOrdering(t *testing.T) {
	svc := newTestRanker(t, momentumUniverse())

	table, err := svc.Rank(context.Background(), &dto.RankRequest{
		Universe: []string{"AAA", "BBB", "CCC"},
		Weights:  map[string]float64{"momentum": 1.0},
	})
	require.NoError(t, err)
	require.Len(t, table.Rows, 3)

	assert.Equal(t, []string{"CCC", "BBB", "AAA"}, rowCodes(table.Rows))
	assert.InDelta(t, 1.0, table.Rows[0].CompositeScore, 1e-9)
	assert.InDelta(t, 0.0, table.Rows[1].CompositeScore, 1e-9)
	assert.InDelta(t, -1.0, table.Rows[2].CompositeScore, 1e-9)
	for i, row := range table.Rows {
		assert.Equal(t, i+1, row.Rank)
	}
}

func TestRankIsDeterministic(t *testing.T) {
	svc := newTestRanker(t, momentumUniverse())
	req := &dto.RankRequest{
		Universe: []string{"CCC", "AAA", "BBB"},
		Weights:  map[string]float64{"momentum": 1.0},
	}

	first, err := svc.Rank(context.Background(), req)
	require.NoError(t, err)
	second, err := svc.Rank(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, first.Rows, second.Rows)
	assert.Equal(t, first.Universe, second.Universe)
}

func TestRankTieBreakByCodeAscending(t *testing.T) {
	flat := pricesFromCloses([]float64{100, 100, 100})
	data := &stubMarketData{
		prices: map[string][]dto.PricePoint{
			"ZZZ": flat,
			"AAA": flat,
			"MMM": flat,
		},
		fundamentals: map[string]*dto.Fundamentals{},
	}
	svc := newTestRanker(t, data)

	table, err := svc.Rank(context.Background(), &dto.RankRequest{
		Universe: []string{"ZZZ", "MMM", "AAA"},
		Weights:  map[string]float64{"momentum": 1.0},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"AAA", "MMM", "ZZZ"}, rowCodes(table.Rows))
}

func TestRankKeepsSecurityWithDataGap(t *testing.T) {
	data := momentumUniverse()
	data.fundamentals = map[string]*dto.Fundamentals{
		"AAA": {MarketCap: 1e9},
		"BBB": {MarketCap: 4e9},
		"GAP": {MarketCap: 9e9},
	}
	// GAP has fundamentals but no price history at all.
	svc := newTestRanker(t, data)

	table, err := svc.Rank(context.Background(), &dto.RankRequest{
		Universe: []string{"AAA", "BBB", "GAP"},
		Weights:  map[string]float64{"momentum": 1.0, "size": 1.0},
	})
	require.NoError(t, err)
	require.Len(t, table.Rows, 3, "a data gap must not shrink the ranked universe")

	var gap *dto.RankedRow
	for i := range table.Rows {
		if table.Rows[i].StockCode == "GAP" {
			gap = &table.Rows[i]
		}
	}
	require.NotNil(t, gap)
	// Momentum fell back, so the score is built from size alone.
	assert.False(t, math.IsNaN(gap.CompositeScore), "composite score must not be NaN")
	assert.NotZero(t, gap.CompositeScore)
}

func TestRankFailsWhenWholeUniverseUnavailable(t *testing.T) {
	svc := newTestRanker(t, &stubMarketData{})

	_, err := svc.Rank(context.Background(), &dto.RankRequest{
		Universe: []string{"AAA", "BBB"},
		Weights:  map[string]float64{"momentum": 1.0},
	})
	assert.Error(t, err)
}

func TestRankFailsOnEmptyUniverse(t *testing.T) {
	svc := newTestRanker(t, momentumUniverse())

	_, err := svc.Rank(context.Background(), &dto.RankRequest{})
	assert.Error(t, err)
}

func TestRankFailsOnUnknownWeightKeyBeforeFetching(t *testing.T) {
	svc := newTestRanker(t, &stubMarketData{}) // would fail if fetched

	_, err := svc.Rank(context.Background(), &dto.RankRequest{
		Universe: []string{"AAA"},
		Weights:  map[string]float64{"sentiment": 1.0},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sentiment")
}

func TestRankCanonicalUniverseOrder(t *testing.T) {
	svc := newTestRanker(t, momentumUniverse())

	table, err := svc.Rank(context.Background(), &dto.RankRequest{
		Universe: []string{"CCC", "AAA", "BBB", "AAA"},
		Weights:  map[string]float64{"momentum": 1.0},
	})
	require.NoError(t, err)

	// Deduplicated and sorted ascending before computation.
	assert.Equal(t, []string{"AAA", "BBB", "CCC"}, table.Universe)
}

func rowCodes(rows []dto.RankedRow) []string {
	codes := make([]string, 0, len(rows))
	for _, r := range rows {
		codes = append(codes, r.StockCode)
	}
	return codes
}
