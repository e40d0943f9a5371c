package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"golang-stock-ranker/internal/ranker/config"
	"golang-stock-ranker/internal/ranker/dto"
	"golang-stock-ranker/internal/ranker/repository"
	"golang-stock-ranker/pkg/common"
	"golang-stock-ranker/pkg/logger"
	redisPkg "golang-stock-ranker/pkg/redis"
)

// RankerService runs the full ranking pipeline: fetch, factor computation,
// standardization, composite scoring and sorting.
type RankerService interface {
	// Rank executes one ranking run. Empty request fields fall back to the
	// configured defaults.
	Rank(ctx context.Context, req *dto.RankRequest) (*dto.RankedTable, error)
	// LatestSnapshot returns the cached ranked table as JSON, running a
	// default-configuration rank on a cache miss.
	LatestSnapshot(ctx context.Context) ([]byte, error)
}

// NewRankerService creates the pipeline service. stocksRepo, profileRepo and
// redisClient may be nil in one-shot CLI mode.
func NewRankerService(
	cfg *config.Config,
	log *logger.Logger,
	yahooFinanceRepo repository.YahooFinanceRepository,
	stocksRepo repository.StocksRepository,
	profileRepo repository.RankingProfileRepository,
	redisClient *redisPkg.Client,
) RankerService {
	return &rankerService{
		cfg:              cfg,
		log:              log,
		yahooFinanceRepo: yahooFinanceRepo,
		stocksRepo:       stocksRepo,
		profileRepo:      profileRepo,
		redisClient:      redisClient,
		factorComputer:   NewFactorComputer(log, cfg.Ranker.MomentumWindow, cfg.Ranker.VolatilityWindow),
		standardizer:     NewStandardizer(),
	}
}

type rankerService struct {
	cfg              *config.Config
	log              *logger.Logger
	yahooFinanceRepo repository.YahooFinanceRepository
	stocksRepo       repository.StocksRepository
	profileRepo      repository.RankingProfileRepository
	redisClient      *redisPkg.Client
	factorComputer   *FactorComputer
	standardizer     *Standardizer
}

// Rank executes the pipeline. Configuration errors (unknown weight key,
// empty universe) and whole-universe data failures are fatal; per-security
// gaps degrade to NaN fallback rows that stay in the output.
func (s *rankerService) Rank(ctx context.Context, req *dto.RankRequest) (*dto.RankedTable, error) {
	if req == nil {
		req = &dto.RankRequest{}
	}

	weights, err := s.resolveWeights(ctx, req)
	if err != nil {
		return nil, err
	}

	universe, err := s.resolveUniverse(ctx, req)
	if err != nil {
		return nil, err
	}

	securities, err := s.fetchSecurities(ctx, universe)
	if err != nil {
		return nil, err
	}

	factors := s.factorComputer.ComputeAll(securities)
	zscores := s.standardizer.Standardize(factors)
	composites := NewCompositeScorer(weights).Score(zscores)

	rows := make([]dto.RankedRow, 0, len(universe))
	for i := range universe {
		rows = append(rows, dto.RankedRow{
			StockCode:      universe[i],
			Factors:        factors[i],
			ZScores:        zscores[i],
			CompositeScore: composites[i].CompositeScore,
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].CompositeScore != rows[j].CompositeScore {
			return rows[i].CompositeScore > rows[j].CompositeScore
		}
		return rows[i].StockCode < rows[j].StockCode
	})
	for i := range rows {
		rows[i].Rank = i + 1
	}

	table := &dto.RankedTable{
		GeneratedAt: time.Now().UTC(),
		Universe:    universe,
		Rows:        rows,
	}

	s.cacheSnapshot(ctx, table)

	s.log.InfoContext(ctx, "Ranking run completed",
		logger.IntField("universe_size", len(universe)),
		logger.StringField("top", topCode(rows)))

	return table, nil
}

// LatestSnapshot serves the cached table when present so API reads stay
// cheap between scheduled re-ranks.
func (s *rankerService) LatestSnapshot(ctx context.Context) ([]byte, error) {
	if s.redisClient != nil {
		cached, err := s.redisClient.Get(ctx, common.RedisKeyRankingSnapshot).Bytes()
		if err == nil && len(cached) > 0 {
			return cached, nil
		}
	}

	table, err := s.Rank(ctx, &dto.RankRequest{})
	if err != nil {
		return nil, err
	}
	return json.Marshal(table)
}

// resolveWeights picks the weight set for a run: stored profile, explicit
// request weights, then configuration defaults. Validation failures abort
// before any data is fetched.
func (s *rankerService) resolveWeights(ctx context.Context, req *dto.RankRequest) (Weights, error) {
	if req.Profile != "" {
		if s.profileRepo == nil {
			return Weights{}, fmt.Errorf("ranking profiles unavailable without a database")
		}
		profile, err := s.profileRepo.FindByName(ctx, req.Profile)
		if err != nil {
			return Weights{}, fmt.Errorf("load profile %q: %w", req.Profile, err)
		}
		var raw map[string]float64
		if err := json.Unmarshal(profile.Weights, &raw); err != nil {
			return Weights{}, fmt.Errorf("profile %q has malformed weights: %w", req.Profile, err)
		}
		if req.TopK <= 0 {
			req.TopK = profile.TopK
		}
		return ParseWeights(raw)
	}
	if len(req.Weights) > 0 {
		return ParseWeights(req.Weights)
	}
	return ParseWeights(s.cfg.Ranker.Weights)
}

// resolveUniverse returns the deduplicated universe in canonical (ascending)
// order so downstream stages are deterministic regardless of fetch order.
func (s *rankerService) resolveUniverse(ctx context.Context, req *dto.RankRequest) ([]string, error) {
	codes := req.Universe
	if len(codes) == 0 {
		codes = s.cfg.Ranker.Universe
	}
	if len(codes) == 0 && s.stocksRepo != nil {
		dbCodes, err := s.stocksRepo.GetCodes(ctx)
		if err != nil {
			return nil, fmt.Errorf("load universe from database: %w", err)
		}
		codes = dbCodes
	}

	seen := make(map[string]struct{}, len(codes))
	universe := make([]string, 0, len(codes))
	for _, code := range codes {
		if code == "" {
			continue
		}
		if _, ok := seen[code]; ok {
			continue
		}
		seen[code] = struct{}{}
		universe = append(universe, code)
	}
	sort.Strings(universe)

	if len(universe) == 0 {
		return nil, fmt.Errorf("universe is empty: configure ranker.universe or populate the stocks table")
	}
	return universe, nil
}

// fetchSecurities retrieves prices and fundamentals for the whole universe
// with bounded concurrency. Results land in a slice indexed by universe
// position, so the output order never depends on goroutine scheduling.
// A failed stock keeps its slot with empty data; only a universe where
// every stock failed is fatal.
func (s *rankerService) fetchSecurities(ctx context.Context, universe []string) ([]dto.Security, error) {
	securities := make([]dto.Security, len(universe))
	var wg sync.WaitGroup
	var okCount int64
	var mu sync.Mutex
	sem := make(chan struct{}, s.cfg.Ranker.MaxConcurrentFetch)

	for i, code := range universe {
		wg.Add(1)
		go func(i int, code string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			sec := dto.Security{StockCode: code}

			prices, err := s.yahooFinanceRepo.GetPriceHistory(ctx, code, s.cfg.Ranker.LookbackDays)
			if err != nil {
				s.log.Warn("Price history unavailable, stock falls back to NaN factors",
					logger.ErrorField(err), logger.StringField("stock_code", code))
			} else {
				sec.Prices = prices
			}

			fundamentals, err := s.yahooFinanceRepo.GetFundamentals(ctx, code)
			if err != nil {
				s.log.Warn("Fundamentals unavailable, value and size factors fall back to NaN",
					logger.ErrorField(err), logger.StringField("stock_code", code))
			} else {
				sec.Fundamentals = fundamentals
			}

			if sec.Prices != nil || sec.Fundamentals != nil {
				mu.Lock()
				okCount++
				mu.Unlock()
			}
			securities[i] = sec
		}(i, code)
	}
	wg.Wait()

	if okCount == 0 {
		return nil, fmt.Errorf("data provider returned nothing for all %d stocks", len(universe))
	}
	return securities, nil
}

func (s *rankerService) cacheSnapshot(ctx context.Context, table *dto.RankedTable) {
	if s.redisClient == nil {
		return
	}
	payload, err := json.Marshal(table)
	if err != nil {
		s.log.Error("Failed to marshal ranking snapshot", logger.ErrorField(err))
		return
	}
	if err := s.redisClient.Set(ctx, common.RedisKeyRankingSnapshot, payload, s.cfg.Ranker.SnapshotCacheTTL).Err(); err != nil {
		s.log.Error("Failed to cache ranking snapshot", logger.ErrorField(err))
	}
}

func topCode(rows []dto.RankedRow) string {
	if len(rows) == 0 {
		return ""
	}
	return rows[0].StockCode
}
