package common

const (
	// RedisKeyRankingSnapshot stores the latest ranked table as JSON. Only the
	// current snapshot is kept; historical rankings are never persisted.
	RedisKeyRankingSnapshot = "ranking:snapshot:latest"

	// RedisKeyPriceHistory caches raw price history per stock code and lookback.
	RedisKeyPriceHistory = "ranking:prices:%s:%d"
)
