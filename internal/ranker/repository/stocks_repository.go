package repository

import (
	"context"

	"golang-stock-ranker/internal/entity"

	"gorm.io/gorm"
)

// StocksRepository defines access to the universe watchlist.
type StocksRepository interface {
	GetStocks(ctx context.Context) ([]entity.Stock, error)
	GetCodes(ctx context.Context) ([]string, error)
}

// NewStocksRepository creates a new GORM-based stocks repository.
func NewStocksRepository(db *gorm.DB) StocksRepository {
	return &stocksRepository{db: db}
}

type stocksRepository struct {
	db *gorm.DB
}

// GetStocks retrieves the full watchlist ordered by code so ranking runs see
// a canonical universe order.
func (s *stocksRepository) GetStocks(ctx context.Context) ([]entity.Stock, error) {
	var stocks []entity.Stock
	if err := s.db.WithContext(ctx).Order("code asc").Find(&stocks).Error; err != nil {
		return nil, err
	}
	return stocks, nil
}

// GetCodes retrieves only the stock codes, ordered ascending.
func (s *stocksRepository) GetCodes(ctx context.Context) ([]string, error) {
	var codes []string
	if err := s.db.WithContext(ctx).Model(&entity.Stock{}).Order("code asc").Pluck("code", &codes).Error; err != nil {
		return nil, err
	}
	return codes, nil
}
