package repository

import (
	"context"

	"golang-stock-ranker/internal/entity"

	"gorm.io/gorm"
)

// RankingProfileRepository defines the interface for ranking profile data
// operations.
type RankingProfileRepository interface {
	Create(ctx context.Context, profile *entity.RankingProfile) error
	FindByID(ctx context.Context, id uint) (*entity.RankingProfile, error)
	FindByName(ctx context.Context, name string) (*entity.RankingProfile, error)
	FindAll(ctx context.Context) ([]entity.RankingProfile, error)
	Update(ctx context.Context, profile *entity.RankingProfile) error
	Delete(ctx context.Context, id uint) error
}

// NewRankingProfileRepository creates a new GORM-based profile repository.
func NewRankingProfileRepository(db *gorm.DB) RankingProfileRepository {
	return &rankingProfileRepository{db: db}
}

type rankingProfileRepository struct {
	db *gorm.DB
}

// Create creates a new ranking profile.
func (r *rankingProfileRepository) Create(ctx context.Context, profile *entity.RankingProfile) error {
	return r.db.WithContext(ctx).Create(profile).Error
}

// FindByID retrieves a profile by its ID.
func (r *rankingProfileRepository) FindByID(ctx context.Context, id uint) (*entity.RankingProfile, error) {
	var profile entity.RankingProfile
	if err := r.db.WithContext(ctx).First(&profile, id).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// FindByName retrieves a profile by its unique name.
func (r *rankingProfileRepository) FindByName(ctx context.Context, name string) (*entity.RankingProfile, error) {
	var profile entity.RankingProfile
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// FindAll retrieves all profiles ordered by name.
func (r *rankingProfileRepository) FindAll(ctx context.Context) ([]entity.RankingProfile, error) {
	var profiles []entity.RankingProfile
	if err := r.db.WithContext(ctx).Order("name asc").Find(&profiles).Error; err != nil {
		return nil, err
	}
	return profiles, nil
}

// Update saves an existing profile.
func (r *rankingProfileRepository) Update(ctx context.Context, profile *entity.RankingProfile) error {
	return r.db.WithContext(ctx).Save(profile).Error
}

// Delete removes a profile.
func (r *rankingProfileRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&entity.RankingProfile{}, id).Error
}
