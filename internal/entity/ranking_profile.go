package entity

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// RankingProfile is a named factor weight configuration. Weights holds a
// JSON object mapping weight keys (momentum, volatility, value, size) to
// signed real numbers.
type RankingProfile struct {
	ID        uint           `gorm:"primaryKey"`
	Name      string         `gorm:"uniqueIndex;not null"`
	Weights   datatypes.JSON `gorm:"not null"`
	TopK      int            `gorm:"default:10"`
	CreatedAt time.Time      `gorm:"autoCreateTime"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
}
