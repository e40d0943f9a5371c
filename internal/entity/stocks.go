package entity

import (
	"time"

	"gorm.io/gorm"
)

// Stock is one row of the ranking universe watchlist.
type Stock struct {
	ID        uint           `gorm:"primaryKey"`
	Code      string         `gorm:"uniqueIndex;not null"`
	Name      string         `gorm:"not null"`
	CreatedAt time.Time      `gorm:"autoCreateTime"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
}
