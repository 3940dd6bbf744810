package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Service struct {
	ID         uint `gorm:"primaryKey" json:"id"`
	ProviderID uint `gorm:"index;not null" json:"provider_id"`

	Name            string          `gorm:"size:200;not null" json:"name"`
	Description     string          `gorm:"type:text" json:"description"`
	DurationMinutes int             `gorm:"not null" json:"duration_minutes"`
	Price           decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	Active          bool            `gorm:"default:true" json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
