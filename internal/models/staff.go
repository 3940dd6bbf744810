package models

import "time"

type StaffMember struct {
	ID         uint `gorm:"primaryKey" json:"id"`
	ProviderID uint `gorm:"index;not null" json:"provider_id"`

	Name         string `gorm:"size:200;not null" json:"name"`
	Email        string `gorm:"size:100" json:"email"`
	Phone        string `gorm:"size:20" json:"phone"`
	Active       bool   `gorm:"default:true" json:"active"`
	DisplayOrder int    `gorm:"default:0" json:"display_order"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
