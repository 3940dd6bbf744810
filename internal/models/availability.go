package models

import "time"

// Availability is the provider-wide default for one weekday
// (0 = Monday ... 6 = Sunday). A missing weekday means closed.
type Availability struct {
	ID         uint `gorm:"primaryKey" json:"id"`
	ProviderID uint `gorm:"uniqueIndex:idx_availability_provider_day;not null" json:"provider_id"`
	DayOfWeek  int  `gorm:"uniqueIndex:idx_availability_provider_day;not null" json:"day_of_week"`

	StartTime   string `gorm:"size:5" json:"start_time"`
	EndTime     string `gorm:"size:5" json:"end_time"`
	IsAvailable bool   `json:"is_available"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ServiceAvailability replaces the provider default for its service on
// that weekday.
type ServiceAvailability struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	ServiceID uint `gorm:"uniqueIndex:idx_service_availability_day;not null" json:"service_id"`
	DayOfWeek int  `gorm:"uniqueIndex:idx_service_availability_day;not null" json:"day_of_week"`

	StartTime   string `gorm:"size:5" json:"start_time"`
	EndTime     string `gorm:"size:5" json:"end_time"`
	IsAvailable bool   `json:"is_available"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type StaffAvailability struct {
	ID            uint `gorm:"primaryKey" json:"id"`
	StaffMemberID uint `gorm:"uniqueIndex:idx_staff_availability_day;not null" json:"staff_member_id"`
	DayOfWeek     int  `gorm:"uniqueIndex:idx_staff_availability_day;not null" json:"day_of_week"`

	StartTime   string `gorm:"size:5" json:"start_time"`
	EndTime     string `gorm:"size:5" json:"end_time"`
	IsAvailable bool   `json:"is_available"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
