package models

import "time"

type Provider struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	BusinessName string `gorm:"size:200;not null" json:"business_name"`
	Slug         string `gorm:"size:100;uniqueIndex;not null" json:"slug"`
	Phone        string `gorm:"size:20" json:"phone"`
	Email        string `gorm:"size:100" json:"email"`

	AcceptingAppointments bool `gorm:"default:true" json:"accepting_appointments"`
	IsActive              bool `gorm:"default:true" json:"is_active"`

	CurrentPlan   string     `gorm:"size:10;default:'free'" json:"current_plan"`
	PlanStartDate *time.Time `json:"plan_start_date"`
	PlanEndDate   *time.Time `json:"plan_end_date"`

	// AppointmentsThisMonth only counts toward CounterPeriod ("2006-01");
	// a stale period reads as zero.
	AppointmentsThisMonth int        `gorm:"not null;default:0" json:"appointments_this_month"`
	CounterPeriod         string     `gorm:"size:7" json:"counter_period"`
	LastResetDate         *time.Time `json:"last_reset_date"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
