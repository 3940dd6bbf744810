package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Appointment struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	Reference string `gorm:"size:36;uniqueIndex" json:"reference"`

	ProviderID uint     `gorm:"index;not null" json:"provider_id"`
	Provider   Provider `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	ServiceID uint    `gorm:"not null" json:"service_id"`
	Service   Service `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"service"`

	StaffMemberID *uint `json:"staff_member_id"`
	// SlotStaffKey is the staff id when staff book in parallel, 0 when the
	// whole provider shares one calendar. Part of the active-slot unique index.
	SlotStaffKey uint `gorm:"not null;default:0" json:"-"`

	ClientID    *uint  `json:"client_id"`
	ClientName  string `gorm:"size:200;not null" json:"client_name"`
	ClientPhone string `gorm:"size:20" json:"client_phone"`
	ClientEmail string `gorm:"size:100" json:"client_email"`

	AppointmentDate string `gorm:"size:10;not null;index:idx_appointment_date_time" json:"appointment_date"`
	AppointmentTime string `gorm:"size:5;not null;index:idx_appointment_date_time" json:"appointment_time"`

	Status        string          `gorm:"size:20;default:'pending'" json:"status"`
	PaymentStatus string          `gorm:"size:20;default:'pending'" json:"payment_status"`
	PaymentMethod string          `gorm:"size:20" json:"payment_method"`
	TotalPrice    decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total_price"`

	Notes        string     `gorm:"type:text" json:"notes"`
	ReminderSent bool       `gorm:"default:false" json:"reminder_sent"`
	CancelledAt  *time.Time `json:"cancelled_at"`
	CompletedAt  *time.Time `json:"completed_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
