package db

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/slotbook/booking-saas/internal/models"
)

// activeSlotIndex admits at most one pending/confirmed appointment per
// provider calendar slot. Both postgres and sqlite support partial indexes.
const activeSlotIndex = `
CREATE UNIQUE INDEX IF NOT EXISTS uniq_active_appointment_slot
ON appointments (provider_id, slot_staff_key, appointment_date, appointment_time)
WHERE status IN ('pending', 'confirmed')`

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.Provider{},
		&models.Service{},
		&models.Availability{},
		&models.ServiceAvailability{},
		&models.StaffMember{},
		&models.StaffAvailability{},
		&models.Client{},
		&models.Appointment{},
		&models.AuditLog{},
	); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	if err := db.Exec(activeSlotIndex).Error; err != nil {
		return fmt.Errorf("create active slot index: %w", err)
	}

	return nil
}
