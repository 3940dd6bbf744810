// Package testutil builds in-memory databases and fixtures for tests.
package testutil

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"github.com/slotbook/booking-saas/internal/db"
	"github.com/slotbook/booking-saas/internal/models"
	"github.com/slotbook/booking-saas/internal/timezone"
)

// IST is the business timezone used throughout the tests.
var IST = timezone.Location(timezone.DefaultTimezone)

// NewDB opens a private in-memory sqlite database with the production
// migrations applied. A single connection keeps every goroutine on the
// same database.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.Migrate(gdb))
	return gdb
}

// At builds a wall-clock instant in IST.
func At(year int, month time.Month, day, hour, min int) time.Time {
	return time.Date(year, month, day, hour, min, 0, 0, IST)
}

// --------------------------------------------------
// Fixtures
// --------------------------------------------------

func CreateProvider(t *testing.T, gdb *gorm.DB, slug string, plan string) *models.Provider {
	t.Helper()

	p := &models.Provider{
		BusinessName: "Provider " + slug,
		Slug:         slug,
		CurrentPlan:  plan,
	}
	require.NoError(t, gdb.Create(p).Error)
	return p
}

func CreateService(t *testing.T, gdb *gorm.DB, providerID uint, name string, minutes int) *models.Service {
	t.Helper()

	svc := &models.Service{
		ProviderID:      providerID,
		Name:            name,
		DurationMinutes: minutes,
		Price:           decimal.NewFromInt(500),
	}
	require.NoError(t, gdb.Create(svc).Error)
	return svc
}

// SetWeek writes the same open hours for each given weekday.
func SetWeek(t *testing.T, gdb *gorm.DB, providerID uint, start, end string, days ...time.Weekday) {
	t.Helper()

	for _, d := range days {
		require.NoError(t, gdb.Create(&models.Availability{
			ProviderID:  providerID,
			DayOfWeek:   timezone.DayIndex(d),
			StartTime:   start,
			EndTime:     end,
			IsAvailable: true,
		}).Error)
	}
}

// CreateAppointment inserts a row directly, bypassing quota and validation.
func CreateAppointment(t *testing.T, gdb *gorm.DB, ap *models.Appointment) *models.Appointment {
	t.Helper()

	if ap.Reference == "" {
		ap.Reference = uuid.NewString()
	}
	if ap.Status == "" {
		ap.Status = "confirmed"
	}
	if ap.PaymentStatus == "" {
		ap.PaymentStatus = "pending"
	}
	if ap.ClientName == "" {
		ap.ClientName = "Walk-in"
	}
	require.NoError(t, gdb.Omit(clause.Associations).Create(ap).Error)
	return ap
}
