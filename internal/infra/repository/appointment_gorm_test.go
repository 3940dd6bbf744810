package repository

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/slotbook/booking-saas/internal/domain/appointment"
	"github.com/slotbook/booking-saas/internal/domain/provider"
	"github.com/slotbook/booking-saas/internal/httperr"
	"github.com/slotbook/booking-saas/internal/models"
	"github.com/slotbook/booking-saas/internal/testutil"
	"github.com/slotbook/booking-saas/internal/timezone"
)

func newAppointment(p *models.Provider, svc *models.Service, date, hm string) *models.Appointment {
	return &models.Appointment{
		Reference:       date + "-" + hm + "-" + p.Slug,
		ProviderID:      p.ID,
		ServiceID:       svc.ID,
		ClientName:      "Asha",
		AppointmentDate: date,
		AppointmentTime: hm,
		Status:          string(domain.StatusPending),
		PaymentStatus:   string(domain.PaymentPending),
		TotalPrice:      decimal.NewFromInt(500),
	}
}

func TestCreateAdmitted_QuotaAndCounter(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewAppointmentGormRepository(db)
	ctx := context.Background()

	p := testutil.CreateProvider(t, db, "glow", "free")
	svc := testutil.CreateService(t, db, p.ID, "Haircut", 30)
	adm := provider.Admission{Period: "2025-01", Limit: 2}

	require.NoError(t, repo.CreateAdmitted(ctx, newAppointment(p, svc, "2025-01-06", "09:00"), adm))
	require.NoError(t, repo.CreateAdmitted(ctx, newAppointment(p, svc, "2025-01-06", "09:30"), adm))

	err := repo.CreateAdmitted(ctx, newAppointment(p, svc, "2025-01-06", "10:00"), adm)
	assert.True(t, httperr.IsBusiness(err, "quota_exceeded"))

	got, err := repo.GetProviderByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.AppointmentsThisMonth)
	assert.Equal(t, "2025-01", got.CounterPeriod)

	taken, err := repo.IsSlotTaken(ctx, p.ID, 0, "2025-01-06", "10:00")
	require.NoError(t, err)
	assert.False(t, taken, "rejected booking must leave no row")
}

func TestCreateAdmitted_StalePeriodStartsAtOne(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewAppointmentGormRepository(db)
	ctx := context.Background()

	p := testutil.CreateProvider(t, db, "glow", "free")
	svc := testutil.CreateService(t, db, p.ID, "Haircut", 30)
	require.NoError(t, db.Model(p).Updates(map[string]any{
		"appointments_this_month": 5,
		"counter_period":          "2024-12",
	}).Error)

	err := repo.CreateAdmitted(ctx, newAppointment(p, svc, "2025-01-06", "09:00"), provider.Admission{Period: "2025-01", Limit: 5})
	require.NoError(t, err)

	got, err := repo.GetProviderByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.AppointmentsThisMonth)
	assert.Equal(t, "2025-01", got.CounterPeriod)
}

func TestCreateAdmitted_UnlimitedIgnoresLimit(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewAppointmentGormRepository(db)
	ctx := context.Background()

	p := testutil.CreateProvider(t, db, "glow", "pro")
	svc := testutil.CreateService(t, db, p.ID, "Haircut", 30)
	adm := provider.Admission{Period: "2025-01", Limit: 1, Unlimited: true}

	for _, hm := range []string{"09:00", "09:30", "10:00"} {
		require.NoError(t, repo.CreateAdmitted(ctx, newAppointment(p, svc, "2025-01-06", hm), adm))
	}

	got, err := repo.GetProviderByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, got.AppointmentsThisMonth)
}

func TestCreateAdmitted_ActiveSlotUniqueness(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewAppointmentGormRepository(db)
	ctx := context.Background()

	p := testutil.CreateProvider(t, db, "glow", "free")
	other := testutil.CreateProvider(t, db, "other", "free")
	svc := testutil.CreateService(t, db, p.ID, "Haircut", 30)
	otherSvc := testutil.CreateService(t, db, other.ID, "Haircut", 30)
	adm := provider.Admission{Period: "2025-01", Limit: 5}

	first := newAppointment(p, svc, "2025-01-06", "09:00")
	require.NoError(t, repo.CreateAdmitted(ctx, first, adm))

	dup := newAppointment(p, svc, "2025-01-06", "09:00")
	dup.Reference = "dup"
	err := repo.CreateAdmitted(ctx, dup, adm)
	assert.True(t, httperr.IsBusiness(err, "slot_taken"))

	got, err := repo.GetProviderByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.AppointmentsThisMonth, "counter rolls back with the insert")

	t.Run("other provider same slot", func(t *testing.T) {
		require.NoError(t, repo.CreateAdmitted(ctx, newAppointment(other, otherSvc, "2025-01-06", "09:00"), adm))
	})

	t.Run("cancelled slot can be rebooked", func(t *testing.T) {
		first.Status = string(domain.StatusCancelled)
		require.NoError(t, repo.TransitionAppointment(ctx, first, string(domain.StatusPending)))

		again := newAppointment(p, svc, "2025-01-06", "09:00")
		again.Reference = "again"
		require.NoError(t, repo.CreateAdmitted(ctx, again, adm))
	})

	t.Run("separate staff calendars", func(t *testing.T) {
		a := newAppointment(p, svc, "2025-01-07", "11:00")
		a.Reference, a.SlotStaffKey = "staff-1", 1
		b := newAppointment(p, svc, "2025-01-07", "11:00")
		b.Reference, b.SlotStaffKey = "staff-2", 2

		require.NoError(t, repo.CreateAdmitted(ctx, a, adm))
		require.NoError(t, repo.CreateAdmitted(ctx, b, adm))
	})
}

func TestTransitionAppointment_StaleStatus(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewAppointmentGormRepository(db)
	ctx := context.Background()

	p := testutil.CreateProvider(t, db, "glow", "free")
	svc := testutil.CreateService(t, db, p.ID, "Haircut", 30)
	ap := testutil.CreateAppointment(t, db, newAppointment(p, svc, "2025-01-06", "09:00"))

	cancelled, err := repo.GetAppointmentForProvider(ctx, ap.ID, p.ID)
	require.NoError(t, err)
	confirmed, err := repo.GetAppointmentForProvider(ctx, ap.ID, p.ID)
	require.NoError(t, err)

	now := time.Now()
	cancelled.Status, cancelled.CancelledAt = string(domain.StatusCancelled), &now
	require.NoError(t, repo.TransitionAppointment(ctx, cancelled, string(domain.StatusPending)))

	confirmed.Status = string(domain.StatusConfirmed)
	err = repo.TransitionAppointment(ctx, confirmed, string(domain.StatusPending))
	assert.True(t, httperr.IsBusiness(err, "invalid_state"))

	got, err := repo.GetAppointmentForProvider(ctx, ap.ID, p.ID)
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusCancelled), got.Status)
	assert.NotNil(t, got.CancelledAt)
}

func TestSavePriceLockedAfterPayment(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewAppointmentGormRepository(db)
	ctx := context.Background()

	p := testutil.CreateProvider(t, db, "glow", "free")
	svc := testutil.CreateService(t, db, p.ID, "Haircut", 30)
	ap := testutil.CreateAppointment(t, db, newAppointment(p, svc, "2025-01-06", "09:00"))

	stale, err := repo.GetAppointmentForProvider(ctx, ap.ID, p.ID)
	require.NoError(t, err)

	stale.TotalPrice = decimal.NewFromInt(700)
	require.NoError(t, repo.SavePrice(ctx, stale))

	ap.PaymentStatus, ap.PaymentMethod = string(domain.PaymentPaid), "cash"
	require.NoError(t, repo.SavePayment(ctx, ap))

	stale.TotalPrice = decimal.NewFromInt(900)
	assert.True(t, httperr.IsBusiness(repo.SavePrice(ctx, stale), "price_locked"))

	got, err := repo.GetAppointmentForProvider(ctx, ap.ID, p.ID)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(700).Equal(got.TotalPrice))
	assert.Equal(t, "cash", got.PaymentMethod)
	assert.Equal(t, string(domain.StatusPending), got.Status)
}

func TestListBookedTimes_ActiveOnly(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewAppointmentGormRepository(db)
	ctx := context.Background()

	p := testutil.CreateProvider(t, db, "glow", "free")
	svc := testutil.CreateService(t, db, p.ID, "Haircut", 30)

	for hm, status := range map[string]string{
		"09:00": "pending",
		"09:30": "confirmed",
		"10:00": "cancelled",
		"10:30": "completed",
		"11:00": "no_show",
	} {
		testutil.CreateAppointment(t, db, &models.Appointment{
			ProviderID: p.ID, ServiceID: svc.ID,
			AppointmentDate: "2025-01-06", AppointmentTime: hm, Status: status,
		})
	}

	booked, err := repo.ListBookedTimes(ctx, p.ID, 0, "2025-01-06")
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"09:00": true, "09:30": true}, booked)
}

func TestListAppointmentsForPeriod_HalfOpen(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewAppointmentGormRepository(db)
	ctx := context.Background()

	p := testutil.CreateProvider(t, db, "glow", "free")
	svc := testutil.CreateService(t, db, p.ID, "Haircut", 30)
	for _, d := range []string{"2024-12-31", "2025-01-01", "2025-01-31", "2025-02-01"} {
		testutil.CreateAppointment(t, db, &models.Appointment{
			ProviderID: p.ID, ServiceID: svc.ID, AppointmentDate: d, AppointmentTime: "09:00",
		})
	}

	apps, err := repo.ListAppointmentsForPeriod(ctx, p.ID, "2025-01-01", "2025-02-01")
	require.NoError(t, err)
	require.Len(t, apps, 2)
	assert.Equal(t, "2025-01-01", apps[0].AppointmentDate)
	assert.Equal(t, "Haircut", apps[0].Service.Name)
}

func TestDueRemindersAndMark(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewAppointmentGormRepository(db)
	ctx := context.Background()

	p := testutil.CreateProvider(t, db, "glow", "pro")
	svc := testutil.CreateService(t, db, p.ID, "Haircut", 30)
	due := testutil.CreateAppointment(t, db, &models.Appointment{
		ProviderID: p.ID, ServiceID: svc.ID, AppointmentDate: "2025-01-07", AppointmentTime: "09:00",
	})
	testutil.CreateAppointment(t, db, &models.Appointment{
		ProviderID: p.ID, ServiceID: svc.ID, AppointmentDate: "2025-01-07", AppointmentTime: "10:00", Status: "cancelled",
	})

	apps, err := repo.ListDueReminders(ctx, "2025-01-07")
	require.NoError(t, err)
	require.Len(t, apps, 1)
	assert.Equal(t, "pro", apps[0].Provider.CurrentPlan)

	require.NoError(t, repo.MarkReminderSent(ctx, due.ID))
	apps, err = repo.ListDueReminders(ctx, "2025-01-07")
	require.NoError(t, err)
	assert.Empty(t, apps)
}

func TestHoursLookups(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewAppointmentGormRepository(db)
	ctx := context.Background()

	p := testutil.CreateProvider(t, db, "glow", "free")
	svc := testutil.CreateService(t, db, p.ID, "Haircut", 30)

	require.NoError(t, repo.ReplaceProviderHours(ctx, p.ID, []models.Availability{
		{DayOfWeek: timezone.DayIndex(time.Monday), StartTime: "09:00", EndTime: "17:00", IsAvailable: true},
		{DayOfWeek: timezone.DayIndex(time.Sunday), StartTime: "09:00", EndTime: "17:00", IsAvailable: false},
	}))
	require.NoError(t, repo.ReplaceServiceHours(ctx, svc.ID, []models.ServiceAvailability{
		{DayOfWeek: timezone.DayIndex(time.Tuesday), StartTime: "10:00", EndTime: "14:00", IsAvailable: true},
	}))

	mon, err := repo.ProviderHours(ctx, p.ID, timezone.DayIndex(time.Monday))
	require.NoError(t, err)
	assert.Equal(t, domain.Present(domain.LayerProvider, domain.DayHours{Start: 540, End: 1020, Open: true}), mon)

	sun, err := repo.ProviderHours(ctx, p.ID, timezone.DayIndex(time.Sunday))
	require.NoError(t, err)
	assert.True(t, sun.Found)
	assert.False(t, sun.Hours.Open)

	sat, err := repo.ProviderHours(ctx, p.ID, timezone.DayIndex(time.Saturday))
	require.NoError(t, err)
	assert.Equal(t, domain.Absent(domain.LayerProvider), sat)

	tue, err := repo.ServiceHours(ctx, svc.ID, timezone.DayIndex(time.Tuesday))
	require.NoError(t, err)
	assert.Equal(t, 600, tue.Hours.Start)

	staff, err := repo.StaffHours(ctx, 99, timezone.DayIndex(time.Tuesday))
	require.NoError(t, err)
	assert.False(t, staff.Found)

	// replacing drops days no longer present
	require.NoError(t, repo.ReplaceProviderHours(ctx, p.ID, nil))
	mon, err = repo.ProviderHours(ctx, p.ID, timezone.DayIndex(time.Monday))
	require.NoError(t, err)
	assert.False(t, mon.Found)
}
