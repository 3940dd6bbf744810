package appointment

import (
	"context"

	"github.com/slotbook/booking-saas/internal/domain/provider"
	"github.com/slotbook/booking-saas/internal/models"
)

// HoursStore is the availability store: one read per layer and weekday.
type HoursStore interface {
	ProviderHours(ctx context.Context, providerID uint, day int) (HoursLookup, error)
	ServiceHours(ctx context.Context, serviceID uint, day int) (HoursLookup, error)
	StaffHours(ctx context.Context, staffID uint, day int) (HoursLookup, error)
}

// HoursWriter replaces a whole week of rows for one owner.
type HoursWriter interface {
	ReplaceProviderHours(ctx context.Context, providerID uint, rows []models.Availability) error
	ReplaceServiceHours(ctx context.Context, serviceID uint, rows []models.ServiceAvailability) error
	ReplaceStaffHours(ctx context.Context, staffID uint, rows []models.StaffAvailability) error
}

type Repository interface {
	// -------- Provider / catalogue --------
	GetProviderByID(
		ctx context.Context,
		id uint,
	) (*models.Provider, error)

	GetService(
		ctx context.Context,
		providerID uint,
		serviceID uint,
	) (*models.Service, error)

	GetStaffMember(
		ctx context.Context,
		providerID uint,
		staffID uint,
	) (*models.StaffMember, error)

	GetClient(
		ctx context.Context,
		providerID uint,
		clientID uint,
	) (*models.Client, error)

	// -------- Conflict checks --------
	IsSlotTaken(
		ctx context.Context,
		providerID uint,
		staffKey uint,
		date string,
		hm string,
	) (bool, error)

	ListBookedTimes(
		ctx context.Context,
		providerID uint,
		staffKey uint,
		date string,
	) (map[string]bool, error)

	// -------- Appointment (create) --------

	// CreateAdmitted consumes one unit of quota and inserts ap in one
	// transaction. It fails with quota_exceeded or slot_taken.
	CreateAdmitted(
		ctx context.Context,
		ap *models.Appointment,
		adm provider.Admission,
	) error

	// -------- Appointment (state change) --------
	GetAppointmentForProvider(
		ctx context.Context,
		appointmentID uint,
		providerID uint,
	) (*models.Appointment, error)

	// TransitionAppointment persists a status change made from status
	// from. It fails with invalid_state if the row has moved on since.
	TransitionAppointment(
		ctx context.Context,
		ap *models.Appointment,
		from string,
	) error

	SavePayment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	// SavePrice fails with price_locked once the appointment is paid.
	SavePrice(
		ctx context.Context,
		ap *models.Appointment,
	) error

	// -------- Listing --------

	// ListAppointmentsForPeriod returns appointments dated in [fromDate, toDate).
	ListAppointmentsForPeriod(
		ctx context.Context,
		providerID uint,
		fromDate string,
		toDate string,
	) ([]models.Appointment, error)

	// -------- Notifications --------
	GetAppointmentWithRelations(
		ctx context.Context,
		id uint,
	) (*models.Appointment, error)

	ListDueReminders(
		ctx context.Context,
		date string,
	) ([]models.Appointment, error)

	MarkReminderSent(
		ctx context.Context,
		id uint,
	) error
}
