package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/slotbook/booking-saas/internal/domain/appointment"
	"github.com/slotbook/booking-saas/internal/domain/provider"
	"github.com/slotbook/booking-saas/internal/httperr"
	"github.com/slotbook/booking-saas/internal/models"
)

type AppointmentGormRepository struct {
	db *gorm.DB
}

func NewAppointmentGormRepository(db *gorm.DB) *AppointmentGormRepository {
	return &AppointmentGormRepository{db: db}
}

// --------------------------------------------------
// Provider / catalogue
// --------------------------------------------------

func (r *AppointmentGormRepository) GetProviderByID(
	ctx context.Context,
	id uint,
) (*models.Provider, error) {

	var p models.Provider
	if err := r.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *AppointmentGormRepository) GetService(
	ctx context.Context,
	providerID uint,
	serviceID uint,
) (*models.Service, error) {

	var svc models.Service
	if err := r.db.WithContext(ctx).
		Where("id = ? AND provider_id = ?", serviceID, providerID).
		First(&svc).Error; err != nil {
		return nil, err
	}
	return &svc, nil
}

func (r *AppointmentGormRepository) GetStaffMember(
	ctx context.Context,
	providerID uint,
	staffID uint,
) (*models.StaffMember, error) {

	var m models.StaffMember
	if err := r.db.WithContext(ctx).
		Where("id = ? AND provider_id = ?", staffID, providerID).
		First(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *AppointmentGormRepository) GetClient(
	ctx context.Context,
	providerID uint,
	clientID uint,
) (*models.Client, error) {

	var client models.Client
	if err := r.db.WithContext(ctx).
		Where("id = ? AND provider_id = ?", clientID, providerID).
		First(&client).Error; err != nil {
		return nil, err
	}
	return &client, nil
}

// --------------------------------------------------
// Conflict checks
// --------------------------------------------------

func (r *AppointmentGormRepository) IsSlotTaken(
	ctx context.Context,
	providerID uint,
	staffKey uint,
	date string,
	hm string,
) (bool, error) {

	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where(
			"provider_id = ? AND slot_staff_key = ? AND appointment_date = ? AND appointment_time = ? AND status IN ?",
			providerID, staffKey, date, hm, domain.ActiveStatuses(),
		).
		Count(&count).Error; err != nil {
		return false, err
	}

	return count > 0, nil
}

func (r *AppointmentGormRepository) ListBookedTimes(
	ctx context.Context,
	providerID uint,
	staffKey uint,
	date string,
) (map[string]bool, error) {

	var times []string
	if err := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where(
			"provider_id = ? AND slot_staff_key = ? AND appointment_date = ? AND status IN ?",
			providerID, staffKey, date, domain.ActiveStatuses(),
		).
		Pluck("appointment_time", &times).Error; err != nil {
		return nil, err
	}

	booked := make(map[string]bool, len(times))
	for _, t := range times {
		booked[t] = true
	}
	return booked, nil
}

// --------------------------------------------------
// Appointment (create)
// --------------------------------------------------

func (r *AppointmentGormRepository) CreateAdmitted(
	ctx context.Context,
	ap *models.Appointment,
	adm provider.Admission,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {

		// Conditional increment: the quota check and the increment are one
		// statement, so two requests can never both take the last unit.
		q := tx.Model(&models.Provider{}).Where("id = ?", ap.ProviderID)
		if !adm.Unlimited {
			q = q.Where(
				"(CASE WHEN counter_period = ? THEN appointments_this_month ELSE 0 END) < ?",
				adm.Period, adm.Limit,
			)
		}

		res := q.Updates(map[string]any{
			"appointments_this_month": gorm.Expr(
				"CASE WHEN counter_period = ? THEN appointments_this_month + 1 ELSE 1 END",
				adm.Period,
			),
			"counter_period": adm.Period,
		})
		if res.Error != nil {
			return fmt.Errorf("admit appointment: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return httperr.ErrBusiness("quota_exceeded")
		}

		if err := tx.Omit(clause.Associations).Create(ap).Error; err != nil {
			if httperr.IsUniqueConflict(err) {
				return httperr.ErrBusiness(string(domain.ReasonSlotTaken))
			}
			return fmt.Errorf("insert appointment: %w", err)
		}

		return nil
	})
}

// --------------------------------------------------
// Appointment (state change)
// --------------------------------------------------

func (r *AppointmentGormRepository) GetAppointmentForProvider(
	ctx context.Context,
	appointmentID uint,
	providerID uint,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := r.db.WithContext(ctx).
		Where("id = ? AND provider_id = ?", appointmentID, providerID).
		First(&ap).Error; err != nil {
		return nil, err
	}

	return &ap, nil
}

// TransitionAppointment writes ap's status columns only while the stored
// status is still from. Losing to a concurrent transition is invalid_state.
func (r *AppointmentGormRepository) TransitionAppointment(
	ctx context.Context,
	ap *models.Appointment,
	from string,
) error {

	res := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("id = ? AND status = ?", ap.ID, from).
		Updates(map[string]any{
			"status":       ap.Status,
			"cancelled_at": ap.CancelledAt,
			"completed_at": ap.CompletedAt,
		})
	if res.Error != nil {
		return fmt.Errorf("update appointment status: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return httperr.ErrBusiness("invalid_state")
	}

	return nil
}

// SavePayment writes the payment columns and nothing else, so it never
// overwrites a concurrent status change.
func (r *AppointmentGormRepository) SavePayment(
	ctx context.Context,
	ap *models.Appointment,
) error {

	res := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("id = ?", ap.ID).
		Updates(map[string]any{
			"payment_status": ap.PaymentStatus,
			"payment_method": ap.PaymentMethod,
		})
	if res.Error != nil {
		return fmt.Errorf("update appointment payment: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return httperr.ErrBusiness("appointment_not_found")
	}

	return nil
}

// SavePrice writes total_price unless a payment was recorded after the read.
func (r *AppointmentGormRepository) SavePrice(
	ctx context.Context,
	ap *models.Appointment,
) error {

	res := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("id = ? AND payment_status <> ?", ap.ID, string(domain.PaymentPaid)).
		Update("total_price", ap.TotalPrice)
	if res.Error != nil {
		return fmt.Errorf("update appointment price: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return httperr.ErrBusiness("price_locked")
	}

	return nil
}

// --------------------------------------------------
// Listing
// --------------------------------------------------

func (r *AppointmentGormRepository) ListAppointmentsForPeriod(
	ctx context.Context,
	providerID uint,
	fromDate string,
	toDate string,
) ([]models.Appointment, error) {

	var apps []models.Appointment

	err := r.db.WithContext(ctx).
		Preload("Service").
		Where(
			"provider_id = ? AND appointment_date >= ? AND appointment_date < ?",
			providerID, fromDate, toDate,
		).
		Order("appointment_date ASC, appointment_time ASC").
		Find(&apps).Error

	if err != nil {
		return nil, err
	}

	return apps, nil
}

// --------------------------------------------------
// Notifications
// --------------------------------------------------

func (r *AppointmentGormRepository) GetAppointmentWithRelations(
	ctx context.Context,
	id uint,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := r.db.WithContext(ctx).
		Preload("Provider").
		Preload("Service").
		First(&ap, id).Error; err != nil {
		return nil, err
	}
	return &ap, nil
}

func (r *AppointmentGormRepository) ListDueReminders(
	ctx context.Context,
	date string,
) ([]models.Appointment, error) {

	var apps []models.Appointment
	if err := r.db.WithContext(ctx).
		Preload("Provider").
		Where(
			"appointment_date = ? AND status IN ? AND reminder_sent = ?",
			date, domain.ActiveStatuses(), false,
		).
		Order("appointment_time ASC").
		Find(&apps).Error; err != nil {
		return nil, err
	}
	return apps, nil
}

func (r *AppointmentGormRepository) MarkReminderSent(
	ctx context.Context,
	id uint,
) error {
	return r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("id = ?", id).
		Update("reminder_sent", true).Error
}

// --------------------------------------------------
// Availability store
// --------------------------------------------------

func lookupFromRow(layer domain.Layer, err error, start, end string, available bool) (domain.HoursLookup, error) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.Absent(layer), nil
	}
	if err != nil {
		return domain.HoursLookup{}, err
	}
	return domain.Present(layer, domain.HoursFromRow(start, end, available)), nil
}

func (r *AppointmentGormRepository) ProviderHours(
	ctx context.Context,
	providerID uint,
	day int,
) (domain.HoursLookup, error) {

	var row models.Availability
	err := r.db.WithContext(ctx).
		Where("provider_id = ? AND day_of_week = ?", providerID, day).
		First(&row).Error
	return lookupFromRow(domain.LayerProvider, err, row.StartTime, row.EndTime, row.IsAvailable)
}

func (r *AppointmentGormRepository) ServiceHours(
	ctx context.Context,
	serviceID uint,
	day int,
) (domain.HoursLookup, error) {

	var row models.ServiceAvailability
	err := r.db.WithContext(ctx).
		Where("service_id = ? AND day_of_week = ?", serviceID, day).
		First(&row).Error
	return lookupFromRow(domain.LayerService, err, row.StartTime, row.EndTime, row.IsAvailable)
}

func (r *AppointmentGormRepository) StaffHours(
	ctx context.Context,
	staffID uint,
	day int,
) (domain.HoursLookup, error) {

	var row models.StaffAvailability
	err := r.db.WithContext(ctx).
		Where("staff_member_id = ? AND day_of_week = ?", staffID, day).
		First(&row).Error
	return lookupFromRow(domain.LayerStaff, err, row.StartTime, row.EndTime, row.IsAvailable)
}

func (r *AppointmentGormRepository) ReplaceProviderHours(
	ctx context.Context,
	providerID uint,
	rows []models.Availability,
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("provider_id = ?", providerID).Delete(&models.Availability{}).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		for i := range rows {
			rows[i].ProviderID = providerID
		}
		return tx.Create(&rows).Error
	})
}

func (r *AppointmentGormRepository) ReplaceServiceHours(
	ctx context.Context,
	serviceID uint,
	rows []models.ServiceAvailability,
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("service_id = ?", serviceID).Delete(&models.ServiceAvailability{}).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		for i := range rows {
			rows[i].ServiceID = serviceID
		}
		return tx.Create(&rows).Error
	})
}

func (r *AppointmentGormRepository) ReplaceStaffHours(
	ctx context.Context,
	staffID uint,
	rows []models.StaffAvailability,
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("staff_member_id = ?", staffID).Delete(&models.StaffAvailability{}).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		for i := range rows {
			rows[i].StaffMemberID = staffID
		}
		return tx.Create(&rows).Error
	})
}

// Compile-time check
var (
	_ domain.Repository  = (*AppointmentGormRepository)(nil)
	_ domain.HoursStore  = (*AppointmentGormRepository)(nil)
	_ domain.HoursWriter = (*AppointmentGormRepository)(nil)
)
