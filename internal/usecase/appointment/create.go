package appointment

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/slotbook/booking-saas/internal/audit"
	domain "github.com/slotbook/booking-saas/internal/domain/appointment"
	"github.com/slotbook/booking-saas/internal/domain/provider"
	"github.com/slotbook/booking-saas/internal/httperr"
	"github.com/slotbook/booking-saas/internal/models"
	"github.com/slotbook/booking-saas/internal/notification"
)

// ======================================================
// INPUT
// ======================================================

type BookInput struct {
	ProviderID uint
	ServiceID  uint
	StaffID    *uint

	// ClientID links a registered client; the contact fields below are
	// still stored on the appointment and default to the client's.
	ClientID    *uint
	ClientName  string
	ClientPhone string
	ClientEmail string

	Date  string
	Time  string
	Notes string

	// WalkIn marks an appointment entered by the provider.
	WalkIn bool
}

// ======================================================
// USE CASE
// ======================================================

type BookAppointment struct {
	repo      domain.Repository
	validator *ValidateCandidate
	caps      *provider.Capabilities
	plans     PlanGuard
	notifier  Notifier
	audit     *audit.Dispatcher
	settings  Settings
	log       *zap.Logger
}

func NewBookAppointment(
	repo domain.Repository,
	validator *ValidateCandidate,
	caps *provider.Capabilities,
	plans PlanGuard,
	notifier Notifier,
	audit *audit.Dispatcher,
	settings Settings,
	log *zap.Logger,
) *BookAppointment {
	return &BookAppointment{
		repo:      repo,
		validator: validator,
		caps:      caps,
		plans:     plans,
		notifier:  notifier,
		audit:     audit,
		settings:  settings,
		log:       log,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *BookAppointment) Execute(
	ctx context.Context,
	in BookInput,
) (*models.Appointment, error) {

	// --------------------------------------------------
	// 1. Provider and plan
	// --------------------------------------------------
	p, err := uc.repo.GetProviderByID(ctx, in.ProviderID)
	if err != nil {
		return nil, notFound(err, "provider_not_found")
	}
	if uc.plans != nil {
		if _, err := uc.plans.DowngradeIfExpired(ctx, p); err != nil {
			return nil, err
		}
	}
	if !p.IsActive || (!in.WalkIn && !p.AcceptingAppointments) {
		return nil, httperr.ErrBusiness("not_accepting_appointments")
	}

	// --------------------------------------------------
	// 2. Service and staff
	// --------------------------------------------------
	svc, err := loadService(ctx, uc.repo, p.ID, in.ServiceID)
	if err != nil {
		return nil, err
	}
	if in.StaffID != nil && !uc.caps.Has(p, provider.FeatureStaff) {
		return nil, httperr.ErrBusiness("feature_requires_pro")
	}
	if err := loadStaff(ctx, uc.repo, p.ID, in.StaffID); err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 3. Quota (fast path; the insert re-checks atomically)
	// --------------------------------------------------
	if !uc.caps.CanAdmitAppointment(p) {
		return nil, httperr.ErrBusiness("quota_exceeded")
	}

	// --------------------------------------------------
	// 4. Slot
	// --------------------------------------------------
	slot, res, err := uc.validator.check(ctx, p.ID, svc, in.StaffID, in.Date, in.Time)
	if err != nil {
		return nil, err
	}
	if !res.OK {
		if res.Reason == domain.ReasonSlotTaken {
			uc.conflict(p.ID, in.Date, in.Time)
		}
		return nil, httperr.ErrBusiness(string(res.Reason))
	}

	// --------------------------------------------------
	// 5. Client snapshot
	// --------------------------------------------------
	name, phone, email := strings.TrimSpace(in.ClientName), strings.TrimSpace(in.ClientPhone), strings.TrimSpace(in.ClientEmail)
	if in.ClientID != nil {
		client, err := uc.repo.GetClient(ctx, p.ID, *in.ClientID)
		if err != nil {
			return nil, notFound(err, "client_not_found")
		}
		if name == "" {
			name = client.Name
		}
		if phone == "" {
			phone = client.Phone
		}
		if email == "" {
			email = client.Email
		}
	}
	if name == "" {
		return nil, httperr.ErrBusiness("client_name_required")
	}

	// --------------------------------------------------
	// 6. Insert and count against the quota, atomically
	// --------------------------------------------------
	ap := &models.Appointment{
		Reference:       uuid.NewString(),
		ProviderID:      p.ID,
		ServiceID:       svc.ID,
		StaffMemberID:   in.StaffID,
		SlotStaffKey:    uc.settings.staffKey(in.StaffID),
		ClientID:        in.ClientID,
		ClientName:      name,
		ClientPhone:     phone,
		ClientEmail:     email,
		AppointmentDate: slot.DateString(),
		AppointmentTime: slot.TimeString(),
		Status:          string(domain.InitialStatus(in.WalkIn)),
		PaymentStatus:   string(domain.PaymentPending),
		TotalPrice:      svc.Price,
		Notes:           in.Notes,
	}

	if err := uc.repo.CreateAdmitted(ctx, ap, uc.caps.Admission(p)); err != nil {
		if httperr.IsBusiness(err, string(domain.ReasonSlotTaken)) {
			uc.conflict(p.ID, ap.AppointmentDate, ap.AppointmentTime)
		}
		return nil, err
	}
	ap.Service = *svc

	// --------------------------------------------------
	// 7. Side effects
	// --------------------------------------------------
	uc.notifier.Enqueue(
		notification.KindConfirmation,
		ap.ID,
		uc.caps.Has(p, provider.FeatureSMSNotifications),
	)

	uc.audit.Dispatch(audit.Event{
		ProviderID: p.ID,
		Action:     "appointment_created",
		Entity:     "appointment",
		EntityID:   &ap.ID,
		Metadata: map[string]any{
			"date":    ap.AppointmentDate,
			"time":    ap.AppointmentTime,
			"walk_in": in.WalkIn,
		},
	})

	uc.log.Info("appointment booked",
		zap.Uint("provider_id", p.ID),
		zap.Uint("appointment_id", ap.ID),
		zap.String("date", ap.AppointmentDate),
		zap.String("time", ap.AppointmentTime),
	)

	return ap, nil
}

func (uc *BookAppointment) conflict(providerID uint, date, hm string) {
	uc.audit.Dispatch(audit.Event{
		ProviderID: providerID,
		Action:     "appointment_conflict",
		Entity:     "appointment",
		Metadata:   map[string]string{"date": date, "time": hm},
	})
}
