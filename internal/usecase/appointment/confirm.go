package appointment

import (
	"context"

	"github.com/slotbook/booking-saas/internal/audit"
	domain "github.com/slotbook/booking-saas/internal/domain/appointment"
	"github.com/slotbook/booking-saas/internal/domain/provider"
	"github.com/slotbook/booking-saas/internal/models"
	"github.com/slotbook/booking-saas/internal/notification"
)

type ConfirmAppointment struct {
	repo     domain.Repository
	caps     *provider.Capabilities
	notifier Notifier
	audit    *audit.Dispatcher
}

func NewConfirmAppointment(
	repo domain.Repository,
	caps *provider.Capabilities,
	notifier Notifier,
	audit *audit.Dispatcher,
) *ConfirmAppointment {
	return &ConfirmAppointment{
		repo:     repo,
		caps:     caps,
		notifier: notifier,
		audit:    audit,
	}
}

func (uc *ConfirmAppointment) Execute(
	ctx context.Context,
	providerID uint,
	appointmentID uint,
) (*models.Appointment, error) {

	p, err := uc.repo.GetProviderByID(ctx, providerID)
	if err != nil {
		return nil, notFound(err, "provider_not_found")
	}

	ap, err := uc.repo.GetAppointmentForProvider(ctx, appointmentID, providerID)
	if err != nil {
		return nil, notFound(err, "appointment_not_found")
	}

	from := ap.Status
	if err := domain.Confirm(ap); err != nil {
		return nil, err
	}

	if err := uc.repo.TransitionAppointment(ctx, ap, from); err != nil {
		return nil, err
	}

	uc.notifier.Enqueue(
		notification.KindConfirmation,
		ap.ID,
		uc.caps.Has(p, provider.FeatureSMSNotifications),
	)

	uc.audit.Dispatch(audit.Event{
		ProviderID: providerID,
		Action:     "appointment_confirmed",
		Entity:     "appointment",
		EntityID:   &ap.ID,
	})

	return ap, nil
}
