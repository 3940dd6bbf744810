package appointment

import (
	"context"

	"github.com/slotbook/booking-saas/internal/audit"
	domain "github.com/slotbook/booking-saas/internal/domain/appointment"
	"github.com/slotbook/booking-saas/internal/domain/provider"
	"github.com/slotbook/booking-saas/internal/models"
	"github.com/slotbook/booking-saas/internal/notification"
	"github.com/slotbook/booking-saas/internal/timezone"
)

type CancelAppointment struct {
	repo     domain.Repository
	caps     *provider.Capabilities
	clock    timezone.Clock
	notifier Notifier
	audit    *audit.Dispatcher
}

func NewCancelAppointment(
	repo domain.Repository,
	caps *provider.Capabilities,
	clock timezone.Clock,
	notifier Notifier,
	audit *audit.Dispatcher,
) *CancelAppointment {
	return &CancelAppointment{
		repo:     repo,
		caps:     caps,
		clock:    clock,
		notifier: notifier,
		audit:    audit,
	}
}

// Execute frees the slot. Only appointments that have not started can be
// cancelled.
func (uc *CancelAppointment) Execute(
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
	if err := domain.Cancel(ap, uc.clock.Now().In(uc.clock.Location())); err != nil {
		return nil, err
	}

	if err := uc.repo.TransitionAppointment(ctx, ap, from); err != nil {
		return nil, err
	}

	uc.notifier.Enqueue(
		notification.KindCancellation,
		ap.ID,
		uc.caps.Has(p, provider.FeatureSMSNotifications),
	)

	uc.audit.Dispatch(audit.Event{
		ProviderID: providerID,
		Action:     "appointment_cancelled",
		Entity:     "appointment",
		EntityID:   &ap.ID,
	})

	return ap, nil
}
