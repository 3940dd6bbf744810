package appointment

import (
	"context"

	"github.com/slotbook/booking-saas/internal/audit"
	domain "github.com/slotbook/booking-saas/internal/domain/appointment"
	"github.com/slotbook/booking-saas/internal/models"
	"github.com/slotbook/booking-saas/internal/timezone"
)

type CompleteAppointment struct {
	repo  domain.Repository
	clock timezone.Clock
	audit *audit.Dispatcher
}

func NewCompleteAppointment(
	repo domain.Repository,
	clock timezone.Clock,
	audit *audit.Dispatcher,
) *CompleteAppointment {
	return &CompleteAppointment{
		repo:  repo,
		clock: clock,
		audit: audit,
	}
}

func (uc *CompleteAppointment) Execute(
	ctx context.Context,
	providerID uint,
	appointmentID uint,
) (*models.Appointment, error) {

	ap, err := uc.repo.GetAppointmentForProvider(ctx, appointmentID, providerID)
	if err != nil {
		return nil, notFound(err, "appointment_not_found")
	}

	from := ap.Status
	if err := domain.Complete(ap, uc.clock.Now().In(uc.clock.Location())); err != nil {
		return nil, err
	}

	if err := uc.repo.TransitionAppointment(ctx, ap, from); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		ProviderID: providerID,
		Action:     "appointment_completed",
		Entity:     "appointment",
		EntityID:   &ap.ID,
	})

	return ap, nil
}
