package appointment

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/slotbook/booking-saas/internal/audit"
	domain "github.com/slotbook/booking-saas/internal/domain/appointment"
	"github.com/slotbook/booking-saas/internal/models"
)

type MarkPaid struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewMarkPaid(repo domain.Repository, audit *audit.Dispatcher) *MarkPaid {
	return &MarkPaid{repo: repo, audit: audit}
}

// Execute records a payment regardless of status. Repeating it only
// overwrites the method.
func (uc *MarkPaid) Execute(
	ctx context.Context,
	providerID uint,
	appointmentID uint,
	method string,
) (*models.Appointment, error) {

	ap, err := uc.repo.GetAppointmentForProvider(ctx, appointmentID, providerID)
	if err != nil {
		return nil, notFound(err, "appointment_not_found")
	}

	if err := domain.MarkPaid(ap, method); err != nil {
		return nil, err
	}

	if err := uc.repo.SavePayment(ctx, ap); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		ProviderID: providerID,
		Action:     "appointment_paid",
		Entity:     "appointment",
		EntityID:   &ap.ID,
		Metadata:   map[string]string{"method": method},
	})

	return ap, nil
}

type UpdatePrice struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewUpdatePrice(repo domain.Repository, audit *audit.Dispatcher) *UpdatePrice {
	return &UpdatePrice{repo: repo, audit: audit}
}

func (uc *UpdatePrice) Execute(
	ctx context.Context,
	providerID uint,
	appointmentID uint,
	price decimal.Decimal,
) (*models.Appointment, error) {

	ap, err := uc.repo.GetAppointmentForProvider(ctx, appointmentID, providerID)
	if err != nil {
		return nil, notFound(err, "appointment_not_found")
	}

	if err := domain.SetTotalPrice(ap, price); err != nil {
		return nil, err
	}

	if err := uc.repo.SavePrice(ctx, ap); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		ProviderID: providerID,
		Action:     "appointment_repriced",
		Entity:     "appointment",
		EntityID:   &ap.ID,
		Metadata:   map[string]string{"total_price": price.StringFixed(2)},
	})

	return ap, nil
}
