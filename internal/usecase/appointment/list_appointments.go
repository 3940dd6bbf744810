package appointment

import (
	"context"
	"time"

	domain "github.com/slotbook/booking-saas/internal/domain/appointment"
	"github.com/slotbook/booking-saas/internal/dto"
	"github.com/slotbook/booking-saas/internal/timezone"
)

type ListAppointmentsByDate struct {
	repo domain.Repository
}

func NewListAppointmentsByDate(
	repo domain.Repository,
) *ListAppointmentsByDate {
	return &ListAppointmentsByDate{
		repo: repo,
	}
}

func (uc *ListAppointmentsByDate) Execute(
	ctx context.Context,
	providerID uint,
	date time.Time,
) ([]dto.AppointmentListDTO, error) {

	start := timezone.DayStart(date)
	end := start.AddDate(0, 0, 1)

	appointments, err := uc.repo.ListAppointmentsForPeriod(
		ctx,
		providerID,
		start.Format(timezone.DateLayout),
		end.Format(timezone.DateLayout),
	)
	if err != nil {
		return nil, err
	}

	return dto.NewAppointmentList(appointments), nil
}

type ListAppointmentsByMonth struct {
	repo domain.Repository
}

func NewListAppointmentsByMonth(
	repo domain.Repository,
) *ListAppointmentsByMonth {
	return &ListAppointmentsByMonth{
		repo: repo,
	}
}

func (uc *ListAppointmentsByMonth) Execute(
	ctx context.Context,
	providerID uint,
	year int,
	month int,
) ([]dto.AppointmentListDTO, error) {

	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)

	appointments, err := uc.repo.ListAppointmentsForPeriod(
		ctx,
		providerID,
		start.Format(timezone.DateLayout),
		end.Format(timezone.DateLayout),
	)
	if err != nil {
		return nil, err
	}

	return dto.NewAppointmentList(appointments), nil
}
