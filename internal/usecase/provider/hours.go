package provider

import (
	"context"
	"fmt"

	"github.com/slotbook/booking-saas/internal/audit"
	"github.com/slotbook/booking-saas/internal/domain/appointment"
	domain "github.com/slotbook/booking-saas/internal/domain/provider"
	"github.com/slotbook/booking-saas/internal/httperr"
	"github.com/slotbook/booking-saas/internal/models"
	"github.com/slotbook/booking-saas/internal/timezone"
)

// DayInput is one weekday row; DayOfWeek is 0 = Monday ... 6 = Sunday.
type DayInput struct {
	DayOfWeek   int
	StartTime   string
	EndTime     string
	IsAvailable bool
}

// validateWeek rejects duplicate days, out-of-range days and open days whose
// range is unparseable or empty. Closed days come back with blank times.
func validateWeek(days []DayInput) ([]DayInput, error) {
	out := make([]DayInput, 0, len(days))
	seen := make(map[int]bool, len(days))
	for _, d := range days {
		if d.DayOfWeek < 0 || d.DayOfWeek > 6 || seen[d.DayOfWeek] {
			return nil, httperr.ErrBusiness("invalid_day_of_week")
		}
		seen[d.DayOfWeek] = true

		if !d.IsAvailable {
			d.StartTime, d.EndTime = "", ""
		} else if !appointment.HoursFromRow(d.StartTime, d.EndTime, true).Open {
			return nil, httperr.ErrBusiness("invalid_hours")
		}
		out = append(out, d)
	}
	return out, nil
}

// ownerLookup confirms a service or staff member belongs to the provider.
type ownerLookup interface {
	GetService(ctx context.Context, providerID uint, serviceID uint) (*models.Service, error)
	GetStaffMember(ctx context.Context, providerID uint, staffID uint) (*models.StaffMember, error)
}

type SetHours struct {
	owners ownerLookup
	writer appointment.HoursWriter
	audit  *audit.Dispatcher
}

func NewSetHours(owners ownerLookup, writer appointment.HoursWriter, audit *audit.Dispatcher) *SetHours {
	return &SetHours{owners: owners, writer: writer, audit: audit}
}

// Weekly replaces the provider's default week. Days left out become closed.
func (uc *SetHours) Weekly(ctx context.Context, providerID uint, days []DayInput) error {
	days, err := validateWeek(days)
	if err != nil {
		return err
	}

	rows := make([]models.Availability, 0, len(days))
	for _, d := range days {
		rows = append(rows, models.Availability{
			DayOfWeek:   d.DayOfWeek,
			StartTime:   d.StartTime,
			EndTime:     d.EndTime,
			IsAvailable: d.IsAvailable,
		})
	}

	if err := uc.writer.ReplaceProviderHours(ctx, providerID, rows); err != nil {
		return fmt.Errorf("replace provider hours: %w", err)
	}

	uc.dispatch(providerID, "provider", providerID)
	return nil
}

// Service replaces a service's overrides. Days left out fall back to the
// provider default.
func (uc *SetHours) Service(ctx context.Context, providerID, serviceID uint, days []DayInput) error {
	days, err := validateWeek(days)
	if err != nil {
		return err
	}
	if _, err := uc.owners.GetService(ctx, providerID, serviceID); err != nil {
		return notFound(err, "service_not_found")
	}

	rows := make([]models.ServiceAvailability, 0, len(days))
	for _, d := range days {
		rows = append(rows, models.ServiceAvailability{
			DayOfWeek:   d.DayOfWeek,
			StartTime:   d.StartTime,
			EndTime:     d.EndTime,
			IsAvailable: d.IsAvailable,
		})
	}

	if err := uc.writer.ReplaceServiceHours(ctx, serviceID, rows); err != nil {
		return fmt.Errorf("replace service hours: %w", err)
	}

	uc.dispatch(providerID, "service", serviceID)
	return nil
}

func (uc *SetHours) Staff(ctx context.Context, providerID, staffID uint, days []DayInput) error {
	days, err := validateWeek(days)
	if err != nil {
		return err
	}
	if _, err := uc.owners.GetStaffMember(ctx, providerID, staffID); err != nil {
		return notFound(err, "staff_not_found")
	}

	rows := make([]models.StaffAvailability, 0, len(days))
	for _, d := range days {
		rows = append(rows, models.StaffAvailability{
			DayOfWeek:   d.DayOfWeek,
			StartTime:   d.StartTime,
			EndTime:     d.EndTime,
			IsAvailable: d.IsAvailable,
		})
	}

	if err := uc.writer.ReplaceStaffHours(ctx, staffID, rows); err != nil {
		return fmt.Errorf("replace staff hours: %w", err)
	}

	uc.dispatch(providerID, "staff_member", staffID)
	return nil
}

func (uc *SetHours) dispatch(providerID uint, entity string, id uint) {
	uc.audit.Dispatch(audit.Event{
		ProviderID: providerID,
		Action:     "hours_updated",
		Entity:     entity,
		EntityID:   &id,
	})
}

// ======================================================
// Business hours summary
// ======================================================

type DayLabel struct {
	Day   string `json:"day"`
	Hours string `json:"hours"`
}

type BusinessHours struct {
	repo domain.Repository
}

func NewBusinessHours(repo domain.Repository) *BusinessHours {
	return &BusinessHours{repo: repo}
}

// Execute renders the provider's default week, Monday first, as
// "09:00 AM - 05:00 PM" or "Closed" per day.
func (uc *BusinessHours) Execute(ctx context.Context, providerID uint) ([]DayLabel, error) {
	rows, err := uc.repo.ListWeeklyHours(ctx, providerID)
	if err != nil {
		return nil, err
	}

	byDay := make(map[int]appointment.DayHours, len(rows))
	for _, r := range rows {
		byDay[r.DayOfWeek] = appointment.HoursFromRow(r.StartTime, r.EndTime, r.IsAvailable)
	}

	out := make([]DayLabel, 0, 7)
	for day := 0; day < 7; day++ {
		label := "Closed"
		if h, ok := byDay[day]; ok && h.Open {
			label = timezone.FormatDisplay(h.Start) + " - " + timezone.FormatDisplay(h.End)
		}
		out = append(out, DayLabel{Day: timezone.WeekdayOf(day).String(), Hours: label})
	}

	return out, nil
}

type WeeklyHours struct {
	repo domain.Repository
}

func NewWeeklyHours(repo domain.Repository) *WeeklyHours {
	return &WeeklyHours{repo: repo}
}

func (uc *WeeklyHours) Execute(ctx context.Context, providerID uint) ([]models.Availability, error) {
	return uc.repo.ListWeeklyHours(ctx, providerID)
}
