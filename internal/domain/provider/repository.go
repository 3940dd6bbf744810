package provider

import (
	"context"
	"time"

	"github.com/slotbook/booking-saas/internal/models"
)

type Repository interface {
	// -------- Provider --------
	GetProviderByID(
		ctx context.Context,
		id uint,
	) (*models.Provider, error)

	GetProviderBySlug(
		ctx context.Context,
		slug string,
	) (*models.Provider, error)

	// SaveProviderPlan persists plan fields only; counters are untouched.
	SaveProviderPlan(
		ctx context.Context,
		p *models.Provider,
	) error

	SetAcceptingAppointments(
		ctx context.Context,
		providerID uint,
		accepting bool,
	) error

	// -------- Catalogue --------
	ListServices(
		ctx context.Context,
		providerID uint,
		activeOnly bool,
	) ([]models.Service, error)

	GetService(
		ctx context.Context,
		providerID uint,
		serviceID uint,
	) (*models.Service, error)

	UpdateService(
		ctx context.Context,
		svc *models.Service,
	) error

	ListStaff(
		ctx context.Context,
		providerID uint,
	) ([]models.StaffMember, error)

	ListWeeklyHours(
		ctx context.Context,
		providerID uint,
	) ([]models.Availability, error)

	// -------- Quota --------
	CountActiveServices(
		ctx context.Context,
		providerID uint,
	) (int64, error)

	// CreateServiceWithinLimit inserts svc unless the provider already has
	// limit active services; the count and insert share one transaction.
	CreateServiceWithinLimit(
		ctx context.Context,
		svc *models.Service,
		limit int,
		unlimited bool,
	) error

	CountStaff(
		ctx context.Context,
		providerID uint,
	) (int64, error)

	CreateStaffMember(
		ctx context.Context,
		m *models.StaffMember,
	) error

	// -------- Scheduled jobs --------
	ResetMonthlyCounters(
		ctx context.Context,
		period string,
		resetAt time.Time,
	) (int64, error)

	ListExpiredPro(
		ctx context.Context,
		today time.Time,
	) ([]models.Provider, error)
}
