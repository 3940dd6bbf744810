package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/slotbook/booking-saas/internal/domain/provider"
	"github.com/slotbook/booking-saas/internal/httperr"
	"github.com/slotbook/booking-saas/internal/models"
)

type ProviderGormRepository struct {
	db *gorm.DB
}

func NewProviderGormRepository(db *gorm.DB) *ProviderGormRepository {
	return &ProviderGormRepository{db: db}
}

// --------------------------------------------------
// Provider
// --------------------------------------------------

func (r *ProviderGormRepository) GetProviderByID(ctx context.Context, id uint) (*models.Provider, error) {
	var p models.Provider
	if err := r.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProviderGormRepository) GetProviderBySlug(ctx context.Context, slug string) (*models.Provider, error) {
	var p models.Provider
	if err := r.db.WithContext(ctx).
		Where("slug = ? AND is_active = ?", slug, true).
		First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProviderGormRepository) SaveProviderPlan(ctx context.Context, p *models.Provider) error {
	return r.db.WithContext(ctx).
		Model(&models.Provider{ID: p.ID}).
		Select("current_plan", "plan_start_date", "plan_end_date").
		Updates(p).Error
}

func (r *ProviderGormRepository) SetAcceptingAppointments(ctx context.Context, providerID uint, accepting bool) error {
	return r.db.WithContext(ctx).
		Model(&models.Provider{}).
		Where("id = ?", providerID).
		Update("accepting_appointments", accepting).Error
}

// --------------------------------------------------
// Catalogue
// --------------------------------------------------

func (r *ProviderGormRepository) ListServices(ctx context.Context, providerID uint, activeOnly bool) ([]models.Service, error) {
	q := r.db.WithContext(ctx).Where("provider_id = ?", providerID)
	if activeOnly {
		q = q.Where("active = ?", true)
	}

	var out []models.Service
	if err := q.Order("name ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *ProviderGormRepository) GetService(ctx context.Context, providerID uint, serviceID uint) (*models.Service, error) {
	var svc models.Service
	if err := r.db.WithContext(ctx).
		Where("id = ? AND provider_id = ?", serviceID, providerID).
		First(&svc).Error; err != nil {
		return nil, err
	}
	return &svc, nil
}

// UpdateService writes every editable column, including a false Active.
func (r *ProviderGormRepository) UpdateService(ctx context.Context, svc *models.Service) error {
	return r.db.WithContext(ctx).
		Model(&models.Service{ID: svc.ID}).
		Select("name", "description", "duration_minutes", "price", "active").
		Updates(svc).Error
}

func (r *ProviderGormRepository) ListStaff(ctx context.Context, providerID uint) ([]models.StaffMember, error) {
	var out []models.StaffMember
	if err := r.db.WithContext(ctx).
		Where("provider_id = ?", providerID).
		Order("display_order ASC, id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *ProviderGormRepository) ListWeeklyHours(ctx context.Context, providerID uint) ([]models.Availability, error) {
	var out []models.Availability
	if err := r.db.WithContext(ctx).
		Where("provider_id = ?", providerID).
		Order("day_of_week ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// --------------------------------------------------
// Quota
// --------------------------------------------------

func (r *ProviderGormRepository) CountActiveServices(ctx context.Context, providerID uint) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&models.Service{}).
		Where("provider_id = ? AND active = ?", providerID, true).
		Count(&n).Error
	return n, err
}

func (r *ProviderGormRepository) CreateServiceWithinLimit(
	ctx context.Context,
	svc *models.Service,
	limit int,
	unlimited bool,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// serialise service creation per provider
		var p models.Provider
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&p, svc.ProviderID).Error; err != nil {
			return err
		}

		if !unlimited {
			var n int64
			if err := tx.Model(&models.Service{}).
				Where("provider_id = ? AND active = ?", svc.ProviderID, true).
				Count(&n).Error; err != nil {
				return err
			}
			if n >= int64(limit) {
				return httperr.ErrBusiness("service_limit_reached")
			}
		}

		return tx.Create(svc).Error
	})
}

func (r *ProviderGormRepository) CountStaff(ctx context.Context, providerID uint) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&models.StaffMember{}).
		Where("provider_id = ? AND active = ?", providerID, true).
		Count(&n).Error
	return n, err
}

func (r *ProviderGormRepository) CreateStaffMember(ctx context.Context, m *models.StaffMember) error {
	return r.db.WithContext(ctx).Create(m).Error
}

// --------------------------------------------------
// Scheduled jobs
// --------------------------------------------------

// ResetMonthlyCounters zeroes every provider's counter and stamps the new
// period. Running it twice in one period leaves the same state.
func (r *ProviderGormRepository) ResetMonthlyCounters(ctx context.Context, period string, resetAt time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Provider{}).
		Where("1 = 1").
		Updates(map[string]any{
			"appointments_this_month": 0,
			"counter_period":          period,
			"last_reset_date":         resetAt,
		})
	return res.RowsAffected, res.Error
}

func (r *ProviderGormRepository) ListExpiredPro(ctx context.Context, today time.Time) ([]models.Provider, error) {
	var out []models.Provider
	if err := r.db.WithContext(ctx).
		Where("current_plan = ? AND plan_end_date IS NOT NULL AND plan_end_date < ?", string(provider.PlanPro), today).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

var _ provider.Repository = (*ProviderGormRepository)(nil)
