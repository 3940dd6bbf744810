package provider

import (
	"time"

	"github.com/slotbook/booking-saas/internal/models"
	"github.com/slotbook/booking-saas/internal/timezone"
)

// Capabilities is the single place plan checks are made.
type Capabilities struct {
	limits Limits
	clock  timezone.Clock
}

func NewCapabilities(limits Limits, clock timezone.Clock) *Capabilities {
	return &Capabilities{limits: limits, clock: clock}
}

func (c *Capabilities) Limits() Limits {
	return c.limits
}

func (c *Capabilities) today() time.Time {
	return timezone.Today(c.clock)
}

// IsPro is true for a pro plan that has no expiry or has not expired yet.
func (c *Capabilities) IsPro(p *models.Provider) bool {
	if Plan(p.CurrentPlan) != PlanPro {
		return false
	}
	if p.PlanEndDate == nil {
		return true
	}
	end := timezone.DayStart(p.PlanEndDate.In(c.clock.Location()))
	return !end.Before(c.today())
}

func (c *Capabilities) Has(p *models.Provider, f Feature) bool {
	if proFeatures[f] {
		return c.IsPro(p)
	}
	return true
}

// UsageThisMonth reads the counter, treating a counter from an earlier
// period as zero so a late monthly reset never blocks bookings.
func (c *Capabilities) UsageThisMonth(p *models.Provider) int {
	if p.CounterPeriod != Period(c.clock.Now()) {
		return 0
	}
	return p.AppointmentsThisMonth
}

func (c *Capabilities) CanAdmitAppointment(p *models.Provider) bool {
	if c.Has(p, FeatureUnlimitedAppointments) {
		return true
	}
	return c.UsageThisMonth(p) < c.limits.FreeAppointments
}

// RemainingAppointments returns unlimited=true for pro providers.
func (c *Capabilities) RemainingAppointments(p *models.Provider) (remaining int, unlimited bool) {
	if c.Has(p, FeatureUnlimitedAppointments) {
		return 0, true
	}
	return max(0, c.limits.FreeAppointments-c.UsageThisMonth(p)), false
}

func (c *Capabilities) Admission(p *models.Provider) Admission {
	return Admission{
		Period:    Period(c.clock.Now()),
		Limit:     c.limits.FreeAppointments,
		Unlimited: c.Has(p, FeatureUnlimitedAppointments),
	}
}

func (c *Capabilities) CanAddService(p *models.Provider, activeServices int64) bool {
	if c.Has(p, FeatureUnlimitedServices) {
		return true
	}
	return activeServices < int64(c.limits.FreeServices)
}

func (c *Capabilities) CanAddStaff(p *models.Provider, staff int64) bool {
	if !c.Has(p, FeatureStaff) {
		return false
	}
	return staff < int64(c.limits.MaxStaffPro)
}

// DowngradeIfExpired flips an expired pro plan to free and pushes the plan
// end date out by the grace period. It reports whether p changed.
func (c *Capabilities) DowngradeIfExpired(p *models.Provider) bool {
	if Plan(p.CurrentPlan) != PlanPro || p.PlanEndDate == nil {
		return false
	}
	if c.IsPro(p) {
		return false
	}

	grace := c.today().AddDate(0, 0, c.limits.DowngradeGraceDays)
	p.CurrentPlan = string(PlanFree)
	p.PlanEndDate = &grace
	return true
}
