package provider

import "time"

type Plan string

const (
	PlanFree Plan = "free"
	PlanPro  Plan = "pro"
)

// Feature is a plan-gated capability.
type Feature string

const (
	FeatureUnlimitedAppointments Feature = "unlimited_appointments"
	FeatureUnlimitedServices     Feature = "unlimited_services"
	FeatureSMSNotifications      Feature = "sms_notifications"
	FeatureStaff                 Feature = "staff"
	FeatureCustomDomain          Feature = "custom_domain"
)

var proFeatures = map[Feature]bool{
	FeatureUnlimitedAppointments: true,
	FeatureUnlimitedServices:     true,
	FeatureSMSNotifications:      true,
	FeatureStaff:                 true,
	FeatureCustomDomain:          true,
}

type Limits struct {
	FreeAppointments   int
	FreeServices       int
	MaxStaffPro        int
	DowngradeGraceDays int
}

func DefaultLimits() Limits {
	return Limits{
		FreeAppointments:   5,
		FreeServices:       3,
		MaxStaffPro:        10,
		DowngradeGraceDays: 30,
	}
}

// Admission is what the storage layer needs to admit one appointment
// atomically against the monthly quota.
type Admission struct {
	Period    string
	Limit     int
	Unlimited bool
}

const periodLayout = "2006-01"

// Period is the counting-period key for t: its calendar month.
func Period(t time.Time) string {
	return t.Format(periodLayout)
}
