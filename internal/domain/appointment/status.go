package appointment

import (
	"time"

	"github.com/slotbook/booking-saas/internal/httperr"
)

// ===============================
// Appointment Status
// ===============================

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
	StatusNoShow    Status = "no_show"
)

// IsActive reports whether an appointment in this status occupies its slot.
func (s Status) IsActive() bool {
	return s == StatusPending || s == StatusConfirmed
}

func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled || s == StatusNoShow
}

func ActiveStatuses() []string {
	return []string{string(StatusPending), string(StatusConfirmed)}
}

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
)

var paymentMethods = map[string]bool{
	"upi":    true,
	"cash":   true,
	"card":   true,
	"online": true,
}

func IsValidPaymentMethod(method string) bool {
	return paymentMethods[method]
}

// ===============================
// Transition guards
// ===============================

func CanConfirm(current Status) error {
	if current != StatusPending {
		return httperr.ErrBusiness("invalid_state")
	}
	return nil
}

// CanCancel allows cancelling an active appointment that has not started yet.
// Past-due appointments must be completed or marked no_show instead.
func CanCancel(current Status, startsAt, now time.Time) error {
	if !current.IsActive() {
		return httperr.ErrBusiness("invalid_state")
	}
	if !startsAt.After(now) {
		return httperr.ErrBusiness("not_cancellable")
	}
	return nil
}

func CanComplete(current Status, startsAt, now time.Time) error {
	if current != StatusConfirmed {
		return httperr.ErrBusiness("invalid_state")
	}
	if !startsAt.Before(now) {
		return httperr.ErrBusiness("not_started")
	}
	return nil
}

func CanMarkNoShow(current Status, startsAt, now time.Time) error {
	if current != StatusConfirmed {
		return httperr.ErrBusiness("invalid_state")
	}
	if !startsAt.Before(now) {
		return httperr.ErrBusiness("not_started")
	}
	return nil
}

// InitialStatus: walk-ins entered by the provider are confirmed on creation.
func InitialStatus(walkIn bool) Status {
	if walkIn {
		return StatusConfirmed
	}
	return StatusPending
}
