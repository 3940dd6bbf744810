package appointment

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/slotbook/booking-saas/internal/httperr"
	"github.com/slotbook/booking-saas/internal/models"
	"github.com/slotbook/booking-saas/internal/timezone"
)

// StartsAt resolves the appointment's date and time in loc.
func StartsAt(ap *models.Appointment, loc *time.Location) (time.Time, error) {
	date, err := timezone.ParseDate(ap.AppointmentDate, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("appointment %d date: %w", ap.ID, err)
	}
	minutes, err := timezone.ParseHM(ap.AppointmentTime)
	if err != nil {
		return time.Time{}, fmt.Errorf("appointment %d time: %w", ap.ID, err)
	}
	return timezone.At(date, minutes, loc), nil
}

// ===============================
// Domain Actions
// ===============================

func Confirm(ap *models.Appointment) error {
	if err := CanConfirm(Status(ap.Status)); err != nil {
		return err
	}

	ap.Status = string(StatusConfirmed)
	return nil
}

func Cancel(ap *models.Appointment, now time.Time) error {
	startsAt, err := StartsAt(ap, now.Location())
	if err != nil {
		return err
	}
	if err := CanCancel(Status(ap.Status), startsAt, now); err != nil {
		return err
	}

	ap.Status = string(StatusCancelled)
	ap.CancelledAt = &now
	return nil
}

func Complete(ap *models.Appointment, now time.Time) error {
	startsAt, err := StartsAt(ap, now.Location())
	if err != nil {
		return err
	}
	if err := CanComplete(Status(ap.Status), startsAt, now); err != nil {
		return err
	}

	ap.Status = string(StatusCompleted)
	ap.CompletedAt = &now
	return nil
}

func MarkNoShow(ap *models.Appointment, now time.Time) error {
	startsAt, err := StartsAt(ap, now.Location())
	if err != nil {
		return err
	}
	if err := CanMarkNoShow(Status(ap.Status), startsAt, now); err != nil {
		return err
	}

	ap.Status = string(StatusNoShow)
	return nil
}

// MarkPaid is independent of the status machine and may be repeated.
func MarkPaid(ap *models.Appointment, method string) error {
	if !IsValidPaymentMethod(method) {
		return httperr.ErrBusiness("invalid_payment_method")
	}

	ap.PaymentStatus = string(PaymentPaid)
	ap.PaymentMethod = method
	return nil
}

// SetTotalPrice rejects repricing once a payment has been recorded.
func SetTotalPrice(ap *models.Appointment, price decimal.Decimal) error {
	if ap.PaymentStatus == string(PaymentPaid) {
		return httperr.ErrBusiness("price_locked")
	}
	if price.IsNegative() {
		return httperr.ErrBusiness("invalid_price")
	}

	ap.TotalPrice = price
	return nil
}
