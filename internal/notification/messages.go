package notification

import (
	"fmt"

	"github.com/slotbook/booking-saas/internal/models"
	"github.com/slotbook/booking-saas/internal/timezone"
)

type Message struct {
	Subject string
	Body    string
}

func displayTime(hm string) string {
	m, err := timezone.ParseHM(hm)
	if err != nil {
		return hm
	}
	return timezone.FormatDisplay(m)
}

// BuildMessage renders the text for one notification. ap must carry its
// Provider and Service.
func BuildMessage(kind Kind, ap *models.Appointment) Message {
	business := ap.Provider.BusinessName
	when := fmt.Sprintf("%s at %s", ap.AppointmentDate, displayTime(ap.AppointmentTime))

	switch kind {
	case KindReminder:
		return Message{
			Subject: fmt.Sprintf("Reminder: %s tomorrow", ap.Service.Name),
			Body: fmt.Sprintf("Hi %s, a reminder of your %s appointment with %s on %s. Ref %s.",
				ap.ClientName, ap.Service.Name, business, when, ap.Reference),
		}
	case KindCancellation:
		return Message{
			Subject: fmt.Sprintf("Appointment cancelled: %s", ap.Service.Name),
			Body: fmt.Sprintf("Hi %s, your %s appointment with %s on %s has been cancelled. Ref %s.",
				ap.ClientName, ap.Service.Name, business, when, ap.Reference),
		}
	default:
		return Message{
			Subject: fmt.Sprintf("Booking received: %s", ap.Service.Name),
			Body: fmt.Sprintf("Hi %s, your %s appointment with %s on %s is %s. Ref %s.",
				ap.ClientName, ap.Service.Name, business, when, ap.Status, ap.Reference),
		}
	}
}
