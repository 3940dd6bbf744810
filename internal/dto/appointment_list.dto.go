package dto

import (
	"github.com/shopspring/decimal"

	"github.com/slotbook/booking-saas/internal/models"
)

type AppointmentListDTO struct {
	ID            uint            `json:"id"`
	Reference     string          `json:"reference"`
	Date          string          `json:"date"`
	Time          string          `json:"time"`
	Status        string          `json:"status"`
	PaymentStatus string          `json:"payment_status"`
	ClientName    string          `json:"client_name"`
	ClientPhone   string          `json:"client_phone"`
	ServiceName   string          `json:"service_name"`
	StaffMemberID *uint           `json:"staff_member_id,omitempty"`
	TotalPrice    decimal.Decimal `json:"total_price"`
}

func NewAppointmentList(apps []models.Appointment) []AppointmentListDTO {
	out := make([]AppointmentListDTO, 0, len(apps))
	for _, ap := range apps {
		out = append(out, AppointmentListDTO{
			ID:            ap.ID,
			Reference:     ap.Reference,
			Date:          ap.AppointmentDate,
			Time:          ap.AppointmentTime,
			Status:        ap.Status,
			PaymentStatus: ap.PaymentStatus,
			ClientName:    ap.ClientName,
			ClientPhone:   ap.ClientPhone,
			ServiceName:   ap.Service.Name,
			StaffMemberID: ap.StaffMemberID,
			TotalPrice:    ap.TotalPrice,
		})
	}
	return out
}

// UsageDTO is the provider's plan and quota summary.
type UsageDTO struct {
	Plan                  string `json:"plan"`
	IsPro                 bool   `json:"is_pro"`
	Period                string `json:"period"`
	AppointmentsThisMonth int    `json:"appointments_this_month"`
	AppointmentLimit      int    `json:"appointment_limit"`
	RemainingAppointments int    `json:"remaining_appointments"`
	Unlimited             bool   `json:"unlimited"`
	ActiveServices        int64  `json:"active_services"`
	ServiceLimit          int    `json:"service_limit"`
	CanAddService         bool   `json:"can_add_service"`
	CanAddStaff           bool   `json:"can_add_staff"`
	AcceptingAppointments bool   `json:"accepting_appointments"`
}
