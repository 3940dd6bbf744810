package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/slotbook/booking-saas/internal/httperr"
	"github.com/slotbook/booking-saas/internal/httpresp"
	"github.com/slotbook/booking-saas/internal/models"
	"github.com/slotbook/booking-saas/internal/timezone"
	"github.com/slotbook/booking-saas/internal/usecase/appointment"
)

// ======================================================
// HANDLER
// ======================================================

type AppointmentUseCases struct {
	Book      *appointment.BookAppointment
	Confirm   *appointment.ConfirmAppointment
	Cancel    *appointment.CancelAppointment
	Complete  *appointment.CompleteAppointment
	NoShow    *appointment.MarkNoShow
	Paid      *appointment.MarkPaid
	Price     *appointment.UpdatePrice
	ListDay   *appointment.ListAppointmentsByDate
	ListMonth *appointment.ListAppointmentsByMonth
}

type AppointmentHandler struct {
	uc    AppointmentUseCases
	clock timezone.Clock
	log   *zap.Logger
}

func NewAppointmentHandler(uc AppointmentUseCases, clock timezone.Clock, log *zap.Logger) *AppointmentHandler {
	return &AppointmentHandler{uc: uc, clock: clock, log: log}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateAppointmentRequest struct {
	ServiceID   uint   `json:"service_id" binding:"required"`
	StaffID     *uint  `json:"staff_id"`
	ClientID    *uint  `json:"client_id"`
	ClientName  string `json:"client_name"`
	ClientPhone string `json:"client_phone"`
	ClientEmail string `json:"client_email"`
	Date        string `json:"date" binding:"required"` // YYYY-MM-DD
	Time        string `json:"time" binding:"required"` // HH:MM
	Notes       string `json:"notes"`
}

type MarkPaidRequest struct {
	Method string `json:"method" binding:"required"`
}

type UpdatePriceRequest struct {
	TotalPrice *decimal.Decimal `json:"total_price" binding:"required"`
}

// ======================================================
// CREATE (WALK-IN)
// ======================================================

func (h *AppointmentHandler) Create(c *gin.Context) {
	providerID, ok := currentProvider(c)
	if !ok {
		return
	}

	var req CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	ap, err := h.uc.Book.Execute(c.Request.Context(), appointment.BookInput{
		ProviderID:  providerID,
		ServiceID:   req.ServiceID,
		StaffID:     req.StaffID,
		ClientID:    req.ClientID,
		ClientName:  req.ClientName,
		ClientPhone: req.ClientPhone,
		ClientEmail: req.ClientEmail,
		Date:        req.Date,
		Time:        req.Time,
		Notes:       req.Notes,
		WalkIn:      true,
	})
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, ap)
}

// ======================================================
// LIST
// ======================================================

func (h *AppointmentHandler) ListByDate(c *gin.Context) {
	providerID, ok := currentProvider(c)
	if !ok {
		return
	}

	dateStr := c.Query("date")
	if dateStr == "" {
		httperr.BadRequest(c, "missing_date", "date is required.")
		return
	}
	date, err := timezone.ParseDate(dateStr, h.clock.Location())
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "date must be YYYY-MM-DD.")
		return
	}

	list, err := h.uc.ListDay.Execute(c.Request.Context(), providerID, date)
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	httpresp.List(c, list)
}

func (h *AppointmentHandler) ListByMonth(c *gin.Context) {
	providerID, ok := currentProvider(c)
	if !ok {
		return
	}

	year, err := strconv.Atoi(c.Query("year"))
	if err != nil || year < 2000 || year > 2100 {
		httperr.BadRequest(c, "invalid_year", "year is invalid.")
		return
	}
	month, err := strconv.Atoi(c.Query("month"))
	if err != nil || month < 1 || month > 12 {
		httperr.BadRequest(c, "invalid_month", "month must be 1-12.")
		return
	}

	list, err := h.uc.ListMonth.Execute(c.Request.Context(), providerID, year, month)
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"year":         year,
		"month":        month,
		"appointments": list,
	})
}

// ======================================================
// TRANSITIONS
// ======================================================

type transition func(ctx context.Context, providerID, appointmentID uint) (*models.Appointment, error)

func (h *AppointmentHandler) transition(run transition) gin.HandlerFunc {
	return func(c *gin.Context) {
		providerID, ok := currentProvider(c)
		if !ok {
			return
		}
		id, ok := paramID(c, "id")
		if !ok {
			return
		}

		ap, err := run(c.Request.Context(), providerID, id)
		if err != nil {
			writeError(c, h.log, err)
			return
		}

		httpresp.OK(c, ap)
	}
}

func (h *AppointmentHandler) Confirm() gin.HandlerFunc  { return h.transition(h.uc.Confirm.Execute) }
func (h *AppointmentHandler) Cancel() gin.HandlerFunc   { return h.transition(h.uc.Cancel.Execute) }
func (h *AppointmentHandler) Complete() gin.HandlerFunc { return h.transition(h.uc.Complete.Execute) }
func (h *AppointmentHandler) NoShow() gin.HandlerFunc   { return h.transition(h.uc.NoShow.Execute) }

// ======================================================
// PAYMENT
// ======================================================

func (h *AppointmentHandler) MarkPaid(c *gin.Context) {
	var req MarkPaidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "method is required.")
		return
	}

	h.transition(func(ctx context.Context, providerID, id uint) (*models.Appointment, error) {
		return h.uc.Paid.Execute(ctx, providerID, id, req.Method)
	})(c)
}

func (h *AppointmentHandler) UpdatePrice(c *gin.Context) {
	var req UpdatePriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "total_price is required.")
		return
	}

	h.transition(func(ctx context.Context, providerID, id uint) (*models.Appointment, error) {
		return h.uc.Price.Execute(ctx, providerID, id, *req.TotalPrice)
	})(c)
}
