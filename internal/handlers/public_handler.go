package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	domain "github.com/slotbook/booking-saas/internal/domain/appointment"
	"github.com/slotbook/booking-saas/internal/httperr"
	"github.com/slotbook/booking-saas/internal/models"
	"github.com/slotbook/booking-saas/internal/timezone"
	"github.com/slotbook/booking-saas/internal/usecase/appointment"
	"github.com/slotbook/booking-saas/internal/usecase/provider"
)

////////////////////////////////////////////////////////
// HANDLER
////////////////////////////////////////////////////////

type PublicUseCases struct {
	FindProvider  *provider.FindBySlug
	BusinessHours *provider.BusinessHours
	Services      *provider.ListServices
	Slots         *appointment.GetAvailability
	Validate      *appointment.ValidateCandidate
	NextAvailable *appointment.NextAvailableDate
	Book          *appointment.BookAppointment
}

type PublicHandler struct {
	uc    PublicUseCases
	clock timezone.Clock
	log   *zap.Logger
}

func NewPublicHandler(uc PublicUseCases, clock timezone.Clock, log *zap.Logger) *PublicHandler {
	return &PublicHandler{uc: uc, clock: clock, log: log}
}

////////////////////////////////////////////////////////
// DTOs
////////////////////////////////////////////////////////

type PublicCreateAppointmentRequest struct {
	ServiceID   uint   `json:"service_id" binding:"required"`
	StaffID     *uint  `json:"staff_id"`
	ClientName  string `json:"client_name" binding:"required"`
	ClientPhone string `json:"client_phone" binding:"required"`
	ClientEmail string `json:"client_email"`
	Date        string `json:"date" binding:"required"` // YYYY-MM-DD
	Time        string `json:"time" binding:"required"` // HH:MM
	Notes       string `json:"notes"`
}

// provider resolves the slug or answers 404.
func (h *PublicHandler) provider(c *gin.Context) (*models.Provider, bool) {
	p, err := h.uc.FindProvider.Execute(c.Request.Context(), c.Param("slug"))
	if err != nil {
		writeError(c, h.log, err)
		return nil, false
	}
	return p, true
}

func (h *PublicHandler) serviceAndStaff(c *gin.Context) (serviceID uint, staffID *uint, ok bool) {
	svc, ok := queryID(c, "service_id")
	if !ok {
		return 0, nil, false
	}
	if svc == nil {
		httperr.BadRequest(c, "missing_service_id", "service_id is required.")
		return 0, nil, false
	}
	staffID, ok = queryID(c, "staff_id")
	if !ok {
		return 0, nil, false
	}
	return *svc, staffID, true
}

////////////////////////////////////////////////////////
// PROFILE + SERVICES
////////////////////////////////////////////////////////

func (h *PublicHandler) Profile(c *gin.Context) {
	p, ok := h.provider(c)
	if !ok {
		return
	}

	hours, err := h.uc.BusinessHours.Execute(c.Request.Context(), p.ID)
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"business_name":          p.BusinessName,
		"slug":                   p.Slug,
		"phone":                  p.Phone,
		"accepting_appointments": p.AcceptingAppointments,
		"business_hours":         hours,
	})
}

func (h *PublicHandler) ListServices(c *gin.Context) {
	p, ok := h.provider(c)
	if !ok {
		return
	}

	services, err := h.uc.Services.Execute(c.Request.Context(), p.ID, true)
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	query := strings.ToLower(strings.TrimSpace(c.Query("query")))
	if query != "" {
		filtered := services[:0]
		for _, s := range services {
			if strings.Contains(strings.ToLower(s.Name), query) ||
				strings.Contains(strings.ToLower(s.Description), query) {
				filtered = append(filtered, s)
			}
		}
		services = filtered
	}

	c.JSON(http.StatusOK, gin.H{
		"provider": p.BusinessName,
		"services": services,
	})
}

////////////////////////////////////////////////////////
// SLOTS
////////////////////////////////////////////////////////

func (h *PublicHandler) Slots(c *gin.Context) {
	p, ok := h.provider(c)
	if !ok {
		return
	}
	serviceID, staffID, ok := h.serviceAndStaff(c)
	if !ok {
		return
	}

	dateStr := c.Query("date")
	date, err := timezone.ParseDate(dateStr, h.clock.Location())
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "date must be YYYY-MM-DD.")
		return
	}

	slots, err := h.uc.Slots.Execute(c.Request.Context(), domain.AvailabilityInput{
		ProviderID: p.ID,
		ServiceID:  serviceID,
		StaffID:    staffID,
		Date:       date,
	})
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"date":  date.Format(timezone.DateLayout),
		"slots": slots,
	})
}

func (h *PublicHandler) Validate(c *gin.Context) {
	p, ok := h.provider(c)
	if !ok {
		return
	}
	serviceID, staffID, ok := h.serviceAndStaff(c)
	if !ok {
		return
	}

	res, err := h.uc.Validate.Execute(c.Request.Context(), appointment.ValidateCandidateInput{
		ProviderID: p.ID,
		ServiceID:  serviceID,
		StaffID:    staffID,
		Date:       c.Query("date"),
		Time:       c.Query("time"),
	})
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ok":      res.OK,
		"reason":  res.Reason,
		"message": res.Reason.Message(),
	})
}

func (h *PublicHandler) NextAvailable(c *gin.Context) {
	p, ok := h.provider(c)
	if !ok {
		return
	}
	serviceID, staffID, ok := h.serviceAndStaff(c)
	if !ok {
		return
	}

	in := appointment.NextAvailableInput{
		ProviderID: p.ID,
		ServiceID:  serviceID,
		StaffID:    staffID,
	}
	if from := c.Query("from"); from != "" {
		d, err := timezone.ParseDate(from, h.clock.Location())
		if err != nil {
			httperr.BadRequest(c, "invalid_date", "from must be YYYY-MM-DD.")
			return
		}
		if d.After(h.clock.Now()) {
			in.From = d
		}
	}

	date, found, err := h.uc.NextAvailable.Execute(c.Request.Context(), in)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	if !found {
		c.JSON(http.StatusOK, gin.H{"date": nil})
		return
	}

	c.JSON(http.StatusOK, gin.H{"date": date.Format(timezone.DateLayout)})
}

////////////////////////////////////////////////////////
// BOOK
////////////////////////////////////////////////////////

func (h *PublicHandler) CreateAppointment(c *gin.Context) {
	p, ok := h.provider(c)
	if !ok {
		return
	}

	var req PublicCreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	ap, err := h.uc.Book.Execute(c.Request.Context(), appointment.BookInput{
		ProviderID:  p.ID,
		ServiceID:   req.ServiceID,
		StaffID:     req.StaffID,
		ClientName:  req.ClientName,
		ClientPhone: req.ClientPhone,
		ClientEmail: req.ClientEmail,
		Date:        req.Date,
		Time:        req.Time,
		Notes:       req.Notes,
	})
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"reference":   ap.Reference,
		"status":      ap.Status,
		"date":        ap.AppointmentDate,
		"time":        ap.AppointmentTime,
		"service":     ap.Service.Name,
		"total_price": ap.TotalPrice,
	})
}
