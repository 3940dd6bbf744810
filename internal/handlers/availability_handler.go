package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/slotbook/booking-saas/internal/httperr"
	"github.com/slotbook/booking-saas/internal/usecase/provider"
)

type AvailabilityHandler struct {
	set     *provider.SetHours
	weekly  *provider.WeeklyHours
	summary *provider.BusinessHours
	log     *zap.Logger
}

func NewAvailabilityHandler(
	set *provider.SetHours,
	weekly *provider.WeeklyHours,
	summary *provider.BusinessHours,
	log *zap.Logger,
) *AvailabilityHandler {
	return &AvailabilityHandler{set: set, weekly: weekly, summary: summary, log: log}
}

type DayConfig struct {
	DayOfWeek   *int   `json:"day_of_week" binding:"required"`
	IsAvailable bool   `json:"is_available"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
}

type WeekUpdateRequest struct {
	Days []DayConfig `json:"days" binding:"required,dive"`
}

func (r WeekUpdateRequest) days() []provider.DayInput {
	out := make([]provider.DayInput, 0, len(r.Days))
	for _, d := range r.Days {
		out = append(out, provider.DayInput{
			DayOfWeek:   *d.DayOfWeek,
			StartTime:   d.StartTime,
			EndTime:     d.EndTime,
			IsAvailable: d.IsAvailable,
		})
	}
	return out
}

func (h *AvailabilityHandler) Get(c *gin.Context) {
	providerID, ok := currentProvider(c)
	if !ok {
		return
	}

	rows, err := h.weekly.Execute(c.Request.Context(), providerID)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	labels, err := h.summary.Execute(c.Request.Context(), providerID)
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"days":    rows,
		"summary": labels,
	})
}

func (h *AvailabilityHandler) Update(c *gin.Context) {
	providerID, ok := currentProvider(c)
	if !ok {
		return
	}

	var req WeekUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	if err := h.set.Weekly(c.Request.Context(), providerID, req.days()); err != nil {
		writeError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *AvailabilityHandler) UpdateService(c *gin.Context) {
	providerID, ok := currentProvider(c)
	if !ok {
		return
	}
	serviceID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req WeekUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	if err := h.set.Service(c.Request.Context(), providerID, serviceID, req.days()); err != nil {
		writeError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *AvailabilityHandler) UpdateStaff(c *gin.Context) {
	providerID, ok := currentProvider(c)
	if !ok {
		return
	}
	staffID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req WeekUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	if err := h.set.Staff(c.Request.Context(), providerID, staffID, req.days()); err != nil {
		writeError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
