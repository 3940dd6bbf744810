package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/slotbook/booking-saas/internal/httperr"
	"github.com/slotbook/booking-saas/internal/usecase/provider"
)

type MeHandler struct {
	usage     *provider.AdmissionController
	accepting *provider.SetAccepting
	log       *zap.Logger
}

func NewMeHandler(usage *provider.AdmissionController, accepting *provider.SetAccepting, log *zap.Logger) *MeHandler {
	return &MeHandler{usage: usage, accepting: accepting, log: log}
}

type AcceptingRequest struct {
	Accepting *bool `json:"accepting" binding:"required"`
}

// Usage reports plan, monthly quota and service/staff headroom.
func (h *MeHandler) Usage(c *gin.Context) {
	providerID, ok := currentProvider(c)
	if !ok {
		return
	}

	u, err := h.usage.Usage(c.Request.Context(), providerID)
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, u)
}

func (h *MeHandler) SetAccepting(c *gin.Context) {
	providerID, ok := currentProvider(c)
	if !ok {
		return
	}

	var req AcceptingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "accepting is required.")
		return
	}

	if err := h.accepting.Execute(c.Request.Context(), providerID, *req.Accepting); err != nil {
		writeError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"accepting_appointments": *req.Accepting})
}
