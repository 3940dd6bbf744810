package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/slotbook/booking-saas/internal/httperr"
	"github.com/slotbook/booking-saas/internal/httpresp"
	"github.com/slotbook/booking-saas/internal/usecase/provider"
)

type ServiceHandler struct {
	create *provider.CreateService
	update *provider.UpdateService
	list   *provider.ListServices
	log    *zap.Logger
}

func NewServiceHandler(
	create *provider.CreateService,
	update *provider.UpdateService,
	list *provider.ListServices,
	log *zap.Logger,
) *ServiceHandler {
	return &ServiceHandler{create: create, update: update, list: list, log: log}
}

// --------- Requests ---------

type CreateServiceRequest struct {
	Name            string          `json:"name" binding:"required"`
	Description     string          `json:"description"`
	DurationMinutes int             `json:"duration_minutes" binding:"required"`
	Price           decimal.Decimal `json:"price"`
}

type UpdateServiceRequest struct {
	Name            *string          `json:"name,omitempty"`
	Description     *string          `json:"description,omitempty"`
	DurationMinutes *int             `json:"duration_minutes,omitempty"`
	Price           *decimal.Decimal `json:"price,omitempty"`
	Active          *bool            `json:"active,omitempty"`
}

// --------- Handlers ---------

func (h *ServiceHandler) List(c *gin.Context) {
	providerID, ok := currentProvider(c)
	if !ok {
		return
	}

	services, err := h.list.Execute(c.Request.Context(), providerID, c.Query("active") == "true")
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	httpresp.List(c, services)
}

func (h *ServiceHandler) Create(c *gin.Context) {
	providerID, ok := currentProvider(c)
	if !ok {
		return
	}

	var req CreateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	svc, err := h.create.Execute(c.Request.Context(), providerID, provider.ServiceInput{
		Name:            req.Name,
		Description:     req.Description,
		DurationMinutes: req.DurationMinutes,
		Price:           req.Price,
	})
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	httpresp.Created(c, svc)
}

func (h *ServiceHandler) Update(c *gin.Context) {
	providerID, ok := currentProvider(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req UpdateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	svc, err := h.update.Execute(c.Request.Context(), providerID, id, provider.ServicePatch{
		Name:            req.Name,
		Description:     req.Description,
		DurationMinutes: req.DurationMinutes,
		Price:           req.Price,
		Active:          req.Active,
	})
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, svc)
}
