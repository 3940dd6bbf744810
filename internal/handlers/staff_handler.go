package handlers

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/slotbook/booking-saas/internal/httperr"
	"github.com/slotbook/booking-saas/internal/httpresp"
	"github.com/slotbook/booking-saas/internal/usecase/provider"
)

type StaffHandler struct {
	create *provider.CreateStaff
	list   *provider.ListStaff
	log    *zap.Logger
}

func NewStaffHandler(create *provider.CreateStaff, list *provider.ListStaff, log *zap.Logger) *StaffHandler {
	return &StaffHandler{create: create, list: list, log: log}
}

type CreateStaffRequest struct {
	Name         string `json:"name" binding:"required"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	DisplayOrder int    `json:"display_order"`
}

func (h *StaffHandler) List(c *gin.Context) {
	providerID, ok := currentProvider(c)
	if !ok {
		return
	}

	staff, err := h.list.Execute(c.Request.Context(), providerID)
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	httpresp.List(c, staff)
}

func (h *StaffHandler) Create(c *gin.Context) {
	providerID, ok := currentProvider(c)
	if !ok {
		return
	}

	var req CreateStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	m, err := h.create.Execute(c.Request.Context(), providerID, provider.StaffInput{
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		DisplayOrder: req.DisplayOrder,
	})
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	httpresp.Created(c, m)
}
