package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/slotbook/booking-saas/internal/audit"
	"github.com/slotbook/booking-saas/internal/httpresp"
	"github.com/slotbook/booking-saas/internal/timezone"
)

// ======================================================
// HANDLER
// ======================================================

type AuditLogsHandler struct {
	logs  *audit.Logger
	clock timezone.Clock
	log   *zap.Logger
}

func NewAuditLogsHandler(logs *audit.Logger, clock timezone.Clock, log *zap.Logger) *AuditLogsHandler {
	return &AuditLogsHandler{logs: logs, clock: clock, log: log}
}

func (h *AuditLogsHandler) List(c *gin.Context) {
	providerID, ok := currentProvider(c)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page <= 0 {
		page = 1
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	f := audit.Filter{
		ProviderID: providerID,
		Action:     c.Query("action"),
		Entity:     c.Query("entity"),
		Page:       page,
		Limit:      limit,
	}

	// optional day bounds, "to" inclusive
	if from, err := timezone.ParseDate(c.Query("from"), h.clock.Location()); err == nil {
		f.From = &from
	}
	if to, err := timezone.ParseDate(c.Query("to"), h.clock.Location()); err == nil {
		next := to.AddDate(0, 0, 1)
		f.To = &next
	}

	logs, total, err := h.logs.Query(c.Request.Context(), f)
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	httpresp.Page(c, logs, page, limit, total)
}
