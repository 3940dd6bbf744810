package handlers

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	domain "github.com/slotbook/booking-saas/internal/domain/appointment"
	"github.com/slotbook/booking-saas/internal/httperr"
	"github.com/slotbook/booking-saas/internal/middleware"
)

// ======================================================
// BUSINESS ERROR -> HTTP
// ======================================================

var paymentRequired = map[string]bool{
	"quota_exceeded":        true,
	"service_limit_reached": true,
	"staff_limit_reached":   true,
	"feature_requires_pro":  true,
}

var stateConflicts = map[string]bool{
	"slot_taken":                 true,
	"invalid_state":              true,
	"not_cancellable":            true,
	"not_started":                true,
	"price_locked":               true,
	"not_accepting_appointments": true,
}

var messages = map[string]string{
	"quota_exceeded":             "Monthly appointment limit reached. Upgrade to Pro for unlimited bookings.",
	"service_limit_reached":      "Service limit reached for the free plan.",
	"staff_limit_reached":        "Staff member limit reached.",
	"feature_requires_pro":       "This feature requires a Pro plan.",
	"invalid_state":              "The appointment cannot make this transition.",
	"not_cancellable":            "The appointment has already started.",
	"not_started":                "The appointment has not started yet.",
	"price_locked":               "The price of a paid appointment cannot change.",
	"not_accepting_appointments": "The provider is not accepting appointments.",
	"client_name_required":       "Client name is required.",
	"invalid_duration":           "Duration is not supported.",
	"invalid_price":              "Price is invalid.",
	"invalid_hours":              "Opening time must be before closing time.",
	"invalid_day_of_week":        "Day of week must be 0-6 and appear once.",
	"invalid_payment_method":     "Payment method is not supported.",
}

// writeError maps a use-case error to its HTTP status. Unknown errors are
// logged and answered with 500.
func writeError(c *gin.Context, log *zap.Logger, err error) {
	code := httperr.Code(err)
	if code == "" {
		log.Error("request failed",
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
		httperr.Internal(c, "internal_error", "Something went wrong.")
		return
	}

	msg, ok := messages[code]
	if !ok {
		msg = domain.Reason(code).Message()
	}

	switch {
	case paymentRequired[code]:
		httperr.PaymentRequired(c, code, msg)
	case stateConflicts[code]:
		httperr.Conflict(c, code, msg)
	case strings.HasSuffix(code, "_not_found"):
		httperr.NotFound(c, code, strings.ReplaceAll(strings.TrimSuffix(code, "_not_found"), "_", " ")+" not found")
	default:
		httperr.BadRequest(c, code, msg)
	}
}

// ======================================================
// REQUEST HELPERS
// ======================================================

func currentProvider(c *gin.Context) (uint, bool) {
	id, ok := middleware.ProviderID(c)
	if !ok {
		httperr.Unauthorized(c, "provider_not_in_context", "authentication required")
		return 0, false
	}
	return id, true
}

func paramID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		httperr.BadRequest(c, "invalid_"+name, "Invalid "+name+".")
		return 0, false
	}
	return uint(id), true
}

// queryID parses an optional numeric query parameter. A missing value
// yields nil.
func queryID(c *gin.Context, name string) (*uint, bool) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, true
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		httperr.BadRequest(c, "invalid_"+name, "Invalid "+name+".")
		return nil, false
	}
	v := uint(id)
	return &v, true
}
