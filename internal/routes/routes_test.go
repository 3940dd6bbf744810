package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/slotbook/booking-saas/internal/config"
	"github.com/slotbook/booking-saas/internal/domain/provider"
	"github.com/slotbook/booking-saas/internal/models"
	"github.com/slotbook/booking-saas/internal/notification"
	"github.com/slotbook/booking-saas/internal/testutil"
	"github.com/slotbook/booking-saas/internal/timezone"
)

const secret = "test-secret"

type nopNotifier struct{}

func (nopNotifier) Enqueue(notification.Kind, uint, bool) {}

type env struct {
	db     *gorm.DB
	router *gin.Engine
	p      *models.Provider
	svc    *models.Service
}

func setup(t *testing.T) *env {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.NewDB(t)
	clock := timezone.Fixed(testutil.At(2025, time.January, 6, 12, 0))
	cfg := &config.Config{
		JWTSecret:              secret,
		SlotGranularityMinutes: 30,
		PublicRateLimitPerMin:  1000,
	}

	r := gin.New()
	RegisterRoutes(r, Deps{
		DB:       db,
		Config:   cfg,
		Clock:    clock,
		Log:      zap.NewNop(),
		Caps:     provider.NewCapabilities(provider.DefaultLimits(), clock),
		Notifier: nopNotifier{},
	})

	p := testutil.CreateProvider(t, db, "glow", "free")
	testutil.SetWeek(t, db, p.ID, "09:00", "17:00",
		time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday)
	svc := testutil.CreateService(t, db, p.ID, "Haircut", 60)

	return &env{db: db, router: r, p: p, svc: svc}
}

func (e *env) token(t *testing.T, providerID uint) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":         1,
		"provider_id": providerID,
		"exp":         time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

func (e *env) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func (e *env) booking(date, hm string) map[string]any {
	return map[string]any{
		"service_id":   e.svc.ID,
		"client_name":  "Asha",
		"client_phone": "+919800000000",
		"date":         date,
		"time":         hm,
	}
}

// ------------------------------------------------------------
// Public
// ------------------------------------------------------------

func TestPublicSlots(t *testing.T) {
	e := setup(t)

	w := e.do(t, http.MethodGet, fmt.Sprintf("/api/public/glow/slots?service_id=%d&date=2025-01-13", e.svc.ID), "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := decode(t, w)
	slots := body["slots"].([]any)
	require.Len(t, slots, 15)
	assert.Equal(t, "09:00", slots[0].(map[string]any)["time"])
	assert.Equal(t, "09:00 AM", slots[0].(map[string]any)["display"])

	w = e.do(t, http.MethodGet, "/api/public/glow/slots?date=2025-01-13", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = e.do(t, http.MethodGet, fmt.Sprintf("/api/public/nope/slots?service_id=%d&date=2025-01-13", e.svc.ID), "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPublicBookingFlow(t *testing.T) {
	e := setup(t)

	w := e.do(t, http.MethodPost, "/api/public/glow/appointments", "", e.booking("2025-01-07", "10:00"))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	body := decode(t, w)
	assert.Equal(t, "pending", body["status"])
	assert.NotEmpty(t, body["reference"])

	w = e.do(t, http.MethodPost, "/api/public/glow/appointments", "", e.booking("2025-01-07", "10:00"))
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "slot_taken", decode(t, w)["error_code"])

	w = e.do(t, http.MethodPost, "/api/public/glow/appointments", "", e.booking("2025-01-07", "16:30"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "exceeds_closing", decode(t, w)["error_code"])

	w = e.do(t, http.MethodGet, fmt.Sprintf("/api/public/glow/validate?service_id=%d&date=2025-01-07&time=10:00", e.svc.ID), "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "slot_taken", decode(t, w)["reason"])
}

func TestPublicQuota(t *testing.T) {
	e := setup(t)

	for _, hm := range []string{"09:00", "10:00", "11:00", "12:00", "13:00"} {
		w := e.do(t, http.MethodPost, "/api/public/glow/appointments", "", e.booking("2025-01-08", hm))
		require.Equal(t, http.StatusCreated, w.Code, hm)
	}

	w := e.do(t, http.MethodPost, "/api/public/glow/appointments", "", e.booking("2025-01-08", "14:00"))
	assert.Equal(t, http.StatusPaymentRequired, w.Code)
	assert.Equal(t, "quota_exceeded", decode(t, w)["error_code"])
}

func TestPublicProfileAndNextAvailable(t *testing.T) {
	e := setup(t)

	w := e.do(t, http.MethodGet, "/api/public/glow", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	hours := decode(t, w)["business_hours"].([]any)
	assert.Equal(t, map[string]any{"day": "Monday", "hours": "09:00 AM - 05:00 PM"}, hours[0])
	assert.Equal(t, map[string]any{"day": "Sunday", "hours": "Closed"}, hours[6])

	w = e.do(t, http.MethodGet, fmt.Sprintf("/api/public/glow/next-available?service_id=%d", e.svc.ID), "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "2025-01-06", decode(t, w)["date"])
}

// ------------------------------------------------------------
// Provider
// ------------------------------------------------------------

func TestSecuredRequiresToken(t *testing.T) {
	e := setup(t)

	w := e.do(t, http.MethodGet, "/api/me/usage", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestProviderServicesAndUsage(t *testing.T) {
	e := setup(t)
	tok := e.token(t, e.p.ID)

	w := e.do(t, http.MethodPost, "/api/me/services", tok, map[string]any{
		"name": "Beard", "duration_minutes": 50, "price": "200",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_duration", decode(t, w)["error_code"])

	for _, name := range []string{"Beard", "Colour"} {
		w = e.do(t, http.MethodPost, "/api/me/services", tok, map[string]any{
			"name": name, "duration_minutes": 45, "price": "200",
		})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}

	w = e.do(t, http.MethodPost, "/api/me/services", tok, map[string]any{
		"name": "Spa", "duration_minutes": 45, "price": "200",
	})
	assert.Equal(t, http.StatusPaymentRequired, w.Code)

	w = e.do(t, http.MethodGet, "/api/me/usage", tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	usage := decode(t, w)
	assert.Equal(t, "free", usage["plan"])
	assert.EqualValues(t, 3, usage["active_services"])
	assert.Equal(t, false, usage["can_add_service"])
}

func TestProviderAppointmentLifecycle(t *testing.T) {
	e := setup(t)
	tok := e.token(t, e.p.ID)

	w := e.do(t, http.MethodPost, "/api/me/appointments", tok, map[string]any{
		"service_id": e.svc.ID, "client_name": "Walk-in", "date": "2025-01-07", "time": "11:00",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	ap := decode(t, w)
	assert.Equal(t, "confirmed", ap["status"])
	id := uint(ap["id"].(float64))

	w = e.do(t, http.MethodPatch, fmt.Sprintf("/api/me/appointments/%d/complete", id), tok, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "not_started", decode(t, w)["error_code"])

	w = e.do(t, http.MethodPatch, fmt.Sprintf("/api/me/appointments/%d/pay", id), tok, map[string]any{"method": "upi"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "paid", decode(t, w)["payment_status"])

	w = e.do(t, http.MethodGet, "/api/me/appointments?date=2025-01-07", tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, decode(t, w)["total"])

	w = e.do(t, http.MethodPatch, fmt.Sprintf("/api/me/appointments/%d/cancel", id), tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "cancelled", decode(t, w)["status"])

	// another tenant cannot touch it
	other := testutil.CreateProvider(t, e.db, "other", "free")
	w = e.do(t, http.MethodPatch, fmt.Sprintf("/api/me/appointments/%d/confirm", id), e.token(t, other.ID), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestProviderAvailability(t *testing.T) {
	e := setup(t)
	tok := e.token(t, e.p.ID)

	w := e.do(t, http.MethodPut, "/api/me/availability", tok, map[string]any{
		"days": []map[string]any{
			{"day_of_week": 1, "is_available": true, "start_time": "17:00", "end_time": "09:00"},
		},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_hours", decode(t, w)["error_code"])

	w = e.do(t, http.MethodPut, fmt.Sprintf("/api/me/services/%d/availability", e.svc.ID), tok, map[string]any{
		"days": []map[string]any{
			{"day_of_week": 1, "is_available": true, "start_time": "10:00", "end_time": "12:00"},
		},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = e.do(t, http.MethodGet, fmt.Sprintf("/api/public/glow/slots?service_id=%d&date=2025-01-07", e.svc.ID), "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["slots"], 3)

	w = e.do(t, http.MethodPost, "/api/me/staff", tok, map[string]any{"name": "Meera"})
	assert.Equal(t, http.StatusPaymentRequired, w.Code)
}
