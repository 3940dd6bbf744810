package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/slotbook/booking-saas/internal/audit"
	"github.com/slotbook/booking-saas/internal/config"
	"github.com/slotbook/booking-saas/internal/domain/provider"
	"github.com/slotbook/booking-saas/internal/handlers"
	infraRepo "github.com/slotbook/booking-saas/internal/infra/repository"
	"github.com/slotbook/booking-saas/internal/middleware"
	"github.com/slotbook/booking-saas/internal/timezone"
	ucAppointment "github.com/slotbook/booking-saas/internal/usecase/appointment"
	ucProvider "github.com/slotbook/booking-saas/internal/usecase/provider"
)

// Deps are the process-wide singletons the HTTP surface is built from.
type Deps struct {
	DB       *gorm.DB
	Redis    *redis.Client // nil disables the hours cache
	Config   *config.Config
	Clock    timezone.Clock
	Log      *zap.Logger
	Caps     *provider.Capabilities
	Notifier ucAppointment.Notifier
	Audit    *audit.Dispatcher
}

// Settings derives the slot calendar settings from configuration.
func Settings(cfg *config.Config) ucAppointment.Settings {
	s := ucAppointment.DefaultSettings()
	if cfg.SlotGranularityMinutes > 0 {
		s.Granularity = cfg.SlotGranularityMinutes
	}
	s.BufferMinutes = cfg.SlotBufferMinutes
	s.StaffParallel = cfg.StaffParallelBooking
	return s
}

func RegisterRoutes(r *gin.Engine, d Deps) {

	// ======================================================
	// MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(middleware.Recovery(d.Log))
	r.Use(middleware.RequestLogger(d.Log))
	r.Use(middleware.CORSMiddleware(d.Config.CORSAllowedOrigins))

	// ======================================================
	// INFRA (SINGLETONS)
	// ======================================================
	appointmentRepo := infraRepo.NewAppointmentGormRepository(d.DB)
	providerRepo := infraRepo.NewProviderGormRepository(d.DB)
	hoursStore := infraRepo.NewCachedHoursStore(appointmentRepo, d.Redis, d.Config.AvailabilityCacheTTL, d.Log)

	settings := Settings(d.Config)

	// ======================================================
	// USE CASES - PROVIDER
	// ======================================================
	downgradeUC := ucProvider.NewDowngradeIfExpired(providerRepo, d.Caps, d.Audit)
	findBySlugUC := ucProvider.NewFindBySlug(providerRepo)
	businessHoursUC := ucProvider.NewBusinessHours(providerRepo)
	listServicesUC := ucProvider.NewListServices(providerRepo)

	// ======================================================
	// USE CASES - APPOINTMENTS
	// ======================================================
	resolver := ucAppointment.NewHoursResolver(hoursStore)
	slotsUC := ucAppointment.NewGetAvailability(appointmentRepo, d.Caps, resolver, d.Clock, settings)
	validateUC := ucAppointment.NewValidateCandidate(appointmentRepo, d.Caps, resolver, d.Clock, settings)
	bookUC := ucAppointment.NewBookAppointment(
		appointmentRepo,
		validateUC,
		d.Caps,
		downgradeUC,
		d.Notifier,
		d.Audit,
		settings,
		d.Log,
	)

	// ======================================================
	// HANDLERS
	// ======================================================
	publicHandler := handlers.NewPublicHandler(handlers.PublicUseCases{
		FindProvider:  findBySlugUC,
		BusinessHours: businessHoursUC,
		Services:      listServicesUC,
		Slots:         slotsUC,
		Validate:      validateUC,
		NextAvailable: ucAppointment.NewNextAvailableDate(slotsUC),
		Book:          bookUC,
	}, d.Clock, d.Log)

	appointmentHandler := handlers.NewAppointmentHandler(handlers.AppointmentUseCases{
		Book:      bookUC,
		Confirm:   ucAppointment.NewConfirmAppointment(appointmentRepo, d.Caps, d.Notifier, d.Audit),
		Cancel:    ucAppointment.NewCancelAppointment(appointmentRepo, d.Caps, d.Clock, d.Notifier, d.Audit),
		Complete:  ucAppointment.NewCompleteAppointment(appointmentRepo, d.Clock, d.Audit),
		NoShow:    ucAppointment.NewMarkNoShow(appointmentRepo, d.Clock, d.Audit),
		Paid:      ucAppointment.NewMarkPaid(appointmentRepo, d.Audit),
		Price:     ucAppointment.NewUpdatePrice(appointmentRepo, d.Audit),
		ListDay:   ucAppointment.NewListAppointmentsByDate(appointmentRepo),
		ListMonth: ucAppointment.NewListAppointmentsByMonth(appointmentRepo),
	}, d.Clock, d.Log)

	serviceHandler := handlers.NewServiceHandler(
		ucProvider.NewCreateService(providerRepo, d.Caps, d.Audit),
		ucProvider.NewUpdateService(providerRepo, d.Caps, d.Audit),
		listServicesUC,
		d.Log,
	)

	availabilityHandler := handlers.NewAvailabilityHandler(
		ucProvider.NewSetHours(appointmentRepo, hoursStore, d.Audit),
		ucProvider.NewWeeklyHours(providerRepo),
		businessHoursUC,
		d.Log,
	)

	staffHandler := handlers.NewStaffHandler(
		ucProvider.NewCreateStaff(providerRepo, d.Caps, d.Audit),
		ucProvider.NewListStaff(providerRepo),
		d.Log,
	)

	meHandler := handlers.NewMeHandler(
		ucProvider.NewAdmissionController(providerRepo, d.Caps, d.Clock),
		ucProvider.NewSetAccepting(providerRepo, d.Audit),
		d.Log,
	)

	auditLogsHandler := handlers.NewAuditLogsHandler(audit.New(d.DB), d.Clock, d.Log)

	// ======================================================
	// API (JSON)
	// ======================================================
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		// ------------------------------
		// PUBLIC
		// ------------------------------
		publicAPI := api.Group("/public")
		publicAPI.Use(middleware.RateLimitMiddleware(
			middleware.NewIPRateLimiter(d.Config.PublicRateLimitPerMin),
			d.Log,
		))
		{
			publicAPI.GET("/:slug", publicHandler.Profile)
			publicAPI.GET("/:slug/services", publicHandler.ListServices)
			publicAPI.GET("/:slug/slots", publicHandler.Slots)
			publicAPI.GET("/:slug/validate", publicHandler.Validate)
			publicAPI.GET("/:slug/next-available", publicHandler.NextAvailable)
			publicAPI.POST("/:slug/appointments", publicHandler.CreateAppointment)
		}

		// ------------------------------
		// PROVIDER (JWT)
		// ------------------------------
		secured := api.Group("/me")
		secured.Use(middleware.AuthMiddleware(d.Config))
		{
			secured.GET("/usage", meHandler.Usage)
			secured.PUT("/accepting", meHandler.SetAccepting)

			secured.GET("/services", serviceHandler.List)
			secured.POST("/services", serviceHandler.Create)
			secured.PATCH("/services/:id", serviceHandler.Update)
			secured.PUT("/services/:id/availability", availabilityHandler.UpdateService)

			secured.GET("/staff", staffHandler.List)
			secured.POST("/staff", staffHandler.Create)
			secured.PUT("/staff/:id/availability", availabilityHandler.UpdateStaff)

			secured.GET("/availability", availabilityHandler.Get)
			secured.PUT("/availability", availabilityHandler.Update)

			// ------------------------------
			// APPOINTMENTS
			// ------------------------------
			secured.POST("/appointments", appointmentHandler.Create)
			secured.GET("/appointments", appointmentHandler.ListByDate)
			secured.GET("/appointments/month", appointmentHandler.ListByMonth)
			secured.PATCH("/appointments/:id/confirm", appointmentHandler.Confirm())
			secured.PATCH("/appointments/:id/cancel", appointmentHandler.Cancel())
			secured.PATCH("/appointments/:id/complete", appointmentHandler.Complete())
			secured.PATCH("/appointments/:id/no-show", appointmentHandler.NoShow())
			secured.PATCH("/appointments/:id/pay", appointmentHandler.MarkPaid)
			secured.PATCH("/appointments/:id/price", appointmentHandler.UpdatePrice)

			secured.GET("/audit-logs", auditLogsHandler.List)
		}
	}
}
