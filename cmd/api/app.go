package main

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/slotbook/booking-saas/internal/audit"
	"github.com/slotbook/booking-saas/internal/config"
	"github.com/slotbook/booking-saas/internal/db"
	"github.com/slotbook/booking-saas/internal/domain/provider"
	infraRepo "github.com/slotbook/booking-saas/internal/infra/repository"
	"github.com/slotbook/booking-saas/internal/jobs"
	"github.com/slotbook/booking-saas/internal/logger"
	"github.com/slotbook/booking-saas/internal/notification"
	"github.com/slotbook/booking-saas/internal/timezone"
	ucProvider "github.com/slotbook/booking-saas/internal/usecase/provider"
)

// app holds the singletons shared by every subcommand.
type app struct {
	cfg   *config.Config
	log   *zap.Logger
	db    *gorm.DB
	clock timezone.Clock
	caps  *provider.Capabilities
	queue asynq.RedisClientOpt
}

func bootstrap() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if !timezone.IsValid(cfg.BusinessTimezone) {
		return nil, fmt.Errorf("invalid BUSINESS_TIMEZONE %q", cfg.BusinessTimezone)
	}

	log, err := logger.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	gdb, err := db.NewDB(cfg, log)
	if err != nil {
		_ = log.Sync()
		return nil, fmt.Errorf("open database: %w", err)
	}

	clock := timezone.NewClock(cfg.BusinessTimezone)

	return &app{
		cfg:   cfg,
		log:   log,
		db:    gdb,
		clock: clock,
		caps:  provider.NewCapabilities(limitsFrom(cfg), clock),
		queue: asynq.RedisClientOpt{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisQueueDB,
		},
	}, nil
}

func (a *app) close() {
	if sqlDB, err := a.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	_ = a.log.Sync()
}

// limitsFrom overlays configured plan limits on the defaults; zero keeps the
// default.
func limitsFrom(cfg *config.Config) provider.Limits {
	l := provider.DefaultLimits()
	if cfg.FreePlanAppointmentLimit > 0 {
		l.FreeAppointments = cfg.FreePlanAppointmentLimit
	}
	if cfg.FreePlanServiceLimit > 0 {
		l.FreeServices = cfg.FreePlanServiceLimit
	}
	if cfg.MaxStaffMembersPro > 0 {
		l.MaxStaffPro = cfg.MaxStaffMembersPro
	}
	if cfg.DowngradeGraceDays > 0 {
		l.DowngradeGraceDays = cfg.DowngradeGraceDays
	}
	return l
}

// cacheClient connects to the hours cache. A nil client turns the cache off,
// so an unreachable Redis degrades reads instead of failing startup.
func (a *app) cacheClient() *redis.Client {
	rdb := redis.NewClient(&redis.Options{
		Addr:     a.cfg.RedisAddr,
		Password: a.cfg.RedisPassword,
		DB:       a.cfg.RedisCacheDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		a.log.Warn("hours cache disabled", zap.String("addr", a.cfg.RedisAddr), zap.Error(err))
		_ = rdb.Close()
		return nil
	}
	return rdb
}

// scheduler registers the three periodic jobs. The audit dispatcher may be
// nil when no job run should be recorded.
func (a *app) scheduler(client notification.Enqueuer, auditor *audit.Dispatcher) (*jobs.Scheduler, error) {
	providerRepo := infraRepo.NewProviderGormRepository(a.db)
	appointmentRepo := infraRepo.NewAppointmentGormRepository(a.db)

	downgrade := ucProvider.NewDowngradeIfExpired(providerRepo, a.caps, auditor)

	s := jobs.NewScheduler(a.clock, a.log)

	if err := s.Register(jobs.SpecResetCounters, ucProvider.NewResetMonthlyCounters(providerRepo, a.clock)); err != nil {
		return nil, err
	}
	if err := s.Register(jobs.SpecExpirePlans, ucProvider.NewExpirePlans(providerRepo, downgrade, a.clock, a.log)); err != nil {
		return nil, err
	}
	if err := s.Register(jobs.SpecReminders, notification.NewReminderSweep(appointmentRepo, client, a.caps, a.clock, a.log)); err != nil {
		return nil, err
	}

	return s, nil
}
