package notification

import (
	"context"
	"errors"
	"fmt"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/slotbook/booking-saas/internal/domain/appointment"
	"github.com/slotbook/booking-saas/internal/models"
)

// Store is what the worker reads and marks.
type Store interface {
	GetAppointmentWithRelations(ctx context.Context, id uint) (*models.Appointment, error)
	MarkReminderSent(ctx context.Context, id uint) error
}

type Handler struct {
	store Store
	email EmailSender
	sms   SMSSender
	log   *zap.Logger
}

func NewHandler(store Store, email EmailSender, sms SMSSender, log *zap.Logger) *Handler {
	return &Handler{store: store, email: email, sms: sms, log: log}
}

// ProcessTask sends one notification. A returned error makes asynq retry the
// task, up to MaxRetry times.
func (h *Handler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	p, err := ParsePayload(t)
	if err != nil {
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}

	ap, err := h.store.GetAppointmentWithRelations(ctx, p.AppointmentID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		h.log.Warn("notification for missing appointment", zap.Uint("appointment_id", p.AppointmentID))
		return nil
	}
	if err != nil {
		return fmt.Errorf("load appointment %d: %w", p.AppointmentID, err)
	}

	if p.Kind == KindReminder {
		if ap.ReminderSent || !appointment.Status(ap.Status).IsActive() {
			return nil
		}
	}

	msg := BuildMessage(p.Kind, ap)

	var sendErr error
	if ap.ClientEmail != "" {
		if err := h.email.SendEmail(ctx, ap.ClientName, ap.ClientEmail, msg.Subject, msg.Body); err != nil {
			sendErr = errors.Join(sendErr, err)
		}
	}
	if p.SendSMS && ap.ClientPhone != "" {
		if err := h.sms.SendSMS(ctx, ap.ClientPhone, msg.Body); err != nil {
			sendErr = errors.Join(sendErr, err)
		}
	}

	if sendErr != nil {
		h.log.Error("notification send failed",
			zap.String("kind", string(p.Kind)),
			zap.Uint("appointment_id", ap.ID),
			zap.Error(sendErr),
		)
		return sendErr
	}

	if p.Kind == KindReminder {
		if err := h.store.MarkReminderSent(ctx, ap.ID); err != nil {
			return fmt.Errorf("mark reminder sent: %w", err)
		}
	}

	h.log.Info("notification sent",
		zap.String("kind", string(p.Kind)),
		zap.Uint("appointment_id", ap.ID),
		zap.Bool("sms", p.SendSMS),
	)
	return nil
}

func NewServer(redis asynq.RedisConnOpt, concurrency int, log *zap.Logger) *asynq.Server {
	if concurrency <= 0 {
		concurrency = 10
	}

	return asynq.NewServer(redis, asynq.Config{
		Concurrency:    concurrency,
		RetryDelayFunc: Backoff,
		Logger:         log.Sugar(),
		Queues: map[string]int{
			"default": 1,
		},
	})
}

func NewServeMux(h *Handler) *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.Handle(TypeAppointmentNotification, h)
	return mux
}
