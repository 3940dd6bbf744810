package notification

import (
	"context"
	"errors"
	"fmt"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"github.com/slotbook/booking-saas/internal/domain/provider"
	"github.com/slotbook/booking-saas/internal/models"
	"github.com/slotbook/booking-saas/internal/timezone"
)

type ReminderSource interface {
	ListDueReminders(ctx context.Context, date string) ([]models.Appointment, error)
}

// ReminderSweep queues a reminder for every active appointment tomorrow that
// has not had one yet.
type ReminderSweep struct {
	source ReminderSource
	client Enqueuer
	caps   *provider.Capabilities
	clock  timezone.Clock
	log    *zap.Logger
}

func NewReminderSweep(
	source ReminderSource,
	client Enqueuer,
	caps *provider.Capabilities,
	clock timezone.Clock,
	log *zap.Logger,
) *ReminderSweep {
	return &ReminderSweep{source: source, client: client, caps: caps, clock: clock, log: log}
}

func (s *ReminderSweep) Name() string { return "send-reminders" }

// Run returns the number of reminders queued. The task id is derived from the
// appointment, so an hourly rerun does not queue a reminder still pending.
func (s *ReminderSweep) Run(ctx context.Context) (int, error) {
	tomorrow := timezone.Today(s.clock).AddDate(0, 0, 1).Format(timezone.DateLayout)

	due, err := s.source.ListDueReminders(ctx, tomorrow)
	if err != nil {
		return 0, fmt.Errorf("list due reminders: %w", err)
	}

	queued := 0
	for i := range due {
		ap := &due[i]

		task, err := NewTask(Payload{
			Kind:          KindReminder,
			AppointmentID: ap.ID,
			SendSMS:       s.caps.Has(&ap.Provider, provider.FeatureSMSNotifications),
		})
		if err != nil {
			return queued, err
		}

		_, err = s.client.EnqueueContext(ctx, task, asynq.TaskID(fmt.Sprintf("reminder:%d", ap.ID)))
		if errors.Is(err, asynq.ErrTaskIDConflict) {
			continue
		}
		if err != nil {
			s.log.Error("enqueue reminder failed", zap.Uint("appointment_id", ap.ID), zap.Error(err))
			continue
		}
		queued++
	}

	return queued, nil
}
