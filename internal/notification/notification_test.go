package notification

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/slotbook/booking-saas/internal/domain/provider"
	"github.com/slotbook/booking-saas/internal/models"
	"github.com/slotbook/booking-saas/internal/timezone"
)

// ------------------------------------------------------------
// Fakes
// ------------------------------------------------------------

type fakeEnqueuer struct {
	mu    sync.Mutex
	tasks []*asynq.Task
	ids   map[string]bool
	err   error
}

func (f *fakeEnqueuer) EnqueueContext(_ context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.err != nil {
		return nil, f.err
	}
	for _, o := range opts {
		if o.Type() == asynq.TaskIDOpt {
			id := o.Value().(string)
			if f.ids == nil {
				f.ids = map[string]bool{}
			}
			if f.ids[id] {
				return nil, asynq.ErrTaskIDConflict
			}
			f.ids[id] = true
		}
	}
	f.tasks = append(f.tasks, task)
	return &asynq.TaskInfo{ID: "t"}, nil
}

type fakeStore struct {
	ap     *models.Appointment
	marked []uint
}

func (f *fakeStore) GetAppointmentWithRelations(_ context.Context, _ uint) (*models.Appointment, error) {
	return f.ap, nil
}

func (f *fakeStore) MarkReminderSent(_ context.Context, id uint) error {
	f.marked = append(f.marked, id)
	return nil
}

type fakeSender struct {
	emails int
	sms    int
	err    error
}

func (f *fakeSender) SendEmail(context.Context, string, string, string, string) error {
	f.emails++
	return f.err
}

func (f *fakeSender) SendSMS(context.Context, string, string) error {
	f.sms++
	return f.err
}

func mustTask(t *testing.T, p Payload) *asynq.Task {
	t.Helper()
	task, err := NewTask(p)
	require.NoError(t, err)
	return task
}

// ------------------------------------------------------------
// Tasks
// ------------------------------------------------------------

func TestBackoffDoubles(t *testing.T) {
	assert.Equal(t, 60*time.Second, Backoff(0, nil, nil))
	assert.Equal(t, 120*time.Second, Backoff(1, nil, nil))
	assert.Equal(t, 240*time.Second, Backoff(2, nil, nil))
}

func TestNewTaskRejectsUnknownKind(t *testing.T) {
	_, err := NewTask(Payload{Kind: "fax", AppointmentID: 1})
	assert.Error(t, err)
}

func TestPayloadRoundTrip(t *testing.T) {
	task := mustTask(t, Payload{Kind: KindCancellation, AppointmentID: 9, SendSMS: true})

	assert.Equal(t, TypeAppointmentNotification, task.Type())
	p, err := ParsePayload(task)
	require.NoError(t, err)
	assert.Equal(t, Payload{Kind: KindCancellation, AppointmentID: 9, SendSMS: true}, p)
}

// ------------------------------------------------------------
// Dispatcher
// ------------------------------------------------------------

func TestDispatcherEnqueuesInBackground(t *testing.T) {
	q := &fakeEnqueuer{}
	d := NewDispatcher(q, zap.NewNop())

	d.Enqueue(KindConfirmation, 1, false)
	d.Enqueue(KindCancellation, 2, true)
	d.Close()

	require.Len(t, q.tasks, 2)
	p, err := ParsePayload(q.tasks[1])
	require.NoError(t, err)
	assert.Equal(t, uint(2), p.AppointmentID)
	assert.True(t, p.SendSMS)
}

func TestDispatcherSwallowsQueueErrors(t *testing.T) {
	q := &fakeEnqueuer{err: errors.New("redis down")}
	d := NewDispatcher(q, zap.NewNop())

	assert.NotPanics(t, func() {
		d.Enqueue(KindConfirmation, 1, false)
		d.Close()
	})
}

func TestEnqueueAfterCloseIsDropped(t *testing.T) {
	q := &fakeEnqueuer{}
	d := NewDispatcher(q, zap.NewNop())
	d.Close()

	assert.NotPanics(t, func() {
		d.Enqueue(KindReminder, 3, false)
		d.Close()
	})
	assert.Empty(t, q.tasks)
}

// ------------------------------------------------------------
// Worker
// ------------------------------------------------------------

func appointmentFixture(status string) *models.Appointment {
	return &models.Appointment{
		ID:              5,
		Reference:       "ref",
		Provider:        models.Provider{BusinessName: "Glow Studio"},
		Service:         models.Service{Name: "Haircut"},
		ClientName:      "Asha",
		ClientEmail:     "asha@example.com",
		ClientPhone:     "+919800000000",
		AppointmentDate: "2025-01-07",
		AppointmentTime: "14:30",
		Status:          status,
	}
}

func TestHandlerSendsEmailAndSMS(t *testing.T) {
	store := &fakeStore{ap: appointmentFixture("pending")}
	sender := &fakeSender{}
	h := NewHandler(store, sender, sender, zap.NewNop())

	err := h.ProcessTask(context.Background(), mustTask(t, Payload{Kind: KindConfirmation, AppointmentID: 5, SendSMS: true}))

	require.NoError(t, err)
	assert.Equal(t, 1, sender.emails)
	assert.Equal(t, 1, sender.sms)
	assert.Empty(t, store.marked)
}

func TestHandlerEmailOnlyForFreePlan(t *testing.T) {
	store := &fakeStore{ap: appointmentFixture("pending")}
	sender := &fakeSender{}
	h := NewHandler(store, sender, sender, zap.NewNop())

	require.NoError(t, h.ProcessTask(context.Background(), mustTask(t, Payload{Kind: KindConfirmation, AppointmentID: 5})))
	assert.Equal(t, 1, sender.emails)
	assert.Equal(t, 0, sender.sms)
}

func TestHandlerReminderMarksSent(t *testing.T) {
	store := &fakeStore{ap: appointmentFixture("confirmed")}
	sender := &fakeSender{}
	h := NewHandler(store, sender, sender, zap.NewNop())

	require.NoError(t, h.ProcessTask(context.Background(), mustTask(t, Payload{Kind: KindReminder, AppointmentID: 5})))
	assert.Equal(t, []uint{5}, store.marked)
}

func TestHandlerSkipsReminderForCancelled(t *testing.T) {
	store := &fakeStore{ap: appointmentFixture("cancelled")}
	sender := &fakeSender{}
	h := NewHandler(store, sender, sender, zap.NewNop())

	require.NoError(t, h.ProcessTask(context.Background(), mustTask(t, Payload{Kind: KindReminder, AppointmentID: 5})))
	assert.Equal(t, 0, sender.emails)
	assert.Empty(t, store.marked)
}

func TestHandlerReturnsSendErrorForRetry(t *testing.T) {
	store := &fakeStore{ap: appointmentFixture("confirmed")}
	sender := &fakeSender{err: errors.New("smtp 503")}
	h := NewHandler(store, sender, sender, zap.NewNop())

	err := h.ProcessTask(context.Background(), mustTask(t, Payload{Kind: KindReminder, AppointmentID: 5}))
	assert.Error(t, err)
	assert.Empty(t, store.marked)
}

func TestHandlerSkipsRetryOnBadPayload(t *testing.T) {
	h := NewHandler(&fakeStore{}, &fakeSender{}, &fakeSender{}, zap.NewNop())

	err := h.ProcessTask(context.Background(), asynq.NewTask(TypeAppointmentNotification, []byte("{")))
	assert.ErrorIs(t, err, asynq.SkipRetry)
}

func TestBuildMessage(t *testing.T) {
	msg := BuildMessage(KindReminder, appointmentFixture("confirmed"))

	assert.Contains(t, msg.Subject, "Haircut")
	assert.Contains(t, msg.Body, "02:30 PM")
	assert.Contains(t, msg.Body, "Glow Studio")
}

// ------------------------------------------------------------
// Reminder sweep
// ------------------------------------------------------------

type fakeReminderSource struct {
	date string
	apps []models.Appointment
}

func (f *fakeReminderSource) ListDueReminders(_ context.Context, date string) ([]models.Appointment, error) {
	f.date = date
	return f.apps, nil
}

func TestReminderSweepQueuesTomorrow(t *testing.T) {
	ist := timezone.Location(timezone.DefaultTimezone)
	clock := timezone.Fixed(time.Date(2025, 1, 6, 23, 30, 0, 0, ist))
	caps := provider.NewCapabilities(provider.DefaultLimits(), clock)

	src := &fakeReminderSource{apps: []models.Appointment{
		{ID: 1, Provider: models.Provider{CurrentPlan: "free"}},
		{ID: 2, Provider: models.Provider{CurrentPlan: "pro"}},
	}}
	q := &fakeEnqueuer{}
	sweep := NewReminderSweep(src, q, caps, clock, zap.NewNop())

	n, err := sweep.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, "2025-01-07", src.date)

	p, err := ParsePayload(q.tasks[1])
	require.NoError(t, err)
	assert.True(t, p.SendSMS)

	// second run within the hour: both task ids are still queued
	n, err = sweep.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}
