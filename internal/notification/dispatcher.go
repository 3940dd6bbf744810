package notification

import (
	"context"
	"sync"
	"time"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// Enqueuer is the part of *asynq.Client the dispatcher needs.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// Dispatcher hands notification requests to the task queue off the request
// path. Enqueue never blocks and never fails the caller.
type Dispatcher struct {
	client Enqueuer
	log    *zap.Logger
	queue  chan Payload
	wg     sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

func NewDispatcher(client Enqueuer, log *zap.Logger) *Dispatcher {
	d := &Dispatcher{
		client: client,
		log:    log,
		queue:  make(chan Payload, 256),
	}

	d.wg.Add(1)
	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()

	for p := range d.queue {
		d.enqueue(p)
	}
}

func (d *Dispatcher) enqueue(p Payload) {
	task, err := NewTask(p)
	if err != nil {
		d.log.Error("build notification task", zap.Error(err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	info, err := d.client.EnqueueContext(ctx, task)
	if err != nil {
		d.log.Error("enqueue notification failed",
			zap.String("kind", string(p.Kind)),
			zap.Uint("appointment_id", p.AppointmentID),
			zap.Error(err),
		)
		return
	}

	d.log.Debug("notification enqueued",
		zap.String("task_id", info.ID),
		zap.String("kind", string(p.Kind)),
		zap.Uint("appointment_id", p.AppointmentID),
	)
}

func (d *Dispatcher) Enqueue(kind Kind, appointmentID uint, sendSMS bool) {
	if d == nil {
		return
	}

	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		d.log.Warn("notification dispatcher closed, dropping",
			zap.String("kind", string(kind)),
			zap.Uint("appointment_id", appointmentID),
		)
		return
	}

	p := Payload{Kind: kind, AppointmentID: appointmentID, SendSMS: sendSMS}
	select {
	case d.queue <- p:
	default:
		d.log.Warn("notification queue full, dropping",
			zap.String("kind", string(kind)),
			zap.Uint("appointment_id", appointmentID),
		)
	}
}

// Close flushes queued requests to the task queue. Later Enqueue calls are
// dropped.
func (d *Dispatcher) Close() {
	if d == nil {
		return
	}

	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()

	d.wg.Wait()
}
