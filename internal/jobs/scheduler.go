package jobs

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/slotbook/booking-saas/internal/timezone"
)

// Job is one periodic sweep. Run reports how many records it touched.
type Job interface {
	Name() string
	Run(ctx context.Context) (int, error)
}

// Default schedules, in business time.
const (
	SpecResetCounters = "0 0 1 * *"
	SpecExpirePlans   = "0 1 * * *"
	SpecReminders     = "0 * * * *"
)

const runTimeout = 5 * time.Minute

type Scheduler struct {
	cron *cron.Cron
	log  *zap.Logger
	jobs map[string]Job
}

func NewScheduler(clock timezone.Clock, log *zap.Logger) *Scheduler {
	cl := cronLogger{log: log.Named("cron")}

	return &Scheduler{
		cron: cron.New(
			cron.WithLocation(clock.Location()),
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		log:  log,
		jobs: map[string]Job{},
	}
}

// Register schedules job on spec.
func (s *Scheduler) Register(spec string, job Job) error {
	if _, dup := s.jobs[job.Name()]; dup {
		return fmt.Errorf("job %q already registered", job.Name())
	}

	if _, err := s.cron.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
		defer cancel()
		_, _ = s.RunOnce(ctx, job.Name())
	}); err != nil {
		return fmt.Errorf("schedule %s: %w", job.Name(), err)
	}

	s.jobs[job.Name()] = job
	return nil
}

// RunOnce runs a registered job immediately, outside its schedule.
func (s *Scheduler) RunOnce(ctx context.Context, name string) (int, error) {
	job, ok := s.jobs[name]
	if !ok {
		return 0, fmt.Errorf("unknown job %q", name)
	}

	start := time.Now()
	n, err := job.Run(ctx)
	if err != nil {
		s.log.Error("job failed", zap.String("job", name), zap.Error(err))
		return n, err
	}

	s.log.Info("job finished",
		zap.String("job", name),
		zap.Int("affected", n),
		zap.Duration("took", time.Since(start)),
	)
	return n, nil
}

func (s *Scheduler) Names() []string {
	out := make([]string, 0, len(s.jobs))
	for name := range s.jobs {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func (s *Scheduler) Start() { s.cron.Start() }

// Stop waits for running jobs, bounded by ctx.
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
	}
}

// cronLogger adapts zap to cron.Logger.
type cronLogger struct {
	log *zap.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Sugar().Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Sugar().Errorw(msg, append(keysAndValues, "error", err)...)
}
