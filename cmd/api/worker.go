package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/slotbook/booking-saas/internal/audit"
	infraRepo "github.com/slotbook/booking-saas/internal/infra/repository"
	"github.com/slotbook/booking-saas/internal/notification"
)

func newWorkerCommand() *cobra.Command {
	var concurrency int

	cmd := &cobra.Command{
		Use:   "worker",
		Short: "Deliver queued notifications and run the periodic jobs",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWorker(concurrency)
		},
	}

	cmd.Flags().IntVar(&concurrency, "concurrency", 10, "number of notification deliveries in flight")
	return cmd
}

func runWorker(concurrency int) error {
	a, err := bootstrap()
	if err != nil {
		return err
	}
	defer a.close()

	queue := asynq.NewClient(a.queue)
	defer queue.Close()

	auditor := audit.NewDispatcher(audit.New(a.db), a.log)
	defer auditor.Close()

	sched, err := a.scheduler(queue, auditor)
	if err != nil {
		return err
	}

	handler := notification.NewHandler(
		infraRepo.NewAppointmentGormRepository(a.db),
		notification.NewEmailSender(a.cfg, a.log),
		notification.NewSMSSender(a.cfg, a.log),
		a.log,
	)

	srv := notification.NewServer(a.queue, concurrency, a.log)
	if err := srv.Start(notification.NewServeMux(handler)); err != nil {
		return err
	}
	sched.Start()

	a.log.Info("worker started",
		zap.Int("concurrency", concurrency),
		zap.Strings("jobs", sched.Names()),
	)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	a.log.Info("worker shutting down", zap.String("signal", sig.String()))

	sched.Stop(context.Background())
	srv.Shutdown()
	return nil
}
