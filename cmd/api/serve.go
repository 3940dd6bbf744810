package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/slotbook/booking-saas/internal/audit"
	"github.com/slotbook/booking-saas/internal/jobs"
	"github.com/slotbook/booking-saas/internal/notification"
	"github.com/slotbook/booking-saas/internal/routes"
)

func newServeCommand() *cobra.Command {
	var withScheduler bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(withScheduler)
		},
	}

	cmd.Flags().BoolVar(&withScheduler, "with-scheduler", false, "also run the periodic jobs in this process")
	return cmd
}

func runServe(withScheduler bool) error {
	a, err := bootstrap()
	if err != nil {
		return err
	}
	defer a.close()

	if a.cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	rdb := a.cacheClient()
	if rdb != nil {
		defer rdb.Close()
	}

	queue := asynq.NewClient(a.queue)
	defer queue.Close()

	notifier := notification.NewDispatcher(queue, a.log)
	auditor := audit.NewDispatcher(audit.New(a.db), a.log)

	r := gin.New()
	routes.RegisterRoutes(r, routes.Deps{
		DB:       a.db,
		Redis:    rdb,
		Config:   a.cfg,
		Clock:    a.clock,
		Log:      a.log,
		Caps:     a.caps,
		Notifier: notifier,
		Audit:    auditor,
	})

	var sched *jobs.Scheduler
	if withScheduler {
		sched, err = a.scheduler(queue, auditor)
		if err != nil {
			return err
		}
		sched.Start()
	}

	srv := &http.Server{
		Addr:           a.cfg.Addr(),
		Handler:        r,
		ReadTimeout:    15 * time.Second,
		WriteTimeout:   15 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	errCh := make(chan error, 1)
	go func() {
		a.log.Info("http server starting", zap.String("addr", srv.Addr), zap.String("env", a.cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		a.log.Info("shutting down", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		a.log.Error("http server forced to shutdown", zap.Error(err))
	}

	// jobs still running dispatch audit events and reminders
	if sched != nil {
		sched.Stop(ctx)
	}

	notifier.Close()
	auditor.Close()

	a.log.Info("server exited")
	return nil
}
