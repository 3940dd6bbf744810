package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/hibiken/asynq"
	"github.com/spf13/cobra"

	"github.com/slotbook/booking-saas/internal/audit"
)

func newJobsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "jobs",
		Short: "Run scheduled jobs by hand",
	}

	cmd.AddCommand(&cobra.Command{
		Use:       "run <reset-counters|expire-plans|send-reminders>",
		Short:     "Run one job immediately and exit",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"reset-counters", "expire-plans", "send-reminders"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runJob(cmd.Context(), args[0])
		},
	})

	return cmd
}

func runJob(ctx context.Context, name string) error {
	if ctx == nil {
		ctx = context.Background()
	}

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

	n, err := sched.RunOnce(ctx, name)
	if err != nil {
		return fmt.Errorf("%w (known jobs: %s)", err, strings.Join(sched.Names(), ", "))
	}

	fmt.Printf("%s: %d affected\n", name, n)
	return nil
}
