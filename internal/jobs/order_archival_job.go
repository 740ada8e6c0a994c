package jobs

import (
	"context"
	"log/slog"
	"time"

	"geoshop/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// OrderArchivalJob manages the scheduled archival of delivered orders. On
// each run it archives every processed order whose order date is older than
// the configured retention window.
type OrderArchivalJob struct {
	handler   commands.ArchiveOrdersCommandHandler
	cron      *cron.Cron
	schedule  string
	retention time.Duration
	logger    *slog.Logger
}

// NewOrderArchivalJob creates a job archiving processed orders past the
// retention window on the given cron schedule.
func NewOrderArchivalJob(
	handler commands.ArchiveOrdersCommandHandler,
	schedule string,
	retention time.Duration,
	logger *slog.Logger,
) *OrderArchivalJob {
	return &OrderArchivalJob{
		handler:   handler,
		cron:      cron.New(),
		schedule:  schedule,
		retention: retention,
		logger:    logger.With("component", "order_archival_job"),
	}
}

// Start schedules the archival sweep.
func (j *OrderArchivalJob) Start() error {
	_, err := j.cron.AddFunc(j.schedule, func() {
		ctx := context.Background()

		cmd, cmdErr := commands.NewArchiveOrdersCommand(time.Now().Add(-j.retention))
		if cmdErr != nil {
			j.logger.ErrorContext(ctx, "Order archival job misconfigured", "error", cmdErr)
			return
		}

		if handleErr := j.handler.Handle(ctx, cmd); handleErr != nil {
			j.logger.ErrorContext(ctx, "Order archival job failed", "error", handleErr)
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Order archival job started",
		"schedule", j.schedule, "retention", j.retention.String())
	return nil
}

// Stop stops the archival job.
func (j *OrderArchivalJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Order archival job stopped")
}
