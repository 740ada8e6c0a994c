package commands

import (
	"context"
	"log/slog"
)

// ArchiveOrdersCommandHandler archives processed orders past the retention
// cutoff. One order failing to archive does not abort the sweep.
type ArchiveOrdersCommandHandler struct {
	uowFactory OrderUoWFactory
	logger     *slog.Logger
}

// NewArchiveOrdersCommandHandler creates a handler for the archival sweep.
func NewArchiveOrdersCommandHandler(
	uowFactory OrderUoWFactory,
	logger *slog.Logger,
) ArchiveOrdersCommandHandler {
	return ArchiveOrdersCommandHandler{
		uowFactory: uowFactory,
		logger:     logger,
	}
}

// Handle archives every processed order older than the cutoff.
func (h *ArchiveOrdersCommandHandler) Handle(ctx context.Context, cmd ArchiveOrdersCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	aggregates, err := uow.OrderRepository().GetProcessedBefore(ctx, cmd.OlderThan())
	if err != nil {
		return err
	}

	for _, aggregate := range aggregates {
		if err = aggregate.Archive(); err != nil {
			h.logger.Error("cannot archive order", "order_id", aggregate.ID(), "error", err)
			continue
		}
		if err = uow.OrderRepository().Update(ctx, aggregate); err != nil {
			return err
		}
	}

	return uow.Commit(ctx)
}
