package commands

import (
	"context"
)

// StartExtractCommandHandler moves a ready order into extraction.
type StartExtractCommandHandler struct {
	uowFactory OrderUoWFactory
}

// NewStartExtractCommandHandler creates a handler for starting extractions.
func NewStartExtractCommandHandler(uowFactory OrderUoWFactory) StartExtractCommandHandler {
	return StartExtractCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the transition under the order row lock.
func (h *StartExtractCommandHandler) Handle(ctx context.Context, cmd StartExtractCommand) error {
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

	aggregate, err := uow.OrderRepository().GetForUpdate(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	if err = aggregate.StartExtract(); err != nil {
		return err
	}
	if err = uow.OrderRepository().Update(ctx, aggregate); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
