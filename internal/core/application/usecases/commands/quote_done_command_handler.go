package commands

import (
	"context"
)

// QuoteDoneCommandHandler moves a pending order to QuoteDone once all prices
// are in.
type QuoteDoneCommandHandler struct {
	uowFactory OrderUoWFactory
}

// NewQuoteDoneCommandHandler creates a handler for finishing quotes.
func NewQuoteDoneCommandHandler(uowFactory OrderUoWFactory) QuoteDoneCommandHandler {
	return QuoteDoneCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the transition under the order row lock. The precondition
// check and the status write happen on the same locked row, so a quote being
// edited concurrently cannot slip through half-priced.
func (h *QuoteDoneCommandHandler) Handle(ctx context.Context, cmd QuoteDoneCommand) error {
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

	if err = aggregate.QuoteDone(); err != nil {
		return err
	}
	if err = uow.OrderRepository().Update(ctx, aggregate); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
