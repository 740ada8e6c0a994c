package commands

import (
	"context"
)

// SetPriceCommandHandler records an administrator's manual quote on one order
// item, marking its price calculated.
type SetPriceCommandHandler struct {
	uowFactory OrderUoWFactory
}

// NewSetPriceCommandHandler creates a handler for manual quotes.
func NewSetPriceCommandHandler(uowFactory OrderUoWFactory) SetPriceCommandHandler {
	return SetPriceCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the quote under the order row lock.
func (h *SetPriceCommandHandler) Handle(ctx context.Context, cmd SetPriceCommand) error {
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

	if err = aggregate.SetItemPrice(cmd.ItemID(), cmd.Price(), cmd.BaseFee()); err != nil {
		return err
	}
	if err = uow.OrderRepository().Update(ctx, aggregate); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
