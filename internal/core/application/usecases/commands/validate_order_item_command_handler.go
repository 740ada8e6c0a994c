package commands

import (
	"context"
)

// ValidateOrderItemCommandHandler consumes a validation token on behalf of an
// approver. The token lookup and its consumption run on the same locked order
// row, so two concurrent submissions of the same token cannot both succeed:
// the second one finds the token consumed and fails as not found.
type ValidateOrderItemCommandHandler struct {
	uowFactory OrderUoWFactory
}

// NewValidateOrderItemCommandHandler creates a handler for token consumption.
func NewValidateOrderItemCommandHandler(uowFactory OrderUoWFactory) ValidateOrderItemCommandHandler {
	return ValidateOrderItemCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the one-time validation.
func (h *ValidateOrderItemCommandHandler) Handle(ctx context.Context, cmd ValidateOrderItemCommand) error {
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

	aggregate, err := uow.OrderRepository().GetByItemToken(ctx, cmd.Token())
	if err != nil {
		return err
	}

	if _, err = aggregate.ValidateItem(cmd.Token(), cmd.IsValidated()); err != nil {
		return err
	}
	if err = uow.OrderRepository().Update(ctx, aggregate); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
