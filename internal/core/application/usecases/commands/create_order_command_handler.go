package commands

import (
	"context"

	"geoshop/internal/core/domain/model/kernel"
	"geoshop/internal/core/domain/model/order"
)

// CreateOrderCommandHandler handles the business logic for opening a draft
// order: parsing and validating the perimeter geometry and persisting the new
// aggregate.
type CreateOrderCommandHandler struct {
	uowFactory OrderUoWFactory
}

// NewCreateOrderCommandHandler creates a handler for order creation operations.
// Requires an OrderUoWFactory for transactional persistence.
func NewCreateOrderCommandHandler(uowFactory OrderUoWFactory) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the order creation command. The perimeter WKT is parsed
// here, so a malformed or zero-area geometry fails the command before
// anything is persisted.
func (h *CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	geometry, err := kernel.NewGeometryFromWKT(cmd.GeometryWKT(), cmd.SRID())
	if err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	aggregate, err := order.NewOrder(cmd.OrderID(), cmd.ClientID(), cmd.OrderType(),
		cmd.Title(), cmd.Description(), geometry)
	if err != nil {
		return err
	}

	if err = uow.OrderRepository().Add(ctx, aggregate); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
