package commands

import (
	"context"
	"fmt"

	"geoshop/internal/core/domain/model/order"
	"geoshop/internal/pkg/errs"
)

// SetOrderItemsCommandHandler replaces the item list of a draft order. Each
// requested product is resolved from the catalog, checked to be orderable and
// snapshot into a fresh item; the order itself rejects the edit once it left
// the draft status.
type SetOrderItemsCommandHandler struct {
	uowFactory UoWFactory
}

// NewSetOrderItemsCommandHandler creates a handler for item list replacement.
func NewSetOrderItemsCommandHandler(uowFactory UoWFactory) SetOrderItemsCommandHandler {
	return SetOrderItemsCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the item replacement. The order row is locked for the
// duration of the transaction so the replacement is atomic relative to a
// concurrent confirmation.
func (h *SetOrderItemsCommandHandler) Handle(ctx context.Context, cmd SetOrderItemsCommand) error {
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

	items := make([]*order.Item, 0, len(cmd.Items()))
	for _, spec := range cmd.Items() {
		item, err := h.buildItem(ctx, uow, spec)
		if err != nil {
			return err
		}
		items = append(items, item)
	}

	if err = aggregate.SetItems(items); err != nil {
		return err
	}
	if err = uow.OrderRepository().Update(ctx, aggregate); err != nil {
		return err
	}

	return uow.Commit(ctx)
}

func (h *SetOrderItemsCommandHandler) buildItem(ctx context.Context, uow UoW, spec ItemSpec) (*order.Item, error) {
	prod, err := uow.ProductRepository().GetByLabel(ctx, spec.ProductLabel)
	if err != nil {
		return nil, err
	}
	if !prod.Status().CanBeOrdered() {
		return nil, errs.NewForbiddenActionError("order product",
			fmt.Sprintf("product %s is %s and cannot be ordered", prod.Label(), prod.Status()))
	}
	if spec.DataFormat != "" && !prod.HasFormat(spec.DataFormat) {
		return nil, errs.NewValueIsInvalidErrorWithCause("data format",
			fmt.Errorf("product %s is not available as %s", prod.Label(), spec.DataFormat))
	}

	return order.NewItem(spec.ItemID, prod.ID(), prod.Label(), prod.ProviderID(), spec.DataFormat)
}
