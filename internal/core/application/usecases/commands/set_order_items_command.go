package commands

import (
	"errors"

	"geoshop/internal/core/domain/model/kernel"
	"geoshop/internal/pkg/errs"
	"geoshop/internal/pkg/guard"
)

var ErrSetOrderItemsCommandIsNotConstructed = errors.New(
	"SetOrderItemsCommand must be created via NewSetOrderItemsCommand constructor",
)

// ItemSpec describes one requested item: the product it targets by catalog
// label and the optionally already chosen data format.
type ItemSpec struct {
	ItemID       kernel.UUID
	ProductLabel string
	DataFormat   string
}

// SetOrderItemsCommand represents a request to replace the item list of a
// draft order. The replacement is atomic relative to status checks: an order
// confirmed concurrently can never end up with a partially applied list.
type SetOrderItemsCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	items   []ItemSpec

	guard guard.ConstructorGuard
}

// NewSetOrderItemsCommand creates a command to replace the item list of an
// order. Every spec needs a valid item ID and a product label; an empty list
// is allowed and clears the order.
func NewSetOrderItemsCommand(orderID kernel.UUID, items []ItemSpec) (SetOrderItemsCommand, error) {
	cmd := SetOrderItemsCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := orderID.Validate(); err != nil {
		return SetOrderItemsCommand{}, err
	}
	for _, spec := range items {
		if err := spec.ItemID.Validate(); err != nil {
			return SetOrderItemsCommand{}, err
		}
		if spec.ProductLabel == "" {
			return SetOrderItemsCommand{}, errs.NewValueIsRequiredError("product label")
		}
	}

	cmd.orderID = orderID
	cmd.items = items
	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c SetOrderItemsCommand) Validate() error {
	return c.guard.Validate(ErrSetOrderItemsCommandIsNotConstructed)
}

// OrderID returns the order whose items are replaced.
func (c SetOrderItemsCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Items returns the requested item specs.
func (c SetOrderItemsCommand) Items() []ItemSpec {
	return c.items
}
