package commands

import (
	"errors"

	"geoshop/internal/core/domain/model/kernel"
	"geoshop/internal/pkg/guard"
)

var ErrSetPriceCommandIsNotConstructed = errors.New(
	"SetPriceCommand must be created via NewSetPriceCommand constructor",
)

// SetPriceCommand represents an administrator quoting one order item whose
// pricing strategy requires a manual price.
type SetPriceCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	itemID  kernel.UUID
	price   kernel.Money
	baseFee kernel.Money

	guard guard.ConstructorGuard
}

// NewSetPriceCommand creates a command carrying the quoted price and base fee.
func NewSetPriceCommand(orderID, itemID kernel.UUID, price, baseFee kernel.Money) (SetPriceCommand, error) {
	if err := errors.Join(
		orderID.Validate(),
		itemID.Validate(),
		price.Validate(),
		baseFee.Validate(),
	); err != nil {
		return SetPriceCommand{}, err
	}

	return SetPriceCommand{
		orderID: orderID,
		itemID:  itemID,
		price:   price,
		baseFee: baseFee,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c SetPriceCommand) Validate() error {
	return c.guard.Validate(ErrSetPriceCommandIsNotConstructed)
}

// OrderID returns the order owning the quoted item.
func (c SetPriceCommand) OrderID() kernel.UUID {
	return c.orderID
}

// ItemID returns the quoted item.
func (c SetPriceCommand) ItemID() kernel.UUID {
	return c.itemID
}

// Price returns the quoted price.
func (c SetPriceCommand) Price() kernel.Money {
	return c.price
}

// BaseFee returns the quoted base fee.
func (c SetPriceCommand) BaseFee() kernel.Money {
	return c.baseFee
}
