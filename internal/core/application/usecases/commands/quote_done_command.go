package commands

import (
	"errors"

	"geoshop/internal/core/domain/model/kernel"
	"geoshop/internal/pkg/guard"
)

var ErrQuoteDoneCommandIsNotConstructed = errors.New(
	"QuoteDoneCommand must be created via NewQuoteDoneCommand constructor",
)

// QuoteDoneCommand represents an administrator closing the quoting phase of a
// pending order. It only succeeds once every open item carries a calculated
// price; until then it fails with a retryable conflict.
type QuoteDoneCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

// NewQuoteDoneCommand creates a command to finish an order's quote.
func NewQuoteDoneCommand(orderID kernel.UUID) (QuoteDoneCommand, error) {
	if err := orderID.Validate(); err != nil {
		return QuoteDoneCommand{}, err
	}

	return QuoteDoneCommand{
		orderID: orderID,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c QuoteDoneCommand) Validate() error {
	return c.guard.Validate(ErrQuoteDoneCommandIsNotConstructed)
}

// OrderID returns the order whose quote is finished.
func (c QuoteDoneCommand) OrderID() kernel.UUID {
	return c.orderID
}
