package commands

import (
	"errors"

	"geoshop/internal/core/domain/model/kernel"
	"geoshop/internal/pkg/guard"
)

var ErrStartExtractCommandIsNotConstructed = errors.New(
	"StartExtractCommand must be created via NewStartExtractCommand constructor",
)

// StartExtractCommand represents handing a ready order to the extraction
// backend: the order and its open items are marked in extraction and become
// visible to the pending-extractions poll.
type StartExtractCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

// NewStartExtractCommand creates a command to start the extraction of an order.
func NewStartExtractCommand(orderID kernel.UUID) (StartExtractCommand, error) {
	if err := orderID.Validate(); err != nil {
		return StartExtractCommand{}, err
	}

	return StartExtractCommand{
		orderID: orderID,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c StartExtractCommand) Validate() error {
	return c.guard.Validate(ErrStartExtractCommandIsNotConstructed)
}

// OrderID returns the order to extract.
func (c StartExtractCommand) OrderID() kernel.UUID {
	return c.orderID
}
