package commands

import (
	"errors"

	"geoshop/internal/core/domain/model/kernel"
	"geoshop/internal/pkg/guard"
)

var ErrConfirmOrderCommandIsNotConstructed = errors.New(
	"ConfirmOrderCommand must be created via NewConfirmOrderCommand constructor",
)

// ConfirmOrderCommand represents a client confirming an order: the first
// confirm turns the draft into a committed order, a confirm on a finished
// quote accepts it.
//
// ClientGroups is the group membership of the authenticated client, resolved
// by the transport layer. It is passed in explicitly because the ownership
// exemptions of the area validation depend on it.
type ConfirmOrderCommand struct { //nolint:recvcheck //using for validation
	orderID      kernel.UUID
	clientGroups []string

	guard guard.ConstructorGuard
}

// NewConfirmOrderCommand creates a command to confirm an order.
func NewConfirmOrderCommand(orderID kernel.UUID, clientGroups []string) (ConfirmOrderCommand, error) {
	if err := orderID.Validate(); err != nil {
		return ConfirmOrderCommand{}, err
	}

	return ConfirmOrderCommand{
		orderID:      orderID,
		clientGroups: clientGroups,
		guard:        guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c ConfirmOrderCommand) Validate() error {
	return c.guard.Validate(ErrConfirmOrderCommandIsNotConstructed)
}

// OrderID returns the order to confirm.
func (c ConfirmOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// ClientGroups returns the group membership of the confirming client.
func (c ConfirmOrderCommand) ClientGroups() []string {
	return c.clientGroups
}
