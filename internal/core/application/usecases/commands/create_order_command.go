package commands

import (
	"errors"

	"geoshop/internal/core/domain/model/kernel"
	"geoshop/internal/core/domain/model/order"
	"geoshop/internal/pkg/errs"
	"geoshop/internal/pkg/guard"
)

var (
	ErrCreateOrderCommandIsNotConstructed = errors.New(
		"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
	)
)

// CreateOrderCommand represents a request to open a new draft order for a
// client: a title, an order type and the requested perimeter as WKT.
//
// Example:
//
//	orderID := kernel.NewUUID()
//	cmd, err := NewCreateOrderCommand(orderID, clientID, order.TypePrivate,
//	    "Cadastral extract", "", "POLYGON ((...))", 2056)
//	if err != nil {
//	    return fmt.Errorf("invalid order data: %w", err)
//	}
//
//	handler := NewCreateOrderCommandHandler(uowFactory)
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return fmt.Errorf("failed to create order: %w", err)
//	}
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	orderID     kernel.UUID
	clientID    kernel.UUID
	orderType   order.Type
	title       string
	description string
	geometryWKT string
	srid        int

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand creates a command to open a new draft order.
// Validates identifiers, the order type and that title and geometry are
// present. The WKT itself is parsed by the handler, inside the transaction.
func NewCreateOrderCommand(
	orderID, clientID kernel.UUID,
	orderType order.Type,
	title, description, geometryWKT string,
	srid int,
) (CreateOrderCommand, error) {
	cmd := CreateOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setClientID(clientID),
		cmd.setOrderType(orderType),
		cmd.setTitle(title),
		cmd.setGeometry(geometryWKT, srid),
	); err != nil {
		return CreateOrderCommand{}, err
	}
	cmd.description = description

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

// OrderID returns the identifier of the order to create.
func (c CreateOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// ClientID returns the owning client.
func (c CreateOrderCommand) ClientID() kernel.UUID {
	return c.clientID
}

// OrderType returns the order classification.
func (c CreateOrderCommand) OrderType() order.Type {
	return c.orderType
}

// Title returns the client-facing order title.
func (c CreateOrderCommand) Title() string {
	return c.title
}

// Description returns the free-text order description.
func (c CreateOrderCommand) Description() string {
	return c.description
}

// GeometryWKT returns the requested perimeter as WKT.
func (c CreateOrderCommand) GeometryWKT() string {
	return c.geometryWKT
}

// SRID returns the spatial reference of the perimeter.
func (c CreateOrderCommand) SRID() int {
	return c.srid
}

func (c *CreateOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	c.orderID = orderID
	return nil
}

func (c *CreateOrderCommand) setClientID(clientID kernel.UUID) error {
	if err := clientID.Validate(); err != nil {
		return err
	}
	c.clientID = clientID
	return nil
}

func (c *CreateOrderCommand) setOrderType(orderType order.Type) error {
	if err := orderType.Validate(); err != nil {
		return err
	}
	c.orderType = orderType
	return nil
}

func (c *CreateOrderCommand) setTitle(title string) error {
	if title == "" {
		return errs.NewValueIsRequiredError("order title")
	}
	c.title = title
	return nil
}

func (c *CreateOrderCommand) setGeometry(wkt string, srid int) error {
	if wkt == "" {
		return errs.NewValueIsRequiredError("order geometry")
	}
	if srid <= 0 {
		return errs.NewValueIsInvalidError("srid")
	}
	c.geometryWKT = wkt
	c.srid = srid
	return nil
}
