package queries

import (
	"errors"

	"geoshop/internal/core/domain/model/kernel"
	"geoshop/internal/pkg/errs"
	"geoshop/internal/pkg/guard"
)

var ErrGetOrderItemByTokenQueryIsNotConstructed = errors.New(
	"GetOrderItemByTokenQuery must be created via NewGetOrderItemByTokenQuery constructor",
)

// GetOrderItemByTokenQuery retrieves the read-only view an approver sees
// before deciding on a validation token: which product was ordered, in which
// format and at what price. The token addresses the item; an unknown or
// already consumed token reveals nothing.
type GetOrderItemByTokenQuery struct {
	token string

	guard guard.ConstructorGuard
}

// NewGetOrderItemByTokenQuery creates a query for the approver view.
func NewGetOrderItemByTokenQuery(token string) (GetOrderItemByTokenQuery, error) {
	if token == "" {
		return GetOrderItemByTokenQuery{}, errs.NewValueIsRequiredError("validation token")
	}

	return GetOrderItemByTokenQuery{
		token: token,
		guard: guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetOrderItemByTokenQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderItemByTokenQueryIsNotConstructed)
}

// Token returns the opaque token identifying the item.
func (q GetOrderItemByTokenQuery) Token() string {
	return q.token
}

// GetOrderItemByTokenQueryResponse is the approver's view of one pending
// item. Price is nil while the item awaits a manual quote.
type GetOrderItemByTokenQueryResponse struct {
	OrderID      kernel.UUID
	OrderTitle   string
	ItemID       kernel.UUID
	ProductLabel string
	DataFormat   string
	Price        *kernel.Money
}
