package queries

import (
	"context"
	"database/sql"
	"errors"

	"geoshop/internal/core/domain/model/kernel"
	"geoshop/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GetOrderItemByTokenQueryHandler reads the approver view for a validation
// token. Read-only: the token stays unconsumed until the approver decides.
type GetOrderItemByTokenQueryHandler struct {
	db *gorm.DB
}

// NewGetOrderItemByTokenQueryHandler creates a handler for approver view
// queries.
func NewGetOrderItemByTokenQueryHandler(db *gorm.DB) GetOrderItemByTokenQueryHandler {
	return GetOrderItemByTokenQueryHandler{db: db}
}

// Handle executes the query. Unknown and consumed tokens are both an
// ObjectNotFoundError, so the response leaks nothing about past approvals.
func (h GetOrderItemByTokenQueryHandler) Handle(
	ctx context.Context,
	query GetOrderItemByTokenQuery,
) (GetOrderItemByTokenQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetOrderItemByTokenQueryResponse{}, err
	}

	row := h.db.WithContext(ctx).Raw(`
		SELECT
			o.id,
			o.title,
			i.id,
			i.product_label,
			i.data_format,
			i.price_amount,
			i.price_currency
		FROM order_items i
		JOIN orders o ON o.id = i.order_id
		WHERE i.token_value = ? AND NOT i.token_consumed
	`, query.Token()).Row()

	var resp GetOrderItemByTokenQueryResponse
	var orderID, itemID uuid.UUID
	var priceAmount decimal.NullDecimal
	var priceCurrency sql.NullString

	err := row.Scan(
		&orderID,
		&resp.OrderTitle,
		&itemID,
		&resp.ProductLabel,
		&resp.DataFormat,
		&priceAmount,
		&priceCurrency,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return GetOrderItemByTokenQueryResponse{},
				errs.NewObjectNotFoundError("validation token", query.Token())
		}
		return GetOrderItemByTokenQueryResponse{}, err
	}

	if resp.OrderID, err = kernel.UUIDFromBytes(orderID[:]); err != nil {
		return GetOrderItemByTokenQueryResponse{}, err
	}
	if resp.ItemID, err = kernel.UUIDFromBytes(itemID[:]); err != nil {
		return GetOrderItemByTokenQueryResponse{}, err
	}

	if priceAmount.Valid && priceCurrency.Valid {
		price, priceErr := kernel.NewMoney(priceAmount.Decimal, priceCurrency.String)
		if priceErr != nil {
			return GetOrderItemByTokenQueryResponse{}, priceErr
		}
		resp.Price = &price
	}

	return resp, nil
}
