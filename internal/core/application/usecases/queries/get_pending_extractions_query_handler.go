package queries

import (
	"context"

	"geoshop/internal/core/domain/model/kernel"
	"geoshop/internal/core/domain/model/order"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetPendingExtractionsQueryHandler reads the extraction work queue from the
// database. Items are returned in order-date order so the oldest orders are
// served first.
type GetPendingExtractionsQueryHandler struct {
	db *gorm.DB
}

// NewGetPendingExtractionsQueryHandler creates a handler for extraction queue
// queries. Requires a GORM database connection for query execution.
func NewGetPendingExtractionsQueryHandler(db *gorm.DB) GetPendingExtractionsQueryHandler {
	return GetPendingExtractionsQueryHandler{db: db}
}

// Handle executes the query. Only items still waiting inside an in-extract
// order appear; items the backend already reported on drop out of the queue.
func (h GetPendingExtractionsQueryHandler) Handle(
	ctx context.Context,
	query GetPendingExtractionsQuery,
) ([]GetPendingExtractionsQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	jobs := make([]GetPendingExtractionsQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			o.id,
			i.id,
			i.product_label,
			i.data_format,
			o.geometry_wkt,
			o.geometry_srid
		FROM order_items i
		JOIN orders o ON o.id = i.order_id
		WHERE o.status = ? AND i.status = ?
		ORDER BY o.date_ordered, i.product_label
	`, order.InExtract, order.ItemInExtract).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var job GetPendingExtractionsQueryResponse
		var orderID, itemID uuid.UUID

		err = rows.Scan(
			&orderID,
			&itemID,
			&job.ProductLabel,
			&job.DataFormat,
			&job.GeometryWKT,
			&job.SRID,
		)
		if err != nil {
			return nil, err
		}

		if job.OrderID, err = kernel.UUIDFromBytes(orderID[:]); err != nil {
			return nil, err
		}
		if job.ItemID, err = kernel.UUIDFromBytes(itemID[:]); err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return jobs, nil
}
