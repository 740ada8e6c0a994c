// Package queries contains read-only operations bypassing the domain model.
// Implements the query side of the CQRS architecture: handlers read the
// database directly and return flat read models shaped for their consumer.
package queries

import (
	"errors"

	"geoshop/internal/core/domain/model/kernel"
	"geoshop/internal/pkg/guard"
)

var ErrGetPendingExtractionsQueryIsNotConstructed = errors.New(
	"GetPendingExtractionsQuery must be created via NewGetPendingExtractionsQuery constructor",
)

// GetPendingExtractionsQuery retrieves the work queue of the extraction
// backend: every order item currently waiting for its data extract, with the
// perimeter to cut it to.
//
// Example:
//
//	query := NewGetPendingExtractionsQuery()
//	handler := NewGetPendingExtractionsQueryHandler(db)
//
//	jobs, err := handler.Handle(ctx, query)
//	if err != nil {
//	    return fmt.Errorf("failed to get extraction queue: %w", err)
//	}
type GetPendingExtractionsQuery struct {
	guard guard.ConstructorGuard
}

// NewGetPendingExtractionsQuery creates a query for the extraction work queue.
// This is a parameterless query; the backend always receives the full queue.
func NewGetPendingExtractionsQuery() GetPendingExtractionsQuery {
	return GetPendingExtractionsQuery{guard: guard.NewConstructorGuard()}
}

// Validate ensures the query was created through the constructor.
func (q GetPendingExtractionsQuery) Validate() error {
	return q.guard.Validate(ErrGetPendingExtractionsQueryIsNotConstructed)
}

// GetPendingExtractionsQueryResponse is one extraction job: an item to
// extract, the requested format and the order perimeter as WKT.
type GetPendingExtractionsQueryResponse struct {
	OrderID      kernel.UUID
	ItemID       kernel.UUID
	ProductLabel string
	DataFormat   string
	GeometryWKT  string
	SRID         int
}
