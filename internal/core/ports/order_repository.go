// Package ports defines repository and gateway interfaces for the geodata
// ordering domain. These interfaces establish contracts between the domain
// layer and infrastructure, enabling dependency inversion and testability.
package ports

import (
	"context"
	"time"

	"geoshop/internal/core/domain/model/kernel"
	"geoshop/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
// Orders are loaded and stored with their complete item list; the repository
// never exposes items detached from their order.
type OrderRepository interface {
	// Add persists a new order aggregate to storage.
	// The order must be valid and not already exist in the repository.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists changes to an existing order aggregate, items included.
	// The order must exist in the repository and be valid.
	Update(ctx context.Context, aggregate *order.Order) error

	// Remove deletes an order aggregate and its items from storage. The
	// handler enforces that only drafts reach this call.
	Remove(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order aggregate by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetForUpdate retrieves an order aggregate and locks its row for the
	// duration of the surrounding transaction. Status-transition handlers use
	// it so two concurrent confirmations cannot both pass the check-then-act
	// guard.
	GetForUpdate(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetByItemID retrieves the order owning the given item, locked for
	// update. Used by the extraction callback, which is keyed by item.
	GetByItemID(ctx context.Context, itemID kernel.UUID) (*order.Order, error)

	// GetByItemToken retrieves the order owning an item whose unconsumed
	// validation token matches, locked for update. An unknown or consumed
	// token is an ObjectNotFoundError.
	GetByItemToken(ctx context.Context, token string) (*order.Order, error)

	// GetByDownloadGUID retrieves the order carrying the given order- or
	// item-scoped download GUID.
	GetByDownloadGUID(ctx context.Context, guid kernel.UUID) (*order.Order, error)

	// GetAllInStatus retrieves all orders currently in the given status.
	GetAllInStatus(ctx context.Context, status order.Status) ([]*order.Order, error)

	// GetProcessedBefore retrieves processed orders whose order date is older
	// than the cutoff. Used by the archival job.
	GetProcessedBefore(ctx context.Context, cutoff time.Time) ([]*order.Order, error)
}
