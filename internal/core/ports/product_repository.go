package ports

import (
	"context"

	"geoshop/internal/core/domain/model/kernel"
	"geoshop/internal/core/domain/model/product"
)

// ProductRepository defines the read-mostly persistence contract for the
// product catalog. Orders reference products and pricings but never own or
// mutate them.
type ProductRepository interface {
	// Get retrieves a product with its pricing and metadata.
	Get(ctx context.Context, id kernel.UUID) (*product.Product, error)

	// GetByLabel retrieves a product by its unique catalog label.
	GetByLabel(ctx context.Context, label string) (*product.Product, error)

	// GetOwnerships retrieves all ownership coverages declared for a product.
	GetOwnerships(ctx context.Context, productID kernel.UUID) ([]*product.Ownership, error)
}
