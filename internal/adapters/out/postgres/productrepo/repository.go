package productrepo

import (
	"context"
	"errors"

	"geoshop/internal/core/domain/model/kernel"
	"geoshop/internal/core/domain/model/product"
	"geoshop/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormProductRepository implements ProductRepository using GORM. The catalog
// is maintained outside the ordering flow, so the repository only reads.
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GORM product repository.
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// Get retrieves a product with its pricing and metadata by ID.
func (r *GormProductRepository) Get(ctx context.Context, id kernel.UUID) (*product.Product, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto ProductDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("product", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetByLabel retrieves a product by its unique catalog label.
func (r *GormProductRepository) GetByLabel(ctx context.Context, label string) (*product.Product, error) {
	if label == "" {
		return nil, errs.NewValueIsRequiredError("product label")
	}

	var dto ProductDTO
	if err := r.db.WithContext(ctx).First(&dto, "label = ?", label).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("product", label)
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetOwnerships retrieves all ownership coverages declared for a product.
func (r *GormProductRepository) GetOwnerships(ctx context.Context, productID kernel.UUID) ([]*product.Ownership, error) {
	if err := productID.Validate(); err != nil {
		return nil, err
	}

	var dtos []OwnershipDTO
	err := r.db.WithContext(ctx).
		Find(&dtos, "product_id = ?", productID.Bytes()).Error
	if err != nil {
		return nil, err
	}

	ownerships := make([]*product.Ownership, 0, len(dtos))
	for _, dto := range dtos {
		ownership, mapErr := ownershipToDomain(dto)
		if mapErr != nil {
			return nil, mapErr
		}
		ownerships = append(ownerships, ownership)
	}

	return ownerships, nil
}
