package orderrepo

import (
	"context"
	"errors"
	"time"

	"geoshop/internal/core/domain/model/kernel"
	"geoshop/internal/core/domain/model/order"
	"geoshop/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormOrderRepository implements OrderRepository using GORM.
type GormOrderRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormOrderRepository creates a new GORM order repository.
func NewGormOrderRepository(db *gorm.DB, tracker aggregateTracker) *GormOrderRepository {
	return &GormOrderRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new order with its items to the database.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update saves an existing order to the database. The item rows are brought
// in line with the aggregate: changed items are upserted and items dropped
// from the aggregate are deleted, so a draft whose item list was replaced
// persists exactly the new list.
func (r *GormOrderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)

	result := r.db.WithContext(ctx).
		Model(&OrderDTO{}).
		Where("id = ?", dto.ID).
		Omit("Items").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	if err := r.syncItems(ctx, dto); err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Remove deletes the order row together with its item rows.
func (r *GormOrderRepository) Remove(ctx context.Context, aggregate *order.Order) error {
	dto := fromDomain(aggregate)

	err := r.db.WithContext(ctx).
		Where("order_id = ?", dto.ID).
		Delete(&ItemDTO{}).Error
	if err != nil {
		return err
	}

	result := r.db.WithContext(ctx).
		Where("id = ?", dto.ID).
		Delete(&OrderDTO{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// syncItems upserts the aggregate's items and removes rows no longer present.
func (r *GormOrderRepository) syncItems(ctx context.Context, dto OrderDTO) error {
	if len(dto.Items) == 0 {
		return r.db.WithContext(ctx).
			Where("order_id = ?", dto.ID).
			Delete(&ItemDTO{}).Error
	}

	keep := make([]uuid.UUID, 0, len(dto.Items))
	for _, item := range dto.Items {
		keep = append(keep, item.ID)
	}

	err := r.db.WithContext(ctx).
		Where("order_id = ? AND id NOT IN ?", dto.ID, keep).
		Delete(&ItemDTO{}).Error
	if err != nil {
		return err
	}

	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&dto.Items).Error
}

// Get retrieves an order with its items by ID.
func (r *GormOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	return r.getOne(ctx, r.db.WithContext(ctx), "id = ?", id.Bytes(), id.String())
}

// GetForUpdate retrieves an order and locks its row until the surrounding
// transaction ends. Status transitions load through here so concurrent
// check-then-act sequences on the same order serialize.
func (r *GormOrderRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	locked := r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"})
	return r.getOne(ctx, locked, "id = ?", id.Bytes(), id.String())
}

// GetByItemID retrieves the order owning the given item, locked for update.
func (r *GormOrderRepository) GetByItemID(ctx context.Context, itemID kernel.UUID) (*order.Order, error) {
	if err := itemID.Validate(); err != nil {
		return nil, err
	}

	var item ItemDTO
	err := r.db.WithContext(ctx).First(&item, "id = ?", itemID.Bytes()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order item", itemID.String())
		}
		return nil, err
	}

	orderID, err := kernel.UUIDFromBytes(item.OrderID[:])
	if err != nil {
		return nil, err
	}
	return r.GetForUpdate(ctx, orderID)
}

// GetByItemToken retrieves the order owning an item whose unconsumed
// validation token matches, locked for update. Unknown and consumed tokens
// are both reported as not found.
func (r *GormOrderRepository) GetByItemToken(ctx context.Context, token string) (*order.Order, error) {
	if token == "" {
		return nil, errs.NewValueIsRequiredError("validation token")
	}

	var item ItemDTO
	err := r.db.WithContext(ctx).
		First(&item, "token_value = ? AND NOT token_consumed", token).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("validation token", token)
		}
		return nil, err
	}

	orderID, err := kernel.UUIDFromBytes(item.OrderID[:])
	if err != nil {
		return nil, err
	}
	return r.GetForUpdate(ctx, orderID)
}

// GetByDownloadGUID retrieves the order carrying the given download GUID.
// The GUID may be order-scoped or item-scoped.
func (r *GormOrderRepository) GetByDownloadGUID(ctx context.Context, guid kernel.UUID) (*order.Order, error) {
	if err := guid.Validate(); err != nil {
		return nil, err
	}

	aggregate, err := r.getOne(ctx, r.db.WithContext(ctx), "download_guid = ?", guid.Bytes(), guid.String())
	if err == nil {
		return aggregate, nil
	}
	if !errors.Is(err, errs.ErrObjectNotFound) {
		return nil, err
	}

	var item ItemDTO
	err = r.db.WithContext(ctx).First(&item, "download_guid = ?", guid.Bytes()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("download", guid.String())
		}
		return nil, err
	}

	orderID, err := kernel.UUIDFromBytes(item.OrderID[:])
	if err != nil {
		return nil, err
	}
	return r.Get(ctx, orderID)
}

// GetAllInStatus retrieves all orders currently in the given status.
func (r *GormOrderRepository) GetAllInStatus(ctx context.Context, status order.Status) ([]*order.Order, error) {
	var dtos []OrderDTO
	err := r.db.WithContext(ctx).
		Preload("Items", sortItems).
		Order("date_ordered").
		Find(&dtos, "status = ?", int(status)).Error
	if err != nil {
		return nil, err
	}
	return r.toDomainAll(dtos)
}

// GetProcessedBefore retrieves processed orders older than the cutoff, for
// the archival sweep.
func (r *GormOrderRepository) GetProcessedBefore(ctx context.Context, cutoff time.Time) ([]*order.Order, error) {
	var dtos []OrderDTO
	err := r.db.WithContext(ctx).
		Preload("Items", sortItems).
		Order("date_ordered").
		Find(&dtos, "status = ? AND date_ordered < ?", int(order.Processed), cutoff).Error
	if err != nil {
		return nil, err
	}
	return r.toDomainAll(dtos)
}

// getOne loads a single order with its items by an arbitrary condition,
// mapping a missing row to an ObjectNotFoundError naming the lookup key.
func (r *GormOrderRepository) getOne(
	_ context.Context,
	db *gorm.DB,
	condition string,
	value any,
	key string,
) (*order.Order, error) {
	var dto OrderDTO
	err := db.Preload("Items", sortItems).First(&dto, condition, value).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", key)
		}
		return nil, err
	}
	return toDomain(dto)
}

func (r *GormOrderRepository) toDomainAll(dtos []OrderDTO) ([]*order.Order, error) {
	orders := make([]*order.Order, 0, len(dtos))
	for _, dto := range dtos {
		aggregate, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		orders = append(orders, aggregate)
	}
	return orders, nil
}

// sortItems keeps preloaded item order stable across loads.
func sortItems(db *gorm.DB) *gorm.DB {
	return db.Order("product_label")
}
