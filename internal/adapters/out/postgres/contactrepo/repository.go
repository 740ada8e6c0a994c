package contactrepo

import (
	"context"
	"errors"

	"geoshop/internal/core/domain/model/contact"
	"geoshop/internal/core/domain/model/kernel"
	"geoshop/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormContactRepository implements ContactRepository using GORM.
type GormContactRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormContactRepository creates a new GORM contact repository.
func NewGormContactRepository(db *gorm.DB, tracker aggregateTracker) *GormContactRepository {
	return &GormContactRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add persists a new contact.
func (r *GormContactRepository) Add(ctx context.Context, c *contact.Contact) error {
	if err := c.Validate(); err != nil {
		return err
	}

	dto := fromDomain(c)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(c.ID(), c)
	return nil
}

// Get retrieves a contact by its unique identifier.
func (r *GormContactRepository) Get(ctx context.Context, id kernel.UUID) (*contact.Contact, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto ContactDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("contact", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetMany retrieves the contacts for the given identifiers, preserving the
// requested order. A missing identifier fails the whole lookup so a
// notification is never silently sent to a subset of its recipients.
func (r *GormContactRepository) GetMany(ctx context.Context, ids []kernel.UUID) ([]*contact.Contact, error) {
	if len(ids) == 0 {
		return []*contact.Contact{}, nil
	}

	raw := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if err := id.Validate(); err != nil {
			return nil, err
		}
		raw = append(raw, id.Bytes())
	}

	var dtos []ContactDTO
	if err := r.db.WithContext(ctx).Find(&dtos, "id IN ?", raw).Error; err != nil {
		return nil, err
	}

	byID := make(map[uuid.UUID]ContactDTO, len(dtos))
	for _, dto := range dtos {
		byID[dto.ID] = dto
	}

	contacts := make([]*contact.Contact, 0, len(ids))
	for i, id := range ids {
		dto, ok := byID[raw[i]]
		if !ok {
			return nil, errs.NewObjectNotFoundError("contact", id.String())
		}
		c, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		contacts = append(contacts, c)
	}

	return contacts, nil
}
