// Package contactrepo provides data transfer objects and mapping functions
// for contact persistence: clients, alternate invoice recipients and metadata
// contact persons all live in one table.
package contactrepo

import (
	"geoshop/internal/core/domain/model/contact"
	"geoshop/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// ContactDTO represents the database structure for persisting contacts.
type ContactDTO struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey"`
	FirstName  string     `gorm:"type:text"`
	LastName   string     `gorm:"type:text"`
	Email      string     `gorm:"type:text;index"`
	Subscribed bool
	Language   string     `gorm:"type:text"`
	BelongsTo  *uuid.UUID `gorm:"type:uuid;index"`
}

// TableName specifies the database table name for contact entities.
func (ContactDTO) TableName() string {
	return "contacts"
}

// fromDomain converts a contact domain entity to its database representation.
func fromDomain(c *contact.Contact) ContactDTO {
	dto := ContactDTO{
		ID:         c.ID().Bytes(),
		FirstName:  c.FirstName(),
		LastName:   c.LastName(),
		Email:      c.Email(),
		Subscribed: c.Subscribed(),
		Language:   c.Language(),
	}

	if belongsTo := c.BelongsTo(); belongsTo != nil {
		raw := belongsTo.Bytes()
		dto.BelongsTo = &raw
	}

	return dto
}

// toDomain converts a database DTO back to a contact domain entity.
func toDomain(dto ContactDTO) (*contact.Contact, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	var belongsTo *kernel.UUID
	if dto.BelongsTo != nil {
		owner, ownerErr := kernel.UUIDFromBytes((*dto.BelongsTo)[:])
		if ownerErr != nil {
			return nil, ownerErr
		}
		belongsTo = &owner
	}

	return contact.RestoreContact(
		id,
		dto.FirstName, dto.LastName, dto.Email,
		dto.Subscribed,
		dto.Language,
		belongsTo,
	)
}
