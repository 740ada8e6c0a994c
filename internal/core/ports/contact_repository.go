package ports

import (
	"context"

	"geoshop/internal/core/domain/model/contact"
	"geoshop/internal/core/domain/model/kernel"
)

// ContactRepository defines the persistence contract for contacts: clients,
// alternate invoice recipients and metadata contact persons.
type ContactRepository interface {
	// Add persists a new contact.
	Add(ctx context.Context, c *contact.Contact) error

	// Get retrieves a contact by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*contact.Contact, error)

	// GetMany retrieves the contacts for the given identifiers, preserving
	// order. A missing identifier is an ObjectNotFoundError.
	GetMany(ctx context.Context, ids []kernel.UUID) ([]*contact.Contact, error)
}
