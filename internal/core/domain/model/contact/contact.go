// Package contact provides the Contact entity: a person attached to orders as
// client identity, invoice recipient, or validation approver. Contacts have a
// lifecycle independent from orders; a subscribed contact waives fees on
// products flagged free-when-subscribed.
package contact

import (
	"errors"
	"strings"

	"geoshop/internal/core/domain/model/kernel"
	"geoshop/internal/pkg/errs"
)

// DefaultLanguage is the locale used for notifications when a contact has no
// preferred language recorded.
const DefaultLanguage = "en"

// ErrContactIsNotConstructed is returned when a Contact was not created via
// NewContact or RestoreContact.
var ErrContactIsNotConstructed = errors.New("Contact must be created via NewContact or RestoreContact")

// Contact identifies a person the platform communicates with. The client of an
// order is a contact, and so are alternate invoice recipients and the approval
// persons referenced by product metadata.
type Contact struct {
	id         kernel.UUID
	firstName  string
	lastName   string
	email      string
	subscribed bool
	language   string

	// belongsTo is the owning client for alternate contacts, nil for
	// top-level identities.
	belongsTo *kernel.UUID

	isConstructed bool
}

// NewContact creates a contact with the default language and no subscription.
func NewContact(id kernel.UUID, firstName, lastName, email string) (*Contact, error) {
	return RestoreContact(id, firstName, lastName, email, false, DefaultLanguage, nil)
}

// RestoreContact reconstructs a contact from persistence.
func RestoreContact(
	id kernel.UUID,
	firstName, lastName, email string,
	subscribed bool,
	language string,
	belongsTo *kernel.UUID,
) (*Contact, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if !strings.Contains(email, "@") {
		return nil, errs.NewValueIsInvalidError("email")
	}
	if language == "" {
		language = DefaultLanguage
	}

	return &Contact{
		id:            id,
		firstName:     firstName,
		lastName:      lastName,
		email:         email,
		subscribed:    subscribed,
		language:      language,
		belongsTo:     belongsTo,
		isConstructed: true,
	}, nil
}

// Validate ensures the contact was created through a constructor.
func (c *Contact) Validate() error {
	if c == nil || !c.isConstructed {
		return ErrContactIsNotConstructed
	}
	return nil
}

// ID returns the contact's unique identifier.
func (c *Contact) ID() kernel.UUID {
	return c.id
}

// FullName returns the display name.
func (c *Contact) FullName() string {
	return strings.TrimSpace(c.firstName + " " + c.lastName)
}

// FirstName returns the given name.
func (c *Contact) FirstName() string {
	return c.firstName
}

// LastName returns the family name.
func (c *Contact) LastName() string {
	return c.lastName
}

// Email returns the notification address.
func (c *Contact) Email() string {
	return c.email
}

// Subscribed reports whether the contact holds a subscription waiving fees on
// free-when-subscribed products.
func (c *Contact) Subscribed() bool {
	return c.subscribed
}

// Language returns the preferred notification locale.
func (c *Contact) Language() string {
	return c.language
}

// BelongsTo returns the owning client for alternate contacts, nil otherwise.
func (c *Contact) BelongsTo() *kernel.UUID {
	return c.belongsTo
}

// SetSubscribed updates the subscription flag.
func (c *Contact) SetSubscribed(subscribed bool) {
	c.subscribed = subscribed
}
