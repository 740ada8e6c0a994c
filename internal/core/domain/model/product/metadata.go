package product

import (
	"fmt"

	"geoshop/internal/core/domain/model/kernel"
	"geoshop/internal/pkg/errs"
)

// Accessibility represents the visibility and approval rule attached to a
// product's metadata.
type Accessibility int

const (
	// AccessibilityUnknown represents an invalid or undefined accessibility.
	AccessibilityUnknown Accessibility = iota

	// Public metadata imposes no restriction on ordering.
	Public

	// Internal metadata restricts the product to internal users; ordering
	// itself needs no human approval.
	Internal

	// ApprovalNeeded metadata requires one of the metadata's contact persons
	// to approve every ordered item before extraction.
	ApprovalNeeded
)

func getAccessibilityStrings() map[Accessibility]string {
	return map[Accessibility]string{
		AccessibilityUnknown: "Unknown",
		Public:               "Public",
		Internal:             "Internal",
		ApprovalNeeded:       "ApprovalNeeded",
	}
}

// Validate checks that the accessibility is one of the defined values.
func (a Accessibility) Validate() error {
	if a == AccessibilityUnknown {
		return errs.NewValueIsInvalidErrorWithCause("accessibility",
			fmt.Errorf("%d is not a valid accessibility", a))
	}
	if _, ok := getAccessibilityStrings()[a]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("accessibility",
			fmt.Errorf("%d is not a valid accessibility", a))
	}
	return nil
}

// String implements fmt.Stringer.
func (a Accessibility) String() string {
	if str, ok := getAccessibilityStrings()[a]; ok {
		return str
	}
	return "Unknown"
}

// Metadata carries the visibility/approval rules of a product and the contact
// persons entitled to approve sensitive order items.
type Metadata struct {
	id             kernel.UUID
	idName         string
	accessibility  Accessibility
	contactPersons []kernel.UUID
}

// NewMetadata creates a metadata record. Contact persons are required when the
// accessibility demands approval: without them no one could ever validate an
// ordered item.
func NewMetadata(id kernel.UUID, idName string, accessibility Accessibility, contactPersons []kernel.UUID) (Metadata, error) {
	if err := id.Validate(); err != nil {
		return Metadata{}, err
	}
	if idName == "" {
		return Metadata{}, errs.NewValueIsRequiredError("metadata id_name")
	}
	if err := accessibility.Validate(); err != nil {
		return Metadata{}, err
	}
	if accessibility == ApprovalNeeded && len(contactPersons) == 0 {
		return Metadata{}, errs.NewValueIsRequiredError("metadata contact_persons")
	}

	return Metadata{
		id:             id,
		idName:         idName,
		accessibility:  accessibility,
		contactPersons: contactPersons,
	}, nil
}

// ID returns the metadata identifier.
func (m Metadata) ID() kernel.UUID {
	return m.id
}

// IDName returns the human-readable metadata name.
func (m Metadata) IDName() string {
	return m.idName
}

// Accessibility returns the visibility/approval rule.
func (m Metadata) Accessibility() Accessibility {
	return m.accessibility
}

// NeedsApproval reports whether ordering the product requires a named person's
// approval.
func (m Metadata) NeedsApproval() bool {
	return m.accessibility == ApprovalNeeded
}

// ContactPersons returns the contacts entitled to approve order items.
func (m Metadata) ContactPersons() []kernel.UUID {
	return m.contactPersons
}
