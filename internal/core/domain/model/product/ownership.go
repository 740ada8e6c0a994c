package product

import (
	"errors"

	"geoshop/internal/core/domain/model/kernel"
	"geoshop/internal/pkg/errs"
)

// ErrOwnershipIsNotConstructed is returned when an Ownership was not created
// via NewOwnership.
var ErrOwnershipIsNotConstructed = errors.New("Ownership must be created via NewOwnership")

// Ownership grants a user group a coverage polygon over a product. The part of
// an order geometry falling inside the coverage of a group the client belongs
// to is exempt from the product's area cap.
type Ownership struct {
	id        kernel.UUID
	userGroup string
	productID kernel.UUID
	coverage  kernel.Geometry

	isConstructed bool
}

// NewOwnership creates an ownership record.
func NewOwnership(id kernel.UUID, userGroup string, productID kernel.UUID, coverage kernel.Geometry) (*Ownership, error) {
	if err := errors.Join(
		id.Validate(),
		productID.Validate(),
		coverage.Validate(),
	); err != nil {
		return nil, err
	}
	if userGroup == "" {
		return nil, errs.NewValueIsRequiredError("user group")
	}

	return &Ownership{
		id:            id,
		userGroup:     userGroup,
		productID:     productID,
		coverage:      coverage,
		isConstructed: true,
	}, nil
}

// Validate ensures the ownership was created via NewOwnership.
func (o *Ownership) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOwnershipIsNotConstructed
	}
	return nil
}

// ID returns the ownership identifier.
func (o *Ownership) ID() kernel.UUID {
	return o.id
}

// UserGroup returns the name of the group holding the coverage.
func (o *Ownership) UserGroup() string {
	return o.userGroup
}

// ProductID returns the covered product.
func (o *Ownership) ProductID() kernel.UUID {
	return o.productID
}

// Coverage returns the coverage geometry.
func (o *Ownership) Coverage() kernel.Geometry {
	return o.coverage
}

// AppliesTo reports whether the ownership exempts a client belonging to the
// given groups for the given product.
func (o *Ownership) AppliesTo(productID kernel.UUID, clientGroups []string) bool {
	if !o.productID.IsEqual(productID) {
		return false
	}
	for _, g := range clientGroups {
		if g == o.userGroup {
			return true
		}
	}
	return false
}
