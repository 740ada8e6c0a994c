package product

import (
	"errors"

	"geoshop/internal/core/domain/model/kernel"
	"geoshop/internal/pkg/errs"
)

// ErrProductIsNotConstructed is returned when a Product was not created via
// NewProduct.
var ErrProductIsNotConstructed = errors.New("Product must be created via NewProduct")

// Product is a sellable geodata item. It is a shared, read-mostly reference:
// orders point at products but never own or mutate them.
//
// Product maintains these invariants:
//   - Label is non-empty and unique across the catalog
//   - Exactly one pricing strategy is attached
//   - A max order area of 0 means the area cap is disabled
//   - A deprecated product cannot be newly ordered
type Product struct {
	id       kernel.UUID
	label    string
	status   Status
	pricing  *Pricing
	metadata Metadata

	// maxOrderArea caps the unowned part of an order geometry, in square
	// meters of the canonical SRID. 0 disables the cap.
	maxOrderArea float64

	// groupID points at the parent group product, nil for standalone products.
	groupID *kernel.UUID

	freeWhenSubscribed bool
	providerID         kernel.UUID

	// formats are the data formats this product can be delivered in.
	formats []string

	isConstructed bool
}

// NewProduct creates a product with validation.
func NewProduct(
	id kernel.UUID,
	label string,
	status Status,
	pricing *Pricing,
	metadata Metadata,
	maxOrderArea float64,
	groupID *kernel.UUID,
	freeWhenSubscribed bool,
	providerID kernel.UUID,
	formats []string,
) (*Product, error) {
	if err := errors.Join(
		id.Validate(),
		status.Validate(),
		pricing.Validate(),
		providerID.Validate(),
	); err != nil {
		return nil, err
	}
	if label == "" {
		return nil, errs.NewValueIsRequiredError("product label")
	}
	if maxOrderArea < 0 {
		return nil, errs.NewValueIsInvalidError("max order area")
	}
	if groupID != nil {
		if err := groupID.Validate(); err != nil {
			return nil, err
		}
	}

	return &Product{
		id:                 id,
		label:              label,
		status:             status,
		pricing:            pricing,
		metadata:           metadata,
		maxOrderArea:       maxOrderArea,
		groupID:            groupID,
		freeWhenSubscribed: freeWhenSubscribed,
		providerID:         providerID,
		formats:            formats,
		isConstructed:      true,
	}, nil
}

// Validate ensures the product was created via NewProduct.
func (p *Product) Validate() error {
	if p == nil || !p.isConstructed {
		return ErrProductIsNotConstructed
	}
	return nil
}

// ID returns the product identifier.
func (p *Product) ID() kernel.UUID {
	return p.id
}

// Label returns the unique catalog label.
func (p *Product) Label() string {
	return p.label
}

// Status returns the publication status.
func (p *Product) Status() Status {
	return p.status
}

// Pricing returns the attached pricing strategy.
func (p *Product) Pricing() *Pricing {
	return p.pricing
}

// Metadata returns the visibility/approval rules.
func (p *Product) Metadata() Metadata {
	return p.metadata
}

// MaxOrderArea returns the area cap in square meters, 0 meaning unlimited.
func (p *Product) MaxOrderArea() float64 {
	return p.maxOrderArea
}

// GroupID returns the parent group product, nil for standalone products.
func (p *Product) GroupID() *kernel.UUID {
	return p.groupID
}

// FreeWhenSubscribed reports whether subscribed clients get the product for
// free regardless of its pricing strategy.
func (p *Product) FreeWhenSubscribed() bool {
	return p.freeWhenSubscribed
}

// ProviderID returns the data provider.
func (p *Product) ProviderID() kernel.UUID {
	return p.providerID
}

// Formats returns the deliverable data formats.
func (p *Product) Formats() []string {
	return p.formats
}

// HasFormat reports whether the product can be delivered in the given format.
func (p *Product) HasFormat(format string) bool {
	for _, f := range p.formats {
		if f == format {
			return true
		}
	}
	return false
}

// NeedsApproval reports whether the product's own metadata demands a named
// person's approval. Approval requirements inherited from a parent group are
// resolved by the caller, which has both products at hand.
func (p *Product) NeedsApproval() bool {
	return p.metadata.NeedsApproval()
}
