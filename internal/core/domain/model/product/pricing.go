package product

import (
	"fmt"

	"geoshop/internal/core/domain/model/kernel"
	"geoshop/internal/pkg/errs"
)

// PricingType tags the strategy used to compute an order item's price. The
// tag set is open: catalogs may carry strategies this application does not
// implement yet, and those must price as pending, never as free.
type PricingType string

const (
	// PricingFree prices every order at zero.
	PricingFree PricingType = "FREE"

	// PricingSingle is a flat unit price plus a base fee.
	PricingSingle PricingType = "SINGLE"

	// PricingByNumberObjects is unit price times feature count, capped at the
	// strategy's max price.
	PricingByNumberObjects PricingType = "BY_NUMBER_OBJECTS"

	// PricingByArea is unit price times ordered area plus a base fee.
	PricingByArea PricingType = "BY_AREA"

	// PricingFromPricingLayer derives the price from an external pricing
	// geometry; not computed locally, quoted manually.
	PricingFromPricingLayer PricingType = "FROM_PRICING_LAYER"

	// PricingManual always requires a human quote.
	PricingManual PricingType = "MANUAL"

	// PricingFromChildrenOfGroup delegates to the child products of a group;
	// not computed locally, quoted manually.
	PricingFromChildrenOfGroup PricingType = "FROM_CHILDREN_OF_GROUP"
)

// PriceStatus tracks whether an item's price has been determined.
type PriceStatus int

const (
	// PriceStatusUnknown represents an invalid or undefined price status.
	PriceStatusUnknown PriceStatus = iota

	// PricePending means the price awaits a manual quote.
	PricePending

	// PriceCalculated means the price and base fee are set.
	PriceCalculated
)

// String implements fmt.Stringer.
func (s PriceStatus) String() string {
	switch s {
	case PricePending:
		return "Pending"
	case PriceCalculated:
		return "Calculated"
	default:
		return "Unknown"
	}
}

// PriceResult is the outcome of a price computation: either a calculated
// price/base fee pair, or a pending marker when a human quote is required.
type PriceResult struct {
	Status  PriceStatus
	Price   kernel.Money
	BaseFee kernel.Money
}

// NewCalculatedPrice creates a calculated PriceResult.
func NewCalculatedPrice(price, baseFee kernel.Money) (PriceResult, error) {
	if err := price.Validate(); err != nil {
		return PriceResult{}, err
	}
	if err := baseFee.Validate(); err != nil {
		return PriceResult{}, err
	}
	return PriceResult{Status: PriceCalculated, Price: price, BaseFee: baseFee}, nil
}

// NewPendingPrice creates a pending PriceResult.
func NewPendingPrice() PriceResult {
	return PriceResult{Status: PricePending}
}

// ErrPricingIsNotConstructed is returned when a Pricing was not created via
// NewPricing.
var ErrPricingIsNotConstructed = errs.NewValueIsRequiredError("pricing must be created via NewPricing")

// Pricing is a named pricing strategy with its tariff parameters. Exactly one
// strategy applies per product at price-computation time; which parameters are
// mandatory depends on the strategy tag.
type Pricing struct {
	id          kernel.UUID
	name        string
	pricingType PricingType
	unitPrice   *kernel.Money
	baseFee     *kernel.Money
	minPrice    *kernel.Money
	maxPrice    *kernel.Money

	isConstructed bool
}

// NewPricing creates a pricing strategy. Strategies computed locally must
// carry the parameters their formula needs; manually quoted and unrecognized
// strategies carry none.
func NewPricing(
	id kernel.UUID,
	name string,
	pricingType PricingType,
	unitPrice, baseFee, minPrice, maxPrice *kernel.Money,
) (*Pricing, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if name == "" {
		return nil, errs.NewValueIsRequiredError("pricing name")
	}
	if pricingType == "" {
		return nil, errs.NewValueIsRequiredError("pricing type")
	}

	p := &Pricing{
		id:            id,
		name:          name,
		pricingType:   pricingType,
		unitPrice:     unitPrice,
		baseFee:       baseFee,
		minPrice:      minPrice,
		maxPrice:      maxPrice,
		isConstructed: true,
	}

	if err := p.validateParameters(); err != nil {
		return nil, err
	}

	return p, nil
}

func (p *Pricing) validateParameters() error {
	switch p.pricingType {
	case PricingSingle, PricingByArea:
		if p.unitPrice == nil {
			return errs.NewValueIsRequiredErrorWithCause("unit price",
				fmt.Errorf("pricing type %s needs a unit price", p.pricingType))
		}
	case PricingByNumberObjects:
		if p.unitPrice == nil || p.maxPrice == nil {
			return errs.NewValueIsRequiredErrorWithCause("unit price and max price",
				fmt.Errorf("pricing type %s needs a unit price and a max price", p.pricingType))
		}
	default:
		// Free, manually quoted and unrecognized strategies carry no
		// mandatory parameters.
	}
	return nil
}

// Validate ensures the pricing was created via NewPricing.
func (p *Pricing) Validate() error {
	if p == nil || !p.isConstructed {
		return ErrPricingIsNotConstructed
	}
	return nil
}

// ID returns the pricing identifier.
func (p *Pricing) ID() kernel.UUID {
	return p.id
}

// Name returns the display name of the strategy.
func (p *Pricing) Name() string {
	return p.name
}

// Type returns the strategy tag.
func (p *Pricing) Type() PricingType {
	return p.pricingType
}

// UnitPrice returns the per-unit price, nil when the strategy has none.
func (p *Pricing) UnitPrice() *kernel.Money {
	return p.unitPrice
}

// BaseFee returns the base fee, or zero money when the strategy has none.
func (p *Pricing) BaseFee() kernel.Money {
	if p.baseFee == nil {
		return kernel.ZeroMoney(kernel.DefaultCurrency)
	}
	return *p.baseFee
}

// MinPrice returns the floor price, nil when the strategy has none.
func (p *Pricing) MinPrice() *kernel.Money {
	return p.minPrice
}

// MaxPrice returns the cap price, nil when the strategy has none.
func (p *Pricing) MaxPrice() *kernel.Money {
	return p.maxPrice
}
