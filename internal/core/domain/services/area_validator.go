package services

import (
	"geoshop/internal/core/domain/model/kernel"
	"geoshop/internal/core/domain/model/product"
	"geoshop/internal/pkg/errs"
)

// AreaReport is the outcome of an area validation: the part of the order
// perimeter not covered by any applicable ownership, and the cap it was
// checked against. Expected and Actual are in square meters of the canonical
// SRID so the client can self-correct an oversized order.
type AreaReport struct {
	Excluded kernel.Geometry
	Expected float64
	Actual   float64
}

// AreaValidator checks an order perimeter against a product's ownership
// coverages and area cap.
//
// The part of the perimeter inside a coverage of a group the client belongs
// to is exempt from the cap; only the excluded remainder counts. A product
// with a max order area of 0 has no cap at all, and an order exactly at the
// cap passes.
type AreaValidator struct{}

// NewAreaValidator creates an AreaValidator.
func NewAreaValidator() AreaValidator {
	return AreaValidator{}
}

// ValidateOrderArea computes the excluded geometry of the order perimeter for
// one product and verdicts it against the product's area cap. Each item of an
// order runs this check independently against its own product; any failure
// rejects the whole confirmation.
//
// The report is returned alongside the error on an area failure, so callers
// can persist the excluded geometry and surface both values.
func (v AreaValidator) ValidateOrderArea(
	orderGeom kernel.Geometry,
	prod *product.Product,
	clientGroups []string,
	ownerships []*product.Ownership,
) (AreaReport, error) {
	if err := orderGeom.Validate(); err != nil {
		return AreaReport{}, errs.NewGeometryInvalidErrorWithCause("order geometry is not usable", err)
	}
	if orderGeom.IsEmpty() || orderGeom.Area() == 0 {
		return AreaReport{}, errs.NewGeometryInvalidError("order geometry has no area")
	}
	if err := prod.Validate(); err != nil {
		return AreaReport{}, err
	}

	excluded, err := v.excludedGeometry(orderGeom, prod.ID(), clientGroups, ownerships)
	if err != nil {
		return AreaReport{}, err
	}

	report := AreaReport{
		Excluded: excluded,
		Expected: prod.MaxOrderArea(),
		Actual:   excluded.Area(),
	}

	// a cap of 0 means unlimited; ties pass
	if report.Expected > 0 && report.Actual > report.Expected {
		return report, errs.NewAreaTooLargeError(report.Expected, report.Actual)
	}
	return report, nil
}

// excludedGeometry subtracts from the perimeter the union of the coverages
// whose ownership applies to the product for one of the client's groups.
func (v AreaValidator) excludedGeometry(
	orderGeom kernel.Geometry,
	productID kernel.UUID,
	clientGroups []string,
	ownerships []*product.Ownership,
) (kernel.Geometry, error) {
	var owned *kernel.Geometry
	for _, ownership := range ownerships {
		if !ownership.AppliesTo(productID, clientGroups) {
			continue
		}
		coverage := ownership.Coverage()
		if owned == nil {
			owned = &coverage
			continue
		}
		merged, err := owned.Union(coverage)
		if err != nil {
			return kernel.Geometry{}, err
		}
		owned = &merged
	}

	if owned == nil {
		return orderGeom, nil
	}
	return orderGeom.Difference(*owned)
}
