package kernel

import (
	"fmt"

	"geoshop/internal/pkg/errs"
	"geoshop/internal/pkg/guard"

	"github.com/peterstace/simplefeatures/geom"
)

// DefaultSRID is the canonical projected coordinate system orders are
// expressed in (EPSG:2056, Swiss LV95). Areas computed from geometries in this
// system are in square meters.
const DefaultSRID = 2056

// ErrGeometryIsNotConstructed is returned when validating a zero-value Geometry.
var ErrGeometryIsNotConstructed = errs.NewValueIsRequiredError(
	"geometry must be created via NewGeometryFromWKT, RestoreGeometry, or EmptyGeometry")

// Geometry is an immutable areal geometry in a projected coordinate system.
// Order perimeters and ownership coverages are polygons or multipolygons;
// derived geometries (intersections, differences) may be empty.
//
// Geometries are assumed to be already transformed into their SRID; coordinate
// conversion happens upstream of the core.
type Geometry struct {
	g     geom.Geometry
	srid  int
	guard guard.ConstructorGuard
}

// NewGeometryFromWKT parses an order or coverage geometry from its WKT
// representation. The input must be a valid simple polygon or multipolygon
// with a strictly positive area; self-intersecting rings, non-areal types and
// zero-area inputs are rejected with a GeometryInvalidError.
func NewGeometryFromWKT(wkt string, srid int) (Geometry, error) {
	g, err := geom.UnmarshalWKT(wkt)
	if err != nil {
		return Geometry{}, errs.NewGeometryInvalidErrorWithCause("geometry cannot be parsed", err)
	}

	switch g.Type() {
	case geom.TypePolygon, geom.TypeMultiPolygon:
	default:
		return Geometry{}, errs.NewGeometryInvalidError(
			fmt.Sprintf("geometry must be a polygon, got %s", g.Type()))
	}

	if g.IsEmpty() || g.Area() == 0 {
		return Geometry{}, errs.NewGeometryInvalidError("geometry has no area")
	}

	return Geometry{g: g, srid: srid, guard: guard.NewConstructorGuard()}, nil
}

// RestoreGeometry parses a geometry previously produced by AsText. Unlike
// NewGeometryFromWKT it accepts empty and non-polygonal results, since derived
// geometries such as a fully covered exclusion can be empty.
func RestoreGeometry(wkt string, srid int) (Geometry, error) {
	g, err := geom.UnmarshalWKT(wkt)
	if err != nil {
		return Geometry{}, errs.NewGeometryInvalidErrorWithCause("geometry cannot be parsed", err)
	}
	return Geometry{g: g, srid: srid, guard: guard.NewConstructorGuard()}, nil
}

// EmptyGeometry returns an empty geometry in the given SRID.
func EmptyGeometry(srid int) Geometry {
	return Geometry{srid: srid, guard: guard.NewConstructorGuard()}
}

// Validate returns ErrGeometryIsNotConstructed for the zero value.
func (p Geometry) Validate() error {
	return p.guard.Validate(ErrGeometryIsNotConstructed)
}

// SRID returns the spatial reference identifier of the geometry.
func (p Geometry) SRID() int {
	return p.srid
}

// Area returns the planar area in the square units of the SRID.
func (p Geometry) Area() float64 {
	return p.g.Area()
}

// IsEmpty reports whether the geometry covers no area.
func (p Geometry) IsEmpty() bool {
	return p.g.IsEmpty()
}

// AsText returns the WKT representation.
func (p Geometry) AsText() string {
	return p.g.AsText()
}

// Intersection returns the geometry shared by p and other.
func (p Geometry) Intersection(other Geometry) (Geometry, error) {
	return p.derive(other, geom.Intersection)
}

// Difference returns the part of p not covered by other.
func (p Geometry) Difference(other Geometry) (Geometry, error) {
	return p.derive(other, geom.Difference)
}

// Union returns the geometry covered by p or other.
func (p Geometry) Union(other Geometry) (Geometry, error) {
	return p.derive(other, geom.Union)
}

func (p Geometry) derive(other Geometry, op func(a, b geom.Geometry) (geom.Geometry, error)) (Geometry, error) {
	if err := p.Validate(); err != nil {
		return Geometry{}, err
	}
	if err := other.Validate(); err != nil {
		return Geometry{}, err
	}
	if p.srid != other.srid {
		return Geometry{}, errs.NewValueIsInvalidErrorWithCause("srid",
			fmt.Errorf("geometries in SRID %d and %d cannot be combined", p.srid, other.srid))
	}

	result, err := op(p.g, other.g)
	if err != nil {
		return Geometry{}, errs.NewGeometryInvalidErrorWithCause("geometry operation failed", err)
	}

	return Geometry{g: result, srid: p.srid, guard: guard.NewConstructorGuard()}, nil
}
