// Package kernel provides core domain primitives for the geodata ordering
// platform. It implements the fundamental value objects the rest of the domain
// model is built from.
//
// The package includes:
//   - UUID: unique identifier with validation and comparison
//   - Money: decimal monetary amount with a currency code
//   - Geometry: validated areal geometry in a projected coordinate system,
//     with area computation and polygon set operations
//
// All primitives are immutable, enforce their invariants at construction time,
// and are safe for concurrent use. Zero values are invalid and fail Validate;
// instances must be created through the provided constructors.
package kernel
