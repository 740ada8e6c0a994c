// Package product provides the catalog side of the geodata ordering platform:
// sellable products, their pricing strategies, publication status, metadata
// visibility/approval rules and per-group coverage ownerships.
//
// The package includes:
//   - Product: the sellable aggregate, referencing a Pricing and a Metadata
//   - Pricing: a tagged pricing strategy with its tariff parameters
//   - PriceResult: the outcome of a price computation (calculated or pending)
//   - Metadata: visibility and approval rules with approval contact persons
//   - Ownership: a user-group's coverage polygon exempting it from area caps
//
// Products and pricings are shared, read-mostly references: orders point at
// them but never own them.
package product
