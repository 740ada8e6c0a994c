// Package services provides domain services that orchestrate business operations
// across multiple domain entities in the ordering system. It implements complex
// business workflows that don't naturally belong to a single aggregate root.
//
// The package includes:
//   - Pricer: A strategy-table pricing engine computing item prices per pricing type
//   - AreaValidator: A service checking order perimeters against ownership coverages and area caps
//
// Domain services coordinate between aggregates, implementing business logic that
// spans multiple bounded contexts following Domain-Driven Design principles.
package services
