// Package order provides domain entities and business logic for geodata
// order management. It implements the Order aggregate root with lifecycle
// management and state transitions.
//
// The package includes:
//   - Order: The aggregate root owning the items, the perimeter geometry and the order lifecycle
//   - Status: A state machine from draft through quoting, extraction and delivery
//   - Item: One product selection with its own price and status lifecycle
//   - ItemStatus: The per-item state machine, including the optional human validation step
//   - ValidationToken: A one-time credential for approving a sensitive item
//
// Key business rules:
//   - Draft orders are freely mutable; confirmed orders are immutable to the client
//   - Confirmation requires at least one item and a data format on every item
//   - An item never reaches Processed without satisfying a configured validation requirement
//   - Extraction callbacks are idempotent on already-terminal items
//
// The package follows Domain-Driven Design principles, providing rich domain
// behavior, encapsulation, and validation to ensure business rules are enforced.
package order
