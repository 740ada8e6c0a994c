package errs

import (
	"errors"
	"fmt"
)

// Sentinel errors for the order-domain error taxonomy.
var (
	ErrForbiddenAction    = errors.New("action is forbidden")
	ErrConflict           = errors.New("precondition is not met")
	ErrGeometryIsInvalid  = errors.New("geometry is invalid")
	ErrAreaTooLarge       = errors.New("order area is too large")
	ErrPricingUnsupported = errors.New("pricing strategy is not supported")
	ErrFileMissing        = errors.New("file is missing on storage backend")
)

// ForbiddenActionError indicates an operation that is never legal from the
// current state, such as editing a confirmed order or confirming it twice.
// Retrying will not help.
type ForbiddenActionError struct {
	Action string
	Reason string
}

// NewForbiddenActionError creates a ForbiddenActionError for the named action.
func NewForbiddenActionError(action, reason string) *ForbiddenActionError {
	return &ForbiddenActionError{Action: action, Reason: reason}
}

func (e *ForbiddenActionError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%s: %s (%s)", ErrForbiddenAction, e.Action, e.Reason)
	}
	return fmt.Sprintf("%s: %s", ErrForbiddenAction, e.Action)
}

func (e *ForbiddenActionError) Unwrap() error {
	return ErrForbiddenAction
}

// ConflictError indicates an operation whose precondition is currently unmet
// but may become satisfiable later, such as quote_done before all item prices
// are calculated. Retrying after the precondition is met is expected.
type ConflictError struct {
	Action string
	Reason string
}

// NewConflictError creates a ConflictError for the named action.
func NewConflictError(action, reason string) *ConflictError {
	return &ConflictError{Action: action, Reason: reason}
}

func (e *ConflictError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%s: %s (%s)", ErrConflict, e.Action, e.Reason)
	}
	return fmt.Sprintf("%s: %s", ErrConflict, e.Action)
}

func (e *ConflictError) Unwrap() error {
	return ErrConflict
}

// GeometryInvalidError indicates an order geometry that is not a valid simple
// polygon (self-intersecting, zero-area, or not areal at all). It is distinct
// from AreaTooLargeError so clients can tell a malformed request from an
// oversized one.
type GeometryInvalidError struct {
	Reason string
	Cause  error
}

// NewGeometryInvalidError creates a GeometryInvalidError without a cause.
func NewGeometryInvalidError(reason string) *GeometryInvalidError {
	return &GeometryInvalidError{Reason: reason}
}

// NewGeometryInvalidErrorWithCause creates a GeometryInvalidError wrapping a
// parser or geometry-engine cause.
func NewGeometryInvalidErrorWithCause(reason string, cause error) *GeometryInvalidError {
	return &GeometryInvalidError{Reason: reason, Cause: cause}
}

func (e *GeometryInvalidError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %s)", ErrGeometryIsInvalid, e.Reason, e.Cause)
	}
	return fmt.Sprintf("%s: %s", ErrGeometryIsInvalid, e.Reason)
}

func (e *GeometryInvalidError) Unwrap() error {
	return ErrGeometryIsInvalid
}

// AreaTooLargeError indicates the part of an order geometry not covered by any
// applicable ownership exceeds the product's area cap. Expected carries the
// cap and Actual the computed area, both in square meters of the projected
// coordinate system, so the client can self-correct.
type AreaTooLargeError struct {
	Expected float64
	Actual   float64
}

// NewAreaTooLargeError creates an AreaTooLargeError with the cap and the
// computed area.
func NewAreaTooLargeError(expected, actual float64) *AreaTooLargeError {
	return &AreaTooLargeError{Expected: expected, Actual: actual}
}

func (e *AreaTooLargeError) Error() string {
	return fmt.Sprintf("%s: expected max %.1f m2, actual %.1f m2", ErrAreaTooLarge, e.Expected, e.Actual)
}

func (e *AreaTooLargeError) Unwrap() error {
	return ErrAreaTooLarge
}

// PricingUnsupportedError indicates a pricing strategy tag the engine does not
// implement. Items priced under such a strategy stay pending manual quotation;
// they are never silently priced as free.
type PricingUnsupportedError struct {
	PricingType string
}

// NewPricingUnsupportedError creates a PricingUnsupportedError for the given
// strategy tag.
func NewPricingUnsupportedError(pricingType string) *PricingUnsupportedError {
	return &PricingUnsupportedError{PricingType: pricingType}
}

func (e *PricingUnsupportedError) Error() string {
	return fmt.Sprintf("%s: %s", ErrPricingUnsupported, e.PricingType)
}

func (e *PricingUnsupportedError) Unwrap() error {
	return ErrPricingUnsupported
}

// FileMissingError indicates a download GUID resolved to a known order or item
// whose result file is absent on the storage backend. It is distinct from
// ObjectNotFoundError, which is used when the GUID itself is unknown.
type FileMissingError struct {
	Ref string
}

// NewFileMissingError creates a FileMissingError for the given file reference.
func NewFileMissingError(ref string) *FileMissingError {
	return &FileMissingError{Ref: ref}
}

func (e *FileMissingError) Error() string {
	return fmt.Sprintf("%s: %s", ErrFileMissing, e.Ref)
}

func (e *FileMissingError) Unwrap() error {
	return ErrFileMissing
}
