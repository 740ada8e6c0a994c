package order

import (
	"fmt"

	"geoshop/internal/pkg/errs"
)

// Type classifies who the order is placed for and how it is invoiced.
type Type int

const (
	// TypeUnknown represents an invalid or undefined order type.
	TypeUnknown Type = iota

	// TypePrivate is an order placed and paid by the client personally.
	TypePrivate

	// TypePublic is an order placed on behalf of a public body.
	TypePublic

	// TypeSubscribed is an order under a subscription agreement; items whose
	// product waives fees for subscribers are priced free.
	TypeSubscribed
)

func getTypeStrings() map[Type]string {
	return map[Type]string{
		TypeUnknown:    "Unknown",
		TypePrivate:    "Private",
		TypePublic:     "Public",
		TypeSubscribed: "Subscribed",
	}
}

// Validate checks that the order type is one of the defined values.
func (t Type) Validate() error {
	if t == TypeUnknown {
		return errs.NewValueIsInvalidErrorWithCause("order type",
			fmt.Errorf("%d is not a valid order type", t))
	}
	if _, ok := getTypeStrings()[t]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("order type",
			fmt.Errorf("%d is not a valid order type", t))
	}
	return nil
}

// String implements fmt.Stringer.
func (t Type) String() string {
	if str, ok := getTypeStrings()[t]; ok {
		return str
	}
	return "Unknown"
}

// IsSubscribed reports whether the order runs under a subscription agreement.
func (t Type) IsSubscribed() bool {
	return t == TypeSubscribed
}
