package product

import (
	"fmt"

	"geoshop/internal/pkg/errs"
)

// Status represents the publication state of a product.
type Status int

const (
	// StatusUnknown represents an invalid or undefined status.
	StatusUnknown Status = iota

	// Draft products are being prepared and are not yet orderable.
	Draft

	// Published products are visible in the catalog and orderable.
	Published

	// Deprecated products remain attached to historical orders but can no
	// longer be newly ordered.
	Deprecated
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		StatusUnknown: "Unknown",
		Draft:         "Draft",
		Published:     "Published",
		Deprecated:    "Deprecated",
	}
}

func getValidStatusStrings() map[Status]string {
	//nolint:exhaustive // StatusUnknown is intentionally excluded as it's invalid
	return map[Status]string{
		Draft:      "Draft",
		Published:  "Published",
		Deprecated: "Deprecated",
	}
}

// Validate checks that the status is one of the defined values.
func (s Status) Validate() error {
	if _, ok := getValidStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("product status",
			fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String implements fmt.Stringer.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "Unknown"
}

// CanBeOrdered reports whether new order items may reference a product in this
// status. Only published products are orderable; deprecated products are
// explicitly locked out.
func (s Status) CanBeOrdered() bool {
	return s == Published
}
