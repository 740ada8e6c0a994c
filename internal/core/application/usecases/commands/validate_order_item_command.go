package commands

import (
	"errors"

	"geoshop/internal/pkg/errs"
	"geoshop/internal/pkg/guard"
)

var ErrValidateOrderItemCommandIsNotConstructed = errors.New(
	"ValidateOrderItemCommand must be created via NewValidateOrderItemCommand constructor",
)

// ValidateOrderItemCommand represents an approver consuming a validation
// token: approval lets the item proceed toward extraction, refusal rejects
// it. The token identifies the item; no other addressing is accepted.
type ValidateOrderItemCommand struct { //nolint:recvcheck //using for validation
	token       string
	isValidated bool

	guard guard.ConstructorGuard
}

// NewValidateOrderItemCommand creates a command to consume a validation token.
func NewValidateOrderItemCommand(token string, isValidated bool) (ValidateOrderItemCommand, error) {
	if token == "" {
		return ValidateOrderItemCommand{}, errs.NewValueIsRequiredError("validation token")
	}

	return ValidateOrderItemCommand{
		token:       token,
		isValidated: isValidated,
		guard:       guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c ValidateOrderItemCommand) Validate() error {
	return c.guard.Validate(ErrValidateOrderItemCommandIsNotConstructed)
}

// Token returns the opaque token value submitted by the approver.
func (c ValidateOrderItemCommand) Token() string {
	return c.token
}

// IsValidated reports whether the approver accepted the item.
func (c ValidateOrderItemCommand) IsValidated() bool {
	return c.isValidated
}
