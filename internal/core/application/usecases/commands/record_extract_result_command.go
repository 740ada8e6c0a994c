package commands

import (
	"errors"

	"geoshop/internal/core/domain/model/kernel"
	"geoshop/internal/pkg/errs"
	"geoshop/internal/pkg/guard"
)

var ErrRecordExtractResultCommandIsNotConstructed = errors.New(
	"RecordExtractResultCommand must be created via NewRecordExtractResultCommand constructor",
)

// RecordExtractResultCommand represents the extraction backend reporting the
// outcome for one item: either a result file reference or a failure reason,
// never both. The callback is idempotent; replaying a result for an
// already-terminal item changes nothing.
type RecordExtractResultCommand struct { //nolint:recvcheck //using for validation
	itemID        kernel.UUID
	fileRef       string
	failureReason string

	guard guard.ConstructorGuard
}

// NewRecordExtractResultCommand creates a command carrying a successful
// extraction result.
func NewRecordExtractResultCommand(itemID kernel.UUID, fileRef string) (RecordExtractResultCommand, error) {
	if err := itemID.Validate(); err != nil {
		return RecordExtractResultCommand{}, err
	}
	if fileRef == "" {
		return RecordExtractResultCommand{}, errs.NewValueIsRequiredError("result file reference")
	}

	return RecordExtractResultCommand{
		itemID:  itemID,
		fileRef: fileRef,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// NewRecordExtractFailureCommand creates a command carrying an extraction
// failure.
func NewRecordExtractFailureCommand(itemID kernel.UUID, reason string) (RecordExtractResultCommand, error) {
	if err := itemID.Validate(); err != nil {
		return RecordExtractResultCommand{}, err
	}
	if reason == "" {
		return RecordExtractResultCommand{}, errs.NewValueIsRequiredError("failure reason")
	}

	return RecordExtractResultCommand{
		itemID:        itemID,
		failureReason: reason,
		guard:         guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through a constructor.
func (c RecordExtractResultCommand) Validate() error {
	return c.guard.Validate(ErrRecordExtractResultCommandIsNotConstructed)
}

// ItemID returns the item the result belongs to.
func (c RecordExtractResultCommand) ItemID() kernel.UUID {
	return c.itemID
}

// IsSuccess reports whether the backend delivered a result file.
func (c RecordExtractResultCommand) IsSuccess() bool {
	return c.fileRef != ""
}

// FileRef returns the result file reference, empty on failure.
func (c RecordExtractResultCommand) FileRef() string {
	return c.fileRef
}

// FailureReason returns the failure reason, empty on success.
func (c RecordExtractResultCommand) FailureReason() string {
	return c.failureReason
}
