package commands

import (
	"errors"
	"time"

	"geoshop/internal/pkg/errs"
	"geoshop/internal/pkg/guard"
)

var ErrArchiveOrdersCommandIsNotConstructed = errors.New(
	"ArchiveOrdersCommand must be created via NewArchiveOrdersCommand constructor",
)

// ArchiveOrdersCommand represents a sweep archiving processed orders whose
// order date is older than the cutoff.
type ArchiveOrdersCommand struct { //nolint:recvcheck //using for validation
	olderThan time.Time

	guard guard.ConstructorGuard
}

// NewArchiveOrdersCommand creates a command to archive processed orders
// ordered before olderThan.
func NewArchiveOrdersCommand(olderThan time.Time) (ArchiveOrdersCommand, error) {
	if olderThan.IsZero() {
		return ArchiveOrdersCommand{}, errs.NewValueIsRequiredError("archival cutoff")
	}

	return ArchiveOrdersCommand{
		olderThan: olderThan,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c ArchiveOrdersCommand) Validate() error {
	return c.guard.Validate(ErrArchiveOrdersCommandIsNotConstructed)
}

// OlderThan returns the archival cutoff.
func (c ArchiveOrdersCommand) OlderThan() time.Time {
	return c.olderThan
}
