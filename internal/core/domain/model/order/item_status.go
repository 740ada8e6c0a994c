package order

import (
	"fmt"

	"geoshop/internal/pkg/errs"
)

// ItemStatus represents the lifecycle state of a single order item. Items with
// a sensitive product take a detour through ItemValidationPending, where a
// named person must approve them via a one-time token before they become
// eligible for extraction.
type ItemStatus int

const (
	// ItemUnknown represents an invalid or undefined item status.
	ItemUnknown ItemStatus = iota

	// ItemDraft is the initial status while the parent order is a draft.
	ItemDraft

	// ItemPending means the item is confirmed and waits for extraction
	// (and possibly for its price to be quoted).
	ItemPending

	// ItemValidationPending means a named approver must accept the item via
	// its validation token before it can proceed.
	ItemValidationPending

	// ItemInExtract means the item was handed to the extraction backend.
	ItemInExtract

	// ItemProcessed means the extraction produced a result file. Terminal.
	ItemProcessed

	// ItemRejected means the item was refused, by an approver or by staff
	// rejection of the whole order, or its extraction failed. Terminal.
	ItemRejected
)

func getItemStatusStrings() map[ItemStatus]string {
	return map[ItemStatus]string{
		ItemUnknown:           "Unknown",
		ItemDraft:             "Draft",
		ItemPending:           "Pending",
		ItemValidationPending: "ValidationPending",
		ItemInExtract:         "InExtract",
		ItemProcessed:         "Processed",
		ItemRejected:          "Rejected",
	}
}

func getValidItemStatusStrings() map[ItemStatus]string {
	//nolint:exhaustive // ItemUnknown is intentionally excluded as it's invalid
	return map[ItemStatus]string{
		ItemDraft:             "Draft",
		ItemPending:           "Pending",
		ItemValidationPending: "ValidationPending",
		ItemInExtract:         "InExtract",
		ItemProcessed:         "Processed",
		ItemRejected:          "Rejected",
	}
}

// Validate checks that the item status is one of the defined values.
func (s ItemStatus) Validate() error {
	if _, ok := getValidItemStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("item status",
			fmt.Errorf("%d is not a valid item status", s))
	}
	return nil
}

// String implements fmt.Stringer.
func (s ItemStatus) String() string {
	if str, ok := getItemStatusStrings()[s]; ok {
		return str
	}
	return "Unknown"
}

// IsTerminal reports whether the item reached its final state.
func (s ItemStatus) IsTerminal() bool {
	return s == ItemProcessed || s == ItemRejected
}

// Confirm transitions Draft to Pending, or to ValidationPending when the
// item's product requires a named person's approval.
func (s ItemStatus) Confirm(needsValidation bool) (ItemStatus, error) {
	if s != ItemDraft {
		return 0, errs.NewForbiddenActionError("confirm item",
			fmt.Sprintf("item is %s, only draft items can be confirmed", s))
	}
	if needsValidation {
		return ItemValidationPending, nil
	}
	return ItemPending, nil
}

// Approve transitions ValidationPending to Pending on a positive validation.
func (s ItemStatus) Approve() (ItemStatus, error) {
	if s != ItemValidationPending {
		return 0, errs.NewConflictError("approve item",
			fmt.Sprintf("item is %s, only items pending validation can be approved", s))
	}
	return ItemPending, nil
}

// StartExtract transitions Pending to InExtract.
func (s ItemStatus) StartExtract() (ItemStatus, error) {
	if s != ItemPending {
		return 0, errs.NewConflictError("start item extract",
			fmt.Sprintf("item is %s, only pending items can be extracted", s))
	}
	return ItemInExtract, nil
}

// Process transitions InExtract to Processed when a result file arrives.
func (s ItemStatus) Process() (ItemStatus, error) {
	if s != ItemInExtract {
		return 0, errs.NewConflictError("process item",
			fmt.Sprintf("item is %s, only items in extraction can be processed", s))
	}
	return ItemProcessed, nil
}

// Reject transitions any non-terminal status to Rejected.
func (s ItemStatus) Reject() (ItemStatus, error) {
	if s.IsTerminal() {
		return 0, errs.NewForbiddenActionError("reject item",
			fmt.Sprintf("item is already %s", s))
	}
	return ItemRejected, nil
}
