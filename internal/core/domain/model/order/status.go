package order

import (
	"fmt"

	"geoshop/internal/pkg/errs"
)

// Status represents the lifecycle state of an order.
// It implements a state machine with defined transitions so orders follow the
// ordering workflow from draft through quoting, extraction and delivery.
//
// State transitions:
//
//	Draft ──confirm──> Pending ──quote_done──> QuoteDone ──confirm──> Ready
//	  │                   │                                             │
//	  │                   └──────────(nothing pending)──────────────────┤
//	  │                                                                 v
//	  │                                                            InExtract
//	  │                                                                 │
//	  │                              ┌──────────────────────────────────┤
//	  │                              v                                  v
//	  │                    PartiallyDelivered                       Processed ──> Archived
//	  │
//	  └── any non-terminal state ──reject──> Rejected
//
// Status is a value object that validates state transitions and provides
// string representations for persistence and display.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	Unknown Status = iota

	// Draft is the initial status. Draft orders are freely mutable by the
	// client: items can be replaced and formats changed.
	Draft

	// Pending means the order is confirmed but something still blocks
	// extraction: a manual quote or a human validation of a sensitive item.
	Pending

	// QuoteDone means every item price is calculated and the quote awaits the
	// client's acceptance (a second confirm).
	QuoteDone

	// Ready means nothing blocks extraction any more.
	Ready

	// InExtract means the order was handed to the extraction backend and
	// results are awaited per item.
	InExtract

	// PartiallyDelivered means extraction finished with a mix of succeeded
	// and failed items.
	PartiallyDelivered

	// Processed means every item was extracted successfully. Terminal for the
	// client; only archival can follow.
	Processed

	// Archived is the housekeeping terminal state for old processed orders.
	Archived

	// Rejected is the alternate terminal state, reachable from any
	// non-terminal status by explicit staff rejection.
	Rejected
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:            "Unknown",
		Draft:              "Draft",
		Pending:            "Pending",
		QuoteDone:          "QuoteDone",
		Ready:              "Ready",
		InExtract:          "InExtract",
		PartiallyDelivered: "PartiallyDelivered",
		Processed:          "Processed",
		Archived:           "Archived",
		Rejected:           "Rejected",
	}
}

func getValidStatusStrings() map[Status]string {
	//nolint:exhaustive // Unknown is intentionally excluded as it's invalid
	return map[Status]string{
		Draft:              "Draft",
		Pending:            "Pending",
		QuoteDone:          "QuoteDone",
		Ready:              "Ready",
		InExtract:          "InExtract",
		PartiallyDelivered: "PartiallyDelivered",
		Processed:          "Processed",
		Archived:           "Archived",
		Rejected:           "Rejected",
	}
}

// Validate checks that the status is one of the defined values. Unknown (0)
// and any other values are invalid. Used when reconstructing orders from
// persistence or parsing statuses from external input.
func (s Status) Validate() error {
	if _, ok := getValidStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("order status",
			fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String implements fmt.Stringer. Safe on any Status value, including invalid
// ones.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "Unknown"
}

// IsTerminal reports whether no further transitions are possible except
// archival housekeeping. Terminal statuses cannot be rejected.
func (s Status) IsTerminal() bool {
	return s == Processed || s == Archived || s == Rejected
}

// ValidateEditable checks that the order contents may still be changed by the
// client. Only draft orders are mutable; a confirmed order is immutable and
// edits fail with a ForbiddenActionError.
func (s Status) ValidateEditable() error {
	if s != Draft {
		return errs.NewForbiddenActionError("edit order",
			fmt.Sprintf("order is %s, only draft orders can be edited", s))
	}
	return nil
}

// ValidateDeletable checks that the order may still be deleted by the
// client. Deletion is a draft-only operation; a confirmed order is part of
// the business record and removing it fails with a ForbiddenActionError.
func (s Status) ValidateDeletable() error {
	if s != Draft {
		return errs.NewForbiddenActionError("delete order",
			fmt.Sprintf("order is %s, only draft orders can be deleted", s))
	}
	return nil
}

// QuoteDone transitions Pending to QuoteDone once every item price is
// calculated. The caller checks the item prices; this method only enforces
// the status precondition. Failing the precondition is a ConflictError:
// the action can be retried once the prices are in.
func (s Status) QuoteDone() (Status, error) {
	if s != Pending {
		return 0, errs.NewConflictError("quote_done",
			fmt.Sprintf("order is %s, a quote can only be finished on a pending order", s))
	}
	return QuoteDone, nil
}

// StartExtract transitions Ready to InExtract.
func (s Status) StartExtract() (Status, error) {
	if s != Ready {
		return 0, errs.NewConflictError("start extract",
			fmt.Sprintf("order is %s, only ready orders can be extracted", s))
	}
	return InExtract, nil
}

// Reject transitions any non-terminal status to Rejected.
func (s Status) Reject() (Status, error) {
	if s.IsTerminal() {
		return 0, errs.NewForbiddenActionError("reject order",
			fmt.Sprintf("order is already %s", s))
	}
	return Rejected, nil
}

// Archive transitions Processed to Archived.
func (s Status) Archive() (Status, error) {
	if s != Processed {
		return 0, errs.NewConflictError("archive order",
			fmt.Sprintf("order is %s, only processed orders can be archived", s))
	}
	return Archived, nil
}
