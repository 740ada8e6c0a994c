package order

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"geoshop/internal/core/domain/model/kernel"
	"geoshop/internal/core/domain/model/product"
	"geoshop/internal/pkg/errs"
)

// ErrOrderIsNotConstructed is returned when an Order instance was not created
// through NewOrder or RestoreOrder.
var ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder or RestoreOrder")

// ConfirmDirective carries the per-item outcome of the checks run before an
// order confirmation: whether the item's product demands a named person's
// approval, and the result of the pricing engine for the item.
type ConfirmDirective struct {
	NeedsValidation bool
	Price           product.PriceResult
}

// Order is the aggregate root of the ordering domain. It owns its items:
// every item status change goes through the order, so the order status can be
// recomputed consistently from the item states within one atomic unit.
//
// Order maintains these invariants:
//   - Draft orders are freely mutable; once confirmed they are immutable to
//     the client and edits fail with a ForbiddenActionError
//   - The download GUID and order date exist exactly from confirmation on
//   - Status transitions are monotonic, with Rejected as the only escape
//     hatch from non-terminal states
type Order struct {
	id       kernel.UUID
	clientID kernel.UUID

	orderType   Type
	title       string
	description string

	// geometry is the requested perimeter in the canonical SRID.
	geometry kernel.Geometry

	// excludedGeometry is the part of the perimeter not covered by any
	// applicable ownership, computed at confirmation.
	excludedGeometry kernel.Geometry

	status           Status
	downloadGUID     *kernel.UUID
	invoiceContactID *kernel.UUID
	dateOrdered      *time.Time
	extractResult    string

	items []*Item

	isConstructed bool
}

// NewOrder creates a draft order for the given client and perimeter.
func NewOrder(id, clientID kernel.UUID, orderType Type, title, description string, geometry kernel.Geometry) (*Order, error) {
	if err := errors.Join(
		id.Validate(),
		clientID.Validate(),
		orderType.Validate(),
		geometry.Validate(),
	); err != nil {
		return nil, err
	}
	if title == "" {
		return nil, errs.NewValueIsRequiredError("order title")
	}

	return &Order{
		id:            id,
		clientID:      clientID,
		orderType:     orderType,
		title:         title,
		description:   description,
		geometry:      geometry,
		status:        Draft,
		isConstructed: true,
	}, nil
}

// RestoreOrder reconstructs an order from persistence without re-running the
// creation-time rules.
func RestoreOrder(
	id, clientID kernel.UUID,
	orderType Type,
	title, description string,
	geometry, excludedGeometry kernel.Geometry,
	status Status,
	downloadGUID, invoiceContactID *kernel.UUID,
	dateOrdered *time.Time,
	extractResult string,
	items []*Item,
) (*Order, error) {
	if err := errors.Join(
		id.Validate(),
		clientID.Validate(),
		orderType.Validate(),
		geometry.Validate(),
		status.Validate(),
	); err != nil {
		return nil, err
	}
	for _, item := range items {
		if err := item.Validate(); err != nil {
			return nil, err
		}
	}

	return &Order{
		id:               id,
		clientID:         clientID,
		orderType:        orderType,
		title:            title,
		description:      description,
		geometry:         geometry,
		excludedGeometry: excludedGeometry,
		status:           status,
		downloadGUID:     downloadGUID,
		invoiceContactID: invoiceContactID,
		dateOrdered:      dateOrdered,
		extractResult:    extractResult,
		items:            items,
		isConstructed:    true,
	}, nil
}

// Validate ensures the order was created via NewOrder or RestoreOrder.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

// IsEqual compares two orders by identity.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

// ID returns the order identifier.
func (o *Order) ID() kernel.UUID {
	return o.id
}

// ClientID returns the owning client.
func (o *Order) ClientID() kernel.UUID {
	return o.clientID
}

// OrderType returns the order classification.
func (o *Order) OrderType() Type {
	return o.orderType
}

// Title returns the client-facing order title.
func (o *Order) Title() string {
	return o.title
}

// Description returns the free-text order description.
func (o *Order) Description() string {
	return o.description
}

// Geometry returns the requested perimeter.
func (o *Order) Geometry() kernel.Geometry {
	return o.geometry
}

// ExcludedGeometry returns the part of the perimeter outside any applicable
// ownership coverage. Zero until the order is confirmed.
func (o *Order) ExcludedGeometry() kernel.Geometry {
	return o.excludedGeometry
}

// Status returns the current order status.
func (o *Order) Status() Status {
	return o.status
}

// DownloadGUID returns the order-scoped download identifier, nil until the
// order is confirmed.
func (o *Order) DownloadGUID() *kernel.UUID {
	return o.downloadGUID
}

// InvoiceContact returns the alternate invoice contact, nil when the client
// is invoiced directly.
func (o *Order) InvoiceContact() *kernel.UUID {
	return o.invoiceContactID
}

// DateOrdered returns the confirmation timestamp, nil for drafts.
func (o *Order) DateOrdered() *time.Time {
	return o.dateOrdered
}

// ExtractResult returns the reference of the bundled result archive, empty
// until one is produced.
func (o *Order) ExtractResult() string {
	return o.extractResult
}

// Items returns the owned order items.
func (o *Order) Items() []*Item {
	return o.items
}

// SetItems replaces the item list. Only draft orders can be edited; the item
// list of a confirmed order is immutable to the client.
func (o *Order) SetItems(items []*Item) error {
	if err := o.status.ValidateEditable(); err != nil {
		return err
	}
	for _, item := range items {
		if err := item.Validate(); err != nil {
			return err
		}
	}

	o.items = items
	return nil
}

// EnsureDeletable checks that the client may delete the order. Only drafts
// qualify; a confirmed order fails with a ForbiddenActionError.
func (o *Order) EnsureDeletable() error {
	return o.status.ValidateDeletable()
}

// SetInvoiceContact attaches an alternate invoice contact to a draft order.
func (o *Order) SetInvoiceContact(contactID kernel.UUID) error {
	if err := o.status.ValidateEditable(); err != nil {
		return err
	}
	if err := contactID.Validate(); err != nil {
		return err
	}

	o.invoiceContactID = &contactID
	return nil
}

// SetExtractResult records the reference of the bundled result archive.
func (o *Order) SetExtractResult(ref string) error {
	if ref == "" {
		return errs.NewValueIsRequiredError("extract result reference")
	}
	o.extractResult = ref
	return nil
}

// Confirm turns a draft into a confirmed order, or accepts a finished quote.
//
// On a draft, the preconditions are at least one item and a data format on
// every item; failing them is a ConflictError naming the offending items. On
// success the order gets its download GUID and order date, stores the
// excluded geometry computed by the area validation, and fans out per item:
// items of approval-needed products go to ValidationPending with a fresh
// one-time token, all others to Pending. The order lands on Ready when no
// quote or validation remains open, on Pending otherwise.
//
// On a QuoteDone order, Confirm is the client accepting the quote and moves
// the order to Ready. Confirming in any other status is a
// ForbiddenActionError and leaves the order unchanged.
func (o *Order) Confirm(now time.Time, excluded kernel.Geometry, directives map[string]ConfirmDirective) error {
	switch o.status {
	case QuoteDone:
		o.status = Ready
		return nil
	case Draft:
		// fall through to the initial confirmation below
	default:
		return errs.NewForbiddenActionError("confirm order",
			fmt.Sprintf("order is already %s", o.status))
	}

	if len(o.items) == 0 {
		return errs.NewConflictError("confirm order", "order has no items")
	}
	if missing := o.itemsWithoutFormat(); len(missing) > 0 {
		return errs.NewConflictError("confirm order",
			fmt.Sprintf("no data format selected for: %s", strings.Join(missing, ", ")))
	}

	for _, item := range o.items {
		directive, ok := directives[item.ID().String()]
		if !ok {
			return errs.NewValueIsRequiredError(
				fmt.Sprintf("confirm directive for item %s", item.ID()))
		}
		if err := item.ApplyPriceResult(directive.Price); err != nil {
			return err
		}
		if err := item.confirm(directive.NeedsValidation); err != nil {
			return err
		}
	}

	guid := kernel.NewUUID()
	o.downloadGUID = &guid
	o.dateOrdered = &now
	o.excludedGeometry = excluded
	o.status = o.statusAfterConfirm()
	return nil
}

// QuoteDone closes the quoting phase. It succeeds only on a pending order
// whose every open item has a calculated price; otherwise it returns a
// ConflictError and the caller may retry after the missing prices are set.
func (o *Order) QuoteDone() error {
	if pending := o.itemsWithPendingPrice(); len(pending) > 0 {
		return errs.NewConflictError("quote_done",
			fmt.Sprintf("price is not calculated for: %s", strings.Join(pending, ", ")))
	}

	newStatus, err := o.status.QuoteDone()
	if err != nil {
		return err
	}
	o.status = newStatus
	return nil
}

// SetItemPrice records an administrator's quote for one item.
func (o *Order) SetItemPrice(itemID kernel.UUID, price, baseFee kernel.Money) error {
	item, err := o.findItem(itemID)
	if err != nil {
		return err
	}
	return item.SetPrice(price, baseFee)
}

// ItemByToken returns the item carrying a still-unconsumed validation token
// matching the candidate. Unknown and already-consumed tokens are both an
// ObjectNotFoundError, so a replayed approval link leaks nothing.
func (o *Order) ItemByToken(token string) (*Item, error) {
	for _, item := range o.items {
		if item.Token().Matches(token) {
			return item, nil
		}
	}
	return nil, errs.NewObjectNotFoundError("validation token", token)
}

// ValidateItem consumes a validation token: approval moves the item to
// Pending, refusal to Rejected. The token is single-use; a second submission
// fails with an ObjectNotFoundError and changes nothing. When the approval
// removed the last blocker of a pending order, the order advances to Ready;
// when the refusal rejected the last live item, the whole order is rejected
// instead of going to extraction empty.
func (o *Order) ValidateItem(token string, approved bool) (*Item, error) {
	item, err := o.ItemByToken(token)
	if err != nil {
		return nil, err
	}

	if approved {
		err = item.approveValidation()
	} else {
		err = item.rejectValidation()
	}
	if err != nil {
		return nil, err
	}

	if o.status == Pending {
		switch {
		case o.allItemsRejected():
			o.status = Rejected
		case o.nothingBlocks():
			o.status = Ready
		}
	}
	return item, nil
}

// StartExtract hands a ready order to the extraction backend, marking the
// order and its open items as in extraction.
func (o *Order) StartExtract() error {
	newStatus, err := o.status.StartExtract()
	if err != nil {
		return err
	}
	for _, item := range o.items {
		if err := item.startExtract(); err != nil {
			return err
		}
	}
	o.status = newStatus
	return nil
}

// RecordExtractResult stores a successful extraction result for one item and
// recomputes the order status. It reports whether this input completed the
// whole order, so the caller can notify the client exactly once; retried
// callbacks on already-terminal items are no-ops.
func (o *Order) RecordExtractResult(itemID kernel.UUID, fileRef string) (bool, error) {
	item, err := o.findItem(itemID)
	if err != nil {
		return false, err
	}
	if err := item.ApplyExtractResult(fileRef); err != nil {
		return false, err
	}
	return o.NextStatusOnExtractInput(), nil
}

// RecordExtractFailure stores an extraction failure for one item and
// recomputes the order status.
func (o *Order) RecordExtractFailure(itemID kernel.UUID, reason string) (bool, error) {
	item, err := o.findItem(itemID)
	if err != nil {
		return false, err
	}
	if err := item.FailExtract(reason); err != nil {
		return false, err
	}
	return o.NextStatusOnExtractInput(), nil
}

// NextStatusOnExtractInput recomputes the order status from the item states
// once extraction results arrive. While any item is still in flight it does
// nothing. When all items are terminal the order becomes Processed (all
// succeeded), PartiallyDelivered (mixed outcome) or Rejected (nothing
// succeeded). It reports whether the order left InExtract on this call.
func (o *Order) NextStatusOnExtractInput() bool {
	if o.status != InExtract {
		return false
	}

	processed, rejected := 0, 0
	for _, item := range o.items {
		switch item.Status() {
		case ItemProcessed:
			processed++
		case ItemRejected:
			rejected++
		default:
			return false
		}
	}

	switch {
	case rejected == 0:
		o.status = Processed
	case processed == 0:
		o.status = Rejected
	default:
		o.status = PartiallyDelivered
	}
	return true
}

// Reject terminates a non-terminal order and cascades to its open items.
func (o *Order) Reject() error {
	newStatus, err := o.status.Reject()
	if err != nil {
		return err
	}
	for _, item := range o.items {
		if err := item.reject(); err != nil {
			return err
		}
	}
	o.status = newStatus
	return nil
}

// Archive moves a processed order to the archived housekeeping state.
func (o *Order) Archive() error {
	newStatus, err := o.status.Archive()
	if err != nil {
		return err
	}
	o.status = newStatus
	return nil
}

// HasPendingPrices reports whether any open item still awaits a manual quote.
func (o *Order) HasPendingPrices() bool {
	return len(o.itemsWithPendingPrice()) > 0
}

// ItemsPendingValidation returns the items awaiting a named person's
// approval, used to fan out validator notifications after confirmation.
func (o *Order) ItemsPendingValidation() []*Item {
	var pending []*Item
	for _, item := range o.items {
		if item.Status() == ItemValidationPending {
			pending = append(pending, item)
		}
	}
	return pending
}

// ProcessingFee is the order-level fee: the largest base fee among the items
// with a calculated price. Charged once per order, not per item.
func (o *Order) ProcessingFee() (kernel.Money, error) {
	fee := kernel.ZeroMoney(kernel.DefaultCurrency)
	for _, item := range o.items {
		if item.BaseFee() == nil {
			continue
		}
		if item.BaseFee().Amount().GreaterThan(fee.Amount()) {
			fee = *item.BaseFee()
		}
	}
	return fee, nil
}

// TotalWithoutVAT is the sum of the calculated item prices plus the
// processing fee. Items whose price is still pending contribute nothing, so
// the total is only final once every price is calculated.
func (o *Order) TotalWithoutVAT() (kernel.Money, error) {
	total, err := o.ProcessingFee()
	if err != nil {
		return kernel.Money{}, err
	}
	for _, item := range o.items {
		if item.Price() == nil {
			continue
		}
		total, err = total.Add(*item.Price())
		if err != nil {
			return kernel.Money{}, err
		}
	}
	return total, nil
}

func (o *Order) statusAfterConfirm() Status {
	if o.nothingBlocks() {
		return Ready
	}
	return Pending
}

// allItemsRejected reports whether every item of the order has been refused,
// leaving nothing to extract.
func (o *Order) allItemsRejected() bool {
	if len(o.items) == 0 {
		return false
	}
	for _, item := range o.items {
		if item.Status() != ItemRejected {
			return false
		}
	}
	return true
}

// nothingBlocks reports whether no open item awaits a quote or a validation.
func (o *Order) nothingBlocks() bool {
	for _, item := range o.items {
		if item.Status() == ItemValidationPending {
			return false
		}
		if item.Status() != ItemRejected && !item.IsPriceCalculated() {
			return false
		}
	}
	return true
}

func (o *Order) itemsWithoutFormat() []string {
	var missing []string
	for _, item := range o.items {
		if item.DataFormat() == "" {
			missing = append(missing, item.ProductLabel())
		}
	}
	return missing
}

func (o *Order) itemsWithPendingPrice() []string {
	var pending []string
	for _, item := range o.items {
		if item.Status() != ItemRejected && !item.IsPriceCalculated() {
			pending = append(pending, item.ProductLabel())
		}
	}
	return pending
}

func (o *Order) findItem(itemID kernel.UUID) (*Item, error) {
	for _, item := range o.items {
		if item.ID().IsEqual(itemID) {
			return item, nil
		}
	}
	return nil, errs.NewObjectNotFoundError("order item", itemID.String())
}
