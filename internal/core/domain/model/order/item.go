package order

import (
	"errors"
	"fmt"

	"geoshop/internal/core/domain/model/kernel"
	"geoshop/internal/core/domain/model/product"
	"geoshop/internal/pkg/errs"
)

// ErrItemIsNotConstructed is returned when an Item was not created via NewItem
// or RestoreItem.
var ErrItemIsNotConstructed = errors.New("Item must be created via NewItem or RestoreItem")

// Item is one product selection within an order. It belongs to exactly one
// Order and is owned by it: items never outlive their order and all status
// changes go through the aggregate root.
//
// The product attributes an item carries (label, provider) are a snapshot
// taken when the item is added, so a later catalog change cannot silently
// alter a confirmed order.
type Item struct {
	id           kernel.UUID
	productID    kernel.UUID
	productLabel string
	providerID   kernel.UUID

	// dataFormat is the delivery format chosen by the client. It must be one
	// of the product's available formats and must be selected before the
	// order can be confirmed.
	dataFormat string

	price       *kernel.Money
	baseFee     *kernel.Money
	priceStatus product.PriceStatus

	status       ItemStatus
	downloadGUID *kernel.UUID
	token        *ValidationToken

	extractFileRef string
	failureReason  string

	isConstructed bool
}

// NewItem creates a draft item for the given product snapshot. The data format
// may still be empty at this point; it becomes mandatory at confirm time.
func NewItem(id, productID kernel.UUID, productLabel string, providerID kernel.UUID, dataFormat string) (*Item, error) {
	if err := errors.Join(
		id.Validate(),
		productID.Validate(),
		providerID.Validate(),
	); err != nil {
		return nil, err
	}
	if productLabel == "" {
		return nil, errs.NewValueIsRequiredError("product label")
	}

	return &Item{
		id:            id,
		productID:     productID,
		productLabel:  productLabel,
		providerID:    providerID,
		dataFormat:    dataFormat,
		priceStatus:   product.PricePending,
		status:        ItemDraft,
		isConstructed: true,
	}, nil
}

// RestoreItem reconstructs an item from persistence without re-running the
// creation-time rules.
func RestoreItem(
	id, productID kernel.UUID,
	productLabel string,
	providerID kernel.UUID,
	dataFormat string,
	price, baseFee *kernel.Money,
	priceStatus product.PriceStatus,
	status ItemStatus,
	downloadGUID *kernel.UUID,
	token *ValidationToken,
	extractFileRef, failureReason string,
) (*Item, error) {
	if err := errors.Join(
		id.Validate(),
		productID.Validate(),
		providerID.Validate(),
		status.Validate(),
	); err != nil {
		return nil, err
	}

	return &Item{
		id:             id,
		productID:      productID,
		productLabel:   productLabel,
		providerID:     providerID,
		dataFormat:     dataFormat,
		price:          price,
		baseFee:        baseFee,
		priceStatus:    priceStatus,
		status:         status,
		downloadGUID:   downloadGUID,
		token:          token,
		extractFileRef: extractFileRef,
		failureReason:  failureReason,
		isConstructed:  true,
	}, nil
}

// Validate ensures the item was created via NewItem or RestoreItem.
func (i *Item) Validate() error {
	if i == nil || !i.isConstructed {
		return ErrItemIsNotConstructed
	}
	return nil
}

// ID returns the item identifier.
func (i *Item) ID() kernel.UUID {
	return i.id
}

// ProductID returns the ordered product.
func (i *Item) ProductID() kernel.UUID {
	return i.productID
}

// ProductLabel returns the product label snapshot taken when the item was
// added.
func (i *Item) ProductLabel() string {
	return i.productLabel
}

// ProviderID returns the data provider snapshot.
func (i *Item) ProviderID() kernel.UUID {
	return i.providerID
}

// DataFormat returns the chosen delivery format, empty if not selected yet.
func (i *Item) DataFormat() string {
	return i.dataFormat
}

// Price returns the computed or quoted price, nil while pending.
func (i *Item) Price() *kernel.Money {
	return i.price
}

// BaseFee returns the base fee attached to the price, nil while pending.
func (i *Item) BaseFee() *kernel.Money {
	return i.baseFee
}

// PriceStatus reports whether the price has been determined.
func (i *Item) PriceStatus() product.PriceStatus {
	return i.priceStatus
}

// IsPriceCalculated reports whether the price is final.
func (i *Item) IsPriceCalculated() bool {
	return i.priceStatus == product.PriceCalculated
}

// Status returns the current item status.
func (i *Item) Status() ItemStatus {
	return i.status
}

// DownloadGUID returns the item-scoped download identifier, nil until the
// parent order is confirmed.
func (i *Item) DownloadGUID() *kernel.UUID {
	return i.downloadGUID
}

// Token returns the validation token, nil unless the item required approval.
func (i *Item) Token() *ValidationToken {
	return i.token
}

// ExtractFileRef returns the result file reference, empty until extraction
// succeeds.
func (i *Item) ExtractFileRef() string {
	return i.extractFileRef
}

// FailureReason returns the extraction failure reason, empty unless the
// extraction failed.
func (i *Item) FailureReason() string {
	return i.failureReason
}

// SelectFormat sets the delivery format on a draft item. The aggregate root
// checks the format against the product's available formats and rejects edits
// once the order is confirmed.
func (i *Item) SelectFormat(format string) error {
	if format == "" {
		return errs.NewValueIsRequiredError("data format")
	}
	if i.status != ItemDraft {
		return errs.NewForbiddenActionError("select format",
			fmt.Sprintf("item is %s, formats can only be changed on draft items", i.status))
	}
	i.dataFormat = format
	return nil
}

// ApplyPriceResult stores the outcome of the pricing engine. A calculated
// result fixes price and base fee; a pending result clears them until an
// administrator quotes the item.
func (i *Item) ApplyPriceResult(result product.PriceResult) error {
	switch result.Status {
	case product.PriceCalculated:
		price := result.Price
		baseFee := result.BaseFee
		i.price = &price
		i.baseFee = &baseFee
		i.priceStatus = product.PriceCalculated
	case product.PricePending:
		i.price = nil
		i.baseFee = nil
		i.priceStatus = product.PricePending
	default:
		return errs.NewValueIsInvalidErrorWithCause("price result",
			fmt.Errorf("%s is not a valid price status", result.Status))
	}
	return nil
}

// SetPrice records an administrator's manual quote and marks the price
// calculated. Only items whose price is still pending can be quoted.
func (i *Item) SetPrice(price, baseFee kernel.Money) error {
	if err := errors.Join(price.Validate(), baseFee.Validate()); err != nil {
		return err
	}
	if i.status.IsTerminal() {
		return errs.NewForbiddenActionError("set price",
			fmt.Sprintf("item is already %s", i.status))
	}

	i.price = &price
	i.baseFee = &baseFee
	i.priceStatus = product.PriceCalculated
	return nil
}

// confirm moves the item out of draft as part of the order confirmation. It
// assigns the item download GUID and, when the product requires approval,
// generates the one-time validation token.
func (i *Item) confirm(needsValidation bool) error {
	if i.dataFormat == "" {
		return errs.NewConflictError("confirm order",
			fmt.Sprintf("item %s has no data format selected", i.productLabel))
	}

	newStatus, err := i.status.Confirm(needsValidation)
	if err != nil {
		return err
	}

	if needsValidation {
		token, err := NewValidationToken()
		if err != nil {
			return err
		}
		i.token = token
	}

	guid := kernel.NewUUID()
	i.downloadGUID = &guid
	i.status = newStatus
	return nil
}

// approveValidation consumes the token and lets the item proceed to Pending.
func (i *Item) approveValidation() error {
	newStatus, err := i.status.Approve()
	if err != nil {
		return err
	}
	if err := i.token.Consume(); err != nil {
		return err
	}
	i.status = newStatus
	return nil
}

// rejectValidation consumes the token and rejects the item.
func (i *Item) rejectValidation() error {
	if i.status != ItemValidationPending {
		return errs.NewConflictError("reject item",
			fmt.Sprintf("item is %s, only items pending validation can be refused by an approver", i.status))
	}
	if err := i.token.Consume(); err != nil {
		return err
	}
	i.status = ItemRejected
	return nil
}

// startExtract marks the item as handed to the extraction backend. Items
// already rejected stay rejected.
func (i *Item) startExtract() error {
	if i.status == ItemRejected {
		return nil
	}
	newStatus, err := i.status.StartExtract()
	if err != nil {
		return err
	}
	i.status = newStatus
	return nil
}

// ApplyExtractResult records a successful extraction result. Reapplying a
// result to an already-terminal item is a no-op, so the extraction callback
// can be retried safely.
func (i *Item) ApplyExtractResult(fileRef string) error {
	if fileRef == "" {
		return errs.NewValueIsRequiredError("result file reference")
	}
	if i.status.IsTerminal() {
		return nil
	}

	newStatus, err := i.status.Process()
	if err != nil {
		return err
	}
	i.extractFileRef = fileRef
	i.failureReason = ""
	i.status = newStatus
	return nil
}

// FailExtract records an extraction failure. Idempotent on terminal items.
func (i *Item) FailExtract(reason string) error {
	if i.status.IsTerminal() {
		return nil
	}
	if i.status != ItemInExtract {
		return errs.NewConflictError("fail item extract",
			fmt.Sprintf("item is %s, only items in extraction can fail", i.status))
	}

	i.failureReason = reason
	i.status = ItemRejected
	return nil
}

// reject terminates a non-terminal item as part of an order rejection.
func (i *Item) reject() error {
	if i.status.IsTerminal() {
		return nil
	}
	newStatus, err := i.status.Reject()
	if err != nil {
		return err
	}
	i.status = newStatus
	return nil
}
