package commands

import (
	"context"
	"log/slog"
	"time"

	"geoshop/internal/core/domain/model/contact"
	"geoshop/internal/core/domain/model/kernel"
	"geoshop/internal/core/domain/model/order"
	"geoshop/internal/core/domain/model/product"
	"geoshop/internal/core/domain/services"
	"geoshop/internal/core/ports"
)

// validationNotice is a prepared validator notification, resolved inside the
// transaction and dispatched after commit. Notices are keyed by item ID so
// two items of the same product keep their approvals separate.
type validationNotice struct {
	itemID string
	email  string
	locale string
}

// ConfirmOrderCommandHandler runs the whole confirmation workflow: per item it
// validates the order perimeter against the product's ownership coverages and
// area cap, prices the item, then lets the aggregate fan out the per-item
// statuses. Notifications go out after the transaction commits; a failed send
// is logged and never undoes a confirmation.
type ConfirmOrderCommandHandler struct {
	uowFactory    UoWFactory
	areaValidator services.AreaValidator
	pricer        services.Pricer
	notifier      ports.Notifier
	adminEmail    string
	logger        *slog.Logger
}

// NewConfirmOrderCommandHandler creates a handler for order confirmation.
func NewConfirmOrderCommandHandler(
	uowFactory UoWFactory,
	areaValidator services.AreaValidator,
	pricer services.Pricer,
	notifier ports.Notifier,
	adminEmail string,
	logger *slog.Logger,
) ConfirmOrderCommandHandler {
	return ConfirmOrderCommandHandler{
		uowFactory:    uowFactory,
		areaValidator: areaValidator,
		pricer:        pricer,
		notifier:      notifier,
		adminEmail:    adminEmail,
		logger:        logger,
	}
}

// Handle processes the confirmation. The order row stays locked from the
// status check to the final write, so two concurrent confirmations cannot
// both succeed.
func (h *ConfirmOrderCommandHandler) Handle(ctx context.Context, cmd ConfirmOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	aggregate, err := uow.OrderRepository().GetForUpdate(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	var notices []validationNotice
	if aggregate.Status() == order.Draft {
		excluded, directives, prepared, err := h.prepareConfirmation(ctx, uow, aggregate, cmd.ClientGroups())
		if err != nil {
			return err
		}
		notices = prepared

		if err = aggregate.Confirm(time.Now(), excluded, directives); err != nil {
			return err
		}
	} else {
		// accepting a finished quote needs no re-validation
		if err = aggregate.Confirm(time.Now(), kernel.Geometry{}, nil); err != nil {
			return err
		}
	}

	if err = uow.OrderRepository().Update(ctx, aggregate); err != nil {
		return err
	}
	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.notify(ctx, aggregate, notices)
	return nil
}

// prepareConfirmation runs the per-item checks and builds the confirm
// directives: the area verdict, the price result and the approval
// requirement of every item, plus the prepared validator notifications.
func (h *ConfirmOrderCommandHandler) prepareConfirmation(
	ctx context.Context,
	uow UoW,
	aggregate *order.Order,
	clientGroups []string,
) (kernel.Geometry, map[string]order.ConfirmDirective, []validationNotice, error) {
	subscribed, err := h.isSubscribed(ctx, uow, aggregate)
	if err != nil {
		return kernel.Geometry{}, nil, nil, err
	}

	excluded := kernel.EmptyGeometry(aggregate.Geometry().SRID())
	directives := make(map[string]order.ConfirmDirective, len(aggregate.Items()))
	var notices []validationNotice

	for _, item := range aggregate.Items() {
		prod, err := uow.ProductRepository().Get(ctx, item.ProductID())
		if err != nil {
			return kernel.Geometry{}, nil, nil, err
		}

		ownerships, err := uow.ProductRepository().GetOwnerships(ctx, prod.ID())
		if err != nil {
			return kernel.Geometry{}, nil, nil, err
		}

		report, err := h.areaValidator.ValidateOrderArea(aggregate.Geometry(), prod, clientGroups, ownerships)
		if err != nil {
			return kernel.Geometry{}, nil, nil, err
		}
		if excluded, err = excluded.Union(report.Excluded); err != nil {
			return kernel.Geometry{}, nil, nil, err
		}

		price, err := h.pricer.Compute(prod, services.PricingContext{
			Area:       report.Actual,
			Subscribed: subscribed,
		})
		if err != nil {
			h.logger.Warn("pricing strategy not computable, item stays pending",
				"order_id", aggregate.ID(), "product", prod.Label(), "error", err)
		}

		needsValidation, approvers, err := h.resolveApproval(ctx, uow, prod)
		if err != nil {
			return kernel.Geometry{}, nil, nil, err
		}
		if needsValidation {
			prepared, err := h.prepareNotices(ctx, uow, item.ID(), approvers)
			if err != nil {
				return kernel.Geometry{}, nil, nil, err
			}
			notices = append(notices, prepared...)
		}

		directives[item.ID().String()] = order.ConfirmDirective{
			NeedsValidation: needsValidation,
			Price:           price,
		}
	}

	return excluded, directives, notices, nil
}

// isSubscribed reports whether the order runs under a subscription: by its
// order type, by the client, or by the invoice contact.
func (h *ConfirmOrderCommandHandler) isSubscribed(ctx context.Context, uow UoW, aggregate *order.Order) (bool, error) {
	if aggregate.OrderType().IsSubscribed() {
		return true, nil
	}

	client, err := uow.ContactRepository().Get(ctx, aggregate.ClientID())
	if err != nil {
		return false, err
	}
	if client.Subscribed() {
		return true, nil
	}

	if invoiceID := aggregate.InvoiceContact(); invoiceID != nil {
		invoice, err := uow.ContactRepository().Get(ctx, *invoiceID)
		if err != nil {
			return false, err
		}
		return invoice.Subscribed(), nil
	}
	return false, nil
}

// resolveApproval implements the approval inheritance: the requirement and
// the approver list come from whichever of the product or its parent group
// declares the approval-needed accessibility.
func (h *ConfirmOrderCommandHandler) resolveApproval(
	ctx context.Context,
	uow UoW,
	prod *product.Product,
) (bool, []kernel.UUID, error) {
	if prod.NeedsApproval() {
		return true, prod.Metadata().ContactPersons(), nil
	}

	if groupID := prod.GroupID(); groupID != nil {
		group, err := uow.ProductRepository().Get(ctx, *groupID)
		if err != nil {
			return false, nil, err
		}
		if group.NeedsApproval() {
			return true, group.Metadata().ContactPersons(), nil
		}
	}
	return false, nil, nil
}

// prepareNotices resolves approver contacts into deliverable notifications
// while the transaction is still open. The token value is read off the item
// at dispatch time, once the aggregate generated it.
func (h *ConfirmOrderCommandHandler) prepareNotices(
	ctx context.Context,
	uow UoW,
	itemID kernel.UUID,
	approvers []kernel.UUID,
) ([]validationNotice, error) {
	contacts, err := uow.ContactRepository().GetMany(ctx, approvers)
	if err != nil {
		return nil, err
	}

	notices := make([]validationNotice, 0, len(contacts))
	for _, c := range contacts {
		notices = append(notices, validationNotice{
			itemID: itemID.String(),
			email:  c.Email(),
			locale: c.Language(),
		})
	}
	return notices, nil
}

// notify dispatches the post-confirmation notifications. Fire-and-forget:
// failures are logged, never propagated.
func (h *ConfirmOrderCommandHandler) notify(ctx context.Context, aggregate *order.Order, notices []validationNotice) {
	if aggregate.HasPendingPrices() {
		err := h.notifier.Send(ctx, ports.TemplateOrderConfirmedAdmin, contact.DefaultLanguage,
			[]string{h.adminEmail}, map[string]any{
				"order_id":    aggregate.ID().String(),
				"order_title": aggregate.Title(),
			})
		if err != nil {
			h.logger.Error("cannot notify administrator about pending quote",
				"order_id", aggregate.ID(), "error", err)
		}
	}

	for _, item := range aggregate.ItemsPendingValidation() {
		for _, notice := range notices {
			if notice.itemID != item.ID().String() {
				continue
			}
			err := h.notifier.Send(ctx, ports.TemplateItemValidationRequest, notice.locale,
				[]string{notice.email}, map[string]any{
					"order_id": aggregate.ID().String(),
					"product":  item.ProductLabel(),
					"token":    item.Token().Value(),
				})
			if err != nil {
				h.logger.Error("cannot notify approver about pending validation",
					"order_id", aggregate.ID(), "product", item.ProductLabel(), "error", err)
			}
		}
	}
}
