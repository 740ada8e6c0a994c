package commands

import (
	"context"
	"log/slog"

	"geoshop/internal/core/domain/model/order"
	"geoshop/internal/core/ports"
)

// RecordExtractResultCommandHandler applies one extraction outcome to its
// item and rolls the order status up. When the input completes the whole
// order it sends the download-ready notification to the client, in the
// client's preferred language, exactly once: a replayed callback finds the
// item terminal and sends nothing.
type RecordExtractResultCommandHandler struct {
	uowFactory UoWFactory
	notifier   ports.Notifier
	logger     *slog.Logger
}

// NewRecordExtractResultCommandHandler creates a handler for extraction
// callbacks.
func NewRecordExtractResultCommandHandler(
	uowFactory UoWFactory,
	notifier ports.Notifier,
	logger *slog.Logger,
) RecordExtractResultCommandHandler {
	return RecordExtractResultCommandHandler{
		uowFactory: uowFactory,
		notifier:   notifier,
		logger:     logger,
	}
}

// Handle processes one extraction outcome. The owning order is located by
// item and locked, so results for sibling items arriving concurrently
// serialize on the roll-up.
func (h *RecordExtractResultCommandHandler) Handle(ctx context.Context, cmd RecordExtractResultCommand) error {
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

	aggregate, err := uow.OrderRepository().GetByItemID(ctx, cmd.ItemID())
	if err != nil {
		return err
	}

	var completed bool
	if cmd.IsSuccess() {
		completed, err = aggregate.RecordExtractResult(cmd.ItemID(), cmd.FileRef())
	} else {
		completed, err = aggregate.RecordExtractFailure(cmd.ItemID(), cmd.FailureReason())
	}
	if err != nil {
		return err
	}

	// a fully rejected order has nothing to download, so no mail goes out
	notify := completed && aggregate.Status() != order.Rejected

	var clientEmail, clientLocale string
	if notify {
		client, err := uow.ContactRepository().Get(ctx, aggregate.ClientID())
		if err != nil {
			return err
		}
		clientEmail, clientLocale = client.Email(), client.Language()
	}

	if err = uow.OrderRepository().Update(ctx, aggregate); err != nil {
		return err
	}
	if err = uow.Commit(ctx); err != nil {
		return err
	}

	if notify {
		h.notifyDownloadReady(ctx, aggregate, clientEmail, clientLocale)
	}
	return nil
}

func (h *RecordExtractResultCommandHandler) notifyDownloadReady(
	ctx context.Context,
	aggregate *order.Order,
	email, locale string,
) {
	data := map[string]any{
		"order_id":    aggregate.ID().String(),
		"order_title": aggregate.Title(),
		"status":      aggregate.Status().String(),
	}
	if guid := aggregate.DownloadGUID(); guid != nil {
		data["download_guid"] = guid.String()
	}

	err := h.notifier.Send(ctx, ports.TemplateOrderDownloadReady, locale, []string{email}, data)
	if err != nil {
		h.logger.Error("cannot notify client about ready download",
			"order_id", aggregate.ID(), "error", err)
	}
}
