package ports

import "context"

// Notification template keys. The notifier owns the template bodies; the core
// only selects the key and the locale.
const (
	// TemplateOrderConfirmedAdmin tells an administrator a confirmed order
	// needs a manual quote.
	TemplateOrderConfirmedAdmin = "order_confirmed_admin"

	// TemplateItemValidationRequest asks a metadata contact person to approve
	// an ordered item; the data carries the one-time token.
	TemplateItemValidationRequest = "item_validation_request"

	// TemplateOrderDownloadReady tells the client the order results are ready
	// for download, in the client's preferred language.
	TemplateOrderDownloadReady = "order_download_ready"
)

// Notifier defines the outbound notification contract. Dispatch is
// fire-and-forget from the core's perspective: handlers log a send failure
// and proceed, a notification never blocks a status transition.
type Notifier interface {
	// Send dispatches one notification. The locale is derived from the
	// recipient's preferred language; the data map feeds the template.
	Send(ctx context.Context, templateKey, locale string, recipients []string, data map[string]any) error
}
