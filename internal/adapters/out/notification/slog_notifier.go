// Package notification provides the outbound notification adapter. The
// current implementation writes notifications to the structured log; the mail
// transport sits behind the same port so it can be swapped in without
// touching the core.
package notification

import (
	"context"
	"log/slog"

	"geoshop/internal/pkg/errs"
)

// SlogNotifier implements ports.Notifier by emitting one structured log
// record per notification. Template bodies are not rendered here; the record
// carries the template key, locale, recipients and data so a downstream mail
// relay can do the rendering.
type SlogNotifier struct {
	logger *slog.Logger
}

// NewSlogNotifier creates a notifier writing to the given logger.
func NewSlogNotifier(logger *slog.Logger) *SlogNotifier {
	return &SlogNotifier{logger: logger}
}

// Send dispatches one notification.
func (n *SlogNotifier) Send(
	ctx context.Context,
	templateKey, locale string,
	recipients []string,
	data map[string]any,
) error {
	if templateKey == "" {
		return errs.NewValueIsRequiredError("notification template")
	}
	if len(recipients) == 0 {
		return errs.NewValueIsRequiredError("notification recipients")
	}

	attrs := make([]any, 0, len(data)+3)
	attrs = append(attrs,
		slog.String("template", templateKey),
		slog.String("locale", locale),
		slog.Any("recipients", recipients),
	)
	for key, value := range data {
		attrs = append(attrs, slog.Any(key, value))
	}

	n.logger.InfoContext(ctx, "notification dispatched", attrs...)
	return nil
}
