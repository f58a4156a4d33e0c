package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// WebhookNotifier posts notifications to the delivery gateway over HTTP.
// The gateway owns channel selection (email/push/in-app) and retries beyond
// the short ones configured here.
type WebhookNotifier struct {
	httpClient *resty.Client
	logger     *zap.Logger
}

func NewWebhookNotifier(baseURL, apiKey string, logger *zap.Logger) *WebhookNotifier {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(10 * time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond).
		SetRetryMaxWaitTime(2 * time.Second).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")
	if apiKey != "" {
		client.SetHeader("X-Api-Key", apiKey)
	}

	return &WebhookNotifier{httpClient: client, logger: logger}
}

var _ Notifier = (*WebhookNotifier)(nil)

func (w *WebhookNotifier) Notify(ctx context.Context, n Notification) error {
	resp, err := w.httpClient.R().
		SetContext(ctx).
		SetBody(n).
		Post("/notifications")
	if err != nil {
		return fmt.Errorf("notification gateway call failed: %w", err)
	}
	if resp.IsError() {
		w.logger.Warn("notification gateway rejected message",
			zap.Int("status", resp.StatusCode()),
			zap.String("recipient_id", n.RecipientID),
		)
		return fmt.Errorf("notification gateway returned status %d", resp.StatusCode())
	}
	return nil
}
