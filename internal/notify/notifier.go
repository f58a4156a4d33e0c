package notify

import "context"

// Notification one message for one recipient. The core decides that it must
// be sent and what it says; delivery (email/push/in-app) is the gateway's
// problem and is best effort.
type Notification struct {
	RecipientID string         `json:"recipient_id"`
	Kind        string         `json:"kind"` // currently always "announcement"
	Title       string         `json:"title"`
	Body        string         `json:"body"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

const KindAnnouncement = "announcement"

// Notifier hands a notification to a delivery channel. Implementations must
// not be relied on for delivery guarantees; callers swallow errors after
// logging them.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

// NopNotifier drops everything. Dev default when no channel is configured.
type NopNotifier struct{}

func (NopNotifier) Notify(_ context.Context, _ Notification) error { return nil }
