package notifier

import (
	"context"

	"galeranotify/internal/status"
)

// Channel is a notification backend.
//
// Notify returns nil on delivery, ErrSkipped when there was nothing to send,
// and any other error (usually a *DeliveryError) on failure. Implementations
// must release transport resources before returning.
type Channel interface {
	Name() string
	Notify(ctx context.Context, snap status.Snapshot) error
}

// HasChanges reports whether snap carries at least one supplied field.
// Channels use it to skip empty reports.
func HasChanges(snap status.Snapshot) bool { return snap.PresenceCount() > 0 }
