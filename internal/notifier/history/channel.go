package history

import (
	"context"
	"strings"
	"time"

	"galeranotify/internal/notifier"
	"galeranotify/internal/status"
	logx "galeranotify/pkg/logx"
)

// Channel appends each report to the history store. The store is opened
// per Notify and closed before it returns.
type Channel struct {
	name string
	cfg  Config
	log  logx.Logger
	now  func() time.Time
}

func New(cfg Config, log logx.Logger) (*Channel, error) {
	name := strings.TrimSpace(cfg.Name)
	if name == "" {
		name = "history"
	}
	switch normalizeDriver(cfg.Driver) {
	case "file", "sqlite":
	default:
		return nil, &notifier.ConfigError{Channel: name, Field: "driver", Reason: "must be file or sqlite"}
	}
	if strings.TrimSpace(cfg.Path) == "" {
		return nil, &notifier.ConfigError{Channel: name, Field: "path", Reason: "is required"}
	}
	if log.IsZero() {
		log = logx.Nop()
	}
	return &Channel{name: name, cfg: cfg, log: log, now: time.Now}, nil
}

func (c *Channel) Name() string { return c.name }

func (c *Channel) Notify(ctx context.Context, snap status.Snapshot) (err error) {
	if !notifier.HasChanges(snap) {
		return notifier.ErrSkipped
	}
	if ctx == nil {
		ctx = context.Background()
	}

	st, err := Open(c.cfg, c.log)
	if err != nil {
		return &notifier.DeliveryError{Channel: c.name, Err: err}
	}
	defer func() {
		if cerr := st.Close(); cerr != nil && err == nil {
			err = &notifier.DeliveryError{Channel: c.name, Err: cerr}
		}
	}()

	if err := st.Append(ctx, NewRecord(c.now(), snap)); err != nil {
		return &notifier.DeliveryError{Channel: c.name, Err: err}
	}
	return nil
}
