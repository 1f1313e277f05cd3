package notifier

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/multierr"

	"galeranotify/internal/status"
	logx "galeranotify/pkg/logx"
)

// Result is the outcome of one channel within a run.
type Result struct {
	Channel string
	Skipped bool
	Err     error
	Took    time.Duration
}

// Receipt aggregates the results of a run in channel order.
type Receipt struct {
	Results []Result
}

// OK is true when no channel failed. A run without channels is OK.
func (r Receipt) OK() bool {
	for _, res := range r.Results {
		if res.Err != nil {
			return false
		}
	}
	return true
}

// Failed returns the results of channels that failed.
func (r Receipt) Failed() []Result {
	var out []Result
	for _, res := range r.Results {
		if res.Err != nil {
			out = append(out, res)
		}
	}
	return out
}

// Err combines every channel failure, or returns nil.
func (r Receipt) Err() error {
	var err error
	for _, res := range r.Failed() {
		err = multierr.Append(err, fmt.Errorf("channel %s: %w", res.Channel, res.Err))
	}
	return err
}

// Dispatcher runs a fixed, ordered list of channels.
// It holds no mutable state and may be reused.
type Dispatcher struct {
	log      logx.Logger
	channels []Channel
}

func NewDispatcher(log logx.Logger, channels ...Channel) *Dispatcher {
	if log.IsZero() {
		log = logx.Nop()
	}
	out := make([]Channel, 0, len(channels))
	for _, ch := range channels {
		if ch != nil {
			out = append(out, ch)
		}
	}
	return &Dispatcher{log: log.With(logx.String("comp", "dispatcher")), channels: out}
}

// Channels returns the configured channel names in order.
func (d *Dispatcher) Channels() []string {
	names := make([]string, len(d.channels))
	for i, ch := range d.channels {
		names[i] = ch.Name()
	}
	return names
}

// Run notifies every channel once, in order. A failing channel never stops
// the remaining ones.
func (d *Dispatcher) Run(ctx context.Context, snap status.Snapshot) Receipt {
	if ctx == nil {
		ctx = context.Background()
	}

	rc := Receipt{Results: make([]Result, 0, len(d.channels))}
	for _, ch := range d.channels {
		rc.Results = append(rc.Results, d.notifyOne(ctx, ch, snap))
	}

	if failed := len(rc.Failed()); failed > 0 {
		d.log.Warn("dispatch finished with failures", logx.Int("channels", len(d.channels)), logx.Int("failed", failed))
	} else {
		d.log.Debug("dispatch finished", logx.Int("channels", len(d.channels)))
	}
	return rc
}

func (d *Dispatcher) notifyOne(ctx context.Context, ch Channel, snap status.Snapshot) (res Result) {
	res.Channel = ch.Name()
	start := time.Now()
	defer func() {
		// A panicking backend is recorded like any other failure.
		if r := recover(); r != nil {
			res.Err = fmt.Errorf("panic: %v", r)
			d.log.Error("notification channel panicked", logx.String("channel", res.Channel), logx.Any("panic", r))
		}
		res.Took = time.Since(start)
	}()

	err := ch.Notify(ctx, snap)
	switch {
	case err == nil:
		d.log.Info("notification sent", logx.String("channel", res.Channel), logx.Duration("took", time.Since(start)))
	case errors.Is(err, ErrSkipped):
		res.Skipped = true
		d.log.Debug("notification skipped", logx.String("channel", res.Channel))
	default:
		res.Err = err
		d.log.Error("unable to send notification", logx.String("channel", res.Channel), logx.Err(err))
	}
	return res
}
