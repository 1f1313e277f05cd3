package notifier

import (
	"errors"
	"fmt"
)

var (
	// ErrSkipped is returned by a channel that had nothing to deliver.
	ErrSkipped = errors.New("notification skipped")
	// ErrConfig is matched by every *ConfigError.
	ErrConfig = errors.New("invalid channel config")
)

// DeliveryError wraps a transport failure (connect, auth, send) of a channel.
type DeliveryError struct {
	Channel string
	Err     error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("%s: delivery failed: %v", e.Channel, e.Err)
}

func (e *DeliveryError) Unwrap() error { return e.Err }

// Deliveryf builds a DeliveryError with a formatted cause.
func Deliveryf(channel, format string, args ...any) error {
	return &DeliveryError{Channel: channel, Err: fmt.Errorf(format, args...)}
}

// ConfigError reports a channel that cannot be constructed.
type ConfigError struct {
	Channel string
	Field   string
	Reason  string
}

func (e *ConfigError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %s", e.Channel, e.Reason)
	}
	return fmt.Sprintf("%s: %s: %s", e.Channel, e.Field, e.Reason)
}

func (e *ConfigError) Is(target error) bool { return target == ErrConfig }
