package config

import (
	"fmt"
	"strings"
)

// Validate checks the structure of cfg. It does not mutate cfg.
//
// Channel-specific rules (required server, recipients, ...) are enforced by
// the channel constructors; Validate only makes sure each entry is
// well-formed so those constructors get a coherent block.
func Validate(cfg *Config) error {
	if cfg == nil {
		return nil
	}
	seen := make(map[string]int, len(cfg.Channels))
	for i, ch := range cfg.Channels {
		path := fmt.Sprintf("channels[%d]", i)

		typ := strings.ToLower(strings.TrimSpace(ch.Type))
		if typ == "" {
			return fmt.Errorf("%s.type is required", path)
		}
		blocks := ch.blocks()
		if _, known := blocks[typ]; !known {
			return fmt.Errorf("%s.type: unknown channel type %q", path, ch.Type)
		}
		for name, set := range blocks {
			if name == typ && !set {
				return fmt.Errorf("%s: type %q requires a %q block", path, typ, typ)
			}
			if name != typ && set {
				return fmt.Errorf("%s: %q block does not match type %q", path, name, typ)
			}
		}

		name := ch.Name
		if name == "" {
			name = typ
		}
		if prev, dup := seen[name]; dup {
			return fmt.Errorf("%s: duplicate channel name %q (also channels[%d]); set a distinct name", path, name, prev)
		}
		seen[name] = i

		for field, raw := range ch.durations() {
			if _, err := Duration(path+"."+typ+"."+field, raw); err != nil {
				return err
			}
		}
	}
	return nil
}

func (c ChannelConfig) blocks() map[string]bool {
	return map[string]bool{
		TypeEmail:    c.Email != nil,
		TypeTelegram: c.Telegram != nil,
		TypeWebhook:  c.Webhook != nil,
		TypeJournal:  c.Journal != nil,
		TypeHistory:  c.History != nil,
		TypeEtcd:     c.Etcd != nil,
	}
}

func (c ChannelConfig) durations() map[string]string {
	out := map[string]string{}
	switch {
	case c.Email != nil:
		out["timeout"] = c.Email.Timeout
	case c.Telegram != nil:
		out["timeout"] = c.Telegram.Timeout
	case c.Webhook != nil:
		out["timeout"] = c.Webhook.Timeout
	case c.History != nil:
		out["busy_timeout"] = c.History.BusyTimeout
	case c.Etcd != nil:
		out["ttl"] = c.Etcd.TTL
		out["dial_timeout"] = c.Etcd.DialTimeout
		out["request_timeout"] = c.Etcd.RequestTimeout
	}
	return out
}
