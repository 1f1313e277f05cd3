package app

import (
	"fmt"
	"strings"

	"galeranotify/internal/config"
	"galeranotify/internal/notifier"
	"galeranotify/internal/notifier/email"
	"galeranotify/internal/notifier/etcd"
	"galeranotify/internal/notifier/history"
	"galeranotify/internal/notifier/journal"
	"galeranotify/internal/notifier/telegram"
	"galeranotify/internal/notifier/webhook"
	logx "galeranotify/pkg/logx"
)

// buildChannels maps the configured channels, in order, to notifiers.
// Disabled entries are left out. Any misconfiguration is returned before
// anything is sent.
func buildChannels(cfg *config.Config, server string, log logx.Logger) ([]notifier.Channel, error) {
	if cfg == nil {
		return nil, nil
	}
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	out := make([]notifier.Channel, 0, len(cfg.Channels))
	for i, cc := range cfg.Channels {
		if !cc.IsEnabled() {
			log.Debug("channel disabled", logx.String("channel", cc.DisplayName()))
			continue
		}
		ch, err := buildChannel(cc, server, log)
		if err != nil {
			return nil, fmt.Errorf("channels[%d]: %w", i, err)
		}
		out = append(out, ch)
	}
	return out, nil
}

func buildChannel(cc config.ChannelConfig, server string, log logx.Logger) (notifier.Channel, error) {
	path := "channels." + cc.DisplayName()
	switch strings.ToLower(strings.TrimSpace(cc.Type)) {
	case config.TypeEmail:
		e := cc.Email
		timeout, err := config.Duration(path+".timeout", e.Timeout)
		if err != nil {
			return nil, err
		}
		return email.New(email.Config{
			Name:          cc.Name,
			Server:        e.Server,
			Port:          e.Port,
			TLS:           e.TLS,
			Username:      e.Username,
			Password:      e.Password,
			AuthMechanism: e.Auth,
			Timeout:       timeout,
			From:          e.From,
			To:            e.To,
			Subject:       e.Subject,
		}, server, nil)

	case config.TypeTelegram:
		tg := cc.Telegram
		timeout, err := config.Duration(path+".timeout", tg.Timeout)
		if err != nil {
			return nil, err
		}
		return telegram.New(telegram.Config{
			Name:       cc.Name,
			Token:      tg.Token,
			ChatID:     tg.ChatID,
			ThreadID:   tg.ThreadID,
			RatePerSec: tg.RatePerSec,
			Timeout:    timeout,
			APIURL:     tg.APIURL,
		})

	case config.TypeWebhook:
		wh := cc.Webhook
		timeout, err := config.Duration(path+".timeout", wh.Timeout)
		if err != nil {
			return nil, err
		}
		return webhook.New(webhook.Config{
			Name:    cc.Name,
			URL:     wh.URL,
			Method:  wh.Method,
			Headers: wh.Headers,
			Timeout: timeout,
		}, nil)

	case config.TypeJournal:
		return journal.New(journal.Config{
			Name:       cc.Name,
			Identifier: cc.Journal.Identifier,
			Priority:   cc.Journal.Priority,
		})

	case config.TypeHistory:
		h := cc.History
		busy, err := config.Duration(path+".busy_timeout", h.BusyTimeout)
		if err != nil {
			return nil, err
		}
		return history.New(history.Config{
			Name:        cc.Name,
			Driver:      h.Driver,
			Path:        h.Path,
			BusyTimeout: busy,
		}, log.With(logx.String("channel", cc.DisplayName())))

	case config.TypeEtcd:
		ec := cc.Etcd
		ttl, err := config.Duration(path+".ttl", ec.TTL)
		if err != nil {
			return nil, err
		}
		dial, err := config.Duration(path+".dial_timeout", ec.DialTimeout)
		if err != nil {
			return nil, err
		}
		req, err := config.Duration(path+".request_timeout", ec.RequestTimeout)
		if err != nil {
			return nil, err
		}
		return etcd.New(etcd.Config{
			Name:           cc.Name,
			Endpoints:      ec.Endpoints,
			Prefix:         ec.Prefix,
			TTL:            ttl,
			DialTimeout:    dial,
			RequestTimeout: req,
			Username:       ec.Username,
			Password:       ec.Password,
		})

	default:
		return nil, &notifier.ConfigError{Channel: cc.DisplayName(), Field: "type", Reason: "unknown channel type " + cc.Type}
	}
}
