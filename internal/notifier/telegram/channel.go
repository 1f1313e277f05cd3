// Package telegram posts membership reports to a Telegram chat.
package telegram

import (
	"context"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
	tele "gopkg.in/telebot.v4"

	"galeranotify/internal/notifier"
	"galeranotify/internal/status"
)

type Config struct {
	Name     string
	Token    string
	ChatID   int64
	ThreadID int // forum topic, 0 if none
	// RatePerSec paces multi-part reports. Telegram allows about one
	// message per second per chat.
	RatePerSec int
	Timeout    time.Duration
	APIURL     string
}

// poster is the part of *tele.Bot the channel uses.
type poster interface {
	Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error)
}

type Channel struct {
	name     string
	chat     *tele.Chat
	threadID int
	rps      int
	bot      poster
}

type Option func(*Channel)

func withPoster(p poster) Option { return func(c *Channel) { c.bot = p } }

func New(cfg Config, opts ...Option) (*Channel, error) {
	name := strings.TrimSpace(cfg.Name)
	if name == "" {
		name = "telegram"
	}
	if cfg.ChatID == 0 {
		return nil, &notifier.ConfigError{Channel: name, Field: "chat_id", Reason: "is required"}
	}
	rps := cfg.RatePerSec
	if rps <= 0 {
		rps = 1
	}

	c := &Channel{
		name:     name,
		chat:     &tele.Chat{ID: cfg.ChatID},
		threadID: cfg.ThreadID,
		rps:      rps,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.bot != nil {
		return c, nil
	}

	if strings.TrimSpace(cfg.Token) == "" {
		return nil, &notifier.ConfigError{Channel: name, Field: "token", Reason: "is required"}
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	// Offline skips the getMe round-trip; the bot is only used to send.
	b, err := tele.NewBot(tele.Settings{
		URL:     cfg.APIURL,
		Token:   cfg.Token,
		Client:  &http.Client{Timeout: timeout},
		Offline: true,
	})
	if err != nil {
		return nil, &notifier.ConfigError{Channel: name, Reason: err.Error()}
	}
	c.bot = b
	return c, nil
}

func (c *Channel) Name() string { return c.name }

func (c *Channel) Notify(ctx context.Context, snap status.Snapshot) error {
	if !notifier.HasChanges(snap) {
		return notifier.ErrSkipped
	}
	if ctx == nil {
		ctx = context.Background()
	}

	lim := rate.NewLimiter(rate.Limit(c.rps), 1)
	chunks := splitText(snap.Render(), textLimit)
	for i, chunk := range chunks {
		if err := lim.Wait(ctx); err != nil {
			return &notifier.DeliveryError{Channel: c.name, Err: err}
		}
		_, err := c.bot.Send(c.chat, chunk, &tele.SendOptions{
			DisableWebPagePreview: true,
			ThreadID:              c.threadID,
		})
		if err != nil {
			return notifier.Deliveryf(c.name, "part %d/%d: %w", i+1, len(chunks), err)
		}
	}
	return nil
}
