package email

import (
	"context"
	"strings"
	"time"

	"galeranotify/internal/notifier"
	"galeranotify/internal/status"
)

// DateLayout is the Date header format of the report mails (MM/DD/YYYY HH:MM).
const DateLayout = "01/02/2006 15:04"

// TLS modes.
const (
	TLSNone     = "none"
	TLSStartTLS = "starttls"
	TLSSSL      = "ssl"
)

// Config configures an email channel. It is fixed for the process lifetime.
type Config struct {
	Name     string
	Server   string
	Port     int
	TLS      string
	Username string
	Password string
	// AuthMechanism is "plain" (default), "login" or "cram-md5".
	AuthMechanism string
	Timeout       time.Duration

	From    string
	To      []string
	Subject string
}

// Endpoint is what a Sender needs to reach the SMTP server.
type Endpoint struct {
	Server        string
	Port          int
	TLS           string
	Username      string
	Password      string
	AuthMechanism string
	Timeout       time.Duration
}

// UseAuth reports whether credentials were configured.
func (e Endpoint) UseAuth() bool { return e.Username != "" }

// Message is the single-part text mail built from a snapshot.
type Message struct {
	From    string
	To      []string
	Subject string
	Date    string
	Body    string
}

// ToHeader is the To header value: recipients joined by ", ".
func (m Message) ToHeader() string { return strings.Join(m.To, ", ") }

// Sender delivers one message. Implementations own the connection lifetime.
type Sender interface {
	Send(ctx context.Context, ep Endpoint, msg Message) error
}

// Channel is the email notification channel.
type Channel struct {
	name     string
	endpoint Endpoint
	from     string
	to       []string
	subject  string

	sender Sender
	now    func() time.Time
}

type Option func(*Channel)

// WithClock overrides the clock used for the Date header.
func WithClock(now func() time.Time) Option {
	return func(c *Channel) {
		if now != nil {
			c.now = now
		}
	}
}

// New validates cfg and returns a channel. A nil sender selects the SMTP
// sender. server is the reporting host used in the default subject.
func New(cfg Config, server string, sender Sender, opts ...Option) (*Channel, error) {
	name := strings.TrimSpace(cfg.Name)
	if name == "" {
		name = "email"
	}
	cfgErr := func(field, reason string) error {
		return &notifier.ConfigError{Channel: name, Field: field, Reason: reason}
	}

	host := strings.TrimSpace(cfg.Server)
	if host == "" {
		return nil, cfgErr("server", "is required")
	}
	tlsMode := strings.ToLower(strings.TrimSpace(cfg.TLS))
	switch tlsMode {
	case "":
		tlsMode = TLSNone
	case TLSNone, TLSStartTLS, TLSSSL:
	default:
		return nil, cfgErr("tls", "must be one of none, starttls, ssl")
	}
	port := cfg.Port
	if port < 0 || port > 65535 {
		return nil, cfgErr("port", "out of range")
	}
	if port == 0 {
		port = 25
		if tlsMode == TLSSSL {
			port = 465
		}
	}
	auth := strings.ToLower(strings.TrimSpace(cfg.AuthMechanism))
	switch auth {
	case "":
		auth = "plain"
	case "plain", "login", "cram-md5":
	default:
		return nil, cfgErr("auth", "must be one of plain, login, cram-md5")
	}
	if cfg.Username == "" && cfg.Password != "" {
		return nil, cfgErr("username", "is required when a password is set")
	}
	from := strings.TrimSpace(cfg.From)
	if from == "" {
		return nil, cfgErr("from", "is required")
	}
	to := make([]string, 0, len(cfg.To))
	for _, rcpt := range cfg.To {
		if rcpt = strings.TrimSpace(rcpt); rcpt != "" {
			to = append(to, rcpt)
		}
	}
	if len(to) == 0 {
		return nil, cfgErr("to", "at least one recipient is required")
	}
	subject := cfg.Subject
	if strings.TrimSpace(subject) == "" {
		subject = "Galera Notification: " + server
	}

	if sender == nil {
		sender = SMTPSender{}
	}
	c := &Channel{
		name: name,
		endpoint: Endpoint{
			Server:        host,
			Port:          port,
			TLS:           tlsMode,
			Username:      cfg.Username,
			Password:      cfg.Password,
			AuthMechanism: auth,
			Timeout:       cfg.Timeout,
		},
		from:    from,
		to:      to,
		subject: subject,
		sender:  sender,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *Channel) Name() string { return c.name }

// Message builds the mail for snap.
func (c *Channel) Message(snap status.Snapshot) Message {
	return Message{
		From:    c.from,
		To:      append([]string(nil), c.to...),
		Subject: c.subject,
		Date:    c.now().Format(DateLayout),
		Body:    snap.Render(),
	}
}

// Notify sends the report. Empty snapshots are skipped without connecting.
func (c *Channel) Notify(ctx context.Context, snap status.Snapshot) error {
	if !notifier.HasChanges(snap) {
		return notifier.ErrSkipped
	}
	if err := c.sender.Send(ctx, c.endpoint, c.Message(snap)); err != nil {
		return &notifier.DeliveryError{Channel: c.name, Err: err}
	}
	return nil
}
