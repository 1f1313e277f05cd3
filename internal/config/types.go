package config

// Config is the galeranotify configuration file.
//
// Example (YAML):
//
//	server_name: db1
//	logging:
//	  level: info
//	  console: true
//	channels:
//	  - type: email
//	    email:
//	      server: smtp.example.org
//	      port: 587
//	      tls: starttls
//	      from: galera@example.org
//	      to: [dba@example.org]
//
// All durations are Go duration strings (e.g. "500ms", "10s", "1m").
type Config struct {
	// ServerName replaces the host name in reports. Defaults to os.Hostname().
	ServerName string        `json:"server_name,omitempty"`
	Logging    LoggingConfig `json:"logging"`

	// Channels are notified in this order.
	Channels []ChannelConfig `json:"channels"`
}

type LoggingConfig struct {
	Level   string      `json:"level"`
	Console bool        `json:"console"`
	File    LoggingFile `json:"file"`
}

type LoggingFile struct {
	Enabled bool   `json:"enabled"`
	Path    string `json:"path"`
}

// Channel types.
const (
	TypeEmail    = "email"
	TypeTelegram = "telegram"
	TypeWebhook  = "webhook"
	TypeJournal  = "journal"
	TypeHistory  = "history"
	TypeEtcd     = "etcd"
)

// ChannelConfig describes one notification channel. Exactly the block that
// matches Type must be set.
//
// Enabled is a pointer so we can distinguish "omitted" (enabled) from an
// explicit false.
type ChannelConfig struct {
	Type    string `json:"type"`
	Name    string `json:"name,omitempty"`
	Enabled *bool  `json:"enabled,omitempty"`

	Email    *EmailConfig    `json:"email,omitempty"`
	Telegram *TelegramConfig `json:"telegram,omitempty"`
	Webhook  *WebhookConfig  `json:"webhook,omitempty"`
	Journal  *JournalConfig  `json:"journal,omitempty"`
	History  *HistoryConfig  `json:"history,omitempty"`
	Etcd     *EtcdConfig     `json:"etcd,omitempty"`
}

// IsEnabled reports whether the channel should be built.
func (c ChannelConfig) IsEnabled() bool { return c.Enabled == nil || *c.Enabled }

// DisplayName is Name, or Type when no name was given.
func (c ChannelConfig) DisplayName() string {
	if c.Name != "" {
		return c.Name
	}
	return c.Type
}

type EmailConfig struct {
	Server string `json:"server"`
	Port   int    `json:"port,omitempty"`
	// TLS is "none" (default), "starttls" or "ssl".
	TLS      string `json:"tls,omitempty"`
	Username string `json:"username,omitempty"`
	Password string `json:"password,omitempty"` // do not log
	// Auth is "plain" (default), "login" or "cram-md5".
	Auth    string   `json:"auth,omitempty"`
	Timeout string   `json:"timeout,omitempty"`
	From    string   `json:"from"`
	To      []string `json:"to"`
	// Subject defaults to "Galera Notification: <server_name>".
	Subject string `json:"subject,omitempty"`
}

type TelegramConfig struct {
	Token      string `json:"token"` // do not log
	ChatID     int64  `json:"chat_id"`
	ThreadID   int    `json:"thread_id,omitempty"`
	RatePerSec int    `json:"rate_per_sec,omitempty"`
	Timeout    string `json:"timeout,omitempty"`
	APIURL     string `json:"api_url,omitempty"`
}

type WebhookConfig struct {
	URL     string            `json:"url"`
	Method  string            `json:"method,omitempty"`
	Headers map[string]string `json:"headers,omitempty"` // values may hold secrets; do not log
	Timeout string            `json:"timeout,omitempty"`
}

type JournalConfig struct {
	Identifier string `json:"identifier,omitempty"`
	Priority   string `json:"priority,omitempty"`
}

type HistoryConfig struct {
	Driver      string `json:"driver"`
	Path        string `json:"path"`
	BusyTimeout string `json:"busy_timeout,omitempty"` // sqlite only
}

type EtcdConfig struct {
	Endpoints   []string `json:"endpoints"`
	Prefix      string   `json:"prefix,omitempty"`
	TTL         string   `json:"ttl,omitempty"`
	DialTimeout string   `json:"dial_timeout,omitempty"`
	// RequestTimeout bounds lease grant and put. Default 5s.
	RequestTimeout string `json:"request_timeout,omitempty"`
	Username    string   `json:"username,omitempty"`
	Password    string   `json:"password,omitempty"` // do not log
}
