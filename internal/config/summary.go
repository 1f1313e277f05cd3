package config

import (
	"strings"

	logx "galeranotify/pkg/logx"
)

// Summarize returns safe structured attrs describing cfg for logging.
// It never includes secrets (passwords, tokens, webhook headers).
func Summarize(cfg *Config) []logx.Field {
	if cfg == nil {
		cfg = &Config{}
	}
	names := make([]string, 0, len(cfg.Channels))
	disabled := make([]string, 0)
	for _, ch := range cfg.Channels {
		if !ch.IsEnabled() {
			disabled = append(disabled, ch.DisplayName())
			continue
		}
		names = append(names, ch.DisplayName()+"("+strings.ToLower(ch.Type)+")")
	}

	attrs := []logx.Field{
		logx.Strs("channels", names),
		logx.String("logging.level", cfg.Logging.Level),
		logx.Bool("logging.file", cfg.Logging.File.Enabled),
	}
	if len(disabled) > 0 {
		attrs = append(attrs, logx.Strs("disabled", disabled))
	}
	for _, ch := range cfg.Channels {
		if e := ch.Email; e != nil && ch.IsEnabled() {
			attrs = append(attrs,
				logx.String(ch.DisplayName()+".server", e.Server),
				logx.Int(ch.DisplayName()+".recipients", len(e.To)),
				logx.Bool(ch.DisplayName()+".auth", e.Username != ""),
			)
		}
	}
	return attrs
}
