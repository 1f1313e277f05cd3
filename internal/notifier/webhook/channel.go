// Package webhook posts the plain-text membership report to an HTTP endpoint.
package webhook

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"galeranotify/internal/notifier"
	"galeranotify/internal/status"
)

type Config struct {
	Name    string
	URL     string
	Method  string            // default POST
	Headers map[string]string // extra request headers, e.g. Authorization
	Timeout time.Duration     // default 10s
}

type Channel struct {
	name    string
	url     string
	method  string
	headers map[string]string
	client  *http.Client
}

func New(cfg Config, client *http.Client) (*Channel, error) {
	name := strings.TrimSpace(cfg.Name)
	if name == "" {
		name = "webhook"
	}
	u, err := url.Parse(strings.TrimSpace(cfg.URL))
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return nil, &notifier.ConfigError{Channel: name, Field: "url", Reason: "must be an absolute http(s) URL"}
	}
	method := strings.ToUpper(strings.TrimSpace(cfg.Method))
	switch method {
	case "":
		method = http.MethodPost
	case http.MethodPost, http.MethodPut:
	default:
		return nil, &notifier.ConfigError{Channel: name, Field: "method", Reason: "must be POST or PUT"}
	}
	if client == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}

	headers := make(map[string]string, len(cfg.Headers))
	for k, v := range cfg.Headers {
		headers[k] = v
	}
	return &Channel{name: name, url: u.String(), method: method, headers: headers, client: client}, nil
}

func (c *Channel) Name() string { return c.name }

func (c *Channel) Notify(ctx context.Context, snap status.Snapshot) error {
	if !notifier.HasChanges(snap) {
		return notifier.ErrSkipped
	}
	if ctx == nil {
		ctx = context.Background()
	}

	req, err := http.NewRequestWithContext(ctx, c.method, c.url, strings.NewReader(snap.Render()))
	if err != nil {
		return &notifier.DeliveryError{Channel: c.name, Err: err}
	}
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	req.Header.Set("X-Galera-Server", snap.Server())
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return &notifier.DeliveryError{Channel: c.name, Err: err}
	}
	defer resp.Body.Close()
	// Drain so the connection can be reused by the transport.
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &notifier.DeliveryError{Channel: c.name, Err: fmt.Errorf("endpoint returned %d", resp.StatusCode)}
	}
	return nil
}
