// Package etcd publishes the latest membership report of a node under an
// etcd key, so other tooling can watch <prefix>/<server>.
package etcd

import (
	"context"
	"path"
	"strings"
	"time"

	clientv3 "go.etcd.io/etcd/client/v3"

	"galeranotify/internal/notifier"
	"galeranotify/internal/status"
)

type Config struct {
	Name        string
	Endpoints   []string
	Prefix      string        // default "/galera/notify"
	TTL         time.Duration // 0 keeps the key forever
	DialTimeout time.Duration // default 5s
	// RequestTimeout bounds the lease grant and put together. The client
	// dials lazily, so this is what stops an unreachable cluster from
	// blocking the notify command. Default 5s.
	RequestTimeout time.Duration
	Username    string
	Password    string
}

// kv is the subset of *clientv3.Client used by the channel.
type kv interface {
	Grant(ctx context.Context, ttl int64) (*clientv3.LeaseGrantResponse, error)
	Put(ctx context.Context, key, val string, opts ...clientv3.OpOption) (*clientv3.PutResponse, error)
	Close() error
}

type dialFunc func(cfg clientv3.Config) (kv, error)

func dialEtcd(cfg clientv3.Config) (kv, error) { return clientv3.New(cfg) }

type Channel struct {
	name   string
	cfg    clientv3.Config
	prefix  string
	ttl     time.Duration
	timeout time.Duration
	dial    dialFunc
}

func New(cfg Config) (*Channel, error) {
	name := strings.TrimSpace(cfg.Name)
	if name == "" {
		name = "etcd"
	}
	eps := make([]string, 0, len(cfg.Endpoints))
	for _, ep := range cfg.Endpoints {
		if ep = strings.TrimSpace(ep); ep != "" {
			eps = append(eps, ep)
		}
	}
	if len(eps) == 0 {
		return nil, &notifier.ConfigError{Channel: name, Field: "endpoints", Reason: "at least one endpoint is required"}
	}
	if cfg.TTL > 0 && cfg.TTL < time.Second {
		return nil, &notifier.ConfigError{Channel: name, Field: "ttl", Reason: "must be at least 1s"}
	}
	prefix := strings.TrimSpace(cfg.Prefix)
	if prefix == "" {
		prefix = "/galera/notify"
	}
	dt := cfg.DialTimeout
	if dt <= 0 {
		dt = 5 * time.Second
	}
	rt := cfg.RequestTimeout
	if rt <= 0 {
		rt = 5 * time.Second
	}
	return &Channel{
		name: name,
		cfg: clientv3.Config{
			Endpoints:   eps,
			DialTimeout: dt,
			Username:    cfg.Username,
			Password:    cfg.Password,
		},
		prefix:  prefix,
		ttl:     cfg.TTL,
		timeout: rt,
		dial:    dialEtcd,
	}, nil
}

func (c *Channel) Name() string { return c.name }

// Key is where the report of server is stored.
func (c *Channel) Key(server string) string { return path.Join(c.prefix, server) }

func (c *Channel) Notify(ctx context.Context, snap status.Snapshot) error {
	if !notifier.HasChanges(snap) {
		return notifier.ErrSkipped
	}
	if ctx == nil {
		ctx = context.Background()
	}

	cli, err := c.dial(c.cfg)
	if err != nil {
		return &notifier.DeliveryError{Channel: c.name, Err: err}
	}
	defer cli.Close()

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var opts []clientv3.OpOption
	if c.ttl > 0 {
		lease, err := cli.Grant(ctx, int64(c.ttl/time.Second))
		if err != nil {
			return notifier.Deliveryf(c.name, "grant lease: %w", err)
		}
		opts = append(opts, clientv3.WithLease(lease.ID))
	}
	if _, err := cli.Put(ctx, c.Key(snap.Server()), snap.Render(), opts...); err != nil {
		return notifier.Deliveryf(c.name, "put %s: %w", c.Key(snap.Server()), err)
	}
	return nil
}
