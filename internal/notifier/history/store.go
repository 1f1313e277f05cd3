// Package history keeps an append-only log of delivered membership reports.
//
// The log is write-only from the notifier's point of view: nothing in this
// module reads it back, so every invocation stays independent. Operators can
// inspect it with standard tools (less, sqlite3).
//
// Driver values:
//   - "file": plain text, one timestamped block per report
//   - "sqlite": SQLite database file, table "reports"
package history

import (
	"context"
	"errors"
	"strings"
	"time"

	"galeranotify/internal/status"
	logx "galeranotify/pkg/logx"
)

type Config struct {
	Name        string
	Driver      string
	Path        string
	BusyTimeout time.Duration // sqlite only; 0 means default
}

// Record is one stored report.
type Record struct {
	At            time.Time
	Server        string
	Status        string
	UUID          string
	Primary       string
	Members       string
	Index         string
	PresenceCount int
	Report        string
}

// NewRecord flattens snap into a Record.
func NewRecord(at time.Time, snap status.Snapshot) Record {
	r := Record{At: at, Server: snap.Server(), PresenceCount: snap.PresenceCount(), Report: snap.Render()}
	r.Status, _ = snap.Status()
	r.UUID, _ = snap.UUID()
	r.Primary, _ = snap.Primary()
	r.Index, _ = snap.Index()
	if m, ok := snap.Members(); ok {
		r.Members = strings.Join(m, ",")
	}
	return r
}

// Store is the minimal append API shared by the drivers.
type Store interface {
	Append(ctx context.Context, r Record) error
	Close() error
}

func normalizeDriver(d string) string {
	d = strings.ToLower(strings.TrimSpace(d))
	if d == "sqlite3" {
		return "sqlite"
	}
	return d
}

// Open opens the configured store.
func Open(cfg Config, log logx.Logger) (Store, error) {
	if log.IsZero() {
		log = logx.Nop()
	}
	if strings.TrimSpace(cfg.Path) == "" {
		return nil, errors.New("history path is required")
	}

	switch driver := normalizeDriver(cfg.Driver); driver {
	case "file":
		return openFile(cfg, log)
	case "sqlite":
		return openSQLite(cfg, log)
	default:
		return nil, errors.New("unknown history driver: " + driver)
	}
}
