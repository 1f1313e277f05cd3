// Package journal writes membership reports to the systemd journal.
//
// Each supplied snapshot field is attached as a GALERA_* journal field so
// reports can be filtered with journalctl, e.g.
//
//	journalctl SYSLOG_IDENTIFIER=galeranotify GALERA_PRIMARY=No
package journal

import (
	"context"
	"strconv"
	"strings"

	"github.com/coreos/go-systemd/v22/journal"

	"galeranotify/internal/notifier"
	"galeranotify/internal/status"
)

type Config struct {
	Name       string
	Identifier string // SYSLOG_IDENTIFIER, default "galeranotify"
	Priority   string // emerg..debug, default "notice"
}

type sendFunc func(message string, priority journal.Priority, vars map[string]string) error

type Channel struct {
	name       string
	identifier string
	priority   journal.Priority

	enabled func() bool
	send    sendFunc
}

var priorities = map[string]journal.Priority{
	"emerg":   journal.PriEmerg,
	"alert":   journal.PriAlert,
	"crit":    journal.PriCrit,
	"err":     journal.PriErr,
	"error":   journal.PriErr,
	"warning": journal.PriWarning,
	"warn":    journal.PriWarning,
	"notice":  journal.PriNotice,
	"info":    journal.PriInfo,
	"debug":   journal.PriDebug,
}

func New(cfg Config) (*Channel, error) {
	name := strings.TrimSpace(cfg.Name)
	if name == "" {
		name = "journal"
	}
	prio := journal.PriNotice
	if p := strings.ToLower(strings.TrimSpace(cfg.Priority)); p != "" {
		v, ok := priorities[p]
		if !ok {
			return nil, &notifier.ConfigError{Channel: name, Field: "priority", Reason: "unknown syslog priority " + strconv.Quote(cfg.Priority)}
		}
		prio = v
	}
	ident := strings.TrimSpace(cfg.Identifier)
	if ident == "" {
		ident = "galeranotify"
	}
	return &Channel{
		name:       name,
		identifier: ident,
		priority:   prio,
		enabled:    journal.Enabled,
		send:       journal.Send,
	}, nil
}

func (c *Channel) Name() string { return c.name }

func (c *Channel) Notify(ctx context.Context, snap status.Snapshot) error {
	if !notifier.HasChanges(snap) {
		return notifier.ErrSkipped
	}
	if !c.enabled() {
		return notifier.Deliveryf(c.name, "systemd journal socket is not available")
	}
	if err := c.send(snap.Render(), c.priority, c.fields(snap)); err != nil {
		return &notifier.DeliveryError{Channel: c.name, Err: err}
	}
	return nil
}

func (c *Channel) fields(snap status.Snapshot) map[string]string {
	vars := map[string]string{
		"SYSLOG_IDENTIFIER": c.identifier,
		"GALERA_SERVER":     snap.Server(),
	}
	if v, ok := snap.Status(); ok {
		vars["GALERA_STATUS"] = v
	}
	if v, ok := snap.UUID(); ok {
		vars["GALERA_UUID"] = v
	}
	if v, ok := snap.Primary(); ok {
		vars["GALERA_PRIMARY"] = v
	}
	if v, ok := snap.Members(); ok {
		vars["GALERA_MEMBERS"] = strings.Join(v, ",")
		vars["GALERA_MEMBER_COUNT"] = strconv.Itoa(len(v))
	}
	if v, ok := snap.Index(); ok {
		vars["GALERA_INDEX"] = v
	}
	return vars
}
