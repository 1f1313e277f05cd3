// Package notifier delivers a rendered membership report through pluggable
// channels.
//
// A Channel is any backend that can accept a status.Snapshot and attempt
// delivery (email, Telegram, webhook, systemd journal, history log, etcd).
// Channels decide on their own whether there is anything worth sending; by
// convention they return ErrSkipped for an empty snapshot.
//
// # Dispatch
//
// The Dispatcher runs its channels strictly in configuration order. A failing
// channel is recorded and logged, and the remaining channels still run. No
// channel is retried within a run. The Receipt reports the aggregate outcome.
package notifier
