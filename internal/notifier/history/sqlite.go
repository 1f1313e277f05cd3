package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	logx "galeranotify/pkg/logx"
)

const schema = `
CREATE TABLE IF NOT EXISTS reports (
	id             INTEGER PRIMARY KEY AUTOINCREMENT,
	at             TEXT    NOT NULL,
	server         TEXT    NOT NULL,
	status         TEXT,
	uuid           TEXT,
	is_primary     TEXT,
	members        TEXT,
	member_index   TEXT,
	presence_count INTEGER NOT NULL,
	report         TEXT    NOT NULL
);
CREATE INDEX IF NOT EXISTS reports_at ON reports(at);
`

type sqliteStore struct {
	db  *sql.DB
	log logx.Logger
}

func openSQLite(cfg Config, log logx.Logger) (Store, error) {
	path := cfg.Path
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// Galera may fire several notifications in quick succession; one writer
	// plus a busy timeout lets concurrent invocations queue instead of failing.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	busy := cfg.BusyTimeout
	if busy <= 0 {
		busy = 5 * time.Second
	}
	if _, err := db.Exec(fmt.Sprintf("PRAGMA busy_timeout = %d", busy.Milliseconds())); err != nil {
		_ = db.Close()
		return nil, err
	}
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		log.Warn("sqlite WAL unavailable, using default journal", logx.String("path", path), logx.Err(err))
	}
	_, _ = db.Exec("PRAGMA synchronous = NORMAL")

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("history schema: %w", err)
	}
	return &sqliteStore{db: db, log: log}, nil
}

func (s *sqliteStore) Append(ctx context.Context, r Record) error {
	if r.At.IsZero() {
		r.At = time.Now()
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO reports(at, server, status, uuid, is_primary, members, member_index, presence_count, report)
		 VALUES(?,?,?,?,?,?,?,?,?)`,
		r.At.UTC().Format(time.RFC3339Nano), r.Server, nullStr(r.Status), nullStr(r.UUID), nullStr(r.Primary),
		nullStr(r.Members), nullStr(r.Index), r.PresenceCount, r.Report,
	)
	if err != nil {
		return err
	}
	if id, err := res.LastInsertId(); err == nil {
		s.log.Debug("history record appended", logx.String("driver", "sqlite"), logx.Any("id", id), logx.String("server", r.Server))
	}
	return nil
}

func (s *sqliteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func nullStr(v string) any {
	if v == "" {
		return nil
	}
	return v
}
