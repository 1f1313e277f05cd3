package history

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	logx "galeranotify/pkg/logx"
)

// fileStore appends reports as plain text blocks:
//
//	=== 2015-05-14T09:07:00Z db1 (3 fields)
//	<report>
type fileStore struct {
	log logx.Logger
	f   *os.File
}

func openFile(cfg Config, log logx.Logger) (Store, error) {
	path := strings.TrimSpace(cfg.Path)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o640)
	if err != nil {
		return nil, err
	}
	return &fileStore{log: log, f: f}, nil
}

func (s *fileStore) Append(ctx context.Context, r Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	var b strings.Builder
	fmt.Fprintf(&b, "=== %s %s (%d fields)\n", r.At.UTC().Format(time.RFC3339), r.Server, r.PresenceCount)
	b.WriteString(r.Report)
	if !strings.HasSuffix(r.Report, "\n") {
		b.WriteString("\n")
	}
	n, err := s.f.WriteString(b.String())
	if err != nil {
		return err
	}
	if err := s.f.Sync(); err != nil {
		return err
	}
	s.log.Debug("history record appended", logx.String("driver", "file"), logx.String("path", s.f.Name()), logx.Int("bytes", n))
	return nil
}

func (s *fileStore) Close() error {
	if s == nil || s.f == nil {
		return nil
	}
	return s.f.Close()
}
