package logx

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZeroLoggerIsSafe(t *testing.T) {
	var l Logger
	assert.True(t, l.IsZero())
	l.Info("dropped", String("k", "v"))
	assert.False(t, Nop().IsZero())
}

func TestConsoleLoggerHonorsLevel(t *testing.T) {
	var buf bytes.Buffer
	l := NewConsole(&buf, "warn")

	l.Info("hidden")
	l.Warn("shown", String("channel", "email"), Err(errors.New("boom")))

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
	assert.Contains(t, out, "channel=email")
	assert.Contains(t, out, "boom")
	assert.False(t, l.Enabled(LevelInfo))
}

func TestWithKeepsFixedFields(t *testing.T) {
	var buf bytes.Buffer
	l := NewConsole(&buf, "debug").With(String("comp", "dispatcher"))
	l.Debug("hello", Int("n", 2))

	assert.Contains(t, buf.String(), "comp=dispatcher")
	assert.Contains(t, buf.String(), "n=2")
}

func TestFileSinkWritesJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notify.log")
	var console bytes.Buffer

	l, closer := New(Config{Level: "info", File: FileConfig{Enabled: true, Path: path}}, &console)
	l.Info("written", Bool("ok", true))
	require.NoError(t, closer.Close())

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"message":"written"`)
	assert.Contains(t, string(b), `"ok":true`)
	// Console disabled but file enabled: nothing on the console.
	assert.Empty(t, console.String())
}
