package app

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"galeranotify/internal/status"
	logx "galeranotify/pkg/logx"
)

func testEnv(stdout, stderr *bytes.Buffer) Env {
	return Env{
		Stdout:   stdout,
		Stderr:   stderr,
		Getenv:   func(string) string { return "" },
		Hostname: func() (string, error) { return "db1", nil },
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "galeranotify.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDebugPrintsReportWithoutDispatch(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { calls++ }))
	defer srv.Close()
	cfg := writeConfig(t, fmt.Sprintf("channels:\n  - type: webhook\n    webhook: {url: %q}\n", srv.URL))

	var stdout, stderr bytes.Buffer
	code := Run(context.Background(), []string{
		"-c", cfg, "--debug",
		"--status", "Synced", "--uuid", "6b2c-11", "--primary", "YES",
		"--members", "a,b,c", "--index", "1",
	}, testEnv(&stdout, &stderr))

	assert.Equal(t, ExitOK, code)
	assert.Equal(t, 0, calls)

	s, u, p, m, i := "Synced", "6b2c-11", "YES", "a,b,c", "1"
	want := status.NewBuilder("db1").Status(&s).UUID(&u).Primary(&p).Members(&m).Index(&i).Build().Render()
	assert.Equal(t, want, stdout.String())
	assert.Contains(t, stdout.String(), "-> b\n")
	assert.Contains(t, stdout.String(), "primary: Yes\n")
}

func TestShortFlagsAndServerName(t *testing.T) {
	cfg := writeConfig(t, "server_name: galera-east-1\nchannels: []\n")

	var stdout, stderr bytes.Buffer
	code := Run(context.Background(), []string{"-c", cfg, "-d", "-s", "Donor", "-p", "no"}, testEnv(&stdout, &stderr))

	assert.Equal(t, ExitOK, code)
	assert.True(t, strings.HasPrefix(stdout.String(), "Galera running on galera-east-1 has reported"))
	assert.Contains(t, stdout.String(), "Status of this node: Donor\n")
	assert.Contains(t, stdout.String(), "primary: No\n")
}

func TestNoFieldsRendersSingularHeader(t *testing.T) {
	cfg := writeConfig(t, "channels: []\n")

	var stdout, stderr bytes.Buffer
	code := Run(context.Background(), []string{"--config", cfg, "--debug"}, testEnv(&stdout, &stderr))

	assert.Equal(t, ExitOK, code)
	assert.Equal(t, "Galera running on db1 has reported the following cluster membership change:\n\n", stdout.String())
}

func TestNoChannelsSucceeds(t *testing.T) {
	cfg := writeConfig(t, "channels: []\n")

	var stdout, stderr bytes.Buffer
	code := Run(context.Background(), []string{"-c", cfg, "--status", "Synced"}, testEnv(&stdout, &stderr))

	assert.Equal(t, ExitOK, code)
	assert.Empty(t, stdout.String())
}

func TestFailingChannelDoesNotBlockOthers(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()
	historyPath := filepath.Join(t.TempDir(), "history.log")
	cfg := writeConfig(t, fmt.Sprintf(`
channels:
  - type: webhook
    name: hook
    webhook: {url: %q}
  - type: history
    history: {driver: file, path: %q}
`, srv.URL, historyPath))

	var stdout, stderr bytes.Buffer
	code := Run(context.Background(), []string{"-c", cfg, "--status", "Synced"}, testEnv(&stdout, &stderr))

	assert.Equal(t, ExitNotifyFailed, code)
	assert.Contains(t, stderr.String(), "Unable to send notification via hook")
	assert.Contains(t, stderr.String(), "502")

	b, err := os.ReadFile(historyPath)
	require.NoError(t, err, "second channel must still run")
	assert.Contains(t, string(b), "Status of this node: Synced")
}

func TestEmptySnapshotIsSkipped(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { calls++ }))
	defer srv.Close()
	cfg := writeConfig(t, fmt.Sprintf("channels:\n  - type: webhook\n    webhook: {url: %q}\n", srv.URL))

	var stdout, stderr bytes.Buffer
	code := Run(context.Background(), []string{"-c", cfg}, testEnv(&stdout, &stderr))

	assert.Equal(t, ExitOK, code)
	assert.Equal(t, 0, calls)
}

func TestDisabledChannelIsNotBuilt(t *testing.T) {
	cfg := writeConfig(t, "channels:\n  - type: email\n    enabled: false\n    email: {server: ''}\n")

	var stdout, stderr bytes.Buffer
	assert.Equal(t, ExitOK, Run(context.Background(), []string{"-c", cfg, "-s", "Synced"}, testEnv(&stdout, &stderr)))
}

func TestConfigurationErrors(t *testing.T) {
	cases := map[string]string{
		"email without server": "channels:\n  - type: email\n    email: {from: a@example.org, to: [b@example.org]}\n",
		"unknown key":          "channels:\n  - type: email\n    email: {smtp: x}\n",
		"unknown type":         "channels:\n  - type: pigeon\n",
	}
	for name, doc := range cases {
		var stdout, stderr bytes.Buffer
		code := Run(context.Background(), []string{"-c", writeConfig(t, doc), "-s", "Synced"}, testEnv(&stdout, &stderr))
		assert.Equal(t, ExitUsage, code, name)
	}

	var stdout, stderr bytes.Buffer
	code := Run(context.Background(), []string{"-c", filepath.Join(t.TempDir(), "missing.yaml")}, testEnv(&stdout, &stderr))
	assert.Equal(t, ExitUsage, code)
}

func TestUsageErrors(t *testing.T) {
	var stdout, stderr bytes.Buffer
	assert.Equal(t, ExitUsage, Run(context.Background(), []string{"--bogus"}, testEnv(&stdout, &stderr)))
	assert.Equal(t, ExitUsage, Run(context.Background(), []string{"-s", "Synced", "extra"}, testEnv(&stdout, &stderr)))
	assert.Equal(t, ExitOK, Run(context.Background(), []string{"-h"}, testEnv(&stdout, &stderr)))
}

func TestParseFlagsEmptyValues(t *testing.T) {
	opts, err := parseFlags([]string{"--status=", "-i", "", "--members", ""}, &bytes.Buffer{})
	require.NoError(t, err)

	snap := opts.snapshot("db1")
	assert.Equal(t, 1, snap.PresenceCount())
	_, ok := snap.Status()
	assert.False(t, ok, "empty status is not reported")
	_, ok = snap.Index()
	assert.False(t, ok, "empty index is not reported")
	m, ok := snap.Members()
	assert.True(t, ok)
	assert.Equal(t, []string{""}, m)
}

func TestServerNameFallback(t *testing.T) {
	cfgEmpty := writeConfig(t, "channels: []\n")
	var stdout, stderr bytes.Buffer
	env := testEnv(&stdout, &stderr)
	env.Hostname = func() (string, error) { return "", errors.New("uts unavailable") }

	assert.Equal(t, ExitOK, Run(context.Background(), []string{"-c", cfgEmpty, "-d"}, env))
	assert.Contains(t, stdout.String(), "Galera running on localhost")
}

func TestBuildChannelsKeepsOrder(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeConfig(t, fmt.Sprintf(`
channels:
  - type: history
    name: second-log
    history: {driver: sqlite, path: %q}
  - type: journal
    journal: {priority: info}
  - type: webhook
    webhook: {url: "https://hooks.example.org/x", timeout: 3s}
  - type: etcd
    etcd: {endpoints: ["127.0.0.1:2379"], ttl: 1m}
  - type: telegram
    telegram: {token: "123:abc", chat_id: -100}
  - type: email
    email: {server: smtp.example.org, from: a@example.org, to: [b@example.org], timeout: 5s}
`, filepath.Join(dir, "h.db")))

	cfg, err := loadForTest(cfgPath)
	require.NoError(t, err)
	chans, err := buildChannels(cfg, "db1", logx.Nop())
	require.NoError(t, err)

	names := make([]string, len(chans))
	for i, ch := range chans {
		names[i] = ch.Name()
	}
	assert.Equal(t, []string{"second-log", "journal", "webhook", "etcd", "telegram", "email"}, names)
}
