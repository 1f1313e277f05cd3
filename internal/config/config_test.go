package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	logx "galeranotify/pkg/logx"
)

const sampleYAML = `
server_name: db1
logging:
  level: debug
  console: true
channels:
  - type: email
    email:
      server: smtp.example.org
      port: 587
      tls: starttls
      username: galera
      from: galera@example.org
      to: [dba@example.org, ops@example.org]
      timeout: 20s
  - type: webhook
    name: chatops
    enabled: false
    webhook:
      url: https://hooks.example.org/galera
`

const sampleJSON = `{
  "server_name": "db1",
  "logging": {"level": "debug", "console": true},
  "channels": [
    {"type": "email", "email": {"server": "smtp.example.org", "port": 587, "tls": "starttls",
      "username": "galera", "from": "galera@example.org",
      "to": ["dba@example.org", "ops@example.org"], "timeout": "20s"}},
    {"type": "webhook", "name": "chatops", "enabled": false,
      "webhook": {"url": "https://hooks.example.org/galera"}}
  ]
}`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestYAMLAndJSONLoadIdentically(t *testing.T) {
	y, found, err := Load(writeFile(t, "galeranotify.yaml", sampleYAML), nil)
	require.NoError(t, err)
	assert.True(t, found)

	j, _, err := Load(writeFile(t, "galeranotify.json", sampleJSON), nil)
	require.NoError(t, err)

	assert.Equal(t, j, y)
	assert.Equal(t, "db1", y.ServerName)
	require.Len(t, y.Channels, 2)
	assert.Equal(t, []string{"dba@example.org", "ops@example.org"}, y.Channels[0].Email.To)
	assert.True(t, y.Channels[0].IsEnabled())
	assert.False(t, y.Channels[1].IsEnabled())
	assert.Equal(t, "chatops", y.Channels[1].DisplayName())
}

func TestParseRejectsUnknownKeys(t *testing.T) {
	_, err := Parse("c.yaml", []byte("channels:\n  - type: email\n    email:\n      smtp_server: x\n"))
	assert.ErrorContains(t, err, "smtp_server")

	_, err = Parse("c.json", []byte(`{"channels": []} {"channels": []}`))
	assert.ErrorContains(t, err, "trailing data")
}

func TestParseEmptyDocument(t *testing.T) {
	cfg, err := Parse("c.yaml", []byte("\n"))
	require.NoError(t, err)
	assert.Empty(t, cfg.Channels)
}

func TestLoadMissingDefaultIsEmpty(t *testing.T) {
	if _, err := os.Stat(DefaultPath); err == nil {
		t.Skip("default config present on this host")
	}
	cfg, found, err := Load("", nil)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Empty(t, cfg.Channels)
}

func TestLoadMissingExplicitFails(t *testing.T) {
	_, _, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), nil)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cases := map[string]string{
		"type is required":       "channels:\n  - email: {server: x}\n",
		"unknown channel type":   "channels:\n  - type: pager\n",
		"requires a":             "channels:\n  - type: email\n",
		"does not match":         "channels:\n  - type: journal\n    journal: {}\n    email: {server: x}\n",
		"duplicate channel name": "channels:\n  - type: journal\n    journal: {}\n  - type: journal\n    journal: {}\n",
		"invalid duration":       "channels:\n  - type: etcd\n    etcd: {endpoints: [a], ttl: soon}\n",
	}
	for want, doc := range cases {
		_, _, err := Load(writeFile(t, "c.yaml", doc), nil)
		assert.ErrorContains(t, err, want, doc)
	}

	ok := "channels:\n  - type: journal\n    journal: {}\n  - type: journal\n    name: second\n    journal: {}\n"
	_, _, err := Load(writeFile(t, "c.yaml", ok), nil)
	assert.NoError(t, err)
}

func TestApplyEnvFillsEmptyPasswords(t *testing.T) {
	cfg := &Config{Channels: []ChannelConfig{
		{Type: TypeEmail, Email: &EmailConfig{}},
		{Type: TypeEmail, Name: "b", Email: &EmailConfig{Password: "keep"}},
		{Type: TypeJournal, Journal: &JournalConfig{}},
	}}
	ApplyEnv(cfg, func(k string) string {
		if k == EnvSMTPPassword {
			return "from-env"
		}
		return ""
	})
	assert.Equal(t, "from-env", cfg.Channels[0].Email.Password)
	assert.Equal(t, "keep", cfg.Channels[1].Email.Password)
}

func TestDuration(t *testing.T) {
	d, err := Duration("x", "")
	require.NoError(t, err)
	assert.Zero(t, d)

	_, err = Duration("x", "-1s")
	assert.Error(t, err)
}

func TestSummarizeNeverLogsSecrets(t *testing.T) {
	cfg, err := Parse("c.yaml", []byte(sampleYAML))
	require.NoError(t, err)
	cfg.Channels[0].Email.Password = "hunter2"

	var buf bytes.Buffer
	logx.NewConsole(&buf, "info").Info("config", Summarize(cfg)...)

	out := buf.String()
	assert.NotContains(t, out, "hunter2")
	assert.Contains(t, out, "email(email)")
	assert.Contains(t, out, "chatops")
}

func TestYAMLNonStringKeysBecomeStrings(t *testing.T) {
	cfg, err := Parse("c.yaml", []byte("channels:\n  - type: webhook\n    webhook:\n      url: https://hooks.example.org/x\n      headers: {1: one, true: yes}\n"))
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"1": "one", "true": "yes"}, cfg.Channels[0].Webhook.Headers)
}
