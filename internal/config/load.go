package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// DefaultPath is used when no -config flag is given.
const DefaultPath = "/etc/galeranotify.yaml"

// EnvSMTPPassword fills empty email passwords so secrets can stay out of
// the config file.
const EnvSMTPPassword = "GALERANOTIFY_SMTP_PASSWORD"

// Parse decodes a JSON or YAML (by extension) config document strictly:
// unknown keys and trailing data are rejected.
func Parse(path string, data []byte) (*Config, error) {
	jb, format, err := coerceToJSONBytes(path, data)
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(jb)) == 0 || string(bytes.TrimSpace(jb)) == "null" {
		return &Config{}, nil
	}

	var cfg Config
	dec := json.NewDecoder(bytes.NewReader(jb))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("%s config %s: %w", format, path, err)
	}
	// reject trailing tokens (e.g. concatenated JSON)
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		if err == nil {
			return nil, fmt.Errorf("%s config %s: trailing data", format, path)
		}
		return nil, err
	}
	return &cfg, nil
}

// Load reads, parses and validates the config at path.
//
// When path is the default location and the file does not exist, an empty
// config (no channels) is returned with found=false.
func Load(path string, getenv func(string) string) (cfg *Config, found bool, err error) {
	explicit := strings.TrimSpace(path) != ""
	if !explicit {
		path = DefaultPath
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return &Config{}, false, nil
		}
		return nil, false, err
	}

	cfg, err = Parse(path, b)
	if err != nil {
		return nil, true, err
	}
	ApplyEnv(cfg, getenv)
	if err := Validate(cfg); err != nil {
		return nil, true, err
	}
	return cfg, true, nil
}

// ApplyEnv applies environment overrides.
func ApplyEnv(cfg *Config, getenv func(string) string) {
	if cfg == nil || getenv == nil {
		return
	}
	pw := getenv(EnvSMTPPassword)
	if pw == "" {
		return
	}
	for i := range cfg.Channels {
		if e := cfg.Channels[i].Email; e != nil && e.Password == "" {
			e.Password = pw
		}
	}
}
