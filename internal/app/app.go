// Package app wires the wsrep notify command: flags, config, logging,
// snapshot and dispatch.
package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"galeranotify/internal/config"
	"galeranotify/internal/notifier"
	logx "galeranotify/pkg/logx"
)

// Exit codes.
const (
	ExitOK           = 0
	ExitNotifyFailed = 1
	ExitUsage        = 2
)

const defaultConfigHint = config.DefaultPath

// Env holds the process collaborators so Run can be exercised in tests.
type Env struct {
	Stdout   io.Writer
	Stderr   io.Writer
	Getenv   func(string) string
	Hostname func() (string, error)
}

// OSEnv returns the real process environment.
func OSEnv() Env {
	return Env{Stdout: os.Stdout, Stderr: os.Stderr, Getenv: os.Getenv, Hostname: os.Hostname}
}

func (e Env) withDefaults() Env {
	if e.Stdout == nil {
		e.Stdout = io.Discard
	}
	if e.Stderr == nil {
		e.Stderr = io.Discard
	}
	if e.Getenv == nil {
		e.Getenv = func(string) string { return "" }
	}
	if e.Hostname == nil {
		e.Hostname = os.Hostname
	}
	return e
}

// Run executes one notification and returns the process exit code.
func Run(ctx context.Context, args []string, env Env) int {
	if ctx == nil {
		ctx = context.Background()
	}
	env = env.withDefaults()

	opts, err := parseFlags(args, env.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return ExitOK
	}
	if err != nil {
		return ExitUsage
	}

	boot := logx.NewConsole(env.Stderr, opts.logLevel).With(logx.String("comp", "app"))

	cfg, found, err := config.Load(opts.configPath, env.Getenv)
	if err != nil {
		boot.Error("failed to load config", logx.Err(err))
		return ExitUsage
	}

	logCfg := logx.Config{
		Level:   cfg.Logging.Level,
		Console: cfg.Logging.Console,
		File: logx.FileConfig{
			Enabled: cfg.Logging.File.Enabled,
			Path:    cfg.Logging.File.Path,
		},
	}
	if opts.logLevel != "" {
		logCfg.Level = opts.logLevel
	}
	base, closer := logx.New(logCfg, env.Stderr)
	defer closer.Close()
	log := base.With(logx.String("comp", "app"))

	if !found {
		log.Warn("no config file found; no channels configured", logx.String("path", config.DefaultPath))
	}
	if log.Enabled(logx.LevelDebug) {
		log.Debug("config loaded", config.Summarize(cfg)...)
	}

	server := serverName(cfg, env.Hostname, log)
	snap := opts.snapshot(server)
	log.Debug("membership change", logx.String("server", server), logx.Int("fields", snap.PresenceCount()))

	if opts.debug {
		fmt.Fprint(env.Stdout, snap.Render())
		return ExitOK
	}

	channels, err := buildChannels(cfg, server, base)
	if err != nil {
		log.Error("invalid channel configuration", logx.Err(err))
		return ExitUsage
	}

	rc := notifier.NewDispatcher(base, channels...).Run(ctx, snap)
	if !rc.OK() {
		for _, res := range rc.Failed() {
			fmt.Fprintf(env.Stderr, "Unable to send notification via %s: %v\n", res.Channel, res.Err)
		}
		return ExitNotifyFailed
	}
	return ExitOK
}

func serverName(cfg *config.Config, hostname func() (string, error), log logx.Logger) string {
	if name := strings.TrimSpace(cfg.ServerName); name != "" {
		return name
	}
	name, err := hostname()
	if err != nil || name == "" {
		log.Warn("cannot determine host name", logx.Err(err))
		return "localhost"
	}
	return name
}
