package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"galeranotify/internal/app"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := app.Run(ctx, os.Args[1:], app.OSEnv())
	cancel()
	os.Exit(code)
}
