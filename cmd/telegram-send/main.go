package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// version подставляется при сборке: -ldflags "-X main.version=..."
var version = "dev"

func main() {
	// Ctrl-C прерывает настройку, ожидание --at и оставшиеся отправки
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	code := execute(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)

	stop()
	os.Exit(code)
}
