//go:build !windows

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// interruptContext returns a context canceled on Ctrl-C or SIGTERM, which
// ends watch mode and aborts a build between stages.
func interruptContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}
