//go:build windows

package main

import (
	"context"
	"os"
	"os/signal"
)

// interruptContext returns a context canceled on Ctrl-C, which ends watch
// mode and aborts a build between stages. Windows has no SIGTERM.
func interruptContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt)
}
