package main

// Notes:
// - interruptContext: only the context plumbing is tested. Real signal
//   delivery is platform-specific and would interrupt the test binary.

import (
	"context"
	"testing"
)

func TestInterruptContext(t *testing.T) {
	t.Parallel()

	t.Run("starts live", func(t *testing.T) {
		t.Parallel()

		ctx, stop := interruptContext(context.Background())
		defer stop()

		if ctx.Err() != nil {
			t.Fatalf("ctx.Err() = %v, want nil", ctx.Err())
		}
	})

	t.Run("stop cancels", func(t *testing.T) {
		t.Parallel()

		ctx, stop := interruptContext(context.Background())
		stop()

		<-ctx.Done()
	})

	t.Run("parent cancellation propagates", func(t *testing.T) {
		t.Parallel()

		parent, cancel := context.WithCancel(context.Background())
		ctx, stop := interruptContext(parent)
		defer stop()

		cancel()
		<-ctx.Done()
	})
}
