package app

import (
	"context"
	"os/signal"
	"syscall"
	"time"
)

// SetupLifecycle derives the context of a one-shot run. It ends at timeout,
// when one is positive, or on the first SIGINT or SIGTERM. The returned
// function restores default signal handling and releases the context.
func SetupLifecycle(parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	var (
		ctx    context.Context
		cancel context.CancelFunc
	)
	if timeout > 0 {
		ctx, cancel = context.WithTimeout(parent, timeout)
	} else {
		ctx, cancel = context.WithCancel(parent)
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	return ctx, func() {
		stop()
		cancel()
	}
}
