package app

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
)

// Start launches the emission and returns a channel that is closed once the
// emission ends or a termination signal arrives.
func (a *App) Start() <-chan struct{} {
	terminateChan := make(chan struct{})
	var once sync.Once
	terminate := func() { once.Do(func() { close(terminateChan) }) }

	a.goroutine.Go(a.ctx, "emitter", func(ctx context.Context) error {
		defer terminate()

		_, err := a.emitter.Run(ctx)
		return err
	})

	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
		defer signal.Stop(sigint)

		select {
		case <-sigint:
			slog.InfoContext(a.ctx, "termination signal received")
			close(a.interrupted)
			a.cancel()
			terminate()
		case <-terminateChan:
		}
	}()

	return terminateChan
}

// Stop cancels any remaining work, waits for it, releases resources and
// returns the error the emission ended with.
func (a *App) Stop(ctx context.Context) error {
	done := make(chan error, 1)
	go func() {
		done <- a.goroutine.Wait()
	}()

	var runErr error
	select {
	case runErr = <-done:
	case <-ctx.Done():
		slog.ErrorContext(ctx, "timed out waiting for emission to stop", "error", ctx.Err())
		runErr = ctx.Err()
	}

	if a.cancel != nil {
		a.cancel()
	}

	select {
	case <-a.interrupted:
		if errors.Is(runErr, context.Canceled) {
			slog.WarnContext(a.ctx, "emission interrupted")
		}
	default:
	}
	if runErr != nil {
		slog.ErrorContext(a.ctx, "emission failed", "error", runErr)
	}

	for name, closer := range a.closerFn {
		if err := closer(ctx); err != nil {
			slog.ErrorContext(ctx, "failed to close resources", "name", name, "error", err)
		}
	}

	return runErr
}
