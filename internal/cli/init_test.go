package cli

import (
	"context"
	"io"
	"log/slog"
	"syscall"
	"testing"
	"time"
)

func TestSetupLoggerNilConfig(t *testing.T) {
	logger := SetupLogger(nil)
	if logger == nil {
		t.Fatal("expected a logger even without configuration")
	}
	if !logger.Enabled(context.Background(), slog.LevelInfo) {
		t.Error("expected info level enabled by default")
	}
	if logger.Enabled(context.Background(), slog.LevelDebug) {
		t.Error("expected debug level disabled by default")
	}
}

func TestGracefulShutdownRunsCleanupOnSignal(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	cleaned := make(chan struct{})
	ctx, done := GracefulShutdown(logger, time.Second, func(shutdownCtx context.Context) {
		if shutdownCtx.Err() != nil {
			t.Error("cleanup context expired before cleanup ran")
		}
		close(cleaned)
	})

	if err := syscall.Kill(syscall.Getpid(), syscall.SIGTERM); err != nil {
		t.Fatalf("send signal: %v", err)
	}

	select {
	case <-cleaned:
	case <-time.After(5 * time.Second):
		t.Fatal("cleanup did not run after the shutdown signal")
	}

	WaitForShutdown(ctx, done)
	if ctx.Err() == nil {
		t.Error("expected the context cancelled after shutdown")
	}
}
