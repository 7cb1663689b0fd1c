// Package logger provides the service-wide structured logger built on log/slog.
//
// Request handlers never use the base logger directly. The Logger middleware
// stores a child logger tagged with the request ID in the request context,
// and domain code pulls it back out:
//
//	log := logger.WithCtx(ctx)
//	log.Info("customer created", "customer_id", c.ID)
//	// → time=... level=INFO msg="customer created" request_id=a1b2c3d4 customer_id=7
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/shashiranjanraj/kashvi-crm/config"
)

var L *slog.Logger

func init() {
	L = New(os.Stdout, config.IsProduction())
	slog.SetDefault(L)
}

// New builds a logger writing to w. Production gets JSON at INFO for log
// aggregators; everything else gets human-readable text at DEBUG.
func New(w io.Writer, production bool) *slog.Logger {
	if production {
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// Replace swaps the base logger and returns a func restoring the previous
// one. Tests use it to silence or capture output.
func Replace(l *slog.Logger) (restore func()) {
	prev := L
	L = l
	return func() { L = prev }
}

type ctxKey struct{}

// WithCtx returns the request-scoped logger stored in ctx, or the base
// logger when there is none.
func WithCtx(ctx context.Context) *slog.Logger {
	if ctx == nil {
		return L
	}
	if log, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok && log != nil {
		return log
	}
	return L
}

// InjectLogger stores log in ctx. Called by the Logger middleware.
func InjectLogger(ctx context.Context, log *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, log)
}

// Debug logs at DEBUG level.
func Debug(msg string, args ...any) { L.Debug(msg, args...) }

// Info logs at INFO level.
func Info(msg string, args ...any) { L.Info(msg, args...) }

// Warn logs at WARN level.
func Warn(msg string, args ...any) { L.Warn(msg, args...) }

// Error logs at ERROR level.
func Error(msg string, args ...any) { L.Error(msg, args...) }
