// Package logger provides a structured, levelled logger built on log/slog.
//
// WithCtx returns the request-scoped logger installed by the Logger
// middleware, so every line written from a handler carries its request_id:
//
//	log := logger.WithCtx(r.Context())
//	log.Info("product created", "product_id", id)
//	// → time=... level=INFO msg="product created" request_id=0b6e... product_id=...
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/shashiranjanraj/catalog/config"
)

var L *slog.Logger

// base is the console handler; Attach fans out from it.
var base slog.Handler

func init() {
	Setup(os.Stdout, config.AppEnv())
}

// Setup rebuilds the console handler for env and makes it the process-wide
// default. Call it again once config files given on the command line are
// loaded.
func Setup(w io.Writer, env string) {
	base = newHandler(w, env)
	L = slog.New(base)
	slog.SetDefault(L)
}

func newHandler(w io.Writer, env string) slog.Handler {
	switch env {
	case "production", "prod":
		return slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo})
	default:
		return slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug})
	}
}

// Attach adds extra sinks next to the console handler and makes the result
// the process-wide default.
func Attach(hs ...slog.Handler) {
	if len(hs) == 0 {
		return
	}
	all := append([]slog.Handler{base}, hs...)
	L = slog.New(NewMultiHandler(all...))
	slog.SetDefault(L)
}

// ─── Context-aware logger ─────────────────────────────────────────────────────

type ctxKey struct{}

// WithCtx returns the logger stored in ctx, or the base logger.
func WithCtx(ctx context.Context) *slog.Logger {
	if log, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok && log != nil {
		return log
	}
	return L
}

// InjectLogger stores a *slog.Logger (pre-tagged with request_id) into ctx.
// Called by the Logger middleware.
func InjectLogger(ctx context.Context, log *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, log)
}

// ─── Short-hand helpers ───────────────────────────────────────────────────────

func Info(msg string, args ...any) { L.Info(msg, args...) }
func Error(msg string, args ...any) { L.Error(msg, args...) }
