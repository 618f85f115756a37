// Package logger provides the process-wide structured logger built on log/slog.
//
// WithCtx returns the request-scoped logger that the HTTP Logger middleware
// injects, so every line written while serving a request carries request_id:
//
//	log := logger.WithCtx(r.Context())
//	log.Warn("sync: remote read failed, using local", "entity", "products")
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/shashiranjanraj/till/config"
)

var L *slog.Logger

func init() {
	L = slog.New(newHandler(os.Stdout, config.AppEnv()))
	slog.SetDefault(L)
}

// newHandler picks JSON output for production and text for everything else.
func newHandler(w io.Writer, env string) slog.Handler {
	switch env {
	case "production", "prod":
		return slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo})
	case "test":
		return slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelWarn})
	default:
		return slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug})
	}
}

// Attach adds extra handlers next to the console handler. Used at boot to
// mirror warnings into MongoDB when LOG_MONGO_URI is set.
func Attach(hs ...slog.Handler) {
	if len(hs) == 0 {
		return
	}
	all := append([]slog.Handler{L.Handler()}, hs...)
	L = slog.New(NewMultiHandler(all...))
	slog.SetDefault(L)
}

type ctxKey struct{}

// WithCtx returns the logger stored in ctx by InjectLogger, or the base
// logger when none is present.
func WithCtx(ctx context.Context) *slog.Logger {
	if ctx == nil {
		return L
	}
	if log, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok && log != nil {
		return log
	}
	return L
}

// InjectLogger stores a *slog.Logger (pre-tagged with request_id) into ctx.
func InjectLogger(ctx context.Context, log *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, log)
}

func Debug(msg string, args ...any) { L.Debug(msg, args...) }
func Info(msg string, args ...any)  { L.Info(msg, args...) }
func Warn(msg string, args ...any)  { L.Warn(msg, args...) }
func Error(msg string, args ...any) { L.Error(msg, args...) }
