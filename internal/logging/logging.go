// Package logging sets up the slog handlers used by the command-line tools.
package logging

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

type ctxKey struct{}

// Logger builds a slog.Logger writing to w. Attributes stored on a context
// with AppendCtx are added to every record logged with that context.
func Logger(w io.Writer, json bool, level slog.Level) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	var h slog.Handler
	if json {
		h = slog.NewJSONHandler(w, opts)
	} else {
		h = slog.NewTextHandler(w, opts)
	}
	return slog.New(&ContextHandler{Handler: h})
}

// ParseLevel maps DEBUG/INFO/WARN/ERROR (any case) to a slog.Level. Unknown
// names yield INFO and ok == false.
func ParseLevel(name string) (level slog.Level, ok bool) {
	if err := level.UnmarshalText([]byte(strings.ToUpper(name))); err != nil {
		return slog.LevelInfo, false
	}
	return level, true
}

// RotatingFile returns a writer that rotates path by size.
func RotatingFile(path string, maxSizeMB, maxBackups, maxAgeDays int) io.WriteCloser {
	return &lumberjack.Logger{
		Filename:   path,
		MaxSize:    maxSizeMB,
		MaxBackups: maxBackups,
		MaxAge:     maxAgeDays,
		Compress:   true,
	}
}

// ContextHandler adds attributes carried by the context to each record.
type ContextHandler struct {
	slog.Handler
}

func (h *ContextHandler) Handle(ctx context.Context, r slog.Record) error {
	if attrs, ok := ctx.Value(ctxKey{}).([]slog.Attr); ok {
		r.AddAttrs(attrs...)
	}
	return h.Handler.Handle(ctx, r)
}

func (h *ContextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ContextHandler{Handler: h.Handler.WithAttrs(attrs)}
}

func (h *ContextHandler) WithGroup(name string) slog.Handler {
	return &ContextHandler{Handler: h.Handler.WithGroup(name)}
}

// AppendCtx returns a copy of parent carrying attr in addition to any
// attributes already attached.
func AppendCtx(parent context.Context, attr slog.Attr) context.Context {
	if parent == nil {
		parent = context.Background()
	}
	var attrs []slog.Attr
	if v, ok := parent.Value(ctxKey{}).([]slog.Attr); ok {
		attrs = append(attrs, v...)
	}
	attrs = append(attrs, attr)
	return context.WithValue(parent, ctxKey{}, attrs)
}
