package logger

import (
	"context"
	"log/slog"
)

type contextValue struct {
	name string
	key  any
}

// contextHandler adds the configured context values to each record at Handle time.
type contextHandler struct {
	slog.Handler
	values []contextValue
}

func (h contextHandler) Handle(ctx context.Context, rec slog.Record) error {
	for _, v := range h.values {
		if val := ctx.Value(v.key); val != nil {
			rec.AddAttrs(slog.Any(v.name, val))
		}
	}
	return h.Handler.Handle(ctx, rec)
}

func (h contextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return contextHandler{Handler: h.Handler.WithAttrs(attrs), values: h.values}
}

func (h contextHandler) WithGroup(name string) slog.Handler {
	return contextHandler{Handler: h.Handler.WithGroup(name), values: h.values}
}
