package logging

import (
	"context"
	"errors"
	"log/slog"
)

// MultiHandler fans a record out to every wrapped handler. serve.go
// uses it to pair the primary text/JSON handler with a LokiHandler
// when --loki-endpoint is set, so a record lands in both places.
type MultiHandler struct {
	handlers []slog.Handler
}

// NewMultiHandler wraps handlers so every record reaches each of them.
func NewMultiHandler(handlers ...slog.Handler) *MultiHandler {
	return &MultiHandler{handlers: handlers}
}

// Enabled reports whether at least one wrapped handler would accept
// the level; Handle then re-checks each handler individually.
func (h *MultiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, handler := range h.handlers {
		if handler.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

// Handle dispatches the record to every handler whose own level
// accepts it, joining rather than short-circuiting on error so one
// handler's failure (e.g. Loki unreachable) doesn't silence the rest.
func (h *MultiHandler) Handle(ctx context.Context, r slog.Record) error {
	var errs []error
	for _, handler := range h.handlers {
		if !handler.Enabled(ctx, r.Level) {
			continue
		}
		if err := handler.Handle(ctx, r.Clone()); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// WithAttrs propagates the attrs to every wrapped handler.
func (h *MultiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	handlers := make([]slog.Handler, len(h.handlers))
	for i, handler := range h.handlers {
		handlers[i] = handler.WithAttrs(attrs)
	}
	return &MultiHandler{handlers: handlers}
}

// WithGroup propagates the group name to every wrapped handler.
func (h *MultiHandler) WithGroup(name string) slog.Handler {
	handlers := make([]slog.Handler, len(h.handlers))
	for i, handler := range h.handlers {
		handlers[i] = handler.WithGroup(name)
	}
	return &MultiHandler{handlers: handlers}
}
