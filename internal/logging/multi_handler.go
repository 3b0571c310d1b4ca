package logging

import (
	"context"
	"errors"
	"log/slog"
)

// MultiHandler sends each record to every wrapped handler that accepts its
// level. One failing sink does not stop delivery to the others.
type MultiHandler struct {
	sinks []slog.Handler
}

func NewMultiHandler(sinks ...slog.Handler) *MultiHandler {
	return &MultiHandler{sinks: sinks}
}

func (m *MultiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, sink := range m.sinks {
		if sink.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (m *MultiHandler) Handle(ctx context.Context, record slog.Record) error {
	var errs []error
	for _, sink := range m.sinks {
		if !sink.Enabled(ctx, record.Level) {
			continue
		}
		if err := sink.Handle(ctx, record.Clone()); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m *MultiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return m.derive(func(h slog.Handler) slog.Handler { return h.WithAttrs(attrs) })
}

func (m *MultiHandler) WithGroup(name string) slog.Handler {
	return m.derive(func(h slog.Handler) slog.Handler { return h.WithGroup(name) })
}

func (m *MultiHandler) derive(fn func(slog.Handler) slog.Handler) *MultiHandler {
	sinks := make([]slog.Handler, 0, len(m.sinks))
	for _, sink := range m.sinks {
		sinks = append(sinks, fn(sink))
	}
	return &MultiHandler{sinks: sinks}
}
