package logger

import (
	"context"
	"log/slog"

	"github.com/dmitrymomot/neoforge/pkg/appctx"
)

// ContextExtractor extracts a slog attribute from context.
// It returns false when ctx carries nothing to log.
type ContextExtractor func(ctx context.Context) (slog.Attr, bool)

// AppExtractor adds the name of the application serving the request as "app".
// Applications are found through appctx and must have a Name method.
// New and NewWithConfig install it on every logger.
func AppExtractor() ContextExtractor {
	return func(ctx context.Context) (slog.Attr, bool) {
		app, ok := appctx.As[interface{ Name() string }](ctx)
		if !ok {
			return slog.Attr{}, false
		}
		name := app.Name()
		if name == "" {
			return slog.Attr{}, false
		}
		return slog.String("app", name), true
	}
}

// contextHandler adds attributes extracted from the record's context.
// When two extractors produce the same key the first one wins.
type contextHandler struct {
	next       slog.Handler
	extractors []ContextExtractor
}

// NewContextHandler wraps next so every record carries the attributes produced
// by extractors for the logging context. Nil extractors are ignored.
func NewContextHandler(next slog.Handler, extractors ...ContextExtractor) slog.Handler {
	h := &contextHandler{next: next}
	for _, ex := range extractors {
		if ex != nil {
			h.extractors = append(h.extractors, ex)
		}
	}
	return h
}

func (h *contextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *contextHandler) Handle(ctx context.Context, rec slog.Record) error {
	var seen map[string]struct{}
	for _, ex := range h.extractors {
		attr, ok := ex(ctx)
		if !ok {
			continue
		}
		if _, dup := seen[attr.Key]; dup {
			continue
		}
		if seen == nil {
			seen = make(map[string]struct{}, len(h.extractors))
		}
		seen[attr.Key] = struct{}{}
		rec.AddAttrs(attr)
	}
	return h.next.Handle(ctx, rec)
}

func (h *contextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &contextHandler{next: h.next.WithAttrs(attrs), extractors: h.extractors}
}

func (h *contextHandler) WithGroup(name string) slog.Handler {
	return &contextHandler{next: h.next.WithGroup(name), extractors: h.extractors}
}
