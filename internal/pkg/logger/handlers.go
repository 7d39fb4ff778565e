// internal/pkg/logger/handlers.go
package logger

import (
	"context"
	"log/slog"
	"regexp"
	"strings"
)

// ContextHandler adds request-scoped values from the context to each record.
type ContextHandler struct {
	handler slog.Handler
}

// NewContextHandler creates a handler that enriches logs with context values
func NewContextHandler(handler slog.Handler) *ContextHandler {
	return &ContextHandler{handler: handler}
}

func (h *ContextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

func (h *ContextHandler) Handle(ctx context.Context, record slog.Record) error {
	record = record.Clone()
	for _, key := range contextKeys {
		switch v := ctx.Value(key).(type) {
		case nil:
		case string:
			if v != "" {
				record.AddAttrs(slog.String(string(key), v))
			}
		case int64:
			record.AddAttrs(slog.Int64(string(key), v))
		default:
			record.AddAttrs(slog.Any(string(key), v))
		}
	}
	return h.handler.Handle(ctx, record)
}

func (h *ContextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ContextHandler{handler: h.handler.WithAttrs(attrs)}
}

func (h *ContextHandler) WithGroup(name string) slog.Handler {
	return &ContextHandler{handler: h.handler.WithGroup(name)}
}

// SanitizationHandler masks credentials in attribute values and messages.
type SanitizationHandler struct {
	handler   slog.Handler
	pattern   *regexp.Regexp
	blacklist []string
}

// NewSanitizationHandler creates a handler that sanitizes sensitive data
func NewSanitizationHandler(handler slog.Handler) *SanitizationHandler {
	return &SanitizationHandler{
		handler: handler,
		pattern: regexp.MustCompile(`(?i)(password|secret|token|bearer|api[-_]?key)\s*[:=]\s*["']?([^"'\s]+)`),
		blacklist: []string{
			"password", "secret", "token", "authorization", "jwt", "api_key",
		},
	}
}

func (h *SanitizationHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

func (h *SanitizationHandler) Handle(ctx context.Context, record slog.Record) error {
	clean := slog.NewRecord(record.Time, record.Level, h.sanitizeString(record.Message), record.PC)
	record.Attrs(func(a slog.Attr) bool {
		clean.AddAttrs(h.sanitizeAttr(a))
		return true
	})
	return h.handler.Handle(ctx, clean)
}

func (h *SanitizationHandler) sanitizeAttr(attr slog.Attr) slog.Attr {
	lowerKey := strings.ToLower(attr.Key)
	for _, blacklisted := range h.blacklist {
		if strings.Contains(lowerKey, blacklisted) {
			return slog.String(attr.Key, "***REDACTED***")
		}
	}
	if attr.Value.Kind() == slog.KindString {
		return slog.String(attr.Key, h.sanitizeString(attr.Value.String()))
	}
	return attr
}

func (h *SanitizationHandler) sanitizeString(s string) string {
	return h.pattern.ReplaceAllString(s, "$1=***REDACTED***")
}

func (h *SanitizationHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clean := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		clean[i] = h.sanitizeAttr(a)
	}
	return &SanitizationHandler{
		handler:   h.handler.WithAttrs(clean),
		pattern:   h.pattern,
		blacklist: h.blacklist,
	}
}

func (h *SanitizationHandler) WithGroup(name string) slog.Handler {
	return &SanitizationHandler{
		handler:   h.handler.WithGroup(name),
		pattern:   h.pattern,
		blacklist: h.blacklist,
	}
}
