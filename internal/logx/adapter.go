package logx

import (
	"context"
	"log/slog"
	"strings"
)

// SlogAdapter writes logx entries through a *slog.Logger.
type SlogAdapter struct {
	l *slog.Logger
}

// NewSlogAdapter wraps l.
func NewSlogAdapter(l *slog.Logger) Logger {
	return &SlogAdapter{l: l}
}

func (s *SlogAdapter) Debug(msg string, fields ...Field) { s.log(slog.LevelDebug, msg, fields) }
func (s *SlogAdapter) Info(msg string, fields ...Field)  { s.log(slog.LevelInfo, msg, fields) }
func (s *SlogAdapter) Warn(msg string, fields ...Field)  { s.log(slog.LevelWarn, msg, fields) }
func (s *SlogAdapter) Error(msg string, fields ...Field) { s.log(slog.LevelError, msg, fields) }

// With returns a logger that adds fields to every entry.
func (s *SlogAdapter) With(fields ...Field) Logger {
	attrs := toAttrs(fields)
	args := make([]any, len(attrs))
	for i, a := range attrs {
		args[i] = a
	}
	return &SlogAdapter{l: s.l.With(args...)}
}

// Sync is a no-op; slog handlers write through.
func (s *SlogAdapter) Sync() error { return nil }

func (s *SlogAdapter) log(level slog.Level, msg string, fields []Field) {
	ctx := context.Background()
	if !s.l.Enabled(ctx, level) {
		return
	}
	s.l.LogAttrs(ctx, level, msg, toAttrs(fields)...)
}

func toAttrs(fields []Field) []slog.Attr {
	attrs := make([]slog.Attr, 0, len(fields))
	for _, f := range fields {
		attrs = append(attrs, slog.Any(f.Key, f.Value))
	}
	return attrs
}

// ParseLevel maps LOG_LEVEL to a slog level; anything unknown is info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
