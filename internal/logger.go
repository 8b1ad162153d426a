package internal

import (
	"io"
	"log/slog"
	"strings"
	"time"
)

// LogConfig selects the log format and the attributes stamped on every record.
type LogConfig struct {
	Env     string
	Level   string
	Service string
	Version string
}

// redactedKeys never reach the output, whatever the call site passes.
var redactedKeys = map[string]bool{
	"password":      true,
	"password_hash": true,
	"authorization": true,
	"token":         true,
}

const redacted = "[REDACTED]"

// NewLogger builds the application logger: JSON in prod, text everywhere else.
// Debug level also records the source position.
func NewLogger(w io.Writer, cfg LogConfig) *slog.Logger {
	level := parseLevel(cfg.Level)

	opts := &slog.HandlerOptions{
		Level:       level,
		AddSource:   level == slog.LevelDebug,
		ReplaceAttr: redact,
	}

	var h slog.Handler
	switch cfg.Env {
	case "prod":
		opts.ReplaceAttr = func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey && len(groups) == 0 {
				return slog.String(slog.TimeKey, a.Value.Time().Format(time.RFC3339Nano))
			}
			return redact(groups, a)
		}
		h = slog.NewJSONHandler(w, opts)
	default:
		h = slog.NewTextHandler(w, opts)
	}

	service := cfg.Service
	if service == "" {
		service = "qkart"
	}

	attrs := []any{slog.String("service", service)}
	if cfg.Version != "" {
		attrs = append(attrs, slog.String("version", cfg.Version))
	}
	return slog.New(h).With(attrs...)
}

func parseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	case "info", "":
		return slog.LevelInfo
	default:
		slog.Default().Warn("Invalid log level. Using default level: info", slog.String("value", level))
		return slog.LevelInfo
	}
}

func redact(_ []string, a slog.Attr) slog.Attr {
	if redactedKeys[strings.ToLower(a.Key)] {
		return slog.String(a.Key, redacted)
	}
	return a
}
