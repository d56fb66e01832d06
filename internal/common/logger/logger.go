package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
)

type Logger struct {
	service string
	base    *slog.Logger
}

var level = new(slog.LevelVar)

// SetLevel adjusts the level shared by every Logger. Unknown names fall back to info.
func SetLevel(name string) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		level.Set(slog.LevelDebug)
	case "warn", "warning":
		level.Set(slog.LevelWarn)
	case "error":
		level.Set(slog.LevelError)
	default:
		level.Set(slog.LevelInfo)
	}
}

func New(service string) *Logger { return NewWithWriter(service, os.Stdout) }

func NewWithWriter(service string, w io.Writer) *Logger {
	h := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			switch a.Key {
			case slog.TimeKey:
				a.Key = "timestamp"
				a.Value = slog.StringValue(a.Value.Time().UTC().Format("2006-01-02T15:04:05.000000000Z07:00"))
			case slog.MessageKey:
				a.Key = "message"
			}
			return a
		},
	})
	base := slog.New(h).With("service", service, "hostname", hostname())
	return &Logger{service: service, base: base}
}

// With returns a child logger that always carries the given request id.
func (l *Logger) With(requestID string) *Logger {
	return &Logger{service: l.service, base: l.base.With("request_id", requestID)}
}

func (l *Logger) log(lvl slog.Level, action string, fields map[string]any, err error) {
	if !l.base.Enabled(context.Background(), lvl) {
		return
	}
	attrs := make([]any, 0, 2+2*len(fields)+2)
	attrs = append(attrs, "action", action)
	for k, v := range fields {
		attrs = append(attrs, k, v)
	}
	if err != nil {
		attrs = append(attrs, slog.Group("error", "msg", err.Error()))
	}
	l.base.Log(context.Background(), lvl, action, attrs...)
}

func (l *Logger) Info(action string, fields map[string]any)             { l.log(slog.LevelInfo, action, fields, nil) }
func (l *Logger) Debug(action string, fields map[string]any)            { l.log(slog.LevelDebug, action, fields, nil) }
func (l *Logger) Warn(action string, fields map[string]any)             { l.log(slog.LevelWarn, action, fields, nil) }
func (l *Logger) Error(action string, err error, fields map[string]any) { l.log(slog.LevelError, action, fields, err) }

func hostname() string { h, _ := os.Hostname(); return h }
