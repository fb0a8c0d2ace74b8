package logger

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
)

// Logger wraps slog with the structured fields every service log line carries
type Logger struct {
	service  string
	hostname string
	handler  *slog.Logger
}

// New creates a JSON logger for the given service name
func New(service string) *Logger {
	hostname, _ := os.Hostname()

	handler := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))

	return &Logger{
		service:  service,
		hostname: hostname,
		handler:  handler,
	}
}

// GenerateRequestID returns a unique identifier for correlating log lines
func GenerateRequestID() string {
	return uuid.NewString()
}

func (l *Logger) log(level slog.Level, action, message, requestID string, attrs []slog.Attr, fields map[string]interface{}) {
	base := []slog.Attr{
		slog.String("timestamp", time.Now().UTC().Format(time.RFC3339)),
		slog.String("service", l.service),
		slog.String("hostname", l.hostname),
		slog.String("action", action),
		slog.String("request_id", requestID),
	}
	base = append(base, attrs...)
	for k, v := range fields {
		base = append(base, slog.Any(k, v))
	}
	l.handler.LogAttrs(context.TODO(), level, message, base...)
}

func (l *Logger) Debug(action, message, requestID string, fields map[string]interface{}) {
	l.log(slog.LevelDebug, action, message, requestID, nil, fields)
}

func (l *Logger) Info(action, message, requestID string, fields map[string]interface{}) {
	l.log(slog.LevelInfo, action, message, requestID, nil, fields)
}

func (l *Logger) Error(action, message, requestID string, err error, fields map[string]interface{}) {
	var attrs []slog.Attr
	if err != nil {
		attrs = append(attrs, slog.Group("error", slog.String("msg", err.Error())))
	}
	l.log(slog.LevelError, action, message, requestID, attrs, fields)
}
