package logger

import (
	"context"
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// Logger is the structured logging surface injected into usecases and
// adapters.
type Logger interface {
	Debug(ctx context.Context, message string, fields map[string]interface{})
	Info(ctx context.Context, message string, fields map[string]interface{})
	Warn(ctx context.Context, message string, fields map[string]interface{})
	Error(ctx context.Context, message string, err error, fields map[string]interface{})
	WithFields(fields map[string]interface{}) Logger
}

type Config struct {
	Level       string
	Format      string
	ServiceName string
}

type ctxKey string

const correlationIDKey ctxKey = "correlation_id"

// WithCorrelationID attaches a request correlation id to the context; every
// log line emitted under that context carries it.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationIDKey, id)
}

func CorrelationID(ctx context.Context) string {
	if id, ok := ctx.Value(correlationIDKey).(string); ok {
		return id
	}
	return ""
}

type logrusLogger struct {
	entry *logrus.Entry
}

func New(cfg Config) Logger {
	l := logrus.New()

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	l.SetLevel(level)

	if cfg.Format == "text" {
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		l.SetFormatter(&logrus.JSONFormatter{})
	}
	l.SetOutput(os.Stdout)

	return &logrusLogger{entry: l.WithField("service", cfg.ServiceName)}
}

// NewNop returns a logger that discards everything. Test helper.
func NewNop() Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return &logrusLogger{entry: logrus.NewEntry(l)}
}

func (l *logrusLogger) Debug(ctx context.Context, message string, fields map[string]interface{}) {
	l.prepare(ctx, fields).Debug(message)
}

func (l *logrusLogger) Info(ctx context.Context, message string, fields map[string]interface{}) {
	l.prepare(ctx, fields).Info(message)
}

func (l *logrusLogger) Warn(ctx context.Context, message string, fields map[string]interface{}) {
	l.prepare(ctx, fields).Warn(message)
}

func (l *logrusLogger) Error(ctx context.Context, message string, err error, fields map[string]interface{}) {
	entry := l.prepare(ctx, fields)
	if err != nil {
		entry = entry.WithError(err)
	}
	entry.Error(message)
}

func (l *logrusLogger) WithFields(fields map[string]interface{}) Logger {
	return &logrusLogger{entry: l.entry.WithFields(logrus.Fields(fields))}
}

func (l *logrusLogger) prepare(ctx context.Context, fields map[string]interface{}) *logrus.Entry {
	entry := l.entry
	if id := CorrelationID(ctx); id != "" {
		entry = entry.WithField("correlation_id", id)
	}
	if len(fields) > 0 {
		entry = entry.WithFields(logrus.Fields(fields))
	}
	return entry
}
