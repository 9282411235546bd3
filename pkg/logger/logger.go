// Package logger wraps zerolog with the contextual fields the scheduler
// cares about: request IDs on the API path and run/line IDs on the engine
// path. Loggers travel on the context so deep call sites inherit fields.
package logger

import (
	"context"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type Logger struct {
	zl zerolog.Logger
}

type ctxKey struct{}

// New builds the root logger. In "dev" the output is the human console
// writer; everywhere else it is JSON on stderr.
func New(service, env, level string) *Logger {
	var out io.Writer = os.Stderr
	if env == "dev" {
		out = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}
	}

	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		lvl = zerolog.InfoLevel
	}

	zl := zerolog.New(out).
		Level(lvl).
		With().
		Timestamp().
		Str("service", service).
		Logger()

	return &Logger{zl: zl}
}

// Nop returns a logger that discards everything. Used in tests.
func Nop() *Logger {
	return &Logger{zl: zerolog.Nop()}
}

// WithContext stores the logger on ctx.
func (l *Logger) WithContext(ctx context.Context) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// FromContext returns the logger carried by ctx, or a Nop logger when none
// was attached.
func FromContext(ctx context.Context) *Logger {
	if l, ok := ctx.Value(ctxKey{}).(*Logger); ok {
		return l
	}
	return Nop()
}

func (l *Logger) with(key, value string) *Logger {
	return &Logger{zl: l.zl.With().Str(key, value).Logger()}
}

// WithRequestID tags API-path log lines with the inbound request ID.
func (l *Logger) WithRequestID(id string) *Logger { return l.with("request_id", id) }

// WithRunID tags engine-path log lines with the assignment run ID.
func (l *Logger) WithRunID(id uuid.UUID) *Logger { return l.with("run_id", id.String()) }

// WithLineID tags log lines with the production line being simulated.
func (l *Logger) WithLineID(id uuid.UUID) *Logger { return l.with("line_id", id.String()) }

// WithOrderNumber tags log lines with a work order number.
func (l *Logger) WithOrderNumber(number string) *Logger { return l.with("wo_number", number) }

func (l *Logger) Debug() *zerolog.Event { return l.zl.Debug() }
func (l *Logger) Info() *zerolog.Event  { return l.zl.Info() }
func (l *Logger) Warn() *zerolog.Event  { return l.zl.Warn() }
func (l *Logger) Error() *zerolog.Event { return l.zl.Error() }
func (l *Logger) Fatal() *zerolog.Event { return l.zl.Fatal() }
