package logger

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/getsentry/sentry-go"
	sentryslog "github.com/getsentry/sentry-go/slog"
)

// SentryConfig holds Sentry integration configuration.
type SentryConfig struct {
	DSN         string `env:"SENTRY_DSN"         yaml:"dsn"`
	Environment string `env:"SENTRY_ENVIRONMENT" yaml:"environment"`
	// MinLevel set to slog.LevelError keeps only errors as Sentry log
	// entries; anything lower keeps warnings and errors. Errors always
	// create Sentry issues.
	MinLevel slog.Level `env:"SENTRY_MIN_LEVEL" yaml:"min_level"`
}

// Enabled reports whether a DSN is configured.
func (c SentryConfig) Enabled() bool {
	return c.DSN != ""
}

// NewWithSentry creates a logger that writes to w and, when a DSN is set,
// also to Sentry. Without a DSN, or when the SDK fails to initialise, the
// console logger is returned alone and the run carries on.
func NewWithSentry(cfg Config, sc SentryConfig, w io.Writer, extractors ...ContextExtractor) *slog.Logger {
	console := newConsoleHandler(cfg, w)

	if !sc.Enabled() {
		return slog.New(NewLogHandlerDecorator(console, extractors...))
	}

	env := sc.Environment
	if env == "" {
		env = "production"
	}
	if err := sentry.Init(sentry.ClientOptions{
		Dsn:         sc.DSN,
		Environment: env,
		EnableLogs:  true,
	}); err != nil {
		slog.New(console).Error("failed to initialize Sentry", slog.String("error", err.Error()))
		return slog.New(NewLogHandlerDecorator(console, extractors...))
	}

	sentryHandler := sentryslog.Option{
		EventLevel: []slog.Level{slog.LevelError},
		LogLevel:   sentryLogLevels(sc.MinLevel),
	}.NewSentryHandler(context.Background())

	return slog.New(NewLogHandlerDecorator(newFanoutHandler(console, sentryHandler), extractors...))
}

func sentryLogLevels(minLevel slog.Level) []slog.Level {
	if minLevel >= slog.LevelError {
		return []slog.Level{slog.LevelError}
	}
	return []slog.Level{slog.LevelWarn, slog.LevelError}
}

// Flush waits up to timeout for buffered Sentry events to be sent.
// It is a no-op when Sentry was never initialised.
func Flush(timeout time.Duration) bool {
	if sentry.CurrentHub().Client() == nil {
		return true
	}
	return sentry.Flush(timeout)
}
