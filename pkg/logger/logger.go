package logger

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// Format selects the slog handler used for console output.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// ErrInvalidFormat is returned for an unknown output format.
var ErrInvalidFormat = errors.New("logger: invalid format")

// UnmarshalText accepts "text" and "json" in any case.
func (f *Format) UnmarshalText(b []byte) error {
	v := Format(strings.ToLower(strings.TrimSpace(string(b))))
	if err := v.Validate(); err != nil {
		return err
	}
	*f = v
	return nil
}

// Validate reports whether f names a supported format. Empty means text.
func (f Format) Validate() error {
	switch f {
	case "", FormatText, FormatJSON:
		return nil
	}
	return fmt.Errorf("%w: %q", ErrInvalidFormat, string(f))
}

// Config controls the console handler.
type Config struct {
	Level  slog.Level `env:"LEVEL" yaml:"level"`
	Format Format     `env:"FORMAT" yaml:"format"`
}

// New creates a logger writing to w with the configured level and format.
// Context extractors add attributes (such as the run id) to every record.
func New(cfg Config, w io.Writer, extractors ...ContextExtractor) *slog.Logger {
	return slog.New(NewLogHandlerDecorator(newConsoleHandler(cfg, w), extractors...))
}

func newConsoleHandler(cfg Config, w io.Writer) slog.Handler {
	opts := &slog.HandlerOptions{Level: cfg.Level}
	if cfg.Format == FormatJSON {
		return slog.NewJSONHandler(w, opts)
	}
	return slog.NewTextHandler(w, opts)
}
