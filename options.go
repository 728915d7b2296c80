package langsync

import (
	"log/slog"

	"github.com/dmitrymomot/langsync/pkg/codec"
	"github.com/dmitrymomot/langsync/pkg/config"
)

// Option configures a Manager.
type Option func(*Manager)

// WithConfig sets the run configuration.
// Defaults to config.Default().
func WithConfig(cfg config.Config) Option {
	return func(m *Manager) {
		m.cfg = cfg
	}
}

// WithLogger sets the logger.
// If nil, logging is disabled.
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithArchiver replaces the archiver used when backups are enabled.
// Defaults to an archive.Archiver on the same disk.
func WithArchiver(a Archiver) Option {
	return func(m *Manager) {
		if a != nil {
			m.archiver = a
		}
	}
}

// WithCodecs sets the codecs used to read and write translation files.
// Defaults to codec.DefaultRegistry().
func WithCodecs(r *codec.Registry) Option {
	return func(m *Manager) {
		if r != nil {
			m.codecs = r
		}
	}
}

// WithReporter receives progress events, for example to print them.
func WithReporter(r Reporter) Option {
	return func(m *Manager) {
		if r != nil {
			m.reporter = r
		}
	}
}
