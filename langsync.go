package langsync

import (
	"context"
	"log/slog"

	"github.com/dmitrymomot/langsync/pkg/archive"
	"github.com/dmitrymomot/langsync/pkg/codec"
	"github.com/dmitrymomot/langsync/pkg/config"
	"github.com/dmitrymomot/langsync/pkg/logger"
	"github.com/dmitrymomot/langsync/pkg/storage"
)

const (
	// BaseLanguage is the authoritative language every other one is synced to.
	BaseLanguage = "en"

	// BackupDir is reserved for archives and is never treated as a language.
	BackupDir = archive.Dir
)

// Archiver snapshots the translation root before it is modified.
// *archive.Archiver is the standard implementation.
type Archiver interface {
	Create(ctx context.Context, languages []string) (*archive.Result, error)
}

// Manager synchronises language directories with the base language.
type Manager struct {
	disk     storage.Disk
	codecs   *codec.Registry
	archiver Archiver
	reporter Reporter
	logger   *slog.Logger
	cfg      config.Config
}

// New creates a Manager working on disk, which must be rooted at the
// translation directory.
func New(disk storage.Disk, opts ...Option) *Manager {
	m := &Manager{
		disk:     disk,
		codecs:   codec.DefaultRegistry(),
		reporter: nopReporter{},
		logger:   logger.NewNope(),
		cfg:      config.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.archiver == nil {
		m.archiver = archive.New(disk,
			archive.WithLogger(m.logger),
			archive.WithBaseLanguage(BaseLanguage),
		)
	}
	return m
}

// Config returns the configuration the Manager runs with.
func (m *Manager) Config() config.Config {
	return m.cfg
}
