package archive

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"slices"
	"strings"
	"time"

	"github.com/klauspost/compress/zip"

	"github.com/dmitrymomot/langsync/pkg/logger"
	"github.com/dmitrymomot/langsync/pkg/storage"
)

// ErrArchive wraps every failure to create, verify or upload a backup.
var ErrArchive = errors.New("archive: backup failed")

const (
	// Dir is the reserved directory, relative to the translation root,
	// that receives backup archives.
	Dir = "backups"

	// MinArchiveSize is the size, in bytes, an archive must exceed to be
	// considered valid.
	MinArchiveSize = 100

	// DefaultBaseLanguage is always included in the archive.
	DefaultBaseLanguage = "en"

	contentType = "application/zip"
)

// Result describes a created archive.
type Result struct {
	// Path is relative to the translation root.
	Path string
	// UploadKey is set when the archive was copied to object storage.
	UploadKey string
	Size      int64
	Files     int
}

// Archiver snapshots language directories into a zip file before they are
// modified.
type Archiver struct {
	disk         storage.Disk
	uploader     storage.Storage
	logger       *slog.Logger
	now          func() time.Time
	baseLanguage string
	uploadPrefix string
}

// Option configures an Archiver.
type Option func(*Archiver)

// WithClock sets the time source used for the archive name.
func WithClock(now func() time.Time) Option {
	return func(a *Archiver) {
		if now != nil {
			a.now = now
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(a *Archiver) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithBaseLanguage overrides the language that is always archived.
func WithBaseLanguage(lang string) Option {
	return func(a *Archiver) {
		if lang != "" {
			a.baseLanguage = lang
		}
	}
}

// WithUploader copies every verified archive to s under prefix. The upload
// is checked by comparing the stored object size with the local archive.
func WithUploader(s storage.Storage, prefix string) Option {
	return func(a *Archiver) {
		a.uploader = s
		a.uploadPrefix = prefix
	}
}

// New creates an Archiver writing into Dir on disk.
func New(disk storage.Disk, opts ...Option) *Archiver {
	a := &Archiver{
		disk:         disk,
		logger:       logger.NewNope(),
		now:          time.Now,
		baseLanguage: DefaultBaseLanguage,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Name returns the archive path for the moment t.
func Name(t time.Time) string {
	return path.Join(Dir, fmt.Sprintf("%d-lang-backup.zip", t.Unix()))
}

// Create archives the base language and every language in languages, then
// reads the archive back and checks its size. Entry names are relative to
// the translation root and directories get their own entries.
func (a *Archiver) Create(ctx context.Context, languages []string) (*Result, error) {
	if err := a.disk.MakeDirectory(Dir); err != nil {
		return nil, fmt.Errorf("%w: create %s: %w", ErrArchive, Dir, err)
	}

	now := a.now()
	data, files, err := a.build(ctx, a.languages(languages), now)
	if err != nil {
		return nil, err
	}

	name := Name(now)
	if err := a.disk.Write(name, data); err != nil {
		return nil, fmt.Errorf("%w: write %s: %w", ErrArchive, name, err)
	}

	written, err := a.disk.Read(name)
	if err != nil {
		return nil, fmt.Errorf("%w: verify %s: %w", ErrArchive, name, err)
	}
	if len(written) <= MinArchiveSize {
		return nil, fmt.Errorf("%w: %s is %d bytes, expected more than %d", ErrArchive, name, len(written), MinArchiveSize)
	}

	res := &Result{Path: name, Size: int64(len(written)), Files: files}

	if a.uploader != nil {
		key := path.Join(a.uploadPrefix, path.Base(name))
		info, err := storage.PutBytes(ctx, a.uploader, written,
			storage.WithKey(key),
			storage.WithContentType(contentType),
		)
		if err != nil {
			return nil, fmt.Errorf("%w: upload %s: %w", ErrArchive, key, err)
		}

		head, err := a.uploader.Head(ctx, info.Key)
		if err != nil {
			return nil, fmt.Errorf("%w: verify upload %s: %w", ErrArchive, info.Key, err)
		}
		if head.Size != res.Size {
			return nil, fmt.Errorf("%w: uploaded %s is %d bytes, expected %d", ErrArchive, info.Key, head.Size, res.Size)
		}
		res.UploadKey = info.Key
	}

	a.logger.InfoContext(ctx, "backup archive created",
		slog.String("path", res.Path),
		slog.Int64("size", res.Size),
		slog.Int("files", res.Files),
		slog.String("upload_key", res.UploadKey),
	)
	return res, nil
}

// languages returns the sorted, de-duplicated set to archive, base first
// included. The reserved backups directory is never archived.
func (a *Archiver) languages(languages []string) []string {
	out := make([]string, 0, len(languages)+1)
	out = append(out, a.baseLanguage)
	for _, lang := range languages {
		lang = strings.Trim(lang, "/")
		if lang != "" && lang != Dir {
			out = append(out, lang)
		}
	}
	slices.Sort(out)
	return slices.Compact(out)
}

func (a *Archiver) build(ctx context.Context, languages []string, now time.Time) ([]byte, int, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	seenDirs := make(map[string]struct{})
	files := 0

	addDir := func(dir string) error {
		if _, ok := seenDirs[dir]; ok {
			return nil
		}
		seenDirs[dir] = struct{}{}
		_, err := zw.CreateHeader(&zip.FileHeader{
			Name:     dir + "/",
			Method:   zip.Store,
			Modified: now,
		})
		return err
	}

	for _, lang := range languages {
		if err := ctx.Err(); err != nil {
			return nil, 0, fmt.Errorf("%w: %w", ErrArchive, err)
		}
		if !a.disk.Exists(lang) {
			a.logger.WarnContext(ctx, "language directory missing, not archived", slog.String("language", lang))
			continue
		}

		if err := addDir(lang); err != nil {
			return nil, 0, fmt.Errorf("%w: %w", ErrArchive, err)
		}
		if err := a.addSubdirs(lang, addDir); err != nil {
			return nil, 0, fmt.Errorf("%w: %w", ErrArchive, err)
		}

		paths, err := a.disk.ListFiles(lang)
		if err != nil {
			return nil, 0, fmt.Errorf("%w: list %s: %w", ErrArchive, lang, err)
		}

		for _, p := range paths {
			data, err := a.disk.Read(p)
			if err != nil {
				return nil, 0, fmt.Errorf("%w: read %s: %w", ErrArchive, p, err)
			}
			w, err := zw.CreateHeader(&zip.FileHeader{
				Name:     p,
				Method:   zip.Deflate,
				Modified: now,
			})
			if err != nil {
				return nil, 0, fmt.Errorf("%w: %w", ErrArchive, err)
			}
			if _, err := w.Write(data); err != nil {
				return nil, 0, fmt.Errorf("%w: compress %s: %w", ErrArchive, p, err)
			}
			files++
		}
	}

	if err := zw.Close(); err != nil {
		return nil, 0, fmt.Errorf("%w: %w", ErrArchive, err)
	}
	return buf.Bytes(), files, nil
}

// addSubdirs adds an entry for every directory below dir, depth first.
// Empty directories are included so a restore reproduces the tree.
func (a *Archiver) addSubdirs(dir string, addDir func(string) error) error {
	subdirs, err := a.disk.ListDirectories(dir)
	if err != nil {
		return fmt.Errorf("list %s: %w", dir, err)
	}
	for _, sub := range subdirs {
		if err := addDir(sub); err != nil {
			return err
		}
		if err := a.addSubdirs(sub, addDir); err != nil {
			return err
		}
	}
	return nil
}
