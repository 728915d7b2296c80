package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"
)

// Default permissions for files and directories created by LocalDisk.
const (
	DefaultFileMode fs.FileMode = 0o644
	DefaultDirMode  fs.FileMode = 0o755
)

// LocalDisk implements Disk on top of a directory of the local filesystem.
// Writes are atomic per file: data goes to a temporary file in the target
// directory which is then renamed over the destination.
type LocalDisk struct {
	root string
}

// NewLocalDisk returns a Disk rooted at dir. The directory must exist.
func NewLocalDisk(dir string) (*LocalDisk, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, abs)
		}
		return nil, fmt.Errorf("%w: %v", ErrReadFailed, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrInvalidConfig, abs)
	}
	return &LocalDisk{root: abs}, nil
}

// Root returns the absolute root directory.
func (d *LocalDisk) Root() string {
	return d.root
}

// ResolvePath maps p onto the root. ".." segments cannot climb above it.
func (d *LocalDisk) ResolvePath(p string) string {
	return filepath.Join(d.root, filepath.FromSlash(cleanRel(p)))
}

func (d *LocalDisk) ListFiles(dir string) ([]string, error) {
	base := d.ResolvePath(dir)
	var files []string

	err := filepath.WalkDir(base, func(p string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(d.root, p)
		if err != nil {
			return err
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, dir)
		}
		return nil, fmt.Errorf("%w: %v", ErrReadFailed, err)
	}

	slices.Sort(files)
	return files, nil
}

func (d *LocalDisk) ListDirectories(dir string) ([]string, error) {
	entries, err := os.ReadDir(d.ResolvePath(dir))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, dir)
		}
		return nil, fmt.Errorf("%w: %v", ErrReadFailed, err)
	}

	rel := cleanRel(dir)
	var dirs []string
	for _, e := range entries {
		if e.IsDir() {
			dirs = append(dirs, path.Join(rel, e.Name()))
		}
	}
	slices.Sort(dirs)
	return dirs, nil
}

func (d *LocalDisk) Exists(p string) bool {
	_, err := os.Stat(d.ResolvePath(p))
	return err == nil
}

func (d *LocalDisk) Read(p string) ([]byte, error) {
	data, err := os.ReadFile(d.ResolvePath(p))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, p)
		}
		return nil, fmt.Errorf("%w: %v", ErrReadFailed, err)
	}
	return data, nil
}

func (d *LocalDisk) Write(p string, data []byte) error {
	target := d.ResolvePath(p)
	dir := filepath.Dir(target)

	if err := os.MkdirAll(dir, DefaultDirMode); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}

	mode := DefaultFileMode
	if info, err := os.Stat(target); err == nil {
		mode = info.Mode().Perm()
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(target)+".tmp-*")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}
	if err := os.Chmod(tmpName, mode); err != nil {
		cleanup()
		return fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}
	if err := os.Rename(tmpName, target); err != nil {
		cleanup()
		return fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}
	return nil
}

func (d *LocalDisk) MakeDirectory(p string) error {
	if err := os.MkdirAll(d.ResolvePath(p), DefaultDirMode); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}
	return nil
}

// cleanRel normalises p to a slash-separated path relative to the root.
// The root itself is "".
func cleanRel(p string) string {
	return strings.TrimPrefix(path.Clean("/"+filepath.ToSlash(p)), "/")
}

var _ Disk = (*LocalDisk)(nil)
