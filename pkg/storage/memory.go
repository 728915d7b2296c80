package storage

import (
	"fmt"
	"maps"
	"path"
	"slices"
	"strings"
	"sync"
)

// MemoryDisk is an in-memory Disk. It is intended for tests and dry runs.
type MemoryDisk struct {
	files map[string][]byte
	dirs  map[string]struct{}
	mu    sync.RWMutex
}

// NewMemoryDisk creates a disk pre-populated with files (path => content).
func NewMemoryDisk(files map[string]string) *MemoryDisk {
	d := &MemoryDisk{
		files: make(map[string][]byte, len(files)),
		dirs:  make(map[string]struct{}),
	}
	for p, content := range files {
		d.put(cleanRel(p), []byte(content))
	}
	return d
}

// ResolvePath returns p as an absolute slash path.
func (d *MemoryDisk) ResolvePath(p string) string {
	return "/" + cleanRel(p)
}

func (d *MemoryDisk) ListFiles(dir string) ([]string, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	dir = cleanRel(dir)
	if dir != "" && !d.isDir(dir) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, dir)
	}

	var out []string
	for p := range d.files {
		if dir == "" || strings.HasPrefix(p, dir+"/") {
			out = append(out, p)
		}
	}
	slices.Sort(out)
	return out, nil
}

func (d *MemoryDisk) ListDirectories(dir string) ([]string, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	dir = cleanRel(dir)
	if dir != "" && !d.isDir(dir) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, dir)
	}

	var out []string
	for p := range d.dirs {
		if parent(p) == dir {
			out = append(out, p)
		}
	}
	slices.Sort(out)
	return out, nil
}

func (d *MemoryDisk) Exists(p string) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()

	p = cleanRel(p)
	if p == "" {
		return true
	}
	_, ok := d.files[p]
	return ok || d.isDir(p)
}

func (d *MemoryDisk) Read(p string) ([]byte, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	data, ok := d.files[cleanRel(p)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, p)
	}
	return slices.Clone(data), nil
}

func (d *MemoryDisk) Write(p string, data []byte) error {
	p = cleanRel(p)
	if p == "" {
		return fmt.Errorf("%w: empty path", ErrWriteFailed)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.isDir(p) {
		return fmt.Errorf("%w: %s is a directory", ErrWriteFailed, p)
	}
	d.put(p, slices.Clone(data))
	return nil
}

func (d *MemoryDisk) MakeDirectory(p string) error {
	p = cleanRel(p)

	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.files[p]; ok {
		return fmt.Errorf("%w: %s is a file", ErrWriteFailed, p)
	}
	d.addDirs(p)
	return nil
}

// Files returns a snapshot of every file as path => content.
func (d *MemoryDisk) Files() map[string]string {
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make(map[string]string, len(d.files))
	for p, data := range d.files {
		out[p] = string(data)
	}
	return out
}

// Paths lists every file path in ascending order.
func (d *MemoryDisk) Paths() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return slices.Sorted(maps.Keys(d.files))
}

func (d *MemoryDisk) put(p string, data []byte) {
	d.files[p] = data
	d.addDirs(parent(p))
}

func (d *MemoryDisk) addDirs(p string) {
	for p != "" {
		d.dirs[p] = struct{}{}
		p = parent(p)
	}
}

func (d *MemoryDisk) isDir(p string) bool {
	_, ok := d.dirs[p]
	return ok
}

func parent(p string) string {
	dir := path.Dir(p)
	if dir == "." || dir == "/" {
		return ""
	}
	return dir
}

var _ Disk = (*MemoryDisk)(nil)
