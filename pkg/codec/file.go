package codec

import (
	"fmt"

	"github.com/dmitrymomot/langsync/pkg/tree"
)

// FileReader is the read side of a translation root.
// storage.Disk satisfies it.
type FileReader interface {
	Exists(path string) bool
	Read(path string) ([]byte, error)
}

// FileWriter is the write side of a translation root.
// storage.Disk satisfies it.
type FileWriter interface {
	Write(path string, data []byte) error
}

// DecodeFile reads p from disk and decodes it with the codec registered for
// its extension. A missing or unreadable file is reported as ErrDecode,
// just like malformed content.
func (r *Registry) DecodeFile(disk FileReader, p string) (*tree.Tree, error) {
	c, err := r.ForPath(p)
	if err != nil {
		return nil, err
	}

	data, err := disk.Read(p)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrDecode, p, err)
	}

	t, err := c.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", p, err)
	}
	return t, nil
}

// DecodeFileOrEmpty is DecodeFile for counterpart files: when p does not
// exist an empty tree is returned and found is false.
func (r *Registry) DecodeFileOrEmpty(disk FileReader, p string) (t *tree.Tree, found bool, err error) {
	if !disk.Exists(p) {
		if _, err := r.ForPath(p); err != nil {
			return nil, false, err
		}
		return tree.New(), false, nil
	}

	t, err = r.DecodeFile(disk, p)
	if err != nil {
		return nil, true, err
	}
	return t, true, nil
}

// EncodeFile renders t with the codec for p's extension and writes it.
// Encoding failures wrap ErrEncode; write errors are returned unchanged so
// the caller can classify them.
func (r *Registry) EncodeFile(disk FileWriter, p string, t *tree.Tree) error {
	data, err := r.Encode(p, t)
	if err != nil {
		return err
	}
	return disk.Write(p, data)
}

// Encode renders t with the codec registered for p's extension.
func (r *Registry) Encode(p string, t *tree.Tree) ([]byte, error) {
	c, err := r.ForPath(p)
	if err != nil {
		return nil, err
	}

	data, err := c.Encode(t)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", p, err)
	}
	return data, nil
}
