package codec

import (
	"errors"
	"fmt"
	"path"
	"slices"
	"strings"

	"github.com/dmitrymomot/langsync/pkg/tree"
)

var (
	ErrDecode      = errors.New("codec: cannot decode translation file")
	ErrEncode      = errors.New("codec: cannot encode translation tree")
	ErrUnsupported = errors.New("codec: unsupported file extension")
)

// Codec converts between the textual form of a translation file and a Tree.
type Codec interface {
	// Decode parses data into a tree. Errors wrap ErrDecode.
	Decode(data []byte) (*tree.Tree, error)

	// Encode renders t deterministically: equal trees with equal key order
	// always produce identical bytes. Errors wrap ErrEncode.
	Encode(t *tree.Tree) ([]byte, error)

	// Extensions lists the lower-case file extensions handled, with the dot.
	Extensions() []string
}

// SyntaxError reports where a translation file could not be parsed.
type SyntaxError struct {
	Msg    string
	Line   int
	Column int
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("line %d, column %d: %s", e.Line, e.Column, e.Msg)
}

func (e *SyntaxError) Unwrap() error {
	return ErrDecode
}

// newSyntaxError locates offset inside src and builds a SyntaxError.
func newSyntaxError(src []byte, offset int, format string, args ...any) *SyntaxError {
	line, col := lineCol(src, offset)
	return &SyntaxError{Msg: fmt.Sprintf(format, args...), Line: line, Column: col}
}

func lineCol(src []byte, offset int) (int, int) {
	offset = min(max(offset, 0), len(src))
	line, col := 1, 1
	for _, c := range src[:offset] {
		if c == '\n' {
			line++
			col = 1
			continue
		}
		col++
	}
	return line, col
}

// Registry selects a codec by file extension.
type Registry struct {
	byExt map[string]Codec
}

// NewRegistry registers codecs in order; a later codec wins an extension
// claimed by an earlier one.
func NewRegistry(codecs ...Codec) *Registry {
	r := &Registry{byExt: make(map[string]Codec)}
	for _, c := range codecs {
		for _, ext := range c.Extensions() {
			r.byExt[strings.ToLower(ext)] = c
		}
	}
	return r
}

// DefaultRegistry handles .php, .json, .yaml and .yml files.
func DefaultRegistry() *Registry {
	return NewRegistry(PHP{}, JSON{}, YAML{})
}

// ForPath returns the codec for the extension of p.
func (r *Registry) ForPath(p string) (Codec, error) {
	ext := strings.ToLower(path.Ext(p))
	c, ok := r.byExt[ext]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupported, p)
	}
	return c, nil
}

// Supports reports whether a codec is registered for p.
func (r *Registry) Supports(p string) bool {
	_, ok := r.byExt[strings.ToLower(path.Ext(p))]
	return ok
}

// Extensions lists every registered extension in ascending order.
func (r *Registry) Extensions() []string {
	exts := make([]string, 0, len(r.byExt))
	for ext := range r.byExt {
		exts = append(exts, ext)
	}
	slices.Sort(exts)
	return exts
}
