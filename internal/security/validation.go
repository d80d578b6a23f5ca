// Package security provides path and size validation helpers.
package security

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// ErrUnsafePath is returned for names that could resolve outside their
// directory.
var ErrUnsafePath = errors.New("unsafe path")

// ErrSizeLimit is returned once a LimitedReader has used up its budget.
var ErrSizeLimit = errors.New("size limit exceeded")

// ValidateFilePath checks that the relative name, joined onto baseDir,
// names a file strictly inside baseDir. Template, theme and cache file
// names all pass through here before anything is written.
func ValidateFilePath(name, baseDir string) error {
	switch {
	case name == "":
		return fmt.Errorf("%w: empty file name", ErrUnsafePath)
	case filepath.IsAbs(name):
		return fmt.Errorf("%w: absolute path %q", ErrUnsafePath, name)
	case strings.Contains(name, ".."):
		return fmt.Errorf("%w: %q contains a parent directory reference", ErrUnsafePath, name)
	}

	base := filepath.Clean(baseDir)
	rel, err := filepath.Rel(base, filepath.Join(base, name))
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return fmt.Errorf("%w: %q escapes %s", ErrUnsafePath, name, baseDir)
	}
	return nil
}

// SafeUint8 clamps val into the byte range.
func SafeUint8(val int) uint8 {
	return uint8(min(max(val, 0), 255)) // #nosec G115 - clamped above
}

// LimitedReader fails with ErrSizeLimit instead of returning EOF once its
// budget is spent, so oversized inputs are reported rather than truncated.
type LimitedReader struct {
	r         io.Reader
	remaining int64
}

// NewLimitedReader returns a reader allowing at most maxBytes from r.
func NewLimitedReader(r io.Reader, maxBytes int64) *LimitedReader {
	return &LimitedReader{r: r, remaining: maxBytes}
}

// Read implements io.Reader.
func (l *LimitedReader) Read(p []byte) (int, error) {
	if l.remaining <= 0 {
		return 0, ErrSizeLimit
	}
	if int64(len(p)) > l.remaining {
		p = p[:l.remaining]
	}
	n, err := l.r.Read(p)
	l.remaining -= int64(n)
	return n, err
}
