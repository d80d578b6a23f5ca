// Package compression detects and unwraps compressed image streams.
package compression

import (
	"bytes"
	"compress/bzip2"
	"compress/gzip"
	"errors"
	"fmt"
	"io"

	"github.com/jmylchreest/walrus/internal/security"
	"github.com/ulikunitz/xz"
)

// MaxDecompressedSize bounds the output of a single decompression.
const MaxDecompressedSize = 100 * 1024 * 1024

// Format identifies a compressed stream format.
type Format string

const (
	// FormatNone means the data is not a recognised compressed stream.
	FormatNone Format = ""
	// FormatGzip is a gzip (RFC 1952) stream.
	FormatGzip Format = "gzip"
	// FormatXz is an xz stream.
	FormatXz Format = "xz"
	// FormatBzip2 is a bzip2 stream.
	FormatBzip2 Format = "bzip2"
)

// ErrNotCompressed is returned by Decompress when no known magic number matches.
var ErrNotCompressed = errors.New("data is not a known compressed stream")

var (
	gzipMagic  = []byte{0x1f, 0x8b}
	xzMagic    = []byte{0xfd, '7', 'z', 'X', 'Z', 0x00}
	bzip2Magic = []byte{'B', 'Z', 'h'}
)

// Detect returns the compression format of data based on its leading bytes.
func Detect(data []byte) Format {
	switch {
	case bytes.HasPrefix(data, xzMagic):
		return FormatXz
	case bytes.HasPrefix(data, gzipMagic):
		return FormatGzip
	case bytes.HasPrefix(data, bzip2Magic):
		return FormatBzip2
	default:
		return FormatNone
	}
}

// Decompress unwraps a single compressed stream. The output is capped at
// MaxDecompressedSize.
func Decompress(data []byte) ([]byte, Format, error) {
	format := Detect(data)

	var r io.Reader
	switch format {
	case FormatGzip:
		gzr, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, format, fmt.Errorf("failed to create gzip reader: %w", err)
		}
		defer gzr.Close()
		r = gzr
	case FormatXz:
		xzr, err := xz.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, format, fmt.Errorf("failed to create xz reader: %w", err)
		}
		r = xzr
	case FormatBzip2:
		r = bzip2.NewReader(bytes.NewReader(data))
	default:
		return nil, FormatNone, ErrNotCompressed
	}

	out, err := io.ReadAll(security.NewLimitedReader(r, MaxDecompressedSize))
	if err != nil {
		return nil, format, fmt.Errorf("failed to decompress %s stream: %w", format, err)
	}
	return out, format, nil
}
