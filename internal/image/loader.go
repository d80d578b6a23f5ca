// Package image provides utilities for loading and preparing wallpaper images.
package image

import (
	"bytes"
	"crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"io/fs"
	"math/big"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/disintegration/gift"
	"github.com/hashicorp/go-hclog"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	"golang.org/x/image/webp"

	"github.com/jmylchreest/walrus/internal/compression"
)

// WorkingWidth is the width every decoded image is resampled to before
// quantization.
const WorkingWidth = 400

// ErrImageDecode is returned when an image cannot be read or decoded.
var ErrImageDecode = errors.New("unsupported or corrupted image")

// decodeFunc decodes a single image format.
type decodeFunc func(io.Reader) (image.Image, error)

// decoders maps lower-case file extensions to their decoder. Every package
// here also registers itself with the image package for content sniffing.
var decoders = map[string]decodeFunc{
	".png":  png.Decode,
	".jpg":  jpeg.Decode,
	".jpeg": jpeg.Decode,
	".gif":  gif.Decode,
	".webp": webp.Decode,
	".bmp":  bmp.Decode,
	".tif":  tiff.Decode,
	".tiff": tiff.Decode,
}

// Loader handles loading images into pixel buffers.
type Loader interface {
	// Load decodes the image at path and returns the resized working buffer.
	Load(path string) (*PixelBuffer, error)
}

// FileLoader loads images from the local filesystem.
type FileLoader struct {
	width  int
	logger hclog.Logger
}

// NewFileLoader creates a new FileLoader instance.
func NewFileLoader(logger hclog.Logger) *FileLoader {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &FileLoader{
		width:  WorkingWidth,
		logger: logger.Named("loader"),
	}
}

// Load decodes an image file and resamples it to the working width.
// Supported formats: JPEG, PNG, GIF (first frame), WebP, BMP, TIFF, optionally
// wrapped in a gzip, xz or bzip2 stream.
func (l *FileLoader) Load(path string) (*PixelBuffer, error) {
	img, err := l.decode(path)
	if err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	if bounds.Dx() <= 0 || bounds.Dy() <= 0 {
		return nil, fmt.Errorf("%w: image has no pixels: %s", ErrImageDecode, path)
	}
	l.logger.Debug("image decoded", "path", path, "width", bounds.Dx(), "height", bounds.Dy())

	buf := Resize(img, l.width)
	l.logger.Debug("image resized", "width", buf.Width, "height", buf.Height, "alpha", buf.Alpha())
	return buf, nil
}

// decode tries the decoder chosen by the file extension first, then falls
// back to sniffing the format from the raw content.
func (l *FileLoader) decode(path string) (image.Image, error) {
	// Validate path.
	if path == "" {
		return nil, fmt.Errorf("%w: image path cannot be empty", ErrImageDecode)
	}

	// Check if file exists.
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: image file not found: %s", ErrImageDecode, path)
		}
		return nil, fmt.Errorf("%w: failed to stat image file: %w", ErrImageDecode, err)
	}

	// Check if it's a directory.
	if info.IsDir() {
		return nil, fmt.Errorf("%w: path is a directory, not a file: %s", ErrImageDecode, path)
	}

	data, err := os.ReadFile(path) // #nosec G304 - User-specified image path, intended to be read
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read image file: %w", ErrImageDecode, err)
	}

	if decode, ok := decoders[strings.ToLower(filepath.Ext(path))]; ok {
		img, err := decode(bytes.NewReader(data))
		if err == nil {
			return img, nil
		}
		l.logger.Debug("extension decode failed, sniffing content", "path", path, "error", err)
	}

	img, format, err := sniffDecode(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrImageDecode, path, err)
	}
	l.logger.Debug("decoded by content sniffing", "format", format)
	return img, nil
}

// sniffDecode decodes data by its content signature. Compressed streams are
// unwrapped first.
func sniffDecode(data []byte) (image.Image, string, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err == nil {
		return img, format, nil
	}

	raw, cformat, cerr := compression.Decompress(data)
	if cerr != nil {
		if errors.Is(cerr, compression.ErrNotCompressed) {
			return nil, "", fmt.Errorf("failed to decode image: %w", err)
		}
		return nil, "", cerr
	}

	img, format, err = image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode %s-compressed image: %w", cformat, err)
	}
	return img, string(cformat) + "+" + format, nil
}

// Resize resamples img to the given width, preserving the aspect ratio, with a
// Lanczos filter, and copies the result into a PixelBuffer.
func Resize(img image.Image, width int) *PixelBuffer {
	g := gift.New(gift.Resize(width, 0, gift.LanczosResampling))
	dst := image.NewNRGBA(g.Bounds(img.Bounds()))
	g.Draw(dst, img)
	return FromImage(dst)
}

// ValidateImagePath checks that path is non-empty and names an existing file
// or directory, and returns its file info.
func ValidateImagePath(path string) (os.FileInfo, error) {
	if path == "" {
		return nil, fmt.Errorf("image path cannot be empty")
	}

	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("image file or directory not found: %s", path)
		}
		return nil, fmt.Errorf("failed to access image path: %w", err)
	}
	return info, nil
}

// SupportedImageExtensions returns a list of supported image file extensions.
func SupportedImageExtensions() []string {
	exts := make([]string, 0, len(decoders))
	for ext := range decoders {
		exts = append(exts, ext)
	}
	slices.Sort(exts)
	return exts
}

// isImageFile checks if a file has a supported image extension.
func isImageFile(path string) bool {
	_, ok := decoders[strings.ToLower(filepath.Ext(path))]
	return ok
}

// ScanDirectoryForImages scans a directory and returns all valid image files.
// It does not recurse into subdirectories, but follows symlinks.
func ScanDirectoryForImages(dirPath string) ([]string, error) {
	entries, err := os.ReadDir(dirPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}

	var imageFiles []string
	for _, entry := range entries {
		fullPath := filepath.Join(dirPath, entry.Name())

		// For symlinks, stat the target to determine if it's a file.
		info, err := os.Stat(fullPath)
		if err != nil {
			// Skip entries we can't stat (broken symlinks, permission issues).
			continue
		}

		// Skip directories (including symlinks to directories).
		if info.IsDir() {
			continue
		}

		// Check if file has a supported image extension.
		if isImageFile(entry.Name()) {
			imageFiles = append(imageFiles, fullPath)
		}
	}

	if len(imageFiles) == 0 {
		return nil, fmt.Errorf("no supported image files (%s) found in directory: %s",
			strings.Join(SupportedImageExtensions(), ", "), dirPath)
	}

	return imageFiles, nil
}

// SelectRandomImage selects a random image from a list of image paths.
// Uses crypto/rand for cryptographically secure randomness.
func SelectRandomImage(imagePaths []string) (string, error) {
	if len(imagePaths) == 0 {
		return "", fmt.Errorf("image path list is empty")
	}

	maxIndex := big.NewInt(int64(len(imagePaths)))
	randomIndex, err := rand.Int(rand.Reader, maxIndex)
	if err != nil {
		// Fallback to using binary random bytes if crypto/rand.Int fails.
		var buf [8]byte
		if _, err := rand.Read(buf[:]); err != nil {
			return "", fmt.Errorf("failed to generate random number: %w", err)
		}
		index := int(binary.LittleEndian.Uint64(buf[:]) % uint64(len(imagePaths)))
		return imagePaths[index], nil
	}

	return imagePaths[randomIndex.Int64()], nil
}

// ResolveImagePath resolves a path that could be a file or directory.
// If the path is a directory, it scans for images and returns a random one.
// The returned path is absolute so templates can reference it.
func ResolveImagePath(path string) (string, error) {
	info, err := ValidateImagePath(path)
	if err != nil {
		return "", err
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("can't find wallpaper absolute path: %w", err)
	}

	// If it's a file, return as-is.
	if !info.IsDir() {
		return abs, nil
	}

	// It's a directory - scan for images and select randomly.
	imageFiles, err := ScanDirectoryForImages(abs)
	if err != nil {
		return "", err
	}

	return SelectRandomImage(imageFiles)
}
