// Package imagecache downloads remote wallpapers into a local cache so the
// rest of the pipeline only ever sees files.
package imagecache

import (
	"context"
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/jmylchreest/walrus/internal/security"
	httputil "github.com/jmylchreest/walrus/internal/util/http"
)

// CacheOptions configures image caching behavior.
type CacheOptions struct {
	// CacheDir is the directory where images will be cached.
	CacheDir string

	// Filename is the filename to use for the cached image.
	// If empty, uses a hash of the URL + original extension.
	Filename string

	// AllowOverwrite re-downloads images that are already cached.
	AllowOverwrite bool

	// Fetch overrides the download options.
	Fetch httputil.FetchOptions

	Logger hclog.Logger
}

// Dir returns the image cache directory below a cache root.
func Dir(cacheRoot string) string {
	return filepath.Join(cacheRoot, "walrus", "images")
}

// IsRemote reports whether path is an http or https URL.
func IsRemote(path string) bool {
	return strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://")
}

// generateFilename creates a deterministic filename from a URL: the first
// 16 bytes of its SHA256 plus the original extension.
func generateFilename(url string) string {
	hash := sha256.Sum256([]byte(url))
	hashStr := fmt.Sprintf("%x", hash[:16])

	ext := filepath.Ext(url)
	if idx := strings.IndexAny(ext, "?#"); idx != -1 {
		ext = ext[:idx]
	}
	if ext == "" || len(ext) > 5 || strings.ContainsRune(ext, '/') {
		ext = ".jpg"
	}
	return hashStr + strings.ToLower(ext)
}

// DownloadAndCache downloads a remote image into the cache directory and
// returns its local path. Cached images are reused unless AllowOverwrite
// is set.
func DownloadAndCache(ctx context.Context, url string, opts CacheOptions) (string, error) {
	if !IsRemote(url) {
		return "", fmt.Errorf("invalid URL: must start with http:// or https://")
	}
	if opts.CacheDir == "" {
		return "", fmt.Errorf("no image cache directory configured")
	}
	logger := opts.Logger
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	logger = logger.Named("imagecache")

	if err := os.MkdirAll(opts.CacheDir, 0o755); err != nil { // #nosec G301 - Cache directory needs standard permissions
		return "", fmt.Errorf("failed to create cache directory: %w", err)
	}

	filename := opts.Filename
	if filename == "" {
		filename = generateFilename(url)
	}
	if err := security.ValidateFilePath(filename, opts.CacheDir); err != nil {
		return "", fmt.Errorf("invalid cache filename %q: %w", filename, err)
	}
	cachedPath := filepath.Join(opts.CacheDir, filename)

	if !opts.AllowOverwrite {
		if _, err := os.Stat(cachedPath); err == nil {
			logger.Debug("using cached image", "url", url, "path", cachedPath)
			return cachedPath, nil
		}
	}

	data, err := httputil.Fetch(ctx, url, opts.Fetch)
	if err != nil {
		return "", fmt.Errorf("failed to download image: %w", err)
	}

	if err := os.WriteFile(cachedPath, data, 0o644); err != nil { // #nosec G306 - Cache files need standard read permissions
		return "", fmt.Errorf("failed to write cached image: %w", err)
	}
	logger.Debug("image downloaded", "url", url, "path", cachedPath, "bytes", len(data))
	return cachedPath, nil
}
