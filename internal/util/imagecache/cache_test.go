package imagecache

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
)

func TestIsRemote(t *testing.T) {
	for path, want := range map[string]bool{
		"https://example.com/a.png": true,
		"http://example.com/a.png":  true,
		"/home/u/a.png":             false,
		"ftp://example.com/a.png":   false,
	} {
		if got := IsRemote(path); got != want {
			t.Errorf("IsRemote(%q) = %v, want %v", path, got, want)
		}
	}
}

func TestGenerateFilename(t *testing.T) {
	tests := []struct {
		url     string
		wantExt string
	}{
		{"https://example.com/wall.PNG", ".png"},
		{"https://example.com/wall.webp?size=large", ".webp"},
		{"https://example.com/wallpaper", ".jpg"},
		{"https://example.com/v1.2/image", ".jpg"},
	}
	for _, tt := range tests {
		got := generateFilename(tt.url)
		if !strings.HasSuffix(got, tt.wantExt) || len(got) != 32+len(tt.wantExt) {
			t.Errorf("generateFilename(%q) = %q, want 32 hex chars + %q", tt.url, got, tt.wantExt)
		}
	}
	if generateFilename("https://a/x.png") != generateFilename("https://a/x.png") {
		t.Error("generateFilename must be deterministic")
	}
}

func TestDownloadAndCache(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte("png data"))
	}))
	defer srv.Close()

	dir := filepath.Join(t.TempDir(), "images")
	url := srv.URL + "/wall.png"

	path, err := DownloadAndCache(context.Background(), url, CacheOptions{CacheDir: dir})
	if err != nil {
		t.Fatalf("DownloadAndCache() error = %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil || string(data) != "png data" {
		t.Fatalf("cached file = %q, %v", data, err)
	}

	again, err := DownloadAndCache(context.Background(), url, CacheOptions{CacheDir: dir})
	if err != nil || again != path {
		t.Fatalf("second DownloadAndCache() = %q, %v", again, err)
	}
	if hits.Load() != 1 {
		t.Errorf("server hit %d times, want 1", hits.Load())
	}

	if _, err := DownloadAndCache(context.Background(), url, CacheOptions{CacheDir: dir, AllowOverwrite: true}); err != nil {
		t.Fatalf("overwrite DownloadAndCache() error = %v", err)
	}
	if hits.Load() != 2 {
		t.Errorf("server hit %d times, want 2", hits.Load())
	}
}

func TestDownloadAndCacheErrors(t *testing.T) {
	dir := t.TempDir()
	if _, err := DownloadAndCache(context.Background(), "/local/file.png", CacheOptions{CacheDir: dir}); err == nil {
		t.Error("local paths must be rejected")
	}
	if _, err := DownloadAndCache(context.Background(), "https://example.com/a.png", CacheOptions{}); err == nil {
		t.Error("an empty cache dir must be rejected")
	}
	if _, err := DownloadAndCache(context.Background(), "https://example.com/a.png", CacheOptions{CacheDir: dir, Filename: "../escape.png"}); err == nil {
		t.Error("filenames escaping the cache must be rejected")
	}
}
