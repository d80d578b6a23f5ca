package template

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/jmylchreest/walrus/internal/colour"
	"github.com/jmylchreest/walrus/internal/security"
)

// ColorsFile is the filled template that persists the current scheme as one
// hex colour per line.
const ColorsFile = "colors"

// Fill replaces every token in content with its value for the palette.
func Fill(content string, palette colour.Palette, wallpaper string) string {
	return replacer(palette, wallpaper).Replace(content)
}

// replacer builds the token table for one palette. Tokens are delimited by
// braces, so no token is a prefix of another.
func replacer(palette colour.Palette, wallpaper string) *strings.Replacer {
	pairs := []string{
		"{wallpaper}", wallpaper,
		"{alpha}", strconv.Itoa(colour.AlphaPercent(palette.Alpha)),
		"{checksum}", palette.Checksum(),
	}

	add := func(name string, c colour.RGB) {
		for _, f := range colour.FormatSuffixes() {
			pairs = append(pairs, "{"+name+f.Suffix+"}", c.Format(f.Format, palette.Alpha))
		}
	}

	add("background", palette.Background())
	add("foreground", palette.Foreground())
	add("cursor", palette.Cursor())
	for i, c := range palette.Colours {
		add(fmt.Sprintf("color%d", i), c)
	}

	return strings.NewReplacer(pairs...)
}

// Renderer fills templates and writes them to the wal directory.
type Renderer struct {
	loader *Loader
	outDir string
	logger hclog.Logger
}

// NewRenderer creates a renderer writing into outDir.
func NewRenderer(loader *Loader, outDir string, logger hclog.Logger) *Renderer {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Renderer{
		loader: loader,
		outDir: outDir,
		logger: logger.Named("render"),
	}
}

// OutDir returns the directory filled templates are written to.
func (r *Renderer) OutDir() string {
	return r.outDir
}

// RenderAll fills every template and returns the paths written.
func (r *Renderer) RenderAll(palette colour.Palette, wallpaper string) ([]string, error) {
	if err := os.MkdirAll(r.outDir, 0o755); err != nil {
		return nil, fmt.Errorf("can't create the cache folder %q: %w", r.outDir, err)
	}

	sources, err := r.loader.Load()
	if err != nil {
		return nil, err
	}

	rep := replacer(palette, wallpaper)
	written := make([]string, 0, len(sources))
	for _, s := range sources {
		if err := security.ValidateFilePath(s.Name, r.outDir); err != nil {
			r.logger.Warn("skipping template", "name", s.Name, "error", err)
			continue
		}
		path := filepath.Join(r.outDir, s.Name)
		if err := os.WriteFile(path, []byte(rep.Replace(string(s.Content))), 0o644); err != nil {
			return written, fmt.Errorf("failed to write filled template %q: %w", path, err)
		}
		r.logger.Debug("template written", "path", path)
		written = append(written, path)
	}
	return written, nil
}
