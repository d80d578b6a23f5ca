// Package theme stores and loads named colour schemes.
package theme

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/jmylchreest/walrus/internal/colour"
	"github.com/jmylchreest/walrus/internal/security"
)

// Variant groups themes by background lightness.
type Variant string

const (
	VariantDark  Variant = "dark"
	VariantLight Variant = "light"
)

// Variants returns every variant in lookup order.
func Variants() []Variant {
	return []Variant{VariantDark, VariantLight}
}

// Title returns the variant name capitalised for display.
func (v Variant) Title() string {
	if v == "" {
		return ""
	}
	return strings.ToUpper(string(v[:1])) + string(v[1:])
}

// ErrThemeNotFound is returned when no theme file has the requested name.
var ErrThemeNotFound = errors.New("theme not found")

const (
	schemesDir = "colorschemes"
	colorsFile = "colors"
)

// Store locates theme files in the user and system colour scheme
// directories, and the current scheme in the wal cache directory.
type Store struct {
	ConfigDir string
	CacheDir  string
	SystemDir string
}

// WalDir is the directory holding the current scheme.
func (s Store) WalDir() string {
	return filepath.Join(s.CacheDir, "wal")
}

func (s Store) roots() []string {
	return []string{
		filepath.Join(s.ConfigDir, schemesDir),
		filepath.Join(s.SystemDir, schemesDir),
	}
}

// List returns the sorted, deduplicated theme names of a variant from both
// the user and system directories.
func (s Store) List(variant Variant) ([]string, error) {
	var names []string
	for _, root := range s.roots() {
		entries, err := os.ReadDir(filepath.Join(root, string(variant)))
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("failed to list %s themes: %w", variant, err)
		}
		for _, e := range entries {
			if e.Type().IsRegular() {
				names = append(names, e.Name())
			}
		}
	}
	slices.Sort(names)
	return slices.Compact(names), nil
}

// Path returns the first theme file with the given name, searching dark then
// light in the user directory, then the system directory.
func (s Store) Path(name string) (string, error) {
	for _, root := range s.roots() {
		for _, v := range Variants() {
			dir := filepath.Join(root, string(v))
			if err := security.ValidateFilePath(name, dir); err != nil {
				return "", fmt.Errorf("invalid theme name %q: %w", name, err)
			}
			path := filepath.Join(dir, name)
			if info, err := os.Stat(path); err == nil && info.Mode().IsRegular() {
				return path, nil
			}
		}
	}
	return "", fmt.Errorf("%w: %s", ErrThemeNotFound, name)
}

// Load parses the named theme. Themes carry no transparency, so the alpha
// is fully opaque.
func (s Store) Load(name string) (colour.Palette, error) {
	path, err := s.Path(name)
	if err != nil {
		return colour.Palette{}, err
	}
	return ParseFile(path)
}

// LoadCurrent parses the scheme last written to the wal directory.
func (s Store) LoadCurrent() (colour.Palette, error) {
	return ParseFile(filepath.Join(s.WalDir(), colorsFile))
}

// SaveCurrent copies the current scheme into the user's dark themes under
// name and returns the written path.
func (s Store) SaveCurrent(name string) (string, error) {
	// Parse first so a broken cache never becomes a theme.
	palette, err := s.LoadCurrent()
	if err != nil {
		return "", err
	}

	dir := filepath.Join(s.ConfigDir, schemesDir, string(VariantDark))
	if err := security.ValidateFilePath(name, dir); err != nil {
		return "", fmt.Errorf("invalid theme name %q: %w", name, err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create theme directory: %w", err)
	}

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, Encode(palette), 0o644); err != nil {
		return "", fmt.Errorf("failed to write theme %q: %w", path, err)
	}
	return path, nil
}

// Encode renders a palette in theme file format: one #rrggbb per line.
func Encode(p colour.Palette) []byte {
	var b bytes.Buffer
	for _, hex := range p.ToHex() {
		b.WriteString(hex)
		b.WriteByte('\n')
	}
	return b.Bytes()
}

// ParseFile reads a theme file.
func ParseFile(path string) (colour.Palette, error) {
	data, err := os.ReadFile(path) // #nosec G304 - theme paths come from the store
	if err != nil {
		return colour.Palette{}, fmt.Errorf("can't load colors: %w", err)
	}
	p, err := Parse(data)
	if err != nil {
		return colour.Palette{}, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// Parse decodes theme file content. Blank lines are ignored; exactly 16
// colours are required.
func Parse(data []byte) (colour.Palette, error) {
	var colours []colour.RGB
	scanner := bufio.NewScanner(bytes.NewReader(data))
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		c, err := colour.ParseHex(text)
		if err != nil {
			return colour.Palette{}, fmt.Errorf("line %d: %w", line, err)
		}
		colours = append(colours, c)
	}
	if err := scanner.Err(); err != nil {
		return colour.Palette{}, err
	}
	return colour.NewPalette(colours, 255)
}
