// Package template fills colour templates and manages the user's template
// directory, seeding it from system or embedded defaults.
package template

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/hashicorp/go-hclog"
)

//go:embed defaults/*
var defaultsFS embed.FS

// Source is a named template body.
type Source struct {
	Name    string
	Content []byte
}

// Loader reads templates from the user directory. When that directory has no
// templates it is seeded from the system directory, or from the embedded
// defaults when the system directory has none either.
type Loader struct {
	userDir   string
	systemDir string
	embedFS   fs.FS
	logger    hclog.Logger
}

// NewLoader creates a loader for the given user and system template
// directories.
func NewLoader(userDir, systemDir string, logger hclog.Logger) *Loader {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Loader{
		userDir:   userDir,
		systemDir: systemDir,
		logger:    logger.Named("templates"),
	}
}

// WithEmbedFS replaces the embedded defaults (useful for testing).
// A nil fsys restores them.
func (l *Loader) WithEmbedFS(fsys fs.FS) *Loader {
	l.embedFS = fsys
	return l
}

// UserDir returns the directory holding the user's templates.
func (l *Loader) UserDir() string {
	return l.userDir
}

// Load returns the templates to render, sorted by name. A user directory
// without templates is seeded first.
func (l *Loader) Load() ([]Source, error) {
	sources, err := readDir(os.DirFS(l.userDir))
	if err == nil && len(sources) > 0 {
		l.logger.Debug("using user templates", "dir", l.userDir, "count", len(sources))
		return sources, nil
	}

	sources, err = readDir(os.DirFS(l.systemDir))
	if err != nil || len(sources) == 0 {
		l.logger.Debug("no system templates, using embedded defaults", "dir", l.systemDir)
		sources, err = l.readDefaults()
		if err != nil {
			return nil, fmt.Errorf("failed to read embedded templates: %w", err)
		}
	} else {
		l.logger.Debug("using system templates", "dir", l.systemDir, "count", len(sources))
	}

	if err := l.seed(sources); err != nil {
		return nil, err
	}
	return sources, nil
}

func (l *Loader) readDefaults() ([]Source, error) {
	if l.embedFS != nil {
		return readDir(l.embedFS)
	}
	sub, err := fs.Sub(defaultsFS, "defaults")
	if err != nil {
		return nil, err
	}
	return readDir(sub)
}

// Defaults returns the embedded default templates.
func Defaults() ([]Source, error) {
	return (&Loader{}).readDefaults()
}

// seed copies templates into the user directory.
func (l *Loader) seed(sources []Source) error {
	if err := os.MkdirAll(l.userDir, 0o755); err != nil {
		return fmt.Errorf("can't create user template path %q: %w", l.userDir, err)
	}
	for _, s := range sources {
		path := filepath.Join(l.userDir, s.Name)
		if err := os.WriteFile(path, s.Content, 0o644); err != nil {
			return fmt.Errorf("failed to write template to %q: %w", path, err)
		}
	}
	l.logger.Debug("seeded user templates", "dir", l.userDir, "count", len(sources))
	return nil
}

// readDir reads every regular file at the top level of fsys. Unreadable
// files are skipped.
func readDir(fsys fs.FS) ([]Source, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, err
	}

	var sources []Source
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		content, err := fs.ReadFile(fsys, entry.Name())
		if err != nil {
			continue
		}
		sources = append(sources, Source{Name: entry.Name(), Content: content})
	}

	sort.Slice(sources, func(i, j int) bool { return sources[i].Name < sources[j].Name })
	return sources, nil
}
