package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/walrus/internal/colour"
)

func mapLookup(m map[string]string) LookupFunc {
	return func(key string) (string, bool) {
		v, ok := m[key]
		return v, ok
	}
}

func TestDefault(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	cfg, err := Default()
	require.NoError(t, err)

	assert.Equal(t, colour.BackendKMeans, cfg.Backend)
	assert.Equal(t, colour.DefaultSeed, cfg.Seed)
	assert.Equal(t, AppName, filepath.Base(cfg.ConfigDir))
	assert.Equal(t, "wal", filepath.Base(cfg.WalDir()))
	assert.Nil(t, cfg.Brightness)
	assert.Nil(t, cfg.Saturation)
}

func TestApply(t *testing.T) {
	cfg := Config{Backend: colour.BackendKMeans}
	err := cfg.Apply(mapLookup(map[string]string{
		EnvBackend:    "ColorThief",
		EnvBrightness: "-20",
		EnvSaturation: "15",
		EnvSeed:       "7",
		EnvCacheDir:   "/tmp/cache",
		EnvQuiet:      "true",
	}))
	require.NoError(t, err)

	assert.Equal(t, colour.BackendColorThief, cfg.Backend)
	require.NotNil(t, cfg.Brightness)
	assert.Equal(t, int8(-20), *cfg.Brightness)
	require.NotNil(t, cfg.Saturation)
	assert.Equal(t, int8(15), *cfg.Saturation)
	assert.Equal(t, int64(7), cfg.Seed)
	assert.Equal(t, "/tmp/cache", cfg.CacheDir)
	assert.True(t, cfg.Quiet)
}

func TestApplyErrors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "unknown backend", env: map[string]string{EnvBackend: "nope"}},
		{name: "brightness out of range", env: map[string]string{EnvBrightness: "300"}},
		{name: "saturation not a number", env: map[string]string{EnvSaturation: "lots"}},
		{name: "bad seed", env: map[string]string{EnvSeed: "x"}},
		{name: "bad quiet", env: map[string]string{EnvQuiet: "maybe"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Config{}
			assert.Error(t, cfg.Apply(mapLookup(tt.env)))
		})
	}
}

func TestApplyUnknownBackendIsTyped(t *testing.T) {
	cfg := Config{}
	err := cfg.Apply(mapLookup(map[string]string{EnvBackend: "nope"}))
	assert.ErrorIs(t, err, colour.ErrUnknownBackend)
}

func TestApplyZeroSeed(t *testing.T) {
	cfg := Config{Seed: colour.DefaultSeed}
	require.NoError(t, cfg.Apply(mapLookup(map[string]string{EnvSeed: "0"})))
	assert.Equal(t, int64(0), cfg.Seed)
}

func TestApplyRejectsListBackend(t *testing.T) {
	cfg := Config{Backend: colour.BackendKMeans}
	err := cfg.Apply(mapLookup(map[string]string{EnvBackend: "list"}))
	require.ErrorIs(t, err, colour.ErrUnknownBackend)
	assert.Equal(t, colour.BackendKMeans, cfg.Backend)
}

func TestLoadFromDotenvRejectsListBackend(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, EnvFileName), []byte("WALRUS_BACKEND=list\n"), 0o600))

	_, err := LoadFrom(mapLookup(map[string]string{EnvConfigDir: dir}))
	assert.ErrorIs(t, err, colour.ErrUnknownBackend)
}

func TestLoadFromDotenv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, EnvFileName), []byte(
		"WALRUS_BACKEND=paletteextract\nWALRUS_SATURATION=40\nWALRUS_SEED=9\n"), 0o600))

	cfg, err := LoadFrom(mapLookup(map[string]string{
		EnvConfigDir: dir,
		EnvSeed:      "11",
	}))
	require.NoError(t, err)

	assert.Equal(t, dir, cfg.ConfigDir)
	assert.Equal(t, colour.BackendPaletteExtract, cfg.Backend)
	require.NotNil(t, cfg.Saturation)
	assert.Equal(t, int8(40), *cfg.Saturation)
	// The real environment wins over the dotenv file.
	assert.Equal(t, int64(11), cfg.Seed)
	assert.Equal(t, filepath.Join(dir, "templates"), cfg.TemplateDir())
}

func TestLoadFromWithoutDotenv(t *testing.T) {
	cfg, err := LoadFrom(mapLookup(map[string]string{EnvConfigDir: t.TempDir()}))
	require.NoError(t, err)
	assert.Equal(t, colour.BackendKMeans, cfg.Backend)
}

func TestParseInt8(t *testing.T) {
	n, err := ParseInt8(" 127 ")
	require.NoError(t, err)
	assert.Equal(t, int8(127), n)

	n, err = ParseInt8("-128")
	require.NoError(t, err)
	assert.Equal(t, int8(-128), n)

	_, err = ParseInt8("128")
	assert.Error(t, err)
}
