// Package config resolves walrus settings from defaults, an optional dotenv
// file and WALRUS_* environment variables. Command line flags are applied on
// top by the CLI.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/jmylchreest/walrus/internal/colour"
)

const (
	// AppName names the per-user config directory.
	AppName = "walrus"

	// EnvFileName is the dotenv file read from the config directory.
	EnvFileName = "walrus.env"

	// DefaultSystemDir holds system-wide templates and colour schemes.
	DefaultSystemDir = "/etc/walrus"

	envPrefix = "WALRUS_"
)

// Environment variable names.
const (
	EnvBackend    = envPrefix + "BACKEND"
	EnvBrightness = envPrefix + "BRIGHTNESS"
	EnvSaturation = envPrefix + "SATURATION"
	EnvSeed       = envPrefix + "SEED"
	EnvConfigDir  = envPrefix + "CONFIG_DIR"
	EnvCacheDir   = envPrefix + "CACHE_DIR"
	EnvSystemDir  = envPrefix + "SYSTEM_DIR"
	EnvQuiet      = envPrefix + "QUIET"
)

// LookupFunc retrieves an environment variable, as os.LookupEnv does.
type LookupFunc func(key string) (string, bool)

// Config holds the resolved settings.
type Config struct {
	Backend    colour.Backend
	Brightness *int8
	Saturation *int8
	Seed       int64

	// ConfigDir holds user templates and colour schemes.
	ConfigDir string
	// CacheDir is the parent of the wal output directory.
	CacheDir string
	// SystemDir holds system templates and colour schemes.
	SystemDir string

	Quiet bool
}

// Default returns the built-in settings for the current user.
func Default() (Config, error) {
	configRoot, err := os.UserConfigDir()
	if err != nil {
		return Config{}, fmt.Errorf("failed to resolve config directory: %w", err)
	}
	cacheRoot, err := os.UserCacheDir()
	if err != nil {
		return Config{}, fmt.Errorf("failed to resolve cache directory: %w", err)
	}

	def := colour.DefaultStrategyConfig()
	return Config{
		Backend:   def.Backend,
		Seed:      def.Seed,
		ConfigDir: filepath.Join(configRoot, AppName),
		CacheDir:  cacheRoot,
		SystemDir: DefaultSystemDir,
	}, nil
}

// Load resolves settings from the process environment.
func Load() (Config, error) {
	return LoadFrom(os.LookupEnv)
}

// LoadFrom resolves settings using lookup for the environment. Values in the
// dotenv file never override variables lookup already knows.
func LoadFrom(lookup LookupFunc) (Config, error) {
	cfg, err := Default()
	if err != nil {
		return Config{}, err
	}

	if dir, ok := lookup(EnvConfigDir); ok && dir != "" {
		cfg.ConfigDir = dir
	}

	dotenv, err := ReadEnvFile(filepath.Join(cfg.ConfigDir, EnvFileName))
	if err != nil {
		return Config{}, err
	}

	if err := cfg.Apply(withFallback(lookup, dotenv)); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ReadEnvFile parses a dotenv file. A missing file yields an empty map.
func ReadEnvFile(path string) (map[string]string, error) {
	values, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return values, nil
}

func withFallback(primary LookupFunc, fallback map[string]string) LookupFunc {
	return func(key string) (string, bool) {
		if v, ok := primary(key); ok {
			return v, true
		}
		v, ok := fallback[key]
		return v, ok
	}
}

// Apply overlays WALRUS_* variables onto the config.
func (c *Config) Apply(lookup LookupFunc) error {
	if v, ok := lookup(EnvBackend); ok && v != "" {
		b, err := colour.ParseBackend(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvBackend, err)
		}
		// Listing is a one-off action and only makes sense as --backend.
		if b == colour.BackendList {
			return fmt.Errorf("%s: %w: %q", EnvBackend, colour.ErrUnknownBackend, v)
		}
		c.Backend = b
	}

	if v, ok := lookup(EnvBrightness); ok && v != "" {
		n, err := ParseInt8(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvBrightness, err)
		}
		c.Brightness = &n
	}

	if v, ok := lookup(EnvSaturation); ok && v != "" {
		n, err := ParseInt8(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvSaturation, err)
		}
		c.Saturation = &n
	}

	if v, ok := lookup(EnvSeed); ok && v != "" {
		n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return fmt.Errorf("%s: invalid seed %q: %w", EnvSeed, v, err)
		}
		c.Seed = n
	}

	if v, ok := lookup(EnvCacheDir); ok && v != "" {
		c.CacheDir = v
	}
	if v, ok := lookup(EnvSystemDir); ok && v != "" {
		c.SystemDir = v
	}

	if v, ok := lookup(EnvQuiet); ok && v != "" {
		q, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%s: invalid boolean %q: %w", EnvQuiet, v, err)
		}
		c.Quiet = q
	}

	return nil
}

// ParseInt8 parses a decimal value in the int8 range.
func ParseInt8(s string) (int8, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 8)
	if err != nil {
		return 0, fmt.Errorf("value %q must be an integer between -128 and 127", s)
	}
	return int8(n), nil
}

// WalDir is where filled templates and the current scheme are written.
func (c Config) WalDir() string {
	return filepath.Join(c.CacheDir, "wal")
}

// TemplateDir holds the user's templates.
func (c Config) TemplateDir() string {
	return filepath.Join(c.ConfigDir, "templates")
}

// SystemTemplateDir holds templates shipped with the system.
func (c Config) SystemTemplateDir() string {
	return filepath.Join(c.SystemDir, "templates")
}
