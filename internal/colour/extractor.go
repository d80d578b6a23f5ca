package colour

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jmylchreest/walrus/internal/image"
)

var (
	// ErrUnknownBackend is returned for a backend name outside the closed set.
	ErrUnknownBackend = errors.New("unknown backend")

	// ErrQuantization is returned when a backend cannot produce any colour.
	ErrQuantization = errors.New("quantization failed")

	// ErrInvariantViolation is returned when the slot mapper receives fewer
	// colours than its index table addresses.
	ErrInvariantViolation = errors.New("colour set invariant violated")

	// ErrListBackends is returned when the "list" pseudo backend is selected.
	// Callers print the backend table instead of generating a palette.
	ErrListBackends = errors.New("backend listing requested")
)

// DefaultCount is the number of colours requested from a backend.
const DefaultCount = 16

// Strategy defines the interface for colour quantization backends.
type Strategy interface {
	// Extract reduces the pixel buffer to at most count representative
	// colours. Implementations never modify buf.
	Extract(buf *image.PixelBuffer, count int) ([]RGB, error)
}

// Backend represents the colour quantization backend type.
type Backend string

const (
	// BackendKMeans clusters pixels in OkLab space with seeded k-means.
	BackendKMeans Backend = "kmeans"

	// BackendColorThief uses modified median cut quantization.
	BackendColorThief Backend = "colorthief"

	// BackendPaletteExtract uses a weighted histogram quantizer.
	BackendPaletteExtract Backend = "paletteextract"

	// BackendAll concatenates the output of every other backend.
	BackendAll Backend = "all"

	// BackendList is a pseudo backend that asks for the backend table.
	BackendList Backend = "list"
)

// ValidBackends returns the backends that produce colours, in display order.
func ValidBackends() []Backend {
	return []Backend{
		BackendKMeans,
		BackendColorThief,
		BackendPaletteExtract,
		BackendAll,
	}
}

// Description returns a one-line summary of the backend.
func (b Backend) Description() string {
	switch b {
	case BackendKMeans:
		return "k-means clustering in OkLab space (default)"
	case BackendColorThief:
		return "modified median cut quantization"
	case BackendPaletteExtract:
		return "weighted 5-bit histogram quantization"
	case BackendAll:
		return "kmeans, colorthief and paletteextract combined"
	case BackendList:
		return "print this list"
	default:
		return ""
	}
}

// ParseBackend resolves a case-insensitive backend name.
func ParseBackend(name string) (Backend, error) {
	b := Backend(strings.ToLower(strings.TrimSpace(name)))
	if b == "" {
		return BackendKMeans, nil
	}
	if b == BackendList {
		return b, nil
	}
	for _, valid := range ValidBackends() {
		if b == valid {
			return b, nil
		}
	}
	return "", fmt.Errorf("%w: %q (valid backends: %v)", ErrUnknownBackend, name, ValidBackends())
}

// StrategyConfig holds configuration for building a strategy.
type StrategyConfig struct {
	Backend Backend
	// Seed drives the k-means initialisation.
	Seed int64
}

// DefaultStrategyConfig returns the default strategy configuration.
func DefaultStrategyConfig() StrategyConfig {
	return StrategyConfig{
		Backend: BackendKMeans,
		Seed:    DefaultSeed,
	}
}

// NewStrategy creates the Strategy for the configured backend. An empty
// backend falls back to the default one. The list pseudo backend yields
// ErrListBackends.
func NewStrategy(cfg StrategyConfig) (Strategy, error) {
	if cfg.Backend == "" {
		cfg.Backend = DefaultStrategyConfig().Backend
	}
	switch cfg.Backend {
	case BackendKMeans:
		return NewKMeansStrategy(cfg.Seed), nil
	case BackendColorThief:
		return NewColorThiefStrategy(), nil
	case BackendPaletteExtract:
		return NewPaletteExtractStrategy(), nil
	case BackendAll:
		return NewCompositeStrategy(cfg.Seed), nil
	case BackendList:
		return nil, ErrListBackends
	default:
		return nil, fmt.Errorf("%w: %q (valid backends: %v)", ErrUnknownBackend, cfg.Backend, ValidBackends())
	}
}
