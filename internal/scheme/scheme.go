// Package scheme runs the colour scheme pipeline: load, quantize, build the
// colour set and map it onto the 16 palette slots.
package scheme

import (
	"fmt"

	"github.com/hashicorp/go-hclog"

	"github.com/jmylchreest/walrus/internal/colour"
	"github.com/jmylchreest/walrus/internal/image"
)

// Options controls a single pipeline run.
type Options struct {
	// Backend selects the quantization strategy. Empty means kmeans.
	Backend colour.Backend

	// Brightness and Saturation are optional grading deltas.
	Brightness *int8
	Saturation *int8

	// Seed drives k-means initialisation. Nil means colour.DefaultSeed;
	// zero is a valid seed.
	Seed *int64

	// Logger receives debug output. Nil disables logging.
	Logger hclog.Logger
}

func (o Options) logger() hclog.Logger {
	if o.Logger == nil {
		return hclog.NewNullLogger()
	}
	return o.Logger
}

func (o Options) seed() int64 {
	if o.Seed == nil {
		return colour.DefaultSeed
	}
	return *o.Seed
}

// Generate loads the image at path and derives its palette.
func Generate(path string, opts Options) (colour.Palette, error) {
	buf, err := image.NewFileLoader(opts.logger()).Load(path)
	if err != nil {
		return colour.Palette{}, fmt.Errorf("failed to load image: %w", err)
	}
	return GenerateFromBuffer(buf, opts)
}

// GenerateFromBuffer derives a palette from an already loaded pixel buffer.
// The buffer is not modified.
func GenerateFromBuffer(buf *image.PixelBuffer, opts Options) (colour.Palette, error) {
	logger := opts.logger().Named("scheme")

	if buf == nil || buf.Len() == 0 {
		return colour.Palette{}, fmt.Errorf("%w: empty pixel buffer", image.ErrImageDecode)
	}

	strategy, err := colour.NewStrategy(colour.StrategyConfig{
		Backend: opts.Backend,
		Seed:    opts.seed(),
	})
	if err != nil {
		return colour.Palette{}, err
	}

	extracted, err := strategy.Extract(buf, colour.DefaultCount)
	if err != nil {
		return colour.Palette{}, fmt.Errorf("failed to extract colours: %w", err)
	}
	logger.Debug("colours extracted", "backend", opts.Backend, "count", len(extracted))

	set, err := colour.BuildColourSet(extracted)
	if err != nil {
		return colour.Palette{}, fmt.Errorf("failed to build colour set: %w", err)
	}
	logger.Debug("colour set built", "size", len(set))

	palette, err := colour.MapSlots(set, colour.Grading{
		Brightness: opts.Brightness,
		Saturation: opts.Saturation,
	}, buf.Alpha())
	if err != nil {
		return colour.Palette{}, fmt.Errorf("failed to map palette slots: %w", err)
	}

	logger.Debug("palette generated",
		"background", palette.Background().Hex(),
		"foreground", palette.Foreground().Hex(),
		"contrast", fmt.Sprintf("%.2f", colour.ContrastRatio(palette.Background(), palette.Foreground())),
		"alpha", palette.Alpha)

	return palette, nil
}
