package colour

import (
	"fmt"

	"github.com/jmylchreest/walrus/internal/image"
)

// CompositeStrategy runs every concrete backend and concatenates their
// output: KMeans first with the full count, then ColorThief and
// PaletteExtract with a third of it each.
type CompositeStrategy struct {
	members []compositeMember
}

type compositeMember struct {
	backend  Backend
	strategy Strategy
	full     bool
}

// NewCompositeStrategy creates the strategy behind the "all" backend.
func NewCompositeStrategy(seed int64) *CompositeStrategy {
	return &CompositeStrategy{
		members: []compositeMember{
			{backend: BackendKMeans, strategy: NewKMeansStrategy(seed), full: true},
			{backend: BackendColorThief, strategy: NewColorThiefStrategy()},
			{backend: BackendPaletteExtract, strategy: NewPaletteExtractStrategy()},
		},
	}
}

// Extract delegates to each member in order. Any failure aborts the call.
func (c *CompositeStrategy) Extract(buf *image.PixelBuffer, count int) ([]RGB, error) {
	third := max(1, count/3)

	var result []RGB
	for _, m := range c.members {
		n := third
		if m.full {
			n = count
		}
		colours, err := m.strategy.Extract(buf, n)
		if err != nil {
			return nil, fmt.Errorf("%s backend: %w", m.backend, err)
		}
		result = append(result, colours...)
	}
	return result, nil
}
