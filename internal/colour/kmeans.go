package colour

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/muesli/clusters"
	"gonum.org/v1/gonum/floats"

	"github.com/jmylchreest/walrus/internal/image"
)

// DefaultSeed is the k-means seed used when the caller does not supply one.
const DefaultSeed int64 = 42

// KMeansStrategy implements colour extraction using k-means clustering in
// OkLab space.
type KMeansStrategy struct {
	seed          int64
	maxIterations int
	convergence   float64
	maxSamples    int
}

// NewKMeansStrategy creates a new KMeansStrategy with default settings.
func NewKMeansStrategy(seed int64) *KMeansStrategy {
	return &KMeansStrategy{
		seed:          seed,
		maxIterations: 100,
		convergence:   1e-4,
		maxSamples:    10000,
	}
}

// Extract clusters the opaque pixels of buf into count colours.
// When the buffer holds no more than count distinct colours they are returned
// unchanged in first-seen order.
func (e *KMeansStrategy) Extract(buf *image.PixelBuffer, count int) ([]RGB, error) {
	if buf == nil {
		return nil, fmt.Errorf("%w: pixel buffer cannot be nil", ErrQuantization)
	}
	if count < 1 {
		return nil, fmt.Errorf("%w: colour count must be at least 1, got %d", ErrQuantization, count)
	}

	pixels := e.samplePixels(buf)
	if len(pixels) == 0 {
		return nil, fmt.Errorf("%w: no opaque pixels found in image", ErrQuantization)
	}

	// Get unique colours first.
	unique := Dedup(pixels)
	if count >= len(unique) {
		return unique, nil
	}

	dataset := make(clusters.Observations, len(pixels))
	for i, p := range pixels {
		dataset[i] = toOkLab(p)
	}

	cs := e.kmeans(dataset, count)

	result := make([]RGB, len(cs))
	for i, c := range cs {
		result[i] = fromOkLab(c.Center)
	}
	return result, nil
}

// samplePixels collects non-transparent pixels, grid sampling large buffers
// down to roughly maxSamples.
func (e *KMeansStrategy) samplePixels(buf *image.PixelBuffer) []RGB {
	total := buf.Len()
	step := 1
	if total > e.maxSamples {
		step = max(int(math.Sqrt(float64(total)/float64(e.maxSamples))), 1)
	}

	pixels := make([]RGB, 0, min(total, e.maxSamples))
	for y := 0; y < buf.Height; y += step {
		for x := 0; x < buf.Width; x += step {
			p := buf.NRGBAAt(x, y)
			if p.A == 0 {
				continue
			}
			pixels = append(pixels, RGB{R: p.R, G: p.G, B: p.B})
			if len(pixels) >= e.maxSamples {
				return pixels
			}
		}
	}
	return pixels
}

// kmeans runs Lloyd iterations until the mean centroid shift drops below the
// convergence threshold or maxIterations is reached.
func (e *KMeansStrategy) kmeans(dataset clusters.Observations, k int) clusters.Clusters {
	rng := rand.New(rand.NewSource(e.seed)) // #nosec G404 - deterministic seeding is required
	cs := initializeCentroidsKMeansPlusPlus(rng, dataset, k)

	for iter := 0; iter < e.maxIterations; iter++ {
		previous := make([]clusters.Coordinates, len(cs))
		for i := range cs {
			previous[i] = cs[i].Center
		}

		cs.Reset()
		for _, p := range dataset {
			cs[cs.Nearest(p)].Append(p)
		}
		// Empty clusters keep their previous centre.
		cs.Recenter()

		movement := 0.0
		for i := range cs {
			movement += floats.Distance(previous[i], cs[i].Center, 2)
		}
		if movement/float64(k) < e.convergence {
			break
		}
	}

	return cs
}

// initializeCentroidsKMeansPlusPlus picks k initial centres: the first at
// random, each subsequent one with probability proportional to its squared
// distance from the nearest chosen centre.
func initializeCentroidsKMeansPlusPlus(rng *rand.Rand, dataset clusters.Observations, k int) clusters.Clusters {
	cs := make(clusters.Clusters, 0, k)
	first := dataset[rng.Intn(len(dataset))].Coordinates()
	cs = append(cs, clusters.Cluster{Center: cloneCoordinates(first)})

	distances := make([]float64, len(dataset))
	for len(cs) < k {
		for i, p := range dataset {
			distances[i] = p.Distance(cs[cs.Nearest(p)].Center)
		}
		total := floats.Sum(distances)

		if total == 0 {
			// Every point coincides with a centre; duplicate the last one.
			cs = append(cs, clusters.Cluster{Center: cloneCoordinates(cs[len(cs)-1].Center)})
			continue
		}

		target := rng.Float64() * total
		cumulative := 0.0
		chosen := len(dataset) - 1
		for i, d := range distances {
			cumulative += d
			if cumulative >= target {
				chosen = i
				break
			}
		}
		cs = append(cs, clusters.Cluster{Center: cloneCoordinates(dataset[chosen].Coordinates())})
	}

	return cs
}

func cloneCoordinates(c clusters.Coordinates) clusters.Coordinates {
	out := make(clusters.Coordinates, len(c))
	copy(out, c)
	return out
}

// toOkLab converts an sRGB colour to OkLab coordinates.
func toOkLab(c RGB) clusters.Coordinates {
	l, a, b := colorful.Color{
		R: float64(c.R) / 255.0,
		G: float64(c.G) / 255.0,
		B: float64(c.B) / 255.0,
	}.OkLab()
	return clusters.Coordinates{l, a, b}
}

// fromOkLab converts OkLab coordinates back to clamped 8-bit sRGB.
func fromOkLab(c clusters.Coordinates) RGB {
	r, g, b := colorful.OkLab(c[0], c[1], c[2]).Clamped().RGB255()
	return RGB{R: r, G: g, B: b}
}
