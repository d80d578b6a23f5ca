package colour

import (
	"errors"
	"image/color"
	"testing"

	"github.com/jmylchreest/walrus/internal/image"
)

// quadrantBuffer returns a w x h buffer split into four solid quadrants.
func quadrantBuffer(w, h int, tl, tr, bl, br RGB) *image.PixelBuffer {
	buf := image.NewPixelBuffer(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := tl
			switch {
			case x >= w/2 && y < h/2:
				c = tr
			case x < w/2 && y >= h/2:
				c = bl
			case x >= w/2 && y >= h/2:
				c = br
			}
			buf.SetNRGBA(x, y, c.Color())
		}
	}
	return buf
}

// stripedBuffer fills rows [0, split) with top and the rest with bottom.
func stripedBuffer(w, h, split int, top, bottom RGB) *image.PixelBuffer {
	buf := image.NewPixelBuffer(w, h)
	for y := 0; y < h; y++ {
		c := top
		if y >= split {
			c = bottom
		}
		for x := 0; x < w; x++ {
			buf.SetNRGBA(x, y, c.Color())
		}
	}
	return buf
}

var (
	red   = RGB{R: 255}
	green = RGB{G: 255}
	blue  = RGB{B: 255}
	white = RGB{R: 255, G: 255, B: 255}
	dark  = RGB{R: 20, G: 20, B: 30}
)

func TestParseBackend(t *testing.T) {
	tests := []struct {
		input   string
		want    Backend
		wantErr error
	}{
		{input: "kmeans", want: BackendKMeans},
		{input: "ColorThief", want: BackendColorThief},
		{input: " paletteextract ", want: BackendPaletteExtract},
		{input: "all", want: BackendAll},
		{input: "list", want: BackendList},
		{input: "", want: BackendKMeans},
		{input: "octree", wantErr: ErrUnknownBackend},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseBackend(tt.input)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("ParseBackend(%q) error = %v, want %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseBackend(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNewStrategy(t *testing.T) {
	for _, b := range ValidBackends() {
		s, err := NewStrategy(StrategyConfig{Backend: b, Seed: DefaultSeed})
		if err != nil || s == nil {
			t.Errorf("NewStrategy(%q) = %v, %v", b, s, err)
		}
		if b.Description() == "" {
			t.Errorf("backend %q has no description", b)
		}
	}

	s, err := NewStrategy(StrategyConfig{})
	if err != nil {
		t.Fatalf("NewStrategy(empty) error = %v", err)
	}
	if _, ok := s.(*KMeansStrategy); !ok {
		t.Errorf("NewStrategy(empty) = %T, want *KMeansStrategy", s)
	}
	if def := DefaultStrategyConfig(); def.Backend != BackendKMeans || def.Seed != DefaultSeed {
		t.Errorf("DefaultStrategyConfig() = %+v", def)
	}

	if _, err := NewStrategy(StrategyConfig{Backend: BackendList}); !errors.Is(err, ErrListBackends) {
		t.Errorf("NewStrategy(list) error = %v, want ErrListBackends", err)
	}
	if _, err := NewStrategy(StrategyConfig{Backend: "bogus"}); !errors.Is(err, ErrUnknownBackend) {
		t.Errorf("NewStrategy(bogus) error = %v, want ErrUnknownBackend", err)
	}
}

func TestKMeansReturnsDistinctColoursWhenFew(t *testing.T) {
	buf := stripedBuffer(10, 10, 5, red, blue)

	got, err := NewKMeansStrategy(DefaultSeed).Extract(buf, DefaultCount)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if len(got) != 2 || got[0] != red || got[1] != blue {
		t.Errorf("Extract() = %v, want [red blue]", got)
	}
}

func TestKMeansClusters(t *testing.T) {
	buf := quadrantBuffer(40, 40, red, green, blue, dark)

	got, err := NewKMeansStrategy(DefaultSeed).Extract(buf, 3)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("Extract() returned %d colours, want 3", len(got))
	}
}

func TestKMeansDeterministic(t *testing.T) {
	buf := image.NewPixelBuffer(64, 64)
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			buf.SetNRGBA(x, y, color.NRGBA{R: uint8(x * 4), G: uint8(y * 4), B: uint8((x + y) * 2), A: 255})
		}
	}

	first, err := NewKMeansStrategy(DefaultSeed).Extract(buf, DefaultCount)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	for run := 0; run < 3; run++ {
		again, err := NewKMeansStrategy(DefaultSeed).Extract(buf, DefaultCount)
		if err != nil {
			t.Fatalf("Extract() error = %v", err)
		}
		if len(again) != len(first) {
			t.Fatalf("run %d returned %d colours, want %d", run, len(again), len(first))
		}
		for i := range first {
			if again[i] != first[i] {
				t.Errorf("run %d colour %d = %v, want %v", run, i, again[i], first[i])
			}
		}
	}
}

func TestKMeansSkipsTransparentPixels(t *testing.T) {
	buf := stripedBuffer(10, 10, 5, red, blue)
	for x := 0; x < 10; x++ {
		for y := 0; y < 5; y++ {
			buf.SetNRGBA(x, y, color.NRGBA{R: 255})
		}
	}

	got, err := NewKMeansStrategy(DefaultSeed).Extract(buf, DefaultCount)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if len(got) != 1 || got[0] != blue {
		t.Errorf("Extract() = %v, want [blue]", got)
	}
}

func TestBackendsFailOnEmptyInput(t *testing.T) {
	transparent := image.NewPixelBuffer(8, 8)
	strategies := map[string]Strategy{
		"kmeans":         NewKMeansStrategy(DefaultSeed),
		"colorthief":     NewColorThiefStrategy(),
		"paletteextract": NewPaletteExtractStrategy(),
		"all":            NewCompositeStrategy(DefaultSeed),
	}

	for name, s := range strategies {
		t.Run(name, func(t *testing.T) {
			if _, err := s.Extract(transparent, DefaultCount); !errors.Is(err, ErrQuantization) {
				t.Errorf("Extract(transparent) error = %v, want ErrQuantization", err)
			}
			if _, err := s.Extract(nil, DefaultCount); err == nil {
				t.Error("Extract(nil) should fail")
			}
		})
	}
}

func TestColorThiefFiltersWhite(t *testing.T) {
	buf := stripedBuffer(50, 10, 5, white, red)

	got, err := NewColorThiefStrategy().Extract(buf, 4)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if len(got) == 0 || len(got) > 4 {
		t.Fatalf("Extract() returned %d colours, want 1..4", len(got))
	}
	for _, c := range got {
		if isNearWhite(c) {
			t.Errorf("Extract() returned near-white %v", c)
		}
	}
}

func TestColorThiefAllWhiteFallsBack(t *testing.T) {
	buf := stripedBuffer(20, 20, 20, white, white)

	got, err := NewColorThiefStrategy().Extract(buf, 4)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if len(got) == 0 {
		t.Error("Extract() on a white image returned nothing")
	}
}

func TestPaletteExtractRanksByPopulation(t *testing.T) {
	// Three rows of red and one of blue; every fifth pixel is sampled.
	buf := stripedBuffer(100, 4, 3, red, blue)

	got, err := NewPaletteExtractStrategy().Extract(buf, 2)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if len(got) != 2 || got[0] != red || got[1] != blue {
		t.Errorf("Extract() = %v, want [red blue]", got)
	}

	got, err = NewPaletteExtractStrategy().Extract(buf, 1)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if len(got) != 1 || got[0] != red {
		t.Errorf("Extract(count=1) = %v, want [red]", got)
	}
}

func TestPaletteExtractWhiteFallback(t *testing.T) {
	buf := stripedBuffer(20, 20, 20, white, white)

	got, err := NewPaletteExtractStrategy().Extract(buf, 4)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if len(got) != 1 || got[0] != white {
		t.Errorf("Extract() = %v, want [white]", got)
	}
}

func TestCompositeConcatenatesInOrder(t *testing.T) {
	buf := quadrantBuffer(40, 40, red, green, blue, dark)

	kmeans, err := NewKMeansStrategy(DefaultSeed).Extract(buf, DefaultCount)
	if err != nil {
		t.Fatalf("kmeans Extract() error = %v", err)
	}

	got, err := NewCompositeStrategy(DefaultSeed).Extract(buf, DefaultCount)
	if err != nil {
		t.Fatalf("composite Extract() error = %v", err)
	}
	if len(got) < len(kmeans)+2 {
		t.Fatalf("composite returned %d colours, want at least %d", len(got), len(kmeans)+2)
	}
	for i := range kmeans {
		if got[i] != kmeans[i] {
			t.Errorf("composite[%d] = %v, want kmeans output %v", i, got[i], kmeans[i])
		}
	}
}
