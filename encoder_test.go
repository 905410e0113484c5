package ansify

import (
	"errors"
	"math"
	"math/rand"
	"testing"
)

// distanceSqFloat is the squared distance between a color and a float
// average.
func distanceSqFloat(c RGB, avg [3]float64) float64 {
	dr := float64(c.R) - avg[0]
	dg := float64(c.G) - avg[1]
	db := float64(c.B) - avg[2]
	return dr*dr + dg*dg + db*db
}

// fitScore is the direct two-tone error of explaining subs with glyph
// gi: each sub-cell against the average of its own side.
func fitScore(lib *GlyphLibrary, gi int, subs []RGB) float64 {
	var fg, bg, total meanRGB
	mask := lib.Glyph(gi).Mask
	for i, c := range subs {
		total.add(c)
		if mask[i] {
			fg.add(c)
		} else {
			bg.add(c)
		}
	}
	if fg.n == 0 {
		fg = total
	}
	if bg.n == 0 {
		bg = total
	}
	fgAvg, bgAvg := fg.mean(), bg.mean()

	var score float64
	for i, c := range subs {
		if mask[i] {
			score += distanceSqFloat(c, fgAvg)
		} else {
			score += distanceSqFloat(c, bgAvg)
		}
	}
	return score
}

func randomFrame(rng *rand.Rand, w, h int) *Frame {
	f := NewFrame(w, h)
	for i := range f.Pix {
		f.Pix[i] = uint8(rng.Intn(256))
	}
	return f
}

func solidFrame(w, h int, c RGB) *Frame {
	f := NewFrame(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			f.Set(x, y, c)
		}
	}
	return f
}

func TestEncodeSolidRed(t *testing.T) {
	t.Parallel()
	p, err := NewPalette([]RGB{{}, {R: 255}})
	if err != nil {
		t.Fatal(err)
	}
	lib, err := NewGlyphLibrary(2, 1, []Glyph{
		{Rune: ' ', Mask: []bool{false, false}},
		{Rune: '▌', Mask: []bool{true, false}},
		{Rune: '▐', Mask: []bool{false, true}},
		{Rune: '█', Mask: []bool{true, true}},
	})
	if err != nil {
		t.Fatal(err)
	}
	enc, err := NewCellEncoder(p, lib)
	if err != nil {
		t.Fatal(err)
	}

	cell := enc.Encode(solidFrame(2, 2, RGB{R: 255}), Region{X0: 0, Y0: 0, X1: 2, Y1: 2})
	if cell.FG != 1 || cell.BG != 1 {
		t.Errorf("Expected red foreground and background, got fg=%d bg=%d", cell.FG, cell.BG)
	}
	if cell.Glyph != 0 {
		t.Errorf("Expected the first glyph on a perfect tie, got %d", cell.Glyph)
	}
}

func TestEncodeSplitRegion(t *testing.T) {
	t.Parallel()
	p, err := NewPalette([]RGB{{}, {R: 255, G: 255, B: 255}})
	if err != nil {
		t.Fatal(err)
	}
	enc, err := NewCellEncoder(p, QuadrantBlocks())
	if err != nil {
		t.Fatal(err)
	}

	// left half white, right half black
	f := NewFrame(4, 4)
	for y := 0; y < 4; y++ {
		for x := 0; x < 2; x++ {
			f.Set(x, y, RGB{R: 255, G: 255, B: 255})
		}
	}

	// '▐' (index 5) and '▌' (index 10) both fit exactly; the lower
	// index wins with the colors swapped to match.
	cell := enc.Encode(f, Region{X0: 0, Y0: 0, X1: 4, Y1: 4})
	want := Cell{FG: 0, BG: 1, Glyph: 5}
	if cell != want {
		t.Errorf("Expected %+v, got %+v", want, cell)
	}
}

func TestEncodeIsDeterministic(t *testing.T) {
	t.Parallel()
	rng := rand.New(rand.NewSource(3))
	f := randomFrame(rng, 40, 40)
	enc, err := NewCellEncoder(ANSI256(), QuadrantBlocks())
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 200; i++ {
		x0, y0 := rng.Float64()*36, rng.Float64()*36
		r := Region{X0: x0, Y0: y0, X1: x0 + 1 + rng.Float64()*3, Y1: y0 + 1 + rng.Float64()*3}
		first := enc.Encode(f, r)
		for j := 0; j < 3; j++ {
			if again := enc.Encode(f, r); again != first {
				t.Fatalf("Region %+v: encoded %+v then %+v", r, first, again)
			}
		}
	}
}

func TestBestCellMinimizesFitScore(t *testing.T) {
	t.Parallel()
	rng := rand.New(rand.NewSource(4))
	for _, lib := range []*GlyphLibrary{QuadrantBlocks(), HalfBlocks(), FullBlocks()} {
		enc, err := NewCellEncoder(ANSI256(), lib)
		if err != nil {
			t.Fatal(err)
		}
		subs := make([]RGB, lib.Width()*lib.Height())
		for trial := 0; trial < 500; trial++ {
			for i := range subs {
				subs[i] = RGB{R: uint8(rng.Intn(256)), G: uint8(rng.Intn(256)), B: uint8(rng.Intn(256))}
			}
			cell := enc.bestCell(subs)

			minScore := math.MaxFloat64
			for gi := 0; gi < lib.Len(); gi++ {
				minScore = math.Min(minScore, fitScore(lib, gi, subs))
			}
			got := fitScore(lib, cell.Glyph, subs)
			if got > minScore+1e-6*math.Max(1, minScore) {
				t.Fatalf("%s: glyph %d scores %v, best possible %v", lib.Name(), cell.Glyph, got, minScore)
			}
		}
	}
}

func TestEncodeUndersizedRegion(t *testing.T) {
	t.Parallel()
	enc, err := NewCellEncoder(ANSI16(), QuadrantBlocks())
	if err != nil {
		t.Fatal(err)
	}
	f := solidFrame(1, 1, RGB{R: 250, G: 2, B: 3})

	cells := []Cell{
		enc.Encode(f, Region{X0: 0, Y0: 0, X1: 1, Y1: 1}),
		enc.Encode(f, Region{X0: 0.25, Y0: 0.25, X1: 0.5, Y1: 0.5}),
		// partly outside the frame clamps to the edge pixel
		enc.Encode(f, Region{X0: -1, Y0: -1, X1: 3, Y1: 3}),
	}
	for i, cell := range cells {
		if cell.FG != 9 || cell.BG != 9 {
			t.Errorf("Region %d: expected bright red (9) on both sides, got %+v", i, cell)
		}
	}
}

func TestSampleAveragesInteriorPoints(t *testing.T) {
	t.Parallel()
	enc, err := NewCellEncoder(ANSI256(), FullBlocks(), WithSamples(2))
	if err != nil {
		t.Fatal(err)
	}
	// columns 0 and 1 differ; 2x2 samples over a 2x2 region hit each
	// pixel once
	f := NewFrame(2, 2)
	f.Set(0, 0, RGB{R: 100})
	f.Set(0, 1, RGB{R: 100})
	f.Set(1, 0, RGB{R: 201})
	f.Set(1, 1, RGB{R: 201})

	subs := make([]RGB, 1)
	enc.sample(f, Region{X0: 0, Y0: 0, X1: 2, Y1: 2}, subs)
	if want := (RGB{R: 151}); subs[0] != want {
		t.Errorf("Expected rounded mean %v, got %v", want, subs[0])
	}
}

func TestCacheDoesNotChangeResults(t *testing.T) {
	t.Parallel()
	rng := rand.New(rand.NewSource(5))
	f := randomFrame(rng, 32, 32)
	plain, err := NewCellEncoder(ANSI256(), QuadrantBlocks())
	if err != nil {
		t.Fatal(err)
	}
	cached, err := NewCellEncoder(ANSI256(), QuadrantBlocks(), WithCache(8))
	if err != nil {
		t.Fatal(err)
	}

	for pass := 0; pass < 2; pass++ {
		for y := 0; y < 32; y += 2 {
			for x := 0; x < 32; x += 2 {
				r := Region{X0: float64(x), Y0: float64(y), X1: float64(x + 2), Y1: float64(y + 2)}
				if a, b := plain.Encode(f, r), cached.Encode(f, r); a != b {
					t.Fatalf("Cached result %+v differs from %+v", b, a)
				}
			}
		}
	}

	hits, misses, _ := cached.CacheStats()
	if hits+misses != 2*16*16 {
		t.Errorf("Expected %d lookups, got %d", 2*16*16, hits+misses)
	}
	if h, m, rate := plain.CacheStats(); h != 0 || m != 0 || rate != 0 {
		t.Errorf("Expected zero stats without a cache, got %d/%d/%v", h, m, rate)
	}
}

func TestCacheHitsOnFlatRegions(t *testing.T) {
	t.Parallel()
	enc, err := NewCellEncoder(ANSI16(), QuadrantBlocks(), WithCache(100))
	if err != nil {
		t.Fatal(err)
	}
	f := solidFrame(8, 8, RGB{G: 200})
	for i := 0; i < 10; i++ {
		enc.Encode(f, Region{X0: 0, Y0: 0, X1: 4, Y1: 4})
	}
	hits, misses, rate := enc.CacheStats()
	if hits != 9 || misses != 1 {
		t.Errorf("Expected 9 hits and 1 miss, got %d and %d", hits, misses)
	}
	if rate != 0.9 {
		t.Errorf("Expected hit rate 0.9, got %v", rate)
	}
}

func TestNewCellEncoderValidation(t *testing.T) {
	t.Parallel()
	if _, err := NewCellEncoder(nil, QuadrantBlocks()); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("Expected ErrInvalidConfig without palette, got %v", err)
	}
	if _, err := NewCellEncoder(ANSI16(), nil); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("Expected ErrInvalidConfig without glyphs, got %v", err)
	}
}
