package ansify

import (
	"errors"
	"testing"
)

func TestDimensions(t *testing.T) {
	t.Parallel()
	corr2, err := HalfBlocks().WithAspectCorrection(2.0)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name       string
		srcW, srcH int
		policy     SizePolicy
		glyphs     *GlyphLibrary
		wantCols   int
		wantRows   int
	}{
		{"width only, corr 2", 100, 50, SizePolicy{Width: 40}, corr2, 40, 40},
		{"width only, corr 2, odd", 100, 50, SizePolicy{Width: 33}, corr2, 33, 33},
		{"height only, corr 2", 100, 50, SizePolicy{Height: 10}, corr2, 10, 10},
		{"both", 100, 50, SizePolicy{Width: 30, Height: 7}, corr2, 30, 7},
		{"neither", 100, 50, SizePolicy{}, corr2, 100, 50},
		{"quadrants width", 100, 50, SizePolicy{Width: 80}, QuadrantBlocks(), 80, 40},
		{"halves width", 100, 50, SizePolicy{Width: 80}, HalfBlocks(), 80, 20},
		{"halves height", 100, 50, SizePolicy{Height: 20}, HalfBlocks(), 80, 20},
		{"rounds half away from zero", 4, 1, SizePolicy{Width: 2}, FullBlocks(), 2, 1},
	}
	for _, tt := range tests {
		cols, rows, err := Dimensions(tt.srcW, tt.srcH, tt.policy, tt.glyphs)
		if err != nil {
			t.Errorf("%s: unexpected error %v", tt.name, err)
			continue
		}
		if cols != tt.wantCols || rows != tt.wantRows {
			t.Errorf("%s: expected %dx%d, got %dx%d", tt.name, tt.wantCols, tt.wantRows, cols, rows)
		}
	}
}

func TestDimensionsErrors(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name       string
		srcW, srcH int
		policy     SizePolicy
	}{
		{"rounds to zero rows", 1000, 1, SizePolicy{Width: 10}},
		{"rounds to zero cols", 1, 1000, SizePolicy{Height: 10}},
		{"empty source", 0, 10, SizePolicy{Width: 10}},
		{"negative request", 10, 10, SizePolicy{Width: -1}},
	}
	for _, tt := range tests {
		if _, _, err := Dimensions(tt.srcW, tt.srcH, tt.policy, FullBlocks()); !errors.Is(err, ErrInvalidDimensions) {
			t.Errorf("%s: expected ErrInvalidDimensions, got %v", tt.name, err)
		}
	}
}

func TestPartitionCoversEveryPixelOnce(t *testing.T) {
	t.Parallel()
	for _, total := range []int{1, 7, 64, 100, 101} {
		for _, n := range []int{1, 3, 7, 64, 150} {
			spans := partition(total, n)
			if len(spans) != n {
				t.Fatalf("partition(%d, %d): expected %d spans, got %d", total, n, n, len(spans))
			}
			next := 0
			for i, s := range spans {
				if s.Start != next {
					t.Fatalf("partition(%d, %d): span %d starts at %d, expected %d", total, n, i, s.Start, next)
				}
				if s.Len() < 0 {
					t.Fatalf("partition(%d, %d): span %d is negative", total, n, i)
				}
				next = s.End
			}
			if next != total {
				t.Errorf("partition(%d, %d): spans end at %d, expected %d", total, n, next, total)
			}
		}
	}
}

func TestLayoutRegions(t *testing.T) {
	t.Parallel()
	l, err := NewLayout(10, 4, SizePolicy{Width: 3, Height: 8}, QuadrantBlocks())
	if err != nil {
		t.Fatal(err)
	}

	r := l.Region(1, 0)
	if r.X0 != 3 || r.X1 != 6 {
		t.Errorf("Expected column 1 to cover [3,6), got [%v,%v)", r.X0, r.X1)
	}
	// 8 rows over 4 pixels: every other row span is empty and falls back
	// to its fractional interval.
	for row := 0; row < l.Rows; row++ {
		r := l.Region(0, row)
		if r.Y1 <= r.Y0 {
			t.Errorf("Row %d: empty region [%v,%v)", row, r.Y0, r.Y1)
		}
		if r.Y0 < 0 || r.Y1 > 4 {
			t.Errorf("Row %d: region [%v,%v) outside the source", row, r.Y0, r.Y1)
		}
	}
}
