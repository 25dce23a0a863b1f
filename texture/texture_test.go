package texture

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/pthm-cable/snail/field"
)

func TestSigmoidKnownValues(t *testing.T) {
	s := DefaultSigmoid()
	tests := []struct {
		name string
		v    float64
		want byte
	}{
		{"midpoint", 0.6, 127},
		{"far below", -100, 0},
		{"far above", 100, 255},
		{"NaN", math.NaN(), 0},
		{"+Inf", math.Inf(1), 255},
		{"-Inf", math.Inf(-1), 0},
		{"one", 1.0, byte(math.Floor(255 / (1 + math.Exp(-10*0.4))))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.Byte(tt.v); got != tt.want {
				t.Errorf("Byte(%v) = %d, want %d", tt.v, got, tt.want)
			}
		})
	}
}

func TestSigmoidZeroSteepness(t *testing.T) {
	s := Sigmoid{Steepness: 0, Midpoint: 0.5}
	for _, v := range []float64{-1, 0, 1, math.Inf(1), math.Inf(-1)} {
		if got := s.Byte(v); got != 127 {
			t.Errorf("Byte(%v) = %d, want 127", v, got)
		}
	}
}

func TestSigmoidMonotonic(t *testing.T) {
	s := DefaultSigmoid()
	prev := s.Byte(math.Inf(-1))
	for v := -5.0; v <= 5.0; v += 0.001 {
		b := s.Byte(v)
		if b < prev {
			t.Fatalf("Byte(%v) = %d after %d", v, b, prev)
		}
		prev = b
	}
	if last := s.Byte(math.Inf(1)); last < prev {
		t.Errorf("+Inf gives %d below %d", last, prev)
	}
}

func TestRasterizeVariantsAgree(t *testing.T) {
	values := []float64{-1, 0, 0.25, 0.5, 0.6, 0.75, 1, 2, math.NaN(), math.Inf(1)}
	s := Sigmoid{Steepness: 7, Midpoint: 0.3}

	alloc := Rasterize(values, s)
	dst := make([]byte, len(values))
	for i := range dst {
		dst[i] = 0xAA
	}
	if err := RasterizeInto(dst, values, s); err != nil {
		t.Fatal(err)
	}
	for i := range values {
		if alloc[i] != dst[i] {
			t.Errorf("index %d: allocating %d, in place %d", i, alloc[i], dst[i])
		}
	}
}

func TestRasterizeIntoShape(t *testing.T) {
	err := RasterizeInto(make([]byte, 3), make([]float64, 4), DefaultSigmoid())
	if !errors.Is(err, ErrShape) {
		t.Errorf("expected ErrShape, got %v", err)
	}
}

func TestBufferFromGridAndUpdate(t *testing.T) {
	g := field.NewGrid(4, 6)
	for i := range g.Data {
		g.Data[i] = float64(i) / float64(len(g.Data))
	}
	s := DefaultSigmoid()

	b := FromGrid(g, s)
	if b.Width != 6 || b.Height != 4 || b.Channels != 3 || len(b.Pix) != 72 {
		t.Fatalf("unexpected buffer %dx%dx%d len %d", b.Width, b.Height, b.Channels, len(b.Pix))
	}

	g.Set(1, 2, 0, 10)
	if err := b.Update(g, s); err != nil {
		t.Fatal(err)
	}
	if got := b.Texel(2, 1)[0]; got != 255 {
		t.Errorf("updated texel = %d, want 255", got)
	}

	if err := b.Update(field.NewGrid(5, 6), s); !errors.Is(err, ErrShape) {
		t.Errorf("expected ErrShape for mismatched grid, got %v", err)
	}
}

func TestBufferRGBA(t *testing.T) {
	b := NewBuffer(2, 1, 3)
	copy(b.Pix, []byte{1, 2, 3, 4, 5, 6})
	px := b.RGBA(nil)
	want := []color.RGBA{{1, 2, 3, 255}, {4, 5, 6, 255}}
	for i := range want {
		if px[i] != want[i] {
			t.Errorf("pixel %d = %v, want %v", i, px[i], want[i])
		}
	}

	// capacity is reused
	again := b.RGBA(px)
	if &again[0] != &px[0] {
		t.Error("RGBA reallocated a large enough slice")
	}
}

func TestMirroredRepeat(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0, 0},
		{0.25, 0.25},
		{1, 1},
		{1.25, 0.75},
		{2, 0},
		{2.5, 0.5},
		{3.75, 0.25},
		{-0.25, 0.25},
		{-1.5, 0.5},
	}
	for _, tt := range tests {
		if got := MirroredRepeat(tt.in); math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("MirroredRepeat(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestSampleMirrors(t *testing.T) {
	b := NewBuffer(4, 1, 1)
	copy(b.Pix, []byte{10, 20, 30, 40})
	if got := b.Sample(0.1, 0)[0]; got != 10 {
		t.Errorf("Sample(0.1) = %d, want 10", got)
	}
	if got := b.Sample(1.9, 0)[0]; got != 10 {
		t.Errorf("Sample(1.9) = %d, want 10", got)
	}
	if got := b.Sample(1.0, 0)[0]; got != 40 {
		t.Errorf("Sample(1.0) = %d, want 40", got)
	}
}

func TestLoadAndFromImage(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 3, 2))
	img.Set(0, 0, color.NRGBA{R: 255, A: 255})
	img.Set(2, 1, color.NRGBA{B: 200, G: 50, A: 255})

	dir := t.TempDir()
	path := filepath.Join(dir, "tiny.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
	f.Close()

	b, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if b.Width != 3 || b.Height != 2 || b.Channels != 3 {
		t.Fatalf("unexpected shape %dx%dx%d", b.Width, b.Height, b.Channels)
	}
	if got := b.Texel(0, 0); got[0] != 255 || got[1] != 0 || got[2] != 0 {
		t.Errorf("texel (0,0) = %v", got)
	}
	if got := b.Texel(2, 1); got[0] != 0 || got[1] != 50 || got[2] != 200 {
		t.Errorf("texel (2,1) = %v", got)
	}

	if _, err := Load(filepath.Join(dir, "missing.png")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLibraryFallback(t *testing.T) {
	lib := NewLibrary(t.TempDir())
	b := lib.Get("angelfish-1")
	if b == nil || b.Width == 0 || len(b.Pix) != b.Width*b.Height*b.Channels {
		t.Fatalf("fallback buffer malformed: %+v", b)
	}
	if lib.Get("angelfish-1") != b {
		t.Error("library did not cache the fallback")
	}
}

func TestNames(t *testing.T) {
	names := Names()
	if len(names) != len(StaticNames)+1 || names[len(names)-1] != Dynamic {
		t.Errorf("Names() = %v", names)
	}
}
