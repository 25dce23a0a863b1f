package texture

import (
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"
	"log/slog"
	"os"
	"path/filepath"
)

// Dynamic is the texture name that selects the live reaction-diffusion field.
const Dynamic = "dynamic"

// StaticNames lists the bundled texture images, in menu order.
var StaticNames = []string{
	"angelfish-1", "angelfish-2",
	"gierer-meinhardt-1", "gierer-meinhardt-2",
	"gray-scott-corals-1", "gray-scott-corals-2",
	"gray-scott-spirals-1", "gray-scott-spirals-2",
	"pred-prey-1", "pred-prey-2",
}

// Names returns the static names followed by Dynamic.
func Names() []string {
	names := make([]string, 0, len(StaticNames)+1)
	names = append(names, StaticNames...)
	return append(names, Dynamic)
}

// FromImage converts img into a 3-channel buffer. Alpha is dropped.
func FromImage(img image.Image) *Buffer {
	bounds := img.Bounds()
	b := NewBuffer(bounds.Dx(), bounds.Dy(), 3)
	i := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			b.Pix[i] = c.R
			b.Pix[i+1] = c.G
			b.Pix[i+2] = c.B
			i += 3
		}
	}
	return b
}

// Load decodes the image at path into a buffer.
func Load(path string) (*Buffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening texture: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decoding texture %s: %w", path, err)
	}
	return FromImage(img), nil
}

// Checker generates a two-tone 3-channel checkerboard with square cells.
func Checker(width, height, cell int, a, b color.RGBA) *Buffer {
	if cell < 1 {
		cell = 1
	}
	buf := NewBuffer(width, height, 3)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			c := a
			if (x/cell+y/cell)%2 == 1 {
				c = b
			}
			p := buf.Texel(x, y)
			p[0], p[1], p[2] = c.R, c.G, c.B
		}
	}
	return buf
}

// Library loads static textures from a directory on first use and caches
// them. Missing or unreadable files fall back to a checkerboard.
type Library struct {
	dir   string
	cache map[string]*Buffer
}

// NewLibrary returns a library reading <dir>/<name>.png.
func NewLibrary(dir string) *Library {
	return &Library{dir: dir, cache: make(map[string]*Buffer)}
}

// Get returns the buffer for a static texture name.
func (l *Library) Get(name string) *Buffer {
	if b, ok := l.cache[name]; ok {
		return b
	}
	path := filepath.Join(l.dir, name+".png")
	b, err := Load(path)
	if err != nil {
		slog.Warn("static texture unavailable, using checker", "name", name, "error", err)
		b = Checker(256, 256, 32,
			color.RGBA{R: 200, G: 170, B: 120, A: 255},
			color.RGBA{R: 90, G: 60, B: 40, A: 255})
	}
	l.cache[name] = b
	return b
}
