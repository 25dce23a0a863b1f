package renderer

import (
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/snail/texture"
)

// TextureUploader keeps a GPU texture in sync with a CPU buffer. The texture
// is sampled with mirrored repeat in both directions.
type TextureUploader struct {
	tex    rl.Texture2D
	w, h   int
	pixels []color.RGBA
	loaded bool
}

// NewTextureUploader creates an empty uploader.
func NewTextureUploader() *TextureUploader {
	return &TextureUploader{}
}

// Upload copies buf to the GPU, reallocating the texture when its size
// changes.
func (t *TextureUploader) Upload(buf *texture.Buffer) {
	if buf == nil {
		return
	}
	if !t.loaded || buf.Width != t.w || buf.Height != t.h {
		t.Unload()
		img := rl.GenImageColor(buf.Width, buf.Height, rl.Black)
		t.tex = rl.LoadTextureFromImage(img)
		rl.UnloadImage(img)

		rl.SetTextureFilter(t.tex, rl.FilterBilinear)
		rl.SetTextureWrap(t.tex, rl.WrapMirrorRepeat)
		t.w, t.h = buf.Width, buf.Height
		t.loaded = true
	}
	t.pixels = buf.RGBA(t.pixels)
	rl.UpdateTexture(t.tex, t.pixels)
}

// Texture returns the GPU texture.
func (t *TextureUploader) Texture() rl.Texture2D { return t.tex }

// Loaded reports whether a texture has been uploaded.
func (t *TextureUploader) Loaded() bool { return t.loaded }

// Unload frees the GPU texture.
func (t *TextureUploader) Unload() {
	if t.loaded {
		rl.UnloadTexture(t.tex)
		t.loaded = false
	}
}
