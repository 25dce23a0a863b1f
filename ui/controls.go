package ui

import (
	"fmt"
	"strings"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/snail/driver"
)

// PanelActions are one-shot requests made through panel buttons.
type PanelActions struct {
	ResetField  bool
	ResetCamera bool
}

// ControlPanel renders the right-side parameter panel.
type ControlPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
	visible  bool

	controls     driver.Controls
	folders      []Folder
	names        []string
	textureIndex int32
	comboOpen    bool
}

// NewControlPanel creates a panel holding initial, clamped to ranges.
func NewControlPanel(x, y, width int32, initial driver.Controls, names []string, ranges Ranges) *ControlPanel {
	c := &ControlPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
		visible:  true,
		folders:  Folders(ranges),
		names:    names,
	}
	c.controls = ClampControls(initial, c.folders)
	c.SelectTexture(TextureIndex(names, initial.Texture.Name))
	return c
}

// Controls returns the current control values.
func (c *ControlPanel) Controls() driver.Controls { return c.controls }

// SelectTexture activates the texture at index i in the texture list.
func (c *ControlPanel) SelectTexture(i int) {
	if i < 0 || i >= len(c.names) {
		return
	}
	c.textureIndex = int32(i)
	c.controls.Texture.Name = c.names[i]
}

// CycleTexture steps through the texture list.
func (c *ControlPanel) CycleTexture(delta int) {
	n := len(c.names)
	if n == 0 {
		return
	}
	c.SelectTexture(((int(c.textureIndex)+delta)%n + n) % n)
}

// Toggle switches panel visibility.
func (c *ControlPanel) Toggle() bool {
	c.visible = !c.visible
	return c.visible
}

// IsVisible returns whether the panel is shown.
func (c *ControlPanel) IsVisible() bool { return c.visible }

// Contains reports whether a screen point lies over the panel, so camera
// input can be suppressed while dragging sliders.
func (c *ControlPanel) Contains(p rl.Vector2) bool {
	if !c.visible {
		return false
	}
	return p.X >= float32(c.x) && p.X <= float32(c.x+c.width) && p.Y >= float32(c.y) && p.Y <= float32(c.y+c.height())
}

func (c *ControlPanel) height() int32 {
	t := c.renderer.Theme
	rows := int32(0)
	for _, f := range c.folders {
		if f.DynamicOnly && !c.controls.Dynamic() {
			continue
		}
		rows += 1 + 2*int32(len(f.Sliders))
	}
	// title, texture combo, buttons
	return t.Padding*2 + t.LineHeight*(rows+5) + t.SliderHeight*2
}

// Draw renders the panel and applies slider changes.
func (c *ControlPanel) Draw() PanelActions {
	var actions PanelActions
	if !c.visible {
		return actions
	}

	r := c.renderer
	t := r.Theme
	r.DrawPanel(c.x, c.y, c.width, c.height())

	x := c.x + t.Padding
	y := c.y + t.Padding
	inner := c.width - t.Padding*2

	rl.DrawText("Controls", x, y, 16, rl.White)
	y += t.LineHeight + 4

	// The combo is drawn after the sliders so its dropdown overlaps them.
	comboY := y
	y += t.SliderHeight + t.LineHeight

	for _, f := range c.folders {
		if f.DynamicOnly && !c.controls.Dynamic() {
			continue
		}
		y = r.DrawSectionHeader(x, y, f.Title)
		for _, s := range f.Sliders {
			value := s.Get(&c.controls)
			var next float32
			next, y = r.DrawSlider(x, y, inner, s.Label, fmt.Sprintf(s.Format, value),
				float32(value), float32(s.Range.Min), float32(s.Range.Max))
			if float64(next) != float64(float32(value)) {
				s.Set(&c.controls, s.Range.Clamp(float64(next)))
			}
		}
	}

	y += 4
	half := float32(inner-6) / 2
	if gui.Button(rl.Rectangle{X: float32(x), Y: float32(y), Width: half, Height: 24}, "Reset field") {
		actions.ResetField = true
	}
	if gui.Button(rl.Rectangle{X: float32(x) + half + 6, Y: float32(y), Width: half, Height: 24}, "Reset camera") {
		actions.ResetCamera = true
	}

	bounds := rl.Rectangle{X: float32(x), Y: float32(comboY), Width: float32(inner), Height: float32(t.SliderHeight + 4)}
	active := c.textureIndex
	if gui.DropdownBox(bounds, strings.Join(c.names, ";"), &active, c.comboOpen) {
		c.comboOpen = !c.comboOpen
	}
	if active != c.textureIndex {
		c.SelectTexture(int(active))
	}
	return actions
}
