package ui

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Title     string
	Texture   string
	Steps     int
	Method    string
	F, K      float64
	Vertices  int
	Triangles int
	Tick      int32
	FPS       int32
	Paused    bool
}

// HUD renders the main heads-up display.
type HUD struct {
	renderer *Renderer
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{
		renderer: NewRenderer(),
	}
}

// Draw renders the HUD.
func (h *HUD) Draw(data HUDData) {
	rl.DrawText(data.Title, 10, 10, 20, rl.White)

	rl.DrawText(
		fmt.Sprintf("Texture: %s | Mesh: %d vertices, %d triangles", data.Texture, data.Vertices, data.Triangles),
		10, 35, 16, rl.LightGray,
	)

	if data.Steps > 0 || data.Method != "" {
		rl.DrawText(
			fmt.Sprintf("Steps: %d (%s) | f=%.4f k=%.4f", data.Steps, data.Method, data.F, data.K),
			10, 55, 16, rl.LightGray,
		)
	}

	rl.DrawText(fmt.Sprintf("Frame: %d | FPS: %d", data.Tick, data.FPS), 10, 75, 16, rl.LightGray)

	if data.Paused {
		rl.DrawText("PAUSED", 10, 95, 16, rl.Yellow)
	}
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-25, 14, rl.Gray)
}

// FieldStatsData summarizes the live field for display.
type FieldStatsData struct {
	PreyMean     float64
	PredatorMean float64
	PredatorMax  float64
	Coverage     float64
	NonFinite    int
}

// FieldPanel renders statistics of the dynamic texture.
type FieldPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
}

// NewFieldPanel creates a field statistics panel.
func NewFieldPanel(x, y, width int32) *FieldPanel {
	return &FieldPanel{renderer: NewRenderer(), x: x, y: y, width: width}
}

// Draw renders the panel.
func (f *FieldPanel) Draw(data FieldStatsData) {
	r := f.renderer
	t := r.Theme
	r.DrawPanel(f.x, f.y, f.width, t.LineHeight*6+t.Padding*2)

	x := f.x + t.Padding
	y := f.y + t.Padding
	rl.DrawText("Field", x, y, 14, rl.White)
	y += t.LineHeight + 2

	y = r.DrawLabelValue(x, y, "Prey mean", fmt.Sprintf("%.3f", data.PreyMean))
	y = r.DrawLabelValue(x, y, "Pred mean", fmt.Sprintf("%.3f", data.PredatorMean))
	y = r.DrawLabelValue(x, y, "Pred max", fmt.Sprintf("%.3f", data.PredatorMax))
	y = r.DrawBar(x, y, "Coverage", float32(data.Coverage), f.width-t.Padding*2)
	if data.NonFinite > 0 {
		rl.DrawText(fmt.Sprintf("%d non-finite values", data.NonFinite), x, y, t.FontSize, rl.Red)
	}
}

// PerfPanelData holds performance metrics for display.
type PerfPanelData struct {
	PhaseTimes map[string]time.Duration
	Total      time.Duration
}

// PerfPanel renders the frame phase timing panel.
type PerfPanel struct {
	renderer *Renderer
	x, y     int32
}

// NewPerfPanel creates a new performance panel.
func NewPerfPanel(x, y int32) *PerfPanel {
	return &PerfPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
	}
}

// SetPosition updates the panel position.
func (p *PerfPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// Draw renders the performance panel with phases in the given order.
func (p *PerfPanel) Draw(data PerfPanelData, phases []string) {
	x := p.x
	y := p.y

	rl.DrawText("Frame Performance", x, y, 16, rl.White)
	y += 20

	rl.DrawText(fmt.Sprintf("Total: %s", data.Total.Round(time.Microsecond)), x, y, 14, rl.Yellow)
	y += 16

	for _, name := range phases {
		avg := data.PhaseTimes[name]
		pct := float64(0)
		if data.Total > 0 {
			pct = float64(avg) / float64(data.Total) * 100
		}

		color := rl.LightGray
		if pct > 50 {
			color = rl.Red
		} else if pct > 25 {
			color = rl.Orange
		}

		rl.DrawText(
			fmt.Sprintf("%-10s %8s %5.1f%%", name, avg.Round(time.Microsecond), pct),
			x, y, 12, color,
		)
		y += 14
	}
}
