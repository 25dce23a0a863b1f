package ui

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

// OverlayID uniquely identifies an overlay.
type OverlayID string

// Standard overlay IDs.
const (
	OverlayControls   OverlayID = "controls"
	OverlayHUD        OverlayID = "hud"
	OverlayAxes       OverlayID = "axes"
	OverlayFieldStats OverlayID = "field_stats"
	OverlayPerf       OverlayID = "perf"
)

// OverlayDescriptor defines an overlay that can be toggled.
type OverlayDescriptor struct {
	ID       OverlayID
	Name     string
	Key      int32  // 0 = no key
	KeyLabel string // e.g. "H"
	Enabled  bool   // initial state
}

// OverlayRegistry manages overlay state and metadata.
type OverlayRegistry struct {
	descriptors []OverlayDescriptor
	byID        map[OverlayID]OverlayDescriptor
	enabled     map[OverlayID]bool
}

// NewOverlayRegistry creates a registry with default overlays.
func NewOverlayRegistry() *OverlayRegistry {
	reg := &OverlayRegistry{
		byID:    make(map[OverlayID]OverlayDescriptor),
		enabled: make(map[OverlayID]bool),
	}
	reg.registerDefaults()
	return reg
}

func (r *OverlayRegistry) registerDefaults() {
	r.Register(OverlayDescriptor{ID: OverlayControls, Name: "Controls", Key: rl.KeyTab, KeyLabel: "Tab", Enabled: true})
	r.Register(OverlayDescriptor{ID: OverlayHUD, Name: "HUD", Key: rl.KeyH, KeyLabel: "H", Enabled: true})
	r.Register(OverlayDescriptor{ID: OverlayAxes, Name: "Axes", Key: rl.KeyX, KeyLabel: "X", Enabled: true})
	r.Register(OverlayDescriptor{ID: OverlayFieldStats, Name: "Field Stats", Key: rl.KeyF, KeyLabel: "F"})
	r.Register(OverlayDescriptor{ID: OverlayPerf, Name: "Performance", Key: rl.KeyP, KeyLabel: "P"})
}

// Register adds an overlay to the registry.
func (r *OverlayRegistry) Register(desc OverlayDescriptor) {
	r.descriptors = append(r.descriptors, desc)
	r.byID[desc.ID] = desc
	r.enabled[desc.ID] = desc.Enabled
}

// Toggle switches an overlay on/off.
func (r *OverlayRegistry) Toggle(id OverlayID) bool {
	if _, ok := r.byID[id]; !ok {
		return false
	}
	r.enabled[id] = !r.enabled[id]
	return r.enabled[id]
}

// SetEnabled explicitly sets an overlay's state.
func (r *OverlayRegistry) SetEnabled(id OverlayID, enabled bool) {
	if _, ok := r.byID[id]; ok {
		r.enabled[id] = enabled
	}
}

// IsEnabled returns whether an overlay is active.
func (r *OverlayRegistry) IsEnabled(id OverlayID) bool {
	return r.enabled[id]
}

// All returns all registered overlays in registration order.
func (r *OverlayRegistry) All() []OverlayDescriptor {
	return r.descriptors
}

// HandleKeyPress checks if a key corresponds to an overlay toggle.
// Returns the overlay ID and new state if a toggle occurred.
func (r *OverlayRegistry) HandleKeyPress(key int32) (OverlayID, bool, bool) {
	for _, desc := range r.descriptors {
		if desc.Key == key {
			return desc.ID, r.Toggle(desc.ID), true
		}
	}
	return "", false, false
}

// Legend returns a one-line key legend for the overlays.
func (r *OverlayRegistry) Legend() string {
	s := ""
	for i, desc := range r.descriptors {
		if desc.KeyLabel == "" {
			continue
		}
		if i > 0 {
			s += " | "
		}
		s += "[" + desc.KeyLabel + "] " + desc.Name
	}
	return s
}
