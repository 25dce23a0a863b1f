package telemetry

import (
	"log/slog"
	"sort"
	"time"
)

// Phase names for one frame.
const (
	PhaseInput     = "input"
	PhaseSimulate  = "simulate"
	PhaseRasterize = "rasterize"
	PhaseMesh      = "mesh"
	PhaseUpload    = "upload"
	PhaseTelemetry = "telemetry"
)

// Phases lists the frame phases in execution order.
var Phases = [...]string{
	PhaseInput, PhaseSimulate, PhaseRasterize, PhaseMesh, PhaseUpload, PhaseTelemetry,
}

const numPhases = len(Phases)

// phaseIndex returns the slot of a phase name, or -1 for unknown names.
func phaseIndex(name string) int {
	for i, p := range Phases {
		if p == name {
			return i
		}
	}
	return -1
}

// frameSample holds the timing of one update.
type frameSample struct {
	total  time.Duration
	phases [numPhases]time.Duration
}

// PerfCollector times update phases over a rolling window of frames.
// Time spent in unknown phases counts towards the frame total only.
// A nil collector ignores all calls.
type PerfCollector struct {
	now func() time.Time

	samples []frameSample
	next    int
	count   int

	cur        frameSample
	frameStart time.Time
	phaseStart time.Time
	phase      int // current phase slot, -1 for none or unknown
	open       bool

	// Draw-to-draw interval in windowed mode
	lastPresent  time.Time
	drawInterval time.Duration
}

// NewPerfCollector creates a collector averaging over windowSize frames.
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 60
	}
	return &PerfCollector{
		now:     time.Now,
		samples: make([]frameSample, windowSize),
		phase:   -1,
	}
}

// BeginFrame starts timing an update.
func (p *PerfCollector) BeginFrame() {
	if p == nil {
		return
	}
	p.frameStart = p.now()
	p.cur = frameSample{}
	p.phase = -1
	p.open = true
}

// StartPhase closes the running phase and starts the named one.
func (p *PerfCollector) StartPhase(phase string) {
	if p == nil || !p.open {
		return
	}
	now := p.now()
	p.closePhase(now)
	p.phaseStart = now
	p.phase = phaseIndex(phase)
}

func (p *PerfCollector) closePhase(now time.Time) {
	if p.phase >= 0 {
		p.cur.phases[p.phase] += now.Sub(p.phaseStart)
	}
}

// EndFrame finishes the update and stores its sample.
func (p *PerfCollector) EndFrame() {
	if p == nil || !p.open {
		return
	}
	now := p.now()
	p.closePhase(now)
	p.cur.total = now.Sub(p.frameStart)

	p.samples[p.next] = p.cur
	p.next = (p.next + 1) % len(p.samples)
	if p.count < len(p.samples) {
		p.count++
	}
	p.phase = -1
	p.open = false
}

// RecordPresent marks a drawn frame; the interval between calls gives FPS.
func (p *PerfCollector) RecordPresent() {
	if p == nil {
		return
	}
	now := p.now()
	if !p.lastPresent.IsZero() {
		p.drawInterval = now.Sub(p.lastPresent)
	}
	p.lastPresent = now
}

// PerfStats holds aggregated update timings.
type PerfStats struct {
	Frames int // samples in the window

	AvgUpdate time.Duration
	MinUpdate time.Duration
	MaxUpdate time.Duration
	P95Update time.Duration

	// Average duration and share of the average update, per phase name
	PhaseAvg map[string]time.Duration
	PhasePct map[string]float64

	DrawInterval time.Duration
	FPS          float64
}

// Stats aggregates the current window.
func (p *PerfCollector) Stats() PerfStats {
	stats := PerfStats{
		Frames:       p.count,
		PhaseAvg:     make(map[string]time.Duration, numPhases),
		PhasePct:     make(map[string]float64, numPhases),
		DrawInterval: p.drawInterval,
	}
	if p.drawInterval > 0 {
		stats.FPS = float64(time.Second) / float64(p.drawInterval)
	}
	if p.count == 0 {
		return stats
	}

	var sum time.Duration
	var phaseSum [numPhases]time.Duration
	totals := make([]float64, p.count)
	for i, s := range p.samples[:p.count] {
		sum += s.total
		totals[i] = float64(s.total)
		for j, d := range s.phases {
			phaseSum[j] += d
		}
	}
	sort.Float64s(totals)

	n := time.Duration(p.count)
	stats.AvgUpdate = sum / n
	stats.MinUpdate = time.Duration(totals[0])
	stats.MaxUpdate = time.Duration(totals[len(totals)-1])
	stats.P95Update = time.Duration(Percentile(totals, 0.95))

	for j, name := range Phases {
		if phaseSum[j] == 0 {
			continue
		}
		avg := phaseSum[j] / n
		stats.PhaseAvg[name] = avg
		if stats.AvgUpdate > 0 {
			stats.PhasePct[name] = float64(avg) / float64(stats.AvgUpdate) * 100
		}
	}
	return stats
}

// LogStats logs the window at info level.
func (s PerfStats) LogStats() {
	slog.Info("perf", "stats", s)
}

// LogValue implements slog.LogValuer for structured logging.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int("frames", s.Frames),
		slog.Int64("avg_update_us", s.AvgUpdate.Microseconds()),
		slog.Int64("p95_update_us", s.P95Update.Microseconds()),
		slog.Int64("max_update_us", s.MaxUpdate.Microseconds()),
	}
	if s.FPS > 0 {
		attrs = append(attrs, slog.Float64("fps", s.FPS))
	}
	for _, phase := range Phases {
		if pct, ok := s.PhasePct[phase]; ok && pct > 0.1 {
			attrs = append(attrs, slog.Float64(phase+"_pct", float64(int(pct*10))/10))
		}
	}
	return slog.GroupValue(attrs...)
}

// PerfStatsCSV is the perf.csv row.
type PerfStatsCSV struct {
	WindowEnd    int32   `csv:"window_end"`
	Frames       int     `csv:"frames"`
	AvgUpdateUS  int64   `csv:"avg_update_us"`
	MinUpdateUS  int64   `csv:"min_update_us"`
	MaxUpdateUS  int64   `csv:"max_update_us"`
	P95UpdateUS  int64   `csv:"p95_update_us"`
	FPS          float64 `csv:"fps"`
	InputPct     float64 `csv:"input_pct"`
	SimulatePct  float64 `csv:"simulate_pct"`
	RasterizePct float64 `csv:"rasterize_pct"`
	MeshPct      float64 `csv:"mesh_pct"`
	UploadPct    float64 `csv:"upload_pct"`
	TelemetryPct float64 `csv:"telemetry_pct"`
}

// ToCSV flattens s into a perf.csv row.
func (s PerfStats) ToCSV(windowEnd int32) PerfStatsCSV {
	return PerfStatsCSV{
		WindowEnd:    windowEnd,
		Frames:       s.Frames,
		AvgUpdateUS:  s.AvgUpdate.Microseconds(),
		MinUpdateUS:  s.MinUpdate.Microseconds(),
		MaxUpdateUS:  s.MaxUpdate.Microseconds(),
		P95UpdateUS:  s.P95Update.Microseconds(),
		FPS:          s.FPS,
		InputPct:     s.PhasePct[PhaseInput],
		SimulatePct:  s.PhasePct[PhaseSimulate],
		RasterizePct: s.PhasePct[PhaseRasterize],
		MeshPct:      s.PhasePct[PhaseMesh],
		UploadPct:    s.PhasePct[PhaseUpload],
		TelemetryPct: s.PhasePct[PhaseTelemetry],
	}
}
