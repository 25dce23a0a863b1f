package telemetry

import (
	"fmt"
	"log/slog"
	"math"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkPatternOnset     BookmarkType = "pattern_onset"
	BookmarkPredatorCollapse BookmarkType = "predator_collapse"
	BookmarkDivergence       BookmarkType = "divergence"
	BookmarkSteadyPattern    BookmarkType = "steady_pattern"
)

// Detector thresholds.
const (
	PatternStdThreshold  = 0.05 // predator stddev that counts as patterned
	CollapseMaxThreshold = 1e-3 // predator max below which the pattern has died out
	SteadyWindows        = 5    // consecutive steady windows before steady_pattern fires
	steadyCoverageDelta  = 0.01
)

// Bookmark represents an automatically triggered bookmark.
type Bookmark struct {
	Type        BookmarkType `csv:"type"`
	Tick        int32        `csv:"tick"`
	Steps       int          `csv:"steps"`
	Description string       `csv:"description"`
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark() {
	slog.Info("bookmark",
		"type", string(b.Type),
		"tick", b.Tick,
		"steps", b.Steps,
		"description", b.Description,
	)
}

// BookmarkDetector watches successive windows for qualitative changes in
// the dynamic field. Each bookmark type fires once until its condition
// clears.
type BookmarkDetector struct {
	patterned    bool
	diverged     bool
	steadyCount  int
	lastCoverage float64
	haveLast     bool
}

// NewBookmarkDetector creates a detector.
func NewBookmarkDetector() *BookmarkDetector {
	return &BookmarkDetector{}
}

// Check analyzes the latest stats and returns any triggered bookmarks.
// Windows without field steps are ignored.
func (bd *BookmarkDetector) Check(stats WindowStats) []Bookmark {
	if stats.Steps == 0 {
		bd.Reset()
		return nil
	}

	var bookmarks []Bookmark
	mark := func(t BookmarkType, format string, args ...any) {
		bookmarks = append(bookmarks, Bookmark{
			Type:        t,
			Tick:        stats.WindowEndTick,
			Steps:       stats.Steps,
			Description: fmt.Sprintf(format, args...),
		})
	}

	if stats.NonFinite > 0 {
		if !bd.diverged {
			bd.diverged = true
			mark(BookmarkDivergence, "%d non-finite values after %d steps", stats.NonFinite, stats.Steps)
		}
		return bookmarks
	}
	bd.diverged = false

	switch {
	case !bd.patterned && stats.PredStd >= PatternStdThreshold:
		bd.patterned = true
		mark(BookmarkPatternOnset, "predator stddev %.3f at f=%.4f k=%.4f", stats.PredStd, stats.F, stats.K)
	case bd.patterned && stats.PredMax < CollapseMaxThreshold:
		bd.patterned = false
		mark(BookmarkPredatorCollapse, "predator max fell to %.2g", stats.PredMax)
	}

	if bd.patterned && bd.haveLast && math.Abs(stats.Coverage-bd.lastCoverage) < steadyCoverageDelta {
		bd.steadyCount++
	} else {
		bd.steadyCount = 0
	}
	if bd.steadyCount == SteadyWindows {
		mark(BookmarkSteadyPattern, "coverage %.3f stable for %d windows", stats.Coverage, SteadyWindows)
	}

	bd.lastCoverage = stats.Coverage
	bd.haveLast = true
	return bookmarks
}

// Reset forgets all history, for use after the field is reseeded. A nil
// detector ignores the call.
func (bd *BookmarkDetector) Reset() {
	if bd == nil {
		return
	}
	*bd = BookmarkDetector{}
}
