package telemetry

import "testing"

func hasBookmark(bms []Bookmark, t BookmarkType) bool {
	for _, b := range bms {
		if b.Type == t {
			return true
		}
	}
	return false
}

func TestBookmarkDetector_PatternOnsetOnce(t *testing.T) {
	bd := NewBookmarkDetector()

	if bms := bd.Check(WindowStats{Steps: 10, PredStd: 0.01, PredMax: 1}); len(bms) != 0 {
		t.Fatalf("unexpected bookmarks: %v", bms)
	}
	bms := bd.Check(WindowStats{WindowEndTick: 60, Steps: 20, PredStd: 0.2, PredMax: 0.8})
	if !hasBookmark(bms, BookmarkPatternOnset) {
		t.Fatalf("expected pattern_onset, got %v", bms)
	}
	if bms[0].Tick != 60 || bms[0].Steps != 20 {
		t.Errorf("bookmark position = tick %d steps %d", bms[0].Tick, bms[0].Steps)
	}
	if bms := bd.Check(WindowStats{Steps: 30, PredStd: 0.3, PredMax: 0.8}); hasBookmark(bms, BookmarkPatternOnset) {
		t.Error("pattern_onset fired twice")
	}
}

func TestBookmarkDetector_Collapse(t *testing.T) {
	bd := NewBookmarkDetector()
	bd.Check(WindowStats{Steps: 10, PredStd: 0.2, PredMax: 0.9})

	bms := bd.Check(WindowStats{Steps: 20, PredStd: 0, PredMax: 1e-5})
	if !hasBookmark(bms, BookmarkPredatorCollapse) {
		t.Errorf("expected predator_collapse, got %v", bms)
	}
}

func TestBookmarkDetector_Divergence(t *testing.T) {
	bd := NewBookmarkDetector()
	bms := bd.Check(WindowStats{Steps: 5, NonFinite: 12})
	if !hasBookmark(bms, BookmarkDivergence) {
		t.Fatalf("expected divergence, got %v", bms)
	}
	if bms := bd.Check(WindowStats{Steps: 6, NonFinite: 40}); len(bms) != 0 {
		t.Errorf("divergence fired again: %v", bms)
	}
}

func TestBookmarkDetector_SteadyPattern(t *testing.T) {
	bd := NewBookmarkDetector()
	var fired int
	for i := 0; i < SteadyWindows+3; i++ {
		bms := bd.Check(WindowStats{Steps: 10 * (i + 1), PredStd: 0.2, PredMax: 0.9, Coverage: 0.3})
		if hasBookmark(bms, BookmarkSteadyPattern) {
			fired++
		}
	}
	if fired != 1 {
		t.Errorf("steady_pattern fired %d times, want 1", fired)
	}
}

func TestBookmarkDetector_ResetsWithoutSteps(t *testing.T) {
	bd := NewBookmarkDetector()
	bd.Check(WindowStats{Steps: 10, PredStd: 0.2, PredMax: 0.9})
	bd.Check(WindowStats{})

	bms := bd.Check(WindowStats{Steps: 10, PredStd: 0.2, PredMax: 0.9})
	if !hasBookmark(bms, BookmarkPatternOnset) {
		t.Error("detector did not reset when the field stopped")
	}
}
