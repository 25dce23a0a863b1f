package telemetry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pthm-cable/snail/texture"
)

func TestOutputManager_Disabled(t *testing.T) {
	om, err := NewOutputManager("")
	if err != nil || om != nil {
		t.Fatalf("expected nil manager, got %v, %v", om, err)
	}
	if err := om.WriteTelemetry(WindowStats{}); err != nil {
		t.Error(err)
	}
	if err := om.Close(); err != nil {
		t.Error(err)
	}
}

func TestOutputManager_CSVHeaderOnce(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "run")
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		if err := om.WriteTelemetry(WindowStats{WindowEndTick: int32(i), Method: "rk4"}); err != nil {
			t.Fatal(err)
		}
	}
	if err := om.WriteBookmark(Bookmark{Type: BookmarkPatternOnset, Tick: 5}); err != nil {
		t.Fatal(err)
	}
	if err := om.Close(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "telemetry.csv"))
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected header + 3 rows, got %d lines", len(lines))
	}
	if !strings.HasPrefix(lines[0], "window_end,") {
		t.Errorf("unexpected header %q", lines[0])
	}
	if strings.Contains(lines[0], "WindowStartTick") {
		t.Error("ignored column leaked into header")
	}

	bm, err := os.ReadFile(filepath.Join(dir, "bookmarks.csv"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(bm), "pattern_onset") {
		t.Errorf("bookmark not written: %q", bm)
	}
}

func TestOutputManager_WriteTexture(t *testing.T) {
	om, err := NewOutputManager(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer om.Close()

	buf := texture.NewBuffer(4, 2, 3)
	buf.Pix[0] = 255
	if err := om.WriteTexture("field", buf); err != nil {
		t.Fatal(err)
	}
	back, err := texture.Load(filepath.Join(om.Dir(), "field.png"))
	if err != nil {
		t.Fatal(err)
	}
	if back.Width != 4 || back.Height != 2 || back.Texel(0, 0)[0] != 255 {
		t.Errorf("round trip mismatch: %dx%d %v", back.Width, back.Height, back.Texel(0, 0))
	}
}
