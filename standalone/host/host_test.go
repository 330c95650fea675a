package host

import (
	"encoding/binary"
	"image"
	"testing"
	"time"

	emucore "github.com/nikitaolenych123-coder/pxs3c/api"
	"github.com/nikitaolenych123-coder/pxs3c/standalone"
	"github.com/nikitaolenych123-coder/pxs3c/storage"
)

func TestBootLabel(t *testing.T) {
	tests := []struct {
		name     string
		state    standalone.RunState
		expected string
	}{
		{"nothing loaded", standalone.RunState{Ready: true}, "Boot Game"},
		{"running", standalone.RunState{Ready: true, Loaded: true, Running: true}, "Pause"},
		{"paused", standalone.RunState{Ready: true, Loaded: true}, "Resume"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := bootLabel(tc.state); got != tc.expected {
				t.Errorf("bootLabel(%+v) = %q, want %q", tc.state, got, tc.expected)
			}
		})
	}
}

func TestEntryLabel(t *testing.T) {
	tests := []struct {
		entry    storage.CatalogEntry
		expected string
	}{
		{storage.CatalogEntry{Title: "EBOOT.BIN", Kind: emucore.KindExecutable}, "EBOOT.BIN  ·  Executable"},
		{storage.CatalogEntry{Title: "Game", Kind: emucore.KindDiscImage}, "Game  ·  Disc image"},
		{storage.CatalogEntry{Title: "Odd", Kind: emucore.KindUnsupported}, "Odd  ·  Unsupported"},
	}

	for _, tc := range tests {
		if got := entryLabel(tc.entry); got != tc.expected {
			t.Errorf("entryLabel(%+v) = %q, want %q", tc.entry, got, tc.expected)
		}
	}
}

func TestPlaceBox(t *testing.T) {
	area := image.Rect(320, 40, 1280, 760)

	x, y := placeBox(area, 100, 30, 8, topRight)
	if x != 1280-100-8 || y != 40+8 {
		t.Errorf("topRight: got (%d, %d)", x, y)
	}

	x, y = placeBox(area, 100, 30, 8, bottomRight)
	if x != 1280-100-8 || y != 760-30-8 {
		t.Errorf("bottomRight: got (%d, %d)", x, y)
	}

	x, y = placeBox(area, 100, 30, 8, bottomLeft)
	if x != 320+8 || y != 760-30-8 {
		t.Errorf("bottomLeft: got (%d, %d)", x, y)
	}
}

func TestToastExpires(t *testing.T) {
	var tt toast
	now := time.Unix(1000, 0)
	if tt.visible(now) {
		t.Fatal("empty toast should not be visible")
	}

	tt.Show("Added", now)
	if !tt.visible(now.Add(toastDuration - time.Millisecond)) {
		t.Error("toast should be visible before it expires")
	}
	if tt.visible(now.Add(toastDuration)) {
		t.Error("toast should expire after its duration")
	}
}

func TestAddToastText(t *testing.T) {
	tests := []struct {
		res      storage.AddResult
		err      error
		expected string
	}{
		{storage.Added, nil, "Added to library: disc.iso"},
		{storage.AlreadyPresent, nil, "Already in library: disc.iso"},
		{storage.Rejected, storage.ErrUnsupported, "Not added: disc.iso"},
	}
	for _, tc := range tests {
		if got := addToastText(tc.res, "/games/disc.iso", tc.err); got != tc.expected {
			t.Errorf("addToastText(%v) = %q, want %q", tc.res, got, tc.expected)
		}
	}
}

func TestSettingText(t *testing.T) {
	s := storage.DefaultSettings()
	for _, key := range storage.Keys() {
		if _, ok := settingNames[key]; !ok {
			t.Errorf("no display name for %s", key)
		}
	}
	if got := settingText(s, "vsync"); got != "VSync: On" {
		t.Errorf("got %q", got)
	}
	if got := settingText(s, "resolution"); got != "Resolution scale: 1x" {
		t.Errorf("got %q", got)
	}
}

func TestRenderTargetHandlesAreUnique(t *testing.T) {
	a := newRenderTarget(1280, 720)
	b := newRenderTarget(1280, 720)
	if a.Handle == 0 || a.Handle == b.Handle {
		t.Errorf("expected distinct non-zero handles, got %d and %d", a.Handle, b.Handle)
	}
	if a.Width != 1280 || a.Height != 720 {
		t.Errorf("unexpected size %dx%d", a.Width, a.Height)
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Width < minWidth || cfg.Height < minHeight {
		t.Errorf("default window %dx%d below minimum", cfg.Width, cfg.Height)
	}
	if cfg.Title == "" {
		t.Error("expected a window title")
	}
}

func TestGenerateChime(t *testing.T) {
	data := generateChime()

	expected := int(chimeSampleRate*0.35) * 4
	if len(data) != expected {
		t.Fatalf("expected %d bytes, got %d", expected, len(data))
	}

	silent := true
	for i := 0; i+3 < len(data); i += 4 {
		left := int16(binary.LittleEndian.Uint16(data[i:]))
		right := int16(binary.LittleEndian.Uint16(data[i+2:]))
		if left != right {
			t.Fatalf("sample %d: left %d != right %d", i/4, left, right)
		}
		if left > 9000 || left < -9000 {
			t.Fatalf("sample %d out of range: %d", i/4, left)
		}
		if left != 0 {
			silent = false
		}
	}
	if silent {
		t.Error("chime is silent")
	}
}

func TestNilChimeIsSilent(t *testing.T) {
	var c *Chime
	c.Play()
	c.Close()
}

func TestScanSummary(t *testing.T) {
	tests := []struct {
		res      standalone.ScanResult
		expected string
	}{
		{standalone.ScanResult{Added: 2, Present: 1}, "Scan complete: 2 added, 1 already in library"},
		{standalone.ScanResult{Added: 1, Cancelled: true}, "Scan cancelled: 1 added"},
		{standalone.ScanResult{Errors: []error{storage.ErrUnsupported}}, "Scan complete: 0 added, 0 already in library, 1 errors"},
	}
	for _, tc := range tests {
		if got := scanSummary(tc.res); got != tc.expected {
			t.Errorf("scanSummary(%+v) = %q, want %q", tc.res, got, tc.expected)
		}
	}
}
