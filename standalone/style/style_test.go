package style

import (
	"image/color"
	"testing"
)

func TestLookupTheme(t *testing.T) {
	for _, name := range ThemeNames() {
		t.Run(name, func(t *testing.T) {
			theme, ok := LookupTheme(name)
			if !ok || theme.Name != name {
				t.Errorf("LookupTheme(%q) = %q, %v", name, theme.Name, ok)
			}
		})
	}

	for _, name := range []string{"", "default", "Nonexistent"} {
		if _, ok := LookupTheme(name); ok {
			t.Errorf("LookupTheme(%q) should fail", name)
		}
	}
}

func TestApplyTheme(t *testing.T) {
	defer ApplyTheme(ThemeDefault)

	ApplyTheme(ThemeLight)
	if Background != ThemeLight.Background || Text != ThemeLight.Text {
		t.Error("palette not updated")
	}
	if CurrentTheme != "Light" {
		t.Errorf("expected CurrentTheme Light, got %q", CurrentTheme)
	}
}

func TestThemesOpaque(t *testing.T) {
	for _, th := range Themes {
		for _, c := range []color.NRGBA{th.Background, th.Surface, th.Primary, th.Text, th.Border} {
			if c.A != 0xff {
				t.Errorf("%s: colour %v is not opaque", th.Name, c)
			}
		}
	}
}

func TestClearColor(t *testing.T) {
	tests := []struct {
		r, g, b  float64
		expected color.NRGBA
	}{
		{0, 0, 0, color.NRGBA{0, 0, 0, 0xff}},
		{1, 1, 1, color.NRGBA{0xff, 0xff, 0xff, 0xff}},
		{0.03, 0.03, 0.08, color.NRGBA{8, 8, 20, 0xff}},
		{-1, 2, 0.5, color.NRGBA{0, 0xff, 128, 0xff}},
	}

	for _, tc := range tests {
		if got := ClearColor(tc.r, tc.g, tc.b); got != tc.expected {
			t.Errorf("ClearColor(%v, %v, %v) = %v, want %v", tc.r, tc.g, tc.b, got, tc.expected)
		}
	}
}

func TestTruncateToWidth(t *testing.T) {
	face := *FontFace()
	if face == nil {
		t.Skip("font unavailable")
	}

	s := "Game loaded: a very long disc image name.iso - Starting emulation..."
	if got, truncated := TruncateToWidth(s, face, 10000); got != s || truncated {
		t.Errorf("wide limit should keep the text, got %q", got)
	}

	got, truncated := TruncateToWidth(s, face, 120)
	if !truncated || len(got) >= len(s) {
		t.Errorf("expected truncation, got %q", got)
	}
	if got[len(got)-3:] != "..." {
		t.Errorf("expected ellipsis suffix, got %q", got)
	}

	if got, _ := TruncateToWidth("", face, 10); got != "" {
		t.Errorf("empty input should stay empty, got %q", got)
	}
}

func TestRunePrefix(t *testing.T) {
	if got := runePrefix("héllo", 2); got != "hé" {
		t.Errorf("expected %q, got %q", "hé", got)
	}
	if got := runePrefix("abc", 10); got != "abc" {
		t.Errorf("expected whole string, got %q", got)
	}
}

func TestSetDPIScale(t *testing.T) {
	defer SetDPIScale(1)

	SetDPIScale(2)
	if Padding != basePadding*2 || LibraryWidth != baseLibraryWidth*2 {
		t.Errorf("expected doubled layout, got padding %d width %d", Padding, LibraryWidth)
	}
	if Px(10) != 20 {
		t.Errorf("Px(10) = %d at scale 2", Px(10))
	}

	SetDPIScale(0.5)
	if DPIScale() != 1 {
		t.Errorf("scale below 1 should clamp, got %v", DPIScale())
	}
}

func TestFormatFPS(t *testing.T) {
	if got := FormatFPS(60); got != "FPS: 60" {
		t.Errorf("got %q", got)
	}
}

func TestAlternatingRowColor(t *testing.T) {
	if AlternatingRowColor(0) != Background || AlternatingRowColor(1) != Surface {
		t.Error("unexpected row colours")
	}
}
