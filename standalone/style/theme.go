// Package style holds the colours, fonts and widget constructors shared by
// the desktop host.
package style

import (
	"image/color"
)

// Palette colours, replaced by ApplyTheme
var (
	Background        = ThemeDefault.Background
	Surface           = ThemeDefault.Surface
	Primary           = ThemeDefault.Primary
	PrimaryHover      = ThemeDefault.PrimaryHover
	Text              = ThemeDefault.Text
	TextSecondary     = ThemeDefault.TextSecondary
	Accent            = ThemeDefault.Accent
	Border            = ThemeDefault.Border
	OverlayBackground = ThemeDefault.OverlayBackground
)

// Theme is a named palette
type Theme struct {
	Name              string
	Background        color.NRGBA
	Surface           color.NRGBA
	Primary           color.NRGBA
	PrimaryHover      color.NRGBA
	Text              color.NRGBA
	TextSecondary     color.NRGBA
	Accent            color.NRGBA
	Border            color.NRGBA
	OverlayBackground color.NRGBA
}

var (
	// ThemeDefault matches the default presenter clear colour
	ThemeDefault = Theme{
		Name:              "Default",
		Background:        color.NRGBA{0x08, 0x08, 0x14, 0xff},
		Surface:           color.NRGBA{0x1c, 0x1c, 0x2e, 0xff},
		Primary:           color.NRGBA{0x26, 0x4f, 0xa8, 0xff},
		PrimaryHover:      color.NRGBA{0x33, 0x62, 0xc4, 0xff},
		Text:              color.NRGBA{0xf0, 0xf0, 0xf5, 0xff},
		TextSecondary:     color.NRGBA{0x9a, 0x9a, 0xb0, 0xff},
		Accent:            color.NRGBA{0x4c, 0xd9, 0x64, 0xff},
		Border:            color.NRGBA{0x30, 0x30, 0x48, 0xff},
		OverlayBackground: color.NRGBA{0x00, 0x00, 0x00, 0xff},
	}

	ThemeLight = Theme{
		Name:              "Light",
		Background:        color.NRGBA{0xe8, 0xe8, 0xec, 0xff},
		Surface:           color.NRGBA{0xf7, 0xf7, 0xfa, 0xff},
		Primary:           color.NRGBA{0x1a, 0x56, 0xdb, 0xff},
		PrimaryHover:      color.NRGBA{0x2a, 0x66, 0xeb, 0xff},
		Text:              color.NRGBA{0x1a, 0x1a, 0x1a, 0xff},
		TextSecondary:     color.NRGBA{0x5c, 0x5c, 0x66, 0xff},
		Accent:            color.NRGBA{0x0b, 0x8a, 0x3c, 0xff},
		Border:            color.NRGBA{0xc8, 0xc8, 0xd0, 0xff},
		OverlayBackground: color.NRGBA{0xff, 0xff, 0xff, 0xff},
	}

	ThemeHighContrast = Theme{
		Name:              "High Contrast",
		Background:        color.NRGBA{0x00, 0x00, 0x00, 0xff},
		Surface:           color.NRGBA{0x40, 0x40, 0x40, 0xff},
		Primary:           color.NRGBA{0x00, 0x80, 0xff, 0xff},
		PrimaryHover:      color.NRGBA{0x40, 0xa0, 0xff, 0xff},
		Text:              color.NRGBA{0xff, 0xff, 0xff, 0xff},
		TextSecondary:     color.NRGBA{0xcc, 0xcc, 0xcc, 0xff},
		Accent:            color.NRGBA{0xff, 0xff, 0x00, 0xff},
		Border:            color.NRGBA{0x66, 0x66, 0x66, 0xff},
		OverlayBackground: color.NRGBA{0x00, 0x00, 0x00, 0xff},
	}

	// Themes lists the palettes in the order offered to the user
	Themes = []Theme{ThemeDefault, ThemeLight, ThemeHighContrast}

	// CurrentTheme is the name of the active palette
	CurrentTheme = ThemeDefault.Name
)

// ThemeNames returns the selectable theme names.
func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}

// LookupTheme returns the theme called name.
func LookupTheme(name string) (Theme, bool) {
	for _, t := range Themes {
		if t.Name == name {
			return t, true
		}
	}
	return Theme{}, false
}

// ApplyTheme makes theme the active palette. Widgets built afterwards use it.
func ApplyTheme(theme Theme) {
	Background = theme.Background
	Surface = theme.Surface
	Primary = theme.Primary
	PrimaryHover = theme.PrimaryHover
	Text = theme.Text
	TextSecondary = theme.TextSecondary
	Accent = theme.Accent
	Border = theme.Border
	OverlayBackground = theme.OverlayBackground
	CurrentTheme = theme.Name
}

// ClearColor converts a presenter clear colour in [0, 1] to an opaque colour.
// Components outside the range are clamped.
func ClearColor(r, g, b float64) color.NRGBA {
	return color.NRGBA{unit(r), unit(g), unit(b), 0xff}
}

func unit(v float64) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 1:
		return 0xff
	}
	return uint8(v*0xff + 0.5)
}
