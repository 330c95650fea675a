package style

import (
	"bytes"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/goregular"
)

// Logical-pixel reference values. The exported vars are these scaled by
// SetDPIScale.
const (
	basePadding        = 12
	baseSpacing        = 8
	baseButtonPadding  = 8
	baseOverlayPadding = 10
	baseOverlayMargin  = 8
	baseLibraryWidth   = 320
	baseRowHeight      = 34
	baseSliderHandle   = 40
	baseFontSize       = 14
)

// Layout vars in physical pixels
var (
	Padding        = basePadding
	Spacing        = baseSpacing
	ButtonPadding  = baseButtonPadding
	OverlayPadding = baseOverlayPadding
	OverlayMargin  = baseOverlayMargin
	LibraryWidth   = baseLibraryWidth
	RowHeight      = baseRowHeight
	SliderHandle   = baseSliderHandle
)

// ScrollWheelSensitivity is the scroll fraction moved per wheel notch
const ScrollWheelSensitivity = 0.05

var dpiScale = 1.0

// DPIScale returns the current device scale factor.
func DPIScale() float64 {
	return dpiScale
}

// Px converts logical pixels to physical pixels.
func Px(logical int) int {
	return int(float64(logical) * dpiScale)
}

// SetDPIScale sets the device scale factor and rescales every layout var
// and the font face. Factors below 1 are treated as 1.
func SetDPIScale(scale float64) {
	if scale < 1 {
		scale = 1
	}
	dpiScale = scale

	Padding = Px(basePadding)
	Spacing = Px(baseSpacing)
	ButtonPadding = Px(baseButtonPadding)
	OverlayPadding = Px(baseOverlayPadding)
	OverlayMargin = Px(baseOverlayMargin)
	LibraryWidth = Px(baseLibraryWidth)
	RowHeight = Px(baseRowHeight)
	SliderHandle = Px(baseSliderHandle)

	// Widgets hold &face, so the face is replaced in place.
	if src := fontSource(); src != nil {
		face = &text.GoTextFace{Source: src, Size: baseFontSize * dpiScale}
	}
}

var (
	sourceOnce sync.Once
	source     *text.GoTextFaceSource
	face       text.Face
)

func fontSource() *text.GoTextFaceSource {
	sourceOnce.Do(func() {
		src, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
		if err != nil {
			log.Errorf("failed to load UI font: %v", err)
			return
		}
		source = src
	})
	return source
}

// FontFace returns the UI font face. The pointer stays valid across
// SetDPIScale.
func FontFace() *text.Face {
	if face == nil {
		if src := fontSource(); src != nil {
			face = &text.GoTextFace{Source: src, Size: baseFontSize * dpiScale}
		}
	}
	return &face
}
