package host

import (
	"image"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/nikitaolenych123-coder/pxs3c/standalone"
	"github.com/nikitaolenych123-coder/pxs3c/standalone/style"
)

// corner selects where an overlay box sits on screen
type corner int

const (
	topRight corner = iota
	bottomRight
	bottomLeft
)

// overlayAlpha is the opacity of overlay backgrounds, about 60%
const overlayAlpha = 153

// overlay draws the frame rate and the loaded title over the surface when
// the board's overlay is visible.
type overlay struct {
	fpsBg   *ebiten.Image
	titleBg *ebiten.Image
}

// Draw places the boxes inside area, the part of the screen not covered by
// controls.
func (o *overlay) Draw(screen *ebiten.Image, area image.Rectangle, snap standalone.DisplaySnapshot, title string) {
	if !snap.Overlay || area.Empty() {
		return
	}
	drawBox(screen, area, &o.fpsBg, style.FormatFPS(snap.FPS), topRight)
	if title != "" {
		drawBox(screen, area, &o.titleBg, title, bottomRight)
	}
}

// drawBox draws msg on a translucent box. bg is reused between frames and
// grown when msg needs more room.
func drawBox(screen *ebiten.Image, area image.Rectangle, bg **ebiten.Image, msg string, at corner) {
	face := *style.FontFace()
	if face == nil {
		return
	}

	pad := style.OverlayPadding
	margin := style.OverlayMargin
	if limit := float64(area.Dx() - 2*margin - 2*pad); limit > 0 {
		msg, _ = style.TruncateToWidth(msg, face, limit)
	}
	tw, th := text.Measure(msg, face, 0)
	w, h := int(tw)+pad*2, int(th)+pad*2
	x, y := placeBox(area, w, h, margin, at)

	if *bg == nil || (*bg).Bounds().Dx() < w || (*bg).Bounds().Dy() < h {
		*bg = ebiten.NewImage(w, h)
	}
	(*bg).Clear()
	c := style.OverlayBackground
	c.A = overlayAlpha
	(*bg).Fill(c)

	opts := &ebiten.DrawImageOptions{}
	opts.GeoM.Translate(float64(x), float64(y))
	screen.DrawImage((*bg).SubImage(image.Rect(0, 0, w, h)).(*ebiten.Image), opts)

	textOpts := &text.DrawOptions{}
	textOpts.GeoM.Translate(float64(x+pad), float64(y+pad))
	textOpts.ColorScale.ScaleWithColor(style.Text)
	text.Draw(screen, msg, face, textOpts)
}

// placeBox returns the top-left position of a w by h box in corner at of
// area, margin pixels from its edges.
func placeBox(area image.Rectangle, w, h, margin int, at corner) (int, int) {
	right := area.Max.X - w - margin
	bottom := area.Max.Y - h - margin
	switch at {
	case bottomRight:
		return right, bottom
	case bottomLeft:
		return area.Min.X + margin, bottom
	default:
		return right, area.Min.Y + margin
	}
}
