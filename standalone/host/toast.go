package host

import (
	"image"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	emucore "github.com/nikitaolenych123-coder/pxs3c/api"
	"github.com/nikitaolenych123-coder/pxs3c/storage"
)

const toastDuration = 3 * time.Second

// toast is a short-lived message in the bottom-left corner of the surface.
// It is only touched from the ebiten goroutine.
type toast struct {
	message string
	until   time.Time
	bg      *ebiten.Image
}

// Show replaces the current message.
func (t *toast) Show(message string, now time.Time) {
	t.message = message
	t.until = now.Add(toastDuration)
}

func (t *toast) visible(now time.Time) bool {
	return t.message != "" && now.Before(t.until)
}

func (t *toast) Draw(screen *ebiten.Image, area image.Rectangle, now time.Time) {
	if !t.visible(now) || area.Empty() {
		return
	}
	drawBox(screen, area, &t.bg, t.message, bottomLeft)
}

// addToastText describes the outcome of adding locator to the library.
func addToastText(res storage.AddResult, locator string, err error) string {
	name := emucore.LocatorName(locator)
	switch {
	case res == storage.Added:
		return "Added to library: " + name
	case res == storage.AlreadyPresent:
		return "Already in library: " + name
	case err != nil:
		return "Not added: " + name
	}
	return ""
}
