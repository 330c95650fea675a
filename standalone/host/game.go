package host

import (
	"context"
	"image/color"
	"sync/atomic"
	"time"

	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	emucore "github.com/nikitaolenych123-coder/pxs3c/api"
	"github.com/nikitaolenych123-coder/pxs3c/standalone"
	"github.com/nikitaolenych123-coder/pxs3c/standalone/style"
	"github.com/nikitaolenych123-coder/pxs3c/storage"
)

// surfaceTokens hands out render target handles. Ebiten does not expose the
// native window, so the desktop host identifies its surface by token and the
// core presents on its own.
var surfaceTokens atomic.Uintptr

func newRenderTarget(width, height int) emucore.RenderTarget {
	return emucore.RenderTarget{Handle: surfaceTokens.Add(1), Width: width, Height: height}
}

// Game implements ebiten.Game. All of its fields are owned by the ebiten
// goroutine except libraryDirty and picks.
type Game struct {
	ctx   context.Context
	cfg   Config
	app   *standalone.App
	board *standalone.StatusBoard

	ui       *ebitenui.UI
	controls *controls
	overlay  overlay
	toast    toast
	chime    *Chime

	picks   chan pick
	picking bool

	scan  *standalone.Scanner
	scans chan standalone.ScanResult

	libraryDirty atomic.Bool

	created       bool
	width, height int
	lastW, lastH  int
	focused       bool
	dpi           float64
	rebuild       bool
	clear         color.NRGBA
}

// NewGame creates the host for app. Closing the window or cancelling ctx
// ends Run.
func NewGame(ctx context.Context, app *standalone.App, board *standalone.StatusBoard, cfg Config) *Game {
	g := &Game{
		ctx:     ctx,
		cfg:     cfg,
		app:     app,
		board:   board,
		picks:   make(chan pick, 1),
		scans:   make(chan standalone.ScanResult, 1),
		focused: true,
		dpi:     1,
	}
	if cfg.Chime {
		g.chime = NewChime()
	}
	g.controls = newControls(app, board, g.choose, g.settingsSaved)
	g.build()
	return g
}

// LibraryChanged marks the library list stale. It may be called from any
// goroutine, typically a library document watcher.
func (g *Game) LibraryChanged() {
	g.libraryDirty.Store(true)
}

// Close cancels a running scan and releases audio resources.
func (g *Game) Close() {
	if g.scan != nil {
		g.scan.Cancel()
	}
	g.chime.Close()
}

// settingsSaved picks up the saved clear colour for the window background.
func (g *Game) settingsSaved(s storage.Settings) {
	g.clear = style.ClearColor(s.ClearR, s.ClearG, s.ClearB)
}

func (g *Game) build() {
	s := g.app.Settings()
	g.clear = style.ClearColor(s.ClearR, s.ClearG, s.ClearB)
	g.ui = &ebitenui.UI{Container: g.controls.build()}
}

// Update implements ebiten.Game
func (g *Game) Update() error {
	if g.ctx.Err() != nil || ebiten.IsWindowBeingClosed() {
		if g.created {
			g.created = false
			g.app.HandleEvent(standalone.Event{Kind: standalone.EventSurfaceDestroyed})
		}
		return ebiten.Termination
	}

	if g.rebuild {
		g.rebuild = false
		g.build()
	}

	g.syncSurface()
	g.syncFocus()
	g.drainPicks()
	g.drainScans()
	if g.libraryDirty.Swap(false) {
		g.controls.refreshLibrary()
	}
	g.controls.update(g.app.RunState())

	g.ui.Update()
	g.controls.inputs.Update()
	g.handleShortcuts()
	return nil
}

// syncSurface turns the first layout into SurfaceCreated and later size
// changes into SurfaceChanged.
func (g *Game) syncSurface() {
	if g.width <= 0 || g.height <= 0 {
		return
	}
	if !g.created {
		g.created = true
		g.lastW, g.lastH = g.width, g.height
		g.app.HandleEvent(standalone.Event{
			Kind:   standalone.EventSurfaceCreated,
			Target: newRenderTarget(g.width, g.height),
		})
		return
	}
	if g.width != g.lastW || g.height != g.lastH {
		g.lastW, g.lastH = g.width, g.height
		g.app.HandleEvent(standalone.Event{
			Kind:   standalone.EventSurfaceChanged,
			Width:  g.width,
			Height: g.height,
		})
	}
}

func (g *Game) syncFocus() {
	focused := ebiten.IsFocused()
	if focused == g.focused {
		return
	}
	g.focused = focused
	if focused {
		g.app.HandleEvent(standalone.Event{Kind: standalone.EventForeground})
	} else {
		g.app.HandleEvent(standalone.Event{Kind: standalone.EventBackground})
	}
}

func (g *Game) handleShortcuts() {
	if g.controls.inputs.Focused() {
		return
	}
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeySpace):
		g.app.Toggle()
	case inpututil.IsKeyJustPressed(ebiten.KeyO) && style.ModifierPressed():
		g.choose(pickLoad)
	case inpututil.IsKeyJustPressed(ebiten.KeyF11):
		ebiten.SetFullscreen(!ebiten.IsFullscreen())
	}
}

// Draw implements ebiten.Game
func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(g.clear)
	g.ui.Draw(screen)
	area := g.controls.surfaceArea()
	g.overlay.Draw(screen, area, g.board.Snapshot(), g.controls.state.Title)
	g.toast.Draw(screen, area, time.Now())
}

// Layout implements ebiten.Game
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	s := 1.0
	if m := ebiten.Monitor(); m != nil {
		s = m.DeviceScaleFactor()
	}
	if s != g.dpi {
		g.dpi = s
		style.SetDPIScale(s)
		g.rebuild = true
	}

	g.width = int(float64(outsideWidth) * s)
	g.height = int(float64(outsideHeight) * s)
	return g.width, g.height
}
