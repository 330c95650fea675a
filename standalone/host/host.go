// Package host is the desktop front-end: an ebiten window whose lifecycle
// drives the App and whose control bar issues its user actions.
package host

import (
	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/nikitaolenych123-coder/pxs3c/standalone/style"
)

// Minimum window size in logical pixels
const (
	minWidth  = 800
	minHeight = 500
)

// Config describes the host window.
type Config struct {
	Title  string
	Width  int
	Height int
	// Theme names a style palette. Empty keeps the default.
	Theme string
	// Chime plays a short sound when content is added to the library.
	Chime bool
}

// DefaultConfig returns the window used when no flags are given.
func DefaultConfig() Config {
	return Config{
		Title:  "pxs3c",
		Width:  1280,
		Height: 800,
		Chime:  true,
	}
}

// Run opens the window and blocks until it is closed or the game's context
// ends. It must be called from the main goroutine.
func Run(g *Game) error {
	cfg := g.cfg
	if cfg.Theme != "" {
		if t, ok := style.LookupTheme(cfg.Theme); ok {
			style.ApplyTheme(t)
		} else {
			log.Warnf("unknown theme %q, valid: %v", cfg.Theme, style.ThemeNames())
		}
	}

	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSizeLimits(minWidth, minHeight, -1, -1)
	ebiten.SetWindowSize(max(cfg.Width, minWidth), max(cfg.Height, minHeight))
	ebiten.SetWindowClosingHandled(true)
	// Update keeps running unfocused so focus changes become lifecycle events.
	ebiten.SetRunnableOnUnfocused(true)

	defer g.Close()
	return ebiten.RunGame(g)
}
