package standalone

import (
	"sync"
)

// Display receives the user-visible state produced on the UI loop.
type Display interface {
	SetStatus(status string)
	SetFPS(fps int)
	SetOverlayVisible(visible bool)
}

// StatusBoard is a Display the renderer can read from another goroutine.
type StatusBoard struct {
	mu      sync.Mutex
	status  string
	fps     int
	overlay bool
	version uint64
}

// DisplaySnapshot is a copy of the board taken under its lock.
type DisplaySnapshot struct {
	Status  string
	FPS     int
	Overlay bool
	// Version increases on every change, so a reader can skip redraws.
	Version uint64
}

// NewStatusBoard creates a board showing the overlay, like the default settings.
func NewStatusBoard() *StatusBoard {
	return &StatusBoard{overlay: true}
}

func (b *StatusBoard) SetStatus(status string) {
	b.mu.Lock()
	b.status = status
	b.version++
	b.mu.Unlock()
}

func (b *StatusBoard) SetFPS(fps int) {
	b.mu.Lock()
	b.fps = fps
	b.version++
	b.mu.Unlock()
}

func (b *StatusBoard) SetOverlayVisible(visible bool) {
	b.mu.Lock()
	b.overlay = visible
	b.version++
	b.mu.Unlock()
}

// Snapshot returns the current values.
func (b *StatusBoard) Snapshot() DisplaySnapshot {
	b.mu.Lock()
	defer b.mu.Unlock()
	return DisplaySnapshot{
		Status:  b.status,
		FPS:     b.fps,
		Overlay: b.overlay,
		Version: b.version,
	}
}
