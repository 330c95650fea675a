package emucore

// RenderTarget identifies the platform surface the native core presents into.
// Handle is opaque to the front-end; only the native core interprets it.
type RenderTarget struct {
	Handle uintptr
	Width  int
	Height int
}

// NativeCore is the fixed call boundary into the external emulation engine.
// Every method must be called from the UI loop goroutine.
type NativeCore interface {
	// Init prepares the core. It is called once per render surface lifetime.
	Init() error

	// LoadContent hands a local, staged executable or disc image to the core.
	LoadContent(path string) error

	// AttachRenderTarget binds the core's presenter to a platform surface.
	AttachRenderTarget(target RenderTarget) error

	// Resize informs the core that the attached surface changed dimensions.
	Resize(width, height int) error

	// Tick advances emulation by one cadence pass and returns the suggested
	// delay in milliseconds before the next pass.
	Tick() (int, error)

	// Status returns a short human-readable status line.
	Status() (string, error)

	// SetVsync toggles presentation vsync.
	SetVsync(enabled bool)

	// SetClearColor sets the colour the presenter clears to between frames.
	SetClearColor(r, g, b float32)

	// SetTargetFPS sets the core's frame pacing target. Cores that predate
	// frame pacing ignore it.
	SetTargetFPS(fps int)

	// SetOption applies a core option identified by key.
	SetOption(key, value string)

	// Shutdown releases the attached surface and any loaded content.
	Shutdown()
}
