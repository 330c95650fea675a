package standalone

import (
	"sort"

	"github.com/charmbracelet/log"
	emucore "github.com/nikitaolenych123-coder/pxs3c/api"
	"github.com/nikitaolenych123-coder/pxs3c/storage"
)

const (
	statusInitFailed   = "Failed to initialize emulator"
	statusAttachFailed = "Failed to attach surface"
	statusReady        = "Ready - Load a game to start"
)

// SettingsSource supplies the settings applied when a surface is bound.
type SettingsSource interface {
	Load() storage.Settings
}

// Binder ties the native core's lifetime to the host's render surface.
// All methods must be called on the UI loop.
type Binder struct {
	core      emucore.NativeCore
	scheduler *FrameScheduler
	settings  SettingsSource
	display   Display

	initialized bool
	attached    bool

	// OnTeardown, if set, runs after the scheduler is stopped and before
	// the core is shut down.
	OnTeardown func()
}

// NewBinder creates a binder with no surface.
func NewBinder(core emucore.NativeCore, scheduler *FrameScheduler, settings SettingsSource, display Display) *Binder {
	return &Binder{
		core:      core,
		scheduler: scheduler,
		settings:  settings,
		display:   display,
	}
}

// Attached reports whether the core currently has a render target.
func (b *Binder) Attached() bool {
	return b.attached
}

// Initialized reports whether the core has been initialised for the
// current surface.
func (b *Binder) Initialized() bool {
	return b.initialized
}

// SurfaceCreated initialises the core once per surface life, attaches the
// target and applies the persisted settings. Failures leave the binder
// pending with a status message; they are not fatal.
func (b *Binder) SurfaceCreated(target emucore.RenderTarget) bool {
	if !b.initialized {
		if err := emucore.Guard("init", b.core.Init); err != nil {
			log.Errorf("native init failed: %v", err)
			b.display.SetStatus(statusInitFailed)
			return false
		}
		b.initialized = true
	}

	err := emucore.Guard("attach", func() error {
		return b.core.AttachRenderTarget(target)
	})
	if err != nil {
		log.Errorf("attach render target failed: %v", err)
		b.display.SetStatus(statusAttachFailed)
		return false
	}
	b.attached = true
	log.Infof("render target attached (%dx%d)", target.Width, target.Height)

	b.Apply(b.settings.Load())
	b.display.SetStatus(statusReady)
	return true
}

// SurfaceChanged forwards new dimensions. Faults are logged and swallowed.
func (b *Binder) SurfaceChanged(width, height int) {
	if !b.attached {
		return
	}
	err := emucore.Guard("resize", func() error {
		return b.core.Resize(width, height)
	})
	if err != nil {
		log.Debugf("resize to %dx%d failed: %v", width, height, err)
	}
}

// SurfaceDestroyed stops the scheduler, runs OnTeardown, then shuts the
// core down. The scheduler is always Idle before shutdown is invoked.
func (b *Binder) SurfaceDestroyed() {
	b.scheduler.Stop()
	if b.OnTeardown != nil {
		b.OnTeardown()
	}

	if b.initialized {
		err := emucore.Guard("shutdown", func() error {
			b.core.Shutdown()
			return nil
		})
		if err != nil {
			log.Warnf("native shutdown failed: %v", err)
		}
	}
	b.initialized = false
	b.attached = false
}

// Apply pushes settings to the core and the overlay flag to the display.
// It does nothing to the core until a surface is attached.
func (b *Binder) Apply(s storage.Settings) {
	b.display.SetOverlayVisible(s.ShowOverlay)
	if !b.attached {
		return
	}

	err := emucore.Guard("apply settings", func() error {
		b.core.SetVsync(s.Vsync)
		b.core.SetClearColor(float32(s.ClearR), float32(s.ClearG), float32(s.ClearB))
		b.core.SetTargetFPS(s.TargetFPS)

		opts := s.Options()
		keys := make([]string, 0, len(opts))
		for k := range opts {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			b.core.SetOption(k, opts[k])
		}
		return nil
	})
	if err != nil {
		log.Warnf("failed to apply settings: %v", err)
	}
}
