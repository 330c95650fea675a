//go:build darwin || linux || freebsd

// Package native binds the external emulation core shared library without
// cgo. Symbols are resolved with purego at Open time.
package native

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/ebitengine/purego"
	emucore "github.com/nikitaolenych123-coder/pxs3c/api"
)

// Library is a NativeCore backed by a dynamically loaded shared library.
type Library struct {
	path   string
	handle uintptr

	init          func() bool
	loadContent   func(path string) bool
	attach        func(handle uintptr) bool
	resize        func(width, height int32) bool
	tick          func() int32
	getStatus     func() string
	setVsync      func(enabled bool)
	setClearColor func(r, g, b float32)
	shutdown      func()

	// Optional entry points, nil when the core does not export them
	setTargetFPS func(fps int32)
	setOption    func(key, value string)
}

// symbol pairs an exported C name with the Go function pointer it fills.
type symbol struct {
	name string
	fn   interface{}
}

// Open loads the shared library at path and resolves its entry points.
// Missing required symbols fail the open; missing optional ones are logged
// and treated as no-ops.
func Open(path string) (*Library, error) {
	handle, err := purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_GLOBAL)
	if err != nil {
		return nil, fmt.Errorf("failed to open native core %s: %w", path, err)
	}

	lib := &Library{path: path, handle: handle}

	required := []symbol{
		{"pxs3c_init", &lib.init},
		{"pxs3c_load_content", &lib.loadContent},
		{"pxs3c_attach_render_target", &lib.attach},
		{"pxs3c_resize", &lib.resize},
		{"pxs3c_tick", &lib.tick},
		{"pxs3c_get_status", &lib.getStatus},
		{"pxs3c_set_vsync", &lib.setVsync},
		{"pxs3c_set_clear_color", &lib.setClearColor},
		{"pxs3c_shutdown", &lib.shutdown},
	}
	for _, sym := range required {
		if err := bind(handle, sym); err != nil {
			purego.Dlclose(handle)
			return nil, fmt.Errorf("native core %s: %w", path, err)
		}
	}

	optional := []symbol{
		{"pxs3c_set_target_fps", &lib.setTargetFPS},
		{"pxs3c_set_option", &lib.setOption},
	}
	for _, sym := range optional {
		if err := bind(handle, sym); err != nil {
			log.Debugf("native core %s: optional entry point unavailable: %v", path, err)
		}
	}

	log.Infof("Loaded native core %s", path)
	return lib, nil
}

func bind(handle uintptr, sym symbol) error {
	addr, err := purego.Dlsym(handle, sym.name)
	if err != nil {
		return fmt.Errorf("missing symbol %s: %w", sym.name, err)
	}
	purego.RegisterFunc(sym.fn, addr)
	return nil
}

// Path returns the filesystem path the library was loaded from.
func (l *Library) Path() string {
	return l.path
}

func (l *Library) Init() error {
	if !l.init() {
		return emucore.Fault("init")
	}
	return nil
}

func (l *Library) LoadContent(path string) error {
	if !l.loadContent(path) {
		return emucore.Fault("load content")
	}
	return nil
}

func (l *Library) AttachRenderTarget(target emucore.RenderTarget) error {
	if !l.attach(target.Handle) {
		return emucore.Fault("attach render target")
	}
	return nil
}

func (l *Library) Resize(width, height int) error {
	if !l.resize(int32(width), int32(height)) {
		return emucore.Fault("resize")
	}
	return nil
}

// Tick returns the core's suggested delay as is. Out-of-range values,
// negative ones included, are clamped by the caller.
func (l *Library) Tick() (int, error) {
	return int(l.tick()), nil
}

func (l *Library) Status() (string, error) {
	return l.getStatus(), nil
}

func (l *Library) SetVsync(enabled bool) {
	l.setVsync(enabled)
}

func (l *Library) SetClearColor(r, g, b float32) {
	l.setClearColor(r, g, b)
}

func (l *Library) SetTargetFPS(fps int) {
	if l.setTargetFPS != nil {
		l.setTargetFPS(int32(fps))
	}
}

func (l *Library) SetOption(key, value string) {
	if l.setOption != nil {
		l.setOption(key, value)
	}
}

func (l *Library) Shutdown() {
	l.shutdown()
}

// Close unloads the shared library. The core must already be shut down.
func (l *Library) Close() error {
	if l.handle == 0 {
		return nil
	}
	err := purego.Dlclose(l.handle)
	l.handle = 0
	return err
}
