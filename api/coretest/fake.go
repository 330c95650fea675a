// Package coretest provides an in-memory NativeCore for tests.
package coretest

import (
	"fmt"
	"sync"

	emucore "github.com/nikitaolenych123-coder/pxs3c/api"
)

// Fake records every call made across the native boundary. Failure knobs
// make the corresponding entry point report a native fault.
type Fake struct {
	mu    sync.Mutex
	calls []string

	FailInit   bool
	FailAttach bool
	FailLoad   bool
	FailResize bool
	PanicOn    string // entry point name that panics when called

	TickDelay int   // value returned by Tick
	TickErr   error // error returned by Tick
	Statuses  []string
	StatusErr error

	// OnShutdown, when set, runs inside Shutdown before it returns.
	OnShutdown func()

	Loaded     []string
	Target     emucore.RenderTarget
	Width      int
	Height     int
	Vsync      bool
	ClearColor [3]float32
	TargetFPS  int
	Options    map[string]string
	Ticks      int
	StatusPoll int
}

// New returns a Fake whose Tick suggests a 16 ms delay.
func New() *Fake {
	return &Fake{TickDelay: 16, Options: make(map[string]string)}
}

func (f *Fake) record(name string) {
	f.mu.Lock()
	f.calls = append(f.calls, name)
	f.mu.Unlock()
	if f.PanicOn == name {
		panic(fmt.Sprintf("%s exploded", name))
	}
}

// Calls returns the entry points invoked so far, in order.
func (f *Fake) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.calls))
	copy(out, f.calls)
	return out
}

// Count returns how many times the named entry point was invoked.
func (f *Fake) Count(name string) int {
	n := 0
	for _, c := range f.Calls() {
		if c == name {
			n++
		}
	}
	return n
}

func (f *Fake) Init() error {
	f.record("init")
	if f.FailInit {
		return emucore.Fault("init")
	}
	return nil
}

func (f *Fake) LoadContent(path string) error {
	f.record("load")
	if f.FailLoad {
		return emucore.Fault("load content")
	}
	f.Loaded = append(f.Loaded, path)
	return nil
}

func (f *Fake) AttachRenderTarget(target emucore.RenderTarget) error {
	f.record("attach")
	if f.FailAttach {
		return emucore.Fault("attach render target")
	}
	f.Target = target
	return nil
}

func (f *Fake) Resize(width, height int) error {
	f.record("resize")
	if f.FailResize {
		return emucore.Fault("resize")
	}
	f.Width, f.Height = width, height
	return nil
}

func (f *Fake) Tick() (int, error) {
	f.record("tick")
	f.Ticks++
	if f.TickErr != nil {
		return 0, f.TickErr
	}
	return f.TickDelay, nil
}

func (f *Fake) Status() (string, error) {
	f.record("status")
	if f.StatusErr != nil {
		return "", f.StatusErr
	}
	if len(f.Statuses) == 0 {
		return "", nil
	}
	s := f.Statuses[f.StatusPoll%len(f.Statuses)]
	f.StatusPoll++
	return s, nil
}

func (f *Fake) SetVsync(enabled bool) {
	f.record("vsync")
	f.Vsync = enabled
}

func (f *Fake) SetClearColor(r, g, b float32) {
	f.record("clear")
	f.ClearColor = [3]float32{r, g, b}
}

func (f *Fake) SetTargetFPS(fps int) {
	f.record("fps")
	f.TargetFPS = fps
}

func (f *Fake) SetOption(key, value string) {
	f.record("option")
	f.Options[key] = value
}

func (f *Fake) Shutdown() {
	f.record("shutdown")
	if f.OnShutdown != nil {
		f.OnShutdown()
	}
}
