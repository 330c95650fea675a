package standalone

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	emucore "github.com/nikitaolenych123-coder/pxs3c/api"
	"github.com/nikitaolenych123-coder/pxs3c/storage"
)

// Options configures an App.
type Options struct {
	Core     emucore.NativeCore
	Library  *storage.LibraryStore
	Settings *storage.SettingsStore
	Stager   Stager
	Display  Display
	Loop     Dispatcher
	// Now is the scheduler clock. Nil uses time.Now.
	Now func() time.Time
}

// App wires the stores, the scheduler, the binder and the load session
// around one native core. Its methods may be called from any goroutine;
// the work is posted to the UI loop.
type App struct {
	core     emucore.NativeCore
	library  *storage.LibraryStore
	settings *storage.SettingsStore
	stager   Stager
	display  Display
	loop     Dispatcher
	// stopped is closed once the loop has stopped servicing closures. Nil
	// when the dispatcher does not report it.
	stopped <-chan struct{}

	scheduler *FrameScheduler
	binder    *Binder
	session   *Session

	mu    sync.Mutex
	state RunState
}

// RunState is the part of the loop's state a host shows on its controls.
type RunState struct {
	Ready   bool
	Loaded  bool
	Running bool
	Title   string
}

// observedLoop runs after once each closure has finished on the loop.
type observedLoop struct {
	Dispatcher
	after func()
}

func (o observedLoop) Post(fn func()) {
	o.Dispatcher.Post(func() {
		fn()
		o.after()
	})
}

func (o observedLoop) PostDelayed(d time.Duration, fn func()) func() {
	return o.Dispatcher.PostDelayed(d, func() {
		fn()
		o.after()
	})
}

// New creates an App. No native call is made until a surface is created.
func New(opts Options) (*App, error) {
	switch {
	case opts.Core == nil:
		return nil, errors.New("native core is required")
	case opts.Library == nil:
		return nil, errors.New("library store is required")
	case opts.Settings == nil:
		return nil, errors.New("settings store is required")
	case opts.Stager == nil:
		return nil, errors.New("stager is required")
	case opts.Display == nil:
		return nil, errors.New("display is required")
	case opts.Loop == nil:
		return nil, errors.New("dispatcher is required")
	}

	a := &App{
		core:     opts.Core,
		library:  opts.Library,
		settings: opts.Settings,
		stager:   opts.Stager,
		display:  opts.Display,
	}
	a.loop = observedLoop{Dispatcher: opts.Loop, after: a.publish}
	if d, ok := opts.Loop.(interface{ Done() <-chan struct{} }); ok {
		a.stopped = d.Done()
	}
	a.scheduler = NewFrameScheduler(a.core, a.loop, a.display, opts.Now)
	a.binder = NewBinder(a.core, a.scheduler, a.settings, a.display)
	a.session = NewSession(a.core, a.stager, a.loop, a.scheduler, a.display, a.binder.Attached)
	a.binder.OnTeardown = a.session.Teardown

	a.display.SetOverlayVisible(a.settings.Load().ShowOverlay)
	return a, nil
}

// publish copies the loop's state for RunState. It runs on the loop.
func (a *App) publish() {
	st := RunState{
		Ready:   a.binder.Attached(),
		Loaded:  a.session.Loaded(),
		Running: a.scheduler.Running(),
		Title:   a.session.LoadedName(),
	}
	a.mu.Lock()
	a.state = st
	a.mu.Unlock()
}

// RunState returns the state as of the last closure the loop finished.
func (a *App) RunState() RunState {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// HandleEvent dispatches a host lifecycle event.
func (a *App) HandleEvent(ev Event) {
	a.loop.Post(func() {
		a.handleEvent(ev)
	})
}

func (a *App) handleEvent(ev Event) {
	log.Debugf("lifecycle event %s", ev.Kind)
	switch ev.Kind {
	case EventSurfaceCreated:
		a.binder.SurfaceCreated(ev.Target)
	case EventSurfaceChanged:
		a.binder.SurfaceChanged(ev.Width, ev.Height)
	case EventSurfaceDestroyed:
		a.binder.SurfaceDestroyed()
	case EventForeground:
		a.session.Resume()
	case EventBackground:
		a.session.Background()
	}
}

// Load stages and loads the content behind locator.
func (a *App) Load(locator string) {
	a.loop.Post(func() {
		a.session.Load(locator)
	})
}

// Toggle pauses or resumes emulation.
func (a *App) Toggle() {
	a.loop.Post(a.session.Toggle)
}

// Stop halts emulation and unloads the content.
func (a *App) Stop() {
	a.loop.Post(a.session.Stop)
}

// SetStatus shows a message, for host actions such as opening a picker.
func (a *App) SetStatus(status string) {
	a.loop.Post(func() {
		a.display.SetStatus(status)
	})
}

// AddToLibrary adds locator to the game library and reports the outcome as
// a status message. An empty title defaults to the locator's filename.
func (a *App) AddToLibrary(locator, title string) (storage.AddResult, error) {
	name := emucore.LocatorName(locator)
	res, err := a.library.Add(locator, title)

	var status string
	switch res {
	case storage.Added:
		status = "Added to library: " + name
	case storage.AlreadyPresent:
		status = "Already in library: " + name
	default:
		status = fmt.Sprintf("Cannot add %s: %v", name, err)
	}
	a.SetStatus(status)
	return res, err
}

// Library returns the catalog, oldest first.
func (a *App) Library() []storage.CatalogEntry {
	return a.library.List()
}

// Scanner returns a scanner that adds content under dirs to this App's
// library. The caller runs it.
func (a *App) Scanner(dirs []string, recursive bool) *Scanner {
	return NewScanner(a.library, dirs, recursive)
}

// Settings returns the persisted settings.
func (a *App) Settings() storage.Settings {
	return a.settings.Load()
}

// ApplySettings persists s and pushes it to the core if a surface is bound.
// Out-of-range fields are reset to their defaults first.
func (a *App) ApplySettings(s storage.Settings) error {
	if problems := storage.ValidateSettings(s); len(problems) > 0 {
		log.Warnf("correcting invalid settings: %s", strings.Join(problems, "; "))
		s = storage.CorrectSettings(s)
	}
	if err := a.settings.Save(s); err != nil {
		return err
	}
	a.loop.Post(func() {
		a.binder.Apply(s)
	})
	return nil
}

// Close stops emulation, shuts the core down, waits for staging workers and
// sweeps the scratch directory. The teardown runs on the UI loop; if the
// loop has already stopped it runs here instead. ctx bounds the wait for a
// loop that is still running but busy.
func (a *App) Close(ctx context.Context) error {
	var once sync.Once
	teardown := func() {
		once.Do(func() {
			a.scheduler.Stop()
			if a.binder.Initialized() {
				a.binder.SurfaceDestroyed()
			} else {
				a.session.Teardown()
			}
		})
	}

	done := make(chan struct{})
	a.loop.Post(func() {
		defer close(done)
		teardown()
	})

	var err error
	select {
	case <-done:
	case <-a.stopped:
		log.Debugf("UI loop already stopped, tearing down inline")
		teardown()
	case <-ctx.Done():
		err = fmt.Errorf("waiting for UI loop: %w", ctx.Err())
	}

	a.session.Close()
	a.stager.Sweep()
	log.Infof("front-end closed")
	return err
}
