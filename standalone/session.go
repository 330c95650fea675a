package standalone

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	emucore "github.com/nikitaolenych123-coder/pxs3c/api"
	"github.com/nikitaolenych123-coder/pxs3c/staging"
)

const (
	statusStopped     = "Stopped"
	statusPaused      = "Paused"
	statusNeedGame    = "Please load a game first"
	statusNotReady    = "Emulator not ready - waiting for display"
	statusLoadFailed  = "Failed to load game - Check logs for details"
	statusGameLoadedF = "Game loaded: %s - Starting emulation..."
)

// Stager copies content into local scratch storage.
type Stager interface {
	Stage(ctx context.Context, locator string) (string, error)
	Discard(path string)
	Sweep()
}

// Session orchestrates content loads. Staging runs on worker goroutines;
// everything else, including the completion of a load, runs on the UI loop.
// A load generation counter makes completions of superseded loads no-ops.
type Session struct {
	core      emucore.NativeCore
	stager    Stager
	loop      Dispatcher
	scheduler *FrameScheduler
	display   Display
	ready     func() bool

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	generation uint64
	background bool
	loaded     bool
	loadedName string
	stagedPath string
}

// NewSession creates a session. ready reports whether the core can accept
// content, typically Binder.Attached.
func NewSession(core emucore.NativeCore, stager Stager, loop Dispatcher, scheduler *FrameScheduler, display Display, ready func() bool) *Session {
	ctx, cancel := context.WithCancel(context.Background())
	return &Session{
		core:      core,
		stager:    stager,
		loop:      loop,
		scheduler: scheduler,
		display:   display,
		ready:     ready,
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Loaded reports whether content is loaded into the core.
func (s *Session) Loaded() bool {
	return s.loaded
}

// LoadedName returns the display name of the loaded content.
func (s *Session) LoadedName() string {
	return s.loadedName
}

// Generation returns the current load generation.
func (s *Session) Generation() uint64 {
	return s.generation
}

// Load stages locator on a worker and loads it into the core on completion.
// A later Load, Stop or Teardown supersedes it.
func (s *Session) Load(locator string) {
	s.generation++
	gen := s.generation
	name := emucore.LocatorName(locator)
	s.display.SetStatus("Loading: " + name + "...")
	log.Infof("loading %s", locator)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		path, err := s.stager.Stage(s.ctx, locator)
		s.loop.Post(func() {
			s.complete(gen, name, path, err)
		})
	}()
}

func (s *Session) complete(gen uint64, name, path string, err error) {
	if gen != s.generation {
		log.Debugf("discarding superseded load of %s", name)
		if path != "" {
			s.stager.Discard(path)
		}
		return
	}

	if err != nil {
		log.Errorf("staging %s failed: %v", name, err)
		s.display.SetStatus(stageErrorStatus(name, err))
		return
	}

	if s.ready != nil && !s.ready() {
		s.stager.Discard(path)
		s.display.SetStatus(statusNotReady)
		return
	}

	err = emucore.Guard("load content", func() error {
		return s.core.LoadContent(path)
	})
	if err != nil {
		log.Errorf("native load of %s failed: %v", path, err)
		s.stager.Discard(path)
		s.display.SetStatus(statusLoadFailed)
		return
	}

	if s.stagedPath != "" && s.stagedPath != path {
		s.stager.Discard(s.stagedPath)
	}
	s.stagedPath = path
	s.loaded = true
	s.loadedName = name
	log.Infof("loaded %s", name)
	s.display.SetStatus(fmt.Sprintf(statusGameLoadedF, name))

	// Restart so the FPS window starts with the new content.
	s.scheduler.Stop()
	if s.background {
		log.Infof("UI is hidden, %s starts on resume", name)
		return
	}
	s.scheduler.Start()
}

func stageErrorStatus(name string, err error) string {
	switch {
	case errors.Is(err, staging.ErrSourceUnavailable):
		return "Error: cannot open " + name
	case errors.Is(err, staging.ErrNoContent):
		return "Error: no executable or disc image in " + name
	case errors.Is(err, staging.ErrCopyFailed):
		return "Error: failed to copy " + name
	default:
		return "Error: " + err.Error()
	}
}

// Toggle pauses or resumes the loaded content.
func (s *Session) Toggle() {
	if !s.loaded {
		s.display.SetStatus(statusNeedGame)
		return
	}
	if s.scheduler.Running() {
		s.scheduler.Stop()
		s.display.SetStatus(statusPaused)
		return
	}
	s.scheduler.Start()
}

// Background pauses scheduling while the UI is hidden. Loads that complete
// meanwhile stay idle until Resume.
func (s *Session) Background() {
	s.background = true
	s.scheduler.Stop()
}

// Resume marks the UI visible again and restarts the scheduler if content
// is loaded and it is idle.
func (s *Session) Resume() {
	s.background = false
	if s.loaded && !s.scheduler.Running() {
		s.scheduler.Start()
	}
}

// Stop halts emulation and forgets the loaded content. In-flight loads are
// superseded.
func (s *Session) Stop() {
	s.scheduler.Stop()
	s.generation++
	s.loaded = false
	s.loadedName = ""
	s.display.SetStatus(statusStopped)
	s.scheduler.ResetFPS()
}

// Teardown runs when the core is about to shut down: in-flight loads are
// superseded and the staged file of the loaded content is released.
func (s *Session) Teardown() {
	s.generation++
	s.loaded = false
	s.loadedName = ""
	if s.stagedPath != "" {
		s.stager.Discard(s.stagedPath)
		s.stagedPath = ""
	}
}

// Close cancels in-flight staging and waits for the workers to finish.
// It may be called from any goroutine.
func (s *Session) Close() {
	s.cancel()
	s.wg.Wait()
}
