package standalone

import (
	"math"
	"time"

	"github.com/charmbracelet/log"
	emucore "github.com/nikitaolenych123-coder/pxs3c/api"
)

const (
	// MinTickDelay and MaxTickDelay bound the delay the core may request
	// between passes.
	MinTickDelay = 1 * time.Millisecond
	MaxTickDelay = 100 * time.Millisecond

	// StatusPollInterval is the minimum spacing of native status queries.
	StatusPollInterval = 250 * time.Millisecond

	fpsWindow = time.Second

	statusRunning = "Emulator running"
)

// ClampDelay converts the core's requested delay in milliseconds into the
// delay before the next pass.
func ClampDelay(ms int) time.Duration {
	d := time.Duration(ms) * time.Millisecond
	if d < MinTickDelay {
		return MinTickDelay
	}
	if d > MaxTickDelay {
		return MaxTickDelay
	}
	return d
}

// FrameScheduler drives the native core one tick per pass on the UI loop.
// All methods must be called on the loop.
type FrameScheduler struct {
	core    emucore.NativeCore
	loop    Dispatcher
	display Display
	now     func() time.Time

	state      SchedulerState
	generation uint64
	cancelNext func()

	lastPoll    time.Time
	lastStatus  string
	windowStart time.Time
	frames      int
	lastFPS     int

	// OnFault, if set, is called after a tick fault has stopped the scheduler.
	OnFault func(err error)
}

// NewFrameScheduler creates an idle scheduler. A nil now uses time.Now.
func NewFrameScheduler(core emucore.NativeCore, loop Dispatcher, display Display, now func() time.Time) *FrameScheduler {
	if now == nil {
		now = time.Now
	}
	return &FrameScheduler{
		core:    core,
		loop:    loop,
		display: display,
		now:     now,
		lastFPS: -1,
	}
}

// State returns the current state
func (fs *FrameScheduler) State() SchedulerState {
	return fs.state
}

// Running reports whether a pass is pending or executing
func (fs *FrameScheduler) Running() bool {
	return fs.state == StateRunning
}

// Start begins driving the core. Starting a running scheduler does nothing.
func (fs *FrameScheduler) Start() {
	if fs.state == StateRunning {
		return
	}
	fs.state = StateRunning
	fs.generation++

	now := fs.now()
	fs.windowStart = now
	fs.frames = 0
	fs.lastPoll = time.Time{}
	// Start overwrites the display, so the core's next status must show
	// even if it has not changed.
	fs.lastStatus = ""

	fs.display.SetStatus(statusRunning)
	log.Debugf("frame scheduler started (generation %d)", fs.generation)
	fs.schedule(0)
}

// Stop halts the scheduler. A pass already queued becomes a no-op. Stopping
// an idle scheduler does nothing.
func (fs *FrameScheduler) Stop() {
	if fs.state == StateIdle {
		return
	}
	fs.state = StateIdle
	fs.generation++
	if fs.cancelNext != nil {
		fs.cancelNext()
		fs.cancelNext = nil
	}
	log.Debugf("frame scheduler stopped")
}

func (fs *FrameScheduler) schedule(d time.Duration) {
	gen := fs.generation
	fs.cancelNext = fs.loop.PostDelayed(d, func() {
		fs.pass(gen)
	})
}

// pass runs one scheduler step: status poll, FPS accounting, then one tick.
func (fs *FrameScheduler) pass(gen uint64) {
	if fs.state != StateRunning || gen != fs.generation {
		return
	}
	fs.cancelNext = nil
	now := fs.now()

	if fs.lastPoll.IsZero() || now.Sub(fs.lastPoll) >= StatusPollInterval {
		fs.lastPoll = now
		fs.pollStatus()
	}

	// frames counts passes completed in the current window.
	if elapsed := now.Sub(fs.windowStart); elapsed >= fpsWindow {
		fps := int(math.Round(float64(fs.frames) * float64(time.Second) / float64(elapsed)))
		if fps != fs.lastFPS {
			fs.lastFPS = fps
			fs.display.SetFPS(fps)
		}
		fs.frames = 0
		fs.windowStart = now
	}
	fs.frames++

	var requested int
	err := emucore.Guard("tick", func() error {
		var err error
		requested, err = fs.core.Tick()
		return err
	})
	if err != nil {
		fs.Stop()
		log.Errorf("tick failed: %v", err)
		fs.display.SetStatus("Error: " + err.Error())
		if fs.OnFault != nil {
			fs.OnFault(err)
		}
		return
	}

	// The tick may have stopped us through a re-entrant call.
	if fs.state != StateRunning || gen != fs.generation {
		return
	}
	fs.schedule(ClampDelay(requested))
}

func (fs *FrameScheduler) pollStatus() {
	var status string
	err := emucore.Guard("status", func() error {
		var err error
		status, err = fs.core.Status()
		return err
	})
	if err != nil {
		log.Debugf("status poll failed: %v", err)
		return
	}
	if status == "" || status == fs.lastStatus {
		return
	}
	fs.lastStatus = status
	fs.display.SetStatus(status)
}

// ResetFPS publishes zero and forgets the last published value.
func (fs *FrameScheduler) ResetFPS() {
	fs.lastFPS = 0
	fs.display.SetFPS(0)
}
