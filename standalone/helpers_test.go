package standalone

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/nikitaolenych123-coder/pxs3c/api/coretest"
	"github.com/nikitaolenych123-coder/pxs3c/storage"
)

// manualLoop is a Dispatcher driven by the test. Tasks run only when the
// test calls RunNext. With advance set, running a task moves the clock to
// its due time; otherwise the test owns the clock.
type manualLoop struct {
	mu      sync.Mutex
	now     time.Time
	advance bool
	seq     int
	tasks   []*manualTask
}

type manualTask struct {
	due       time.Time
	seq       int
	fn        func()
	cancelled bool
}

func newManualLoop() *manualLoop {
	return &manualLoop{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), advance: true}
}

func (l *manualLoop) Now() time.Time {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.now
}

func (l *manualLoop) SetNow(t time.Time) {
	l.mu.Lock()
	l.now = t
	l.mu.Unlock()
}

func (l *manualLoop) Post(fn func()) {
	l.PostDelayed(0, fn)
}

func (l *manualLoop) PostDelayed(d time.Duration, fn func()) func() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.seq++
	t := &manualTask{due: l.now.Add(d), seq: l.seq, fn: fn}
	l.tasks = append(l.tasks, t)
	return func() {
		l.mu.Lock()
		t.cancelled = true
		l.mu.Unlock()
	}
}

// live returns the tasks that are not cancelled, earliest first.
// Callers hold mu.
func (l *manualLoop) live() []*manualTask {
	var out []*manualTask
	for _, t := range l.tasks {
		if !t.cancelled {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].due.Equal(out[j].due) {
			return out[i].due.Before(out[j].due)
		}
		return out[i].seq < out[j].seq
	})
	return out
}

// Pending returns the number of queued tasks that have not been cancelled.
func (l *manualLoop) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.live())
}

// NextDelay returns how far in the future the next task is due.
func (l *manualLoop) NextDelay() (time.Duration, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	live := l.live()
	if len(live) == 0 {
		return 0, false
	}
	return live[0].due.Sub(l.now), true
}

// RunNext runs the earliest task. It returns false when nothing is queued.
func (l *manualLoop) RunNext() bool {
	l.mu.Lock()
	live := l.live()
	if len(live) == 0 {
		l.tasks = nil
		l.mu.Unlock()
		return false
	}
	next := live[0]
	for i, t := range l.tasks {
		if t == next {
			l.tasks = append(l.tasks[:i], l.tasks[i+1:]...)
			break
		}
	}
	if l.advance && next.due.After(l.now) {
		l.now = next.due
	}
	l.mu.Unlock()

	next.fn()
	return true
}

// RunFor runs up to n tasks and returns how many ran.
func (l *manualLoop) RunFor(n int) int {
	ran := 0
	for ran < n && l.RunNext() {
		ran++
	}
	return ran
}

// recordDisplay keeps the history of everything shown.
type recordDisplay struct {
	mu       sync.Mutex
	statuses []string
	fps      []int
	overlay  []bool
}

func (d *recordDisplay) SetStatus(status string) {
	d.mu.Lock()
	d.statuses = append(d.statuses, status)
	d.mu.Unlock()
}

func (d *recordDisplay) SetFPS(fps int) {
	d.mu.Lock()
	d.fps = append(d.fps, fps)
	d.mu.Unlock()
}

func (d *recordDisplay) SetOverlayVisible(visible bool) {
	d.mu.Lock()
	d.overlay = append(d.overlay, visible)
	d.mu.Unlock()
}

func (d *recordDisplay) Statuses() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.statuses...)
}

func (d *recordDisplay) LastStatus() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.statuses) == 0 {
		return ""
	}
	return d.statuses[len(d.statuses)-1]
}

func (d *recordDisplay) LastFPS() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.fps) == 0 {
		return -1
	}
	return d.fps[len(d.fps)-1]
}

// fakeStager stages nothing; it returns a preset result per locator and
// records what it was asked to do. Block, when set, holds Stage until the
// context is done or the channel is closed.
type fakeStager struct {
	mu        sync.Mutex
	results   map[string]stageResult
	staged    []string
	discarded []string
	swept     int
	Block     chan struct{}
}

type stageResult struct {
	path string
	err  error
}

func newFakeStager() *fakeStager {
	return &fakeStager{results: make(map[string]stageResult)}
}

func (s *fakeStager) set(locator, path string, err error) {
	s.mu.Lock()
	s.results[locator] = stageResult{path: path, err: err}
	s.mu.Unlock()
}

func (s *fakeStager) Stage(ctx context.Context, locator string) (string, error) {
	if s.Block != nil {
		select {
		case <-s.Block:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.staged = append(s.staged, locator)
	r, ok := s.results[locator]
	if !ok {
		return "", errors.New("no result configured")
	}
	return r.path, r.err
}

func (s *fakeStager) Discard(path string) {
	s.mu.Lock()
	s.discarded = append(s.discarded, path)
	s.mu.Unlock()
}

func (s *fakeStager) Sweep() {
	s.mu.Lock()
	s.swept++
	s.mu.Unlock()
}

func (s *fakeStager) Discarded() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.discarded...)
}

// fixedSettings is a SettingsSource returning one value.
type fixedSettings struct {
	s storage.Settings
}

func (f fixedSettings) Load() storage.Settings {
	return f.s
}

// rig is a scheduler, binder and session sharing one manual loop.
type rig struct {
	loop      *manualLoop
	core      *coretest.Fake
	display   *recordDisplay
	stager    *fakeStager
	scheduler *FrameScheduler
	binder    *Binder
	session   *Session
}

func newRig(t *testing.T) *rig {
	t.Helper()
	r := &rig{
		loop:    newManualLoop(),
		core:    coretest.New(),
		display: &recordDisplay{},
		stager:  newFakeStager(),
	}
	r.scheduler = NewFrameScheduler(r.core, r.loop, r.display, r.loop.Now)
	r.binder = NewBinder(r.core, r.scheduler, fixedSettings{storage.DefaultSettings()}, r.display)
	r.session = NewSession(r.core, r.stager, r.loop, r.scheduler, r.display, r.binder.Attached)
	r.binder.OnTeardown = r.session.Teardown
	t.Cleanup(r.session.Close)
	return r
}

// settle waits for every staging worker to post its completion.
func (r *rig) settle() {
	r.session.wg.Wait()
}
