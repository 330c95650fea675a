package standalone

import (
	"context"
	"sync/atomic"
	"time"
)

// Dispatcher runs closures on the UI thread, one at a time, in post order.
type Dispatcher interface {
	// Post queues fn to run as soon as possible.
	Post(fn func())
	// PostDelayed queues fn to run after d. The returned func cancels it if
	// it has not started yet.
	PostDelayed(d time.Duration, fn func()) (cancel func())
}

// Loop is the UI-servicing goroutine. Every state transition of the scheduler,
// binder and session, and every native call, happens inside a closure run
// by Loop.
type Loop struct {
	tasks chan func()
	done  chan struct{}
}

// NewLoop creates a loop. Call Run to start servicing it.
func NewLoop() *Loop {
	return &Loop{
		tasks: make(chan func(), 64),
		done:  make(chan struct{}),
	}
}

// Post queues fn. Posts after Run has returned are dropped.
func (l *Loop) Post(fn func()) {
	select {
	case l.tasks <- fn:
	case <-l.done:
	}
}

// PostDelayed queues fn after d. The timer runs off the loop; only the
// closure itself runs on it.
func (l *Loop) PostDelayed(d time.Duration, fn func()) func() {
	var cancelled atomic.Bool
	t := time.AfterFunc(d, func() {
		if cancelled.Load() {
			return
		}
		l.Post(func() {
			if !cancelled.Load() {
				fn()
			}
		})
	})
	return func() {
		cancelled.Store(true)
		t.Stop()
	}
}

// Run services posted closures until ctx is cancelled.
func (l *Loop) Run(ctx context.Context) error {
	defer close(l.done)
	for {
		select {
		case fn := <-l.tasks:
			fn()
		case <-ctx.Done():
			return nil
		}
	}
}

// Done is closed once Run has returned.
func (l *Loop) Done() <-chan struct{} {
	return l.done
}
