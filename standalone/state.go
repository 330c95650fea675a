package standalone

import (
	emucore "github.com/nikitaolenych123-coder/pxs3c/api"
)

// SchedulerState is the run state of the frame scheduler
type SchedulerState int

const (
	// StateIdle means no pass is pending
	StateIdle SchedulerState = iota
	// StateRunning means exactly one pass is pending or executing
	StateRunning
)

// String returns the string representation of the state
func (s SchedulerState) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateRunning:
		return "Running"
	default:
		return "Unknown"
	}
}

// EventKind identifies a host lifecycle notification
type EventKind int

const (
	// EventSurfaceCreated carries a new render target
	EventSurfaceCreated EventKind = iota
	// EventSurfaceChanged carries new surface dimensions
	EventSurfaceChanged
	// EventSurfaceDestroyed means the render target is gone
	EventSurfaceDestroyed
	// EventForeground means the UI became visible
	EventForeground
	// EventBackground means the UI was hidden
	EventBackground
)

// String returns the string representation of the event kind
func (k EventKind) String() string {
	switch k {
	case EventSurfaceCreated:
		return "SurfaceCreated"
	case EventSurfaceChanged:
		return "SurfaceChanged"
	case EventSurfaceDestroyed:
		return "SurfaceDestroyed"
	case EventForeground:
		return "Foreground"
	case EventBackground:
		return "Background"
	default:
		return "Unknown"
	}
}

// Event is a lifecycle notification from the host. Target is set for
// EventSurfaceCreated, Width and Height for EventSurfaceChanged.
type Event struct {
	Kind   EventKind
	Target emucore.RenderTarget
	Width  int
	Height int
}
