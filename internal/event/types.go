package event

import "time"

// Event is the interface that all events must implement.
type Event interface {
	// EventType returns a string identifier for this event type.
	// Convention: "category.action" (e.g., "session.ready", "view.mounted")
	EventType() string

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// Event type identifiers.
const (
	TypeSessionLoading   = "session.loading"
	TypeSessionReady     = "session.ready"
	TypeSessionFailed    = "session.failed"
	TypeSessionStale     = "session.stale"
	TypeViewMounted      = "view.mounted"
	TypeViewUnmounted    = "view.unmounted"
	TypeViewRenderFailed = "view.render_failed"
)

// baseEvent provides common fields for all events.
// Embed this in concrete event types to satisfy the Event interface.
type baseEvent struct {
	eventType string
	timestamp time.Time
}

func (e baseEvent) EventType() string    { return e.eventType }
func (e baseEvent) Timestamp() time.Time { return e.timestamp }

// newBaseEvent creates a baseEvent with the current time.
func newBaseEvent(eventType string) baseEvent {
	return baseEvent{
		eventType: eventType,
		timestamp: time.Now(),
	}
}

// -----------------------------------------------------------------------------
// Session Events
// -----------------------------------------------------------------------------

// SessionLoadingEvent is emitted when a fetch starts or a new caller joins
// an in-flight fetch for the same reference.
type SessionLoadingEvent struct {
	baseEvent
	Reference  string
	Generation uint64
	Joined     bool // True when no new resolver call was made
}

// NewSessionLoadingEvent creates a SessionLoadingEvent.
func NewSessionLoadingEvent(reference string, generation uint64, joined bool) SessionLoadingEvent {
	return SessionLoadingEvent{
		baseEvent:  newBaseEvent(TypeSessionLoading),
		Reference:  reference,
		Generation: generation,
		Joined:     joined,
	}
}

// SessionReadyEvent is emitted when a quote has been derived and applied.
type SessionReadyEvent struct {
	baseEvent
	Reference      string
	Generation     uint64
	SystemSizeKW   float64
	NumberOfPanels int
}

// NewSessionReadyEvent creates a SessionReadyEvent.
func NewSessionReadyEvent(reference string, generation uint64, sizeKW float64, panels int) SessionReadyEvent {
	return SessionReadyEvent{
		baseEvent:      newBaseEvent(TypeSessionReady),
		Reference:      reference,
		Generation:     generation,
		SystemSizeKW:   sizeKW,
		NumberOfPanels: panels,
	}
}

// SessionFailedEvent is emitted when a fetch ends in the Failed state.
type SessionFailedEvent struct {
	baseEvent
	Reference  string
	Generation uint64
	Message    string // The user-facing message stored in the session
	Retryable  bool
}

// NewSessionFailedEvent creates a SessionFailedEvent.
func NewSessionFailedEvent(reference string, generation uint64, message string, retryable bool) SessionFailedEvent {
	return SessionFailedEvent{
		baseEvent:  newBaseEvent(TypeSessionFailed),
		Reference:  reference,
		Generation: generation,
		Message:    message,
		Retryable:  retryable,
	}
}

// SessionStaleEvent is emitted when a superseded fetch completes and its
// result is discarded.
type SessionStaleEvent struct {
	baseEvent
	Reference         string
	Generation        uint64 // Generation the discarded result was stamped with
	CurrentGeneration uint64
}

// NewSessionStaleEvent creates a SessionStaleEvent.
func NewSessionStaleEvent(reference string, generation, current uint64) SessionStaleEvent {
	return SessionStaleEvent{
		baseEvent:         newBaseEvent(TypeSessionStale),
		Reference:         reference,
		Generation:        generation,
		CurrentGeneration: current,
	}
}

// -----------------------------------------------------------------------------
// View Events
// -----------------------------------------------------------------------------

// ViewMountedEvent is emitted when a view has been constructed and marked
// active.
type ViewMountedEvent struct {
	baseEvent
	Path string
}

// NewViewMountedEvent creates a ViewMountedEvent.
func NewViewMountedEvent(path string) ViewMountedEvent {
	return ViewMountedEvent{
		baseEvent: newBaseEvent(TypeViewMounted),
		Path:      path,
	}
}

// ViewUnmountedEvent is emitted after the active view's cleanup has run.
type ViewUnmountedEvent struct {
	baseEvent
	Path string
}

// NewViewUnmountedEvent creates a ViewUnmountedEvent.
func NewViewUnmountedEvent(path string) ViewUnmountedEvent {
	return ViewUnmountedEvent{
		baseEvent: newBaseEvent(TypeViewUnmounted),
		Path:      path,
	}
}

// ViewRenderFailedEvent is emitted when a view's render returns an error or
// panics.
type ViewRenderFailedEvent struct {
	baseEvent
	Path string
	Err  error
}

// NewViewRenderFailedEvent creates a ViewRenderFailedEvent.
func NewViewRenderFailedEvent(path string, err error) ViewRenderFailedEvent {
	return ViewRenderFailedEvent{
		baseEvent: newBaseEvent(TypeViewRenderFailed),
		Path:      path,
		Err:       err,
	}
}
