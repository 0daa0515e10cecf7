// Package event provides a pub-sub event bus for decoupled inter-component
// communication in solarsizer.
//
// The session store and the view coordinator publish what they do; the
// terminal UI and the logs subscribe. Neither side knows about the other.
//
// # Main Types
//
//   - [Event]: Interface that all events must implement, providing EventType() and Timestamp()
//   - [Bus]: Synchronous pub-sub event dispatcher with thread-safe operations
//   - [Handler]: Function type for event handlers (func(Event))
//
// # Event Categories
//
// Session:
//   - [SessionLoadingEvent]: a fetch started or was joined
//   - [SessionReadyEvent]: a quote was derived and applied
//   - [SessionFailedEvent]: a fetch ended in the Failed state
//   - [SessionStaleEvent]: a superseded result was discarded
//
// View:
//   - [ViewMountedEvent], [ViewUnmountedEvent]
//   - [ViewRenderFailedEvent]: render returned an error or panicked
//
// # Thread Safety
//
// The [Bus] type is safe for concurrent use. Handlers are called
// synchronously on the publishing goroutine and protected against panics.
// Handlers must not block; forward to a channel or a tea.Program instead.
//
// # Basic Usage
//
//	bus := event.NewBus(event.WithLogger(logger))
//
//	bus.Subscribe(event.TypeSessionReady, func(e event.Event) {
//	    ready := e.(event.SessionReadyEvent)
//	    logger.Info("quote ready", "reference", ready.Reference)
//	})
//
//	bus.SubscribeAll(func(e event.Event) {
//	    logger.Debug("event", "type", e.EventType())
//	})
package event
