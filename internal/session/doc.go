// Package session holds the state of one quote session: the current fetch
// status, the derived quote and the failure message, shared by every view.
//
// A [Store] is an explicit object; construct one per session and hand it to
// whatever needs it. All methods are safe for concurrent use.
//
// # States
//
//	Idle ──Fetch──▶ Loading ──▶ Ready
//	                   │
//	                   └──────▶ Failed
//
// Ready and Failed both return to Loading on the next Fetch. While Loading
// the store holds neither a quote nor an error, so Ready always means a
// quote is present and Failed always means an error message is present.
//
// # Single flight
//
// Concurrent fetches for the same reference share one resolver call. Each
// Fetch advances a generation counter and stamps it on the flight for its
// reference; when a flight completes with a stamp other than the current
// generation its result is discarded. Fetching B while A is in flight
// therefore makes A stale, and fetching A again revives it without a second
// resolver call.
package session
