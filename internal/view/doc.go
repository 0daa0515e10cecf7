// Package view coordinates which view of the wizard is active.
//
// A [Coordinator] maps route paths to view factories and keeps exactly one
// view mounted at a time. Every transition runs in a fixed order:
//
//  1. the active view's render context is cancelled and its Cleanup runs
//  2. the next view is constructed by its route's factory
//  3. the new view becomes active and its Render starts on a tracked goroutine
//
// Cleanup runs exactly once per mounted view, whether the view is replaced,
// the coordinator is closed, or the next factory fails. A view that fails to
// construct is never mounted and never cleaned up.
//
// # Location
//
// The coordinator reads the current path from a [Location]. [History] is the
// in-memory implementation used by the terminal host; it also gives Back its
// meaning.
package view
