package view

import "context"

// View is anything the coordinator can mount.
//
// Render may block until ctx is cancelled. Cleanup is synchronous and must
// tolerate being called before, during or after Render.
type View interface {
	Render(ctx context.Context) error
	Cleanup()
}

// Base can be embedded by views with nothing to release.
type Base struct{}

// Cleanup does nothing.
func (Base) Cleanup() {}

// Factory builds the view for a path.
type Factory[V View] func(path string) (V, error)

// Route binds a path to the factory that builds its view.
type Route[V View] struct {
	Path    string
	Factory Factory[V]
}
