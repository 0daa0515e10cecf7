package view

import (
	"context"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/sourcegraph/conc"
	"github.com/sourcegraph/conc/panics"

	"github.com/Iron-Ham/solarsizer/internal/errors"
	"github.com/Iron-Ham/solarsizer/internal/event"
	"github.com/Iron-Ham/solarsizer/internal/logging"
)

// DefaultPath is the route unmatched paths fall back to.
const DefaultPath = "/"

// ErrClosed is returned by navigation after Close.
var ErrClosed = errors.New("view coordinator closed")

type options struct {
	logger      *logging.Logger
	bus         *event.Bus
	defaultPath string
}

// Option configures a Coordinator.
type Option func(*options)

// WithLogger sets the coordinator's logger.
func WithLogger(l *logging.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithBus publishes view events on b.
func WithBus(b *event.Bus) Option {
	return func(o *options) {
		o.bus = b
	}
}

// WithDefaultPath sets the fallback route for unregistered paths.
func WithDefaultPath(path string) Option {
	return func(o *options) {
		o.defaultPath = path
	}
}

// Coordinator keeps exactly one view of type V active.
type Coordinator[V View] struct {
	loc         Location
	logger      *logging.Logger
	bus         *event.Bus
	defaultPath string

	// mu guards the fields below. It is never held while view code runs, so
	// Cleanup and factories may call back into the coordinator.
	mu         sync.Mutex
	routes     map[string]Route[V]
	active     V
	hasActive  bool
	activePath string
	cancel     context.CancelFunc
	closed     bool

	// transitioning is set while a Navigate runs. A Navigate started from
	// inside that transition sets pending, and the outer call repeats once
	// it finishes.
	transitioning bool
	pending       bool

	renders conc.WaitGroup
}

// NewCoordinator returns a Coordinator that reads paths from loc.
func NewCoordinator[V View](loc Location, opts ...Option) *Coordinator[V] {
	o := options{
		logger:      logging.NopLogger(),
		defaultPath: DefaultPath,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return &Coordinator[V]{
		loc:         loc,
		logger:      o.logger,
		bus:         o.bus,
		defaultPath: o.defaultPath,
		routes:      make(map[string]Route[V]),
	}
}

// Register adds routes. It rejects empty paths, missing factories and paths
// that are already registered; nothing is registered when any route is bad.
func (c *Coordinator[V]) Register(routes ...Route[V]) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	seen := make(map[string]bool, len(routes))
	for _, r := range routes {
		switch {
		case r.Path == "":
			return errors.NewValidationError("route path cannot be empty").WithField("path").WithValue(r.Path)
		case r.Factory == nil:
			return errors.NewValidationError("route has no view factory").WithField("factory").WithValue(r.Path)
		case seen[r.Path]:
			return errors.NewValidationError("route registered twice").WithField("path").WithValue(r.Path)
		}
		if _, dup := c.routes[r.Path]; dup {
			return errors.NewValidationError("route already registered").WithField("path").WithValue(r.Path)
		}
		seen[r.Path] = true
	}
	for _, r := range routes {
		c.routes[r.Path] = r
	}
	return nil
}

// Push moves the location to path and navigates there.
func (c *Coordinator[V]) Push(path string) error {
	c.loc.Push(path)
	return c.Navigate()
}

// Back returns to the previous location. With no previous location it does
// nothing.
func (c *Coordinator[V]) Back() error {
	if !c.loc.Back() {
		return nil
	}
	return c.Navigate()
}

// Navigate mounts the view for the location's current path, replacing the
// active view. Unregistered paths fall back to the default route.
//
// Calls made from a view's Cleanup or a factory during a transition are
// deferred: they return nil and the transition is repeated for the
// location's path once the current one completes.
func (c *Coordinator[V]) Navigate() error {
	c.mu.Lock()
	if c.transitioning {
		c.pending = true
		c.mu.Unlock()
		return nil
	}
	c.transitioning = true
	c.mu.Unlock()

	for {
		err := c.transition()

		c.mu.Lock()
		again := c.pending && !c.closed
		c.pending = false
		if !again {
			c.transitioning = false
			c.mu.Unlock()
			return err
		}
		c.mu.Unlock()
	}
}

// transition unmounts the active view and mounts the one for the current
// path. View code runs without c.mu held.
func (c *Coordinator[V]) transition() error {
	path := normalizePath(c.loc.Path())

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return errors.NewNavigationError(path, ErrClosed)
	}

	route, ok := c.routes[path]
	if !ok {
		route, ok = c.routes[c.defaultPath]
	}
	if !ok {
		c.mu.Unlock()
		c.logger.Warn("no route for path", "path", path)
		return errors.NewNavigationError(path, errors.ErrRouteNotFound)
	}
	prev, prevPath, had := c.detachLocked()
	c.mu.Unlock()

	var published []event.Event
	if had {
		c.cleanup(prevPath, prev)
		published = append(published, event.NewViewUnmountedEvent(prevPath))
	}

	next, err := c.construct(route, path)
	if err != nil {
		c.logger.WithView(route.Path).Error("view construction failed", "path", path, "error", err)
		c.publish(published...)
		return errors.NewNavigationError(path, err)
	}

	c.mu.Lock()
	if c.closed {
		// Close ran while the factory did; the new view is never mounted.
		c.mu.Unlock()
		c.cleanup(route.Path, next)
		c.publish(published...)
		return errors.NewNavigationError(path, ErrClosed)
	}
	ctx, cancel := context.WithCancel(context.Background())
	c.active = next
	c.hasActive = true
	c.activePath = route.Path
	c.cancel = cancel
	c.renders.Go(func() {
		c.render(ctx, route.Path, next)
	})
	c.mu.Unlock()

	c.logger.WithView(route.Path).Debug("view mounted", "path", path)
	published = append(published, event.NewViewMountedEvent(route.Path))
	c.publish(published...)
	return nil
}

// construct runs the factory, converting panics and nil views into errors.
func (c *Coordinator[V]) construct(route Route[V], path string) (V, error) {
	var (
		v   V
		err error
		pc  panics.Catcher
	)
	pc.Try(func() {
		v, err = route.Factory(path)
	})
	if r := pc.Recovered(); r != nil {
		err = r.AsError()
	}
	if err == nil && isNil(v) {
		err = errors.New("factory returned no view")
	}
	if err != nil {
		var zero V
		return zero, fmt.Errorf("%w: %w", errors.ErrViewConstruction, err)
	}
	return v, nil
}

// detachLocked cancels the active view's render and forgets it. The caller
// runs its Cleanup after releasing c.mu.
func (c *Coordinator[V]) detachLocked() (V, string, bool) {
	var zero V
	if !c.hasActive {
		return zero, "", false
	}
	prev, path := c.active, c.activePath

	c.active = zero
	c.hasActive = false
	c.activePath = ""
	c.cancel()
	c.cancel = nil
	return prev, path, true
}

// cleanup runs v.Cleanup, logging a panic instead of propagating it.
func (c *Coordinator[V]) cleanup(path string, v V) {
	var pc panics.Catcher
	pc.Try(v.Cleanup)
	if r := pc.Recovered(); r != nil {
		c.logger.WithView(path).Error("view cleanup panicked", "error", r.AsError())
	}
	c.logger.WithView(path).Debug("view unmounted")
}

func (c *Coordinator[V]) render(ctx context.Context, path string, v V) {
	var (
		err error
		pc  panics.Catcher
	)
	pc.Try(func() {
		err = v.Render(ctx)
	})
	if r := pc.Recovered(); r != nil {
		err = r.AsError()
	}
	if err == nil || errors.Is(err, context.Canceled) {
		return
	}
	c.logger.WithView(path).Error("view render failed", "error", err)
	c.publish(event.NewViewRenderFailedEvent(path, err))
}

func (c *Coordinator[V]) publish(events ...event.Event) {
	for _, e := range events {
		c.bus.Publish(e)
	}
}

// Active returns the mounted view.
func (c *Coordinator[V]) Active() (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active, c.hasActive
}

// ActivePath returns the route path of the mounted view, or "" when none is.
func (c *Coordinator[V]) ActivePath() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.activePath
}

// Close unmounts the active view and waits for renders to return. Later
// navigation fails with ErrClosed.
func (c *Coordinator[V]) Close() {
	c.mu.Lock()
	var (
		prev     V
		prevPath string
		had      bool
	)
	if !c.closed {
		c.closed = true
		prev, prevPath, had = c.detachLocked()
	}
	c.mu.Unlock()

	if had {
		c.cleanup(prevPath, prev)
		c.publish(event.NewViewUnmountedEvent(prevPath))
	}
	c.Wait()
}

// Wait blocks until every started Render has returned.
func (c *Coordinator[V]) Wait() {
	c.renders.Wait()
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}

// normalizePath drops any query or fragment. An empty path is "/".
func normalizePath(path string) string {
	path = strings.TrimSpace(path)
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	if path == "" {
		return "/"
	}
	return path
}
