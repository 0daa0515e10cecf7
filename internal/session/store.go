package session

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/sourcegraph/conc/panics"

	"github.com/Iron-Ham/solarsizer/internal/bill"
	"github.com/Iron-Ham/solarsizer/internal/errors"
	"github.com/Iron-Ham/solarsizer/internal/event"
	"github.com/Iron-Ham/solarsizer/internal/logging"
	"github.com/Iron-Ham/solarsizer/internal/sizing"
)

// DefaultTimeout bounds one resolver call.
const DefaultTimeout = 15 * time.Second

// flight is one outstanding resolver call.
type flight struct {
	reference string
	// token is the generation of the newest Fetch that started or joined
	// this flight. Guarded by Store.mu.
	token uint64
	done  chan struct{}
}

// Store is the session state shared by every view.
type Store struct {
	resolver bill.Resolver
	params   sizing.Parameters
	logger   *logging.Logger
	bus      *event.Bus
	timeout  time.Duration

	// Resolver calls run under baseCtx rather than the caller's context, so
	// a caller that stops waiting does not abort a flight others may join.
	baseCtx context.Context
	cancel  context.CancelFunc

	mu            sync.Mutex
	generation    uint64
	status        Status
	reference     string
	lastRequested string
	quote         *sizing.Quote
	record        *bill.Record
	errMsg        string
	retryable     bool
	flights       map[string]*flight
	changed       chan struct{}
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the store's logger.
func WithLogger(l *logging.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithBus publishes session events on b.
func WithBus(b *event.Bus) Option {
	return func(s *Store) {
		s.bus = b
	}
}

// WithTimeout bounds each resolver call. Zero or less means no bound.
func WithTimeout(d time.Duration) Option {
	return func(s *Store) {
		s.timeout = d
	}
}

// NewStore returns an Idle store that resolves bills with resolver and
// derives quotes with params.
func NewStore(resolver bill.Resolver, params sizing.Parameters, opts ...Option) *Store {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Store{
		resolver: resolver,
		params:   params,
		logger:   logging.NopLogger(),
		timeout:  DefaultTimeout,
		baseCtx:  ctx,
		cancel:   cancel,
		status:   Idle,
		flights:  make(map[string]*flight),
		changed:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Close aborts outstanding resolver calls. Their results still settle the
// store, normally as Failed.
func (s *Store) Close() {
	s.cancel()
}

// Fetch looks up reference and derives its quote. It returns once the
// operation it started or joined has settled, or when ctx is done; in the
// latter case the operation keeps running and still updates the store.
//
// Fetch never returns an error. Failures are recorded as the Failed state.
func (s *Store) Fetch(ctx context.Context, reference string) Snapshot {
	norm, normErr := bill.NormalizeReference(reference)

	s.mu.Lock()
	s.generation++
	gen := s.generation
	log := s.logger.WithReference(strings.TrimSpace(reference)).With("generation", gen)

	if normErr != nil {
		s.lastRequested = strings.TrimSpace(reference)
		s.reference = s.lastRequested
		msg := s.failLocked(normErr)
		snap := s.snapshotLocked()
		s.mu.Unlock()

		log.Info("fetch rejected", "error", normErr)
		s.bus.Publish(event.NewSessionFailedEvent(snap.Reference, gen, msg, false))
		return snap
	}

	s.lastRequested = norm
	s.reference = norm
	s.status = Loading
	s.quote = nil
	s.record = nil
	s.errMsg = ""
	s.retryable = false

	f, joined := s.flights[norm]
	if joined {
		f.token = gen
	} else {
		f = &flight{reference: norm, token: gen, done: make(chan struct{})}
		s.flights[norm] = f
	}
	s.notifyLocked()
	s.mu.Unlock()

	log.Debug("fetch started", "joined", joined)
	s.bus.Publish(event.NewSessionLoadingEvent(norm, gen, joined))
	if !joined {
		go s.run(f)
	}

	select {
	case <-f.done:
	case <-ctx.Done():
		log.Debug("fetch wait abandoned", "error", ctx.Err())
	}
	return s.Snapshot()
}

// Retry fetches the most recently requested reference again. With nothing
// ever requested it returns the current snapshot.
func (s *Store) Retry(ctx context.Context) Snapshot {
	s.mu.Lock()
	ref := s.lastRequested
	s.mu.Unlock()

	if ref == "" {
		return s.Snapshot()
	}
	return s.Fetch(ctx, ref)
}

// run performs the resolver call and derivation for f, then settles it.
func (s *Store) run(f *flight) {
	ctx, cancel := s.callContext()
	defer cancel()

	record, err := s.resolve(ctx, f.reference)
	var quote sizing.Quote
	if err == nil {
		quote, err = s.derive(record)
	}
	s.settle(f, record, quote, err)
}

func (s *Store) callContext() (context.Context, context.CancelFunc) {
	if s.timeout > 0 {
		return context.WithTimeout(s.baseCtx, s.timeout)
	}
	return context.WithCancel(s.baseCtx)
}

// resolve calls the resolver and validates what it returns, including that
// the record is for the requested reference. A panicking resolver is
// reported as an internal error.
func (s *Store) resolve(ctx context.Context, reference string) (bill.Record, error) {
	var (
		record bill.Record
		err    error
		pc     panics.Catcher
	)
	pc.Try(func() {
		record, err = s.resolver.Resolve(ctx, reference)
	})
	if r := pc.Recovered(); r != nil {
		return bill.Record{}, errors.Wrapf(r.AsError(), "bill resolver panicked for %s", reference)
	}
	if err != nil {
		return bill.Record{}, err
	}
	if err := record.Validate(); err != nil {
		return bill.Record{}, err
	}
	if got, _ := bill.NormalizeReference(record.ReferenceNumber); got != reference {
		return bill.Record{}, errors.NewMalformedRecordError("referenceNumber", record.ReferenceNumber,
			"does not match the requested reference").WithReference(reference)
	}
	return record, nil
}

// derive runs the engine, turning a panic into a DerivationError.
func (s *Store) derive(record bill.Record) (sizing.Quote, error) {
	var (
		quote sizing.Quote
		pc    panics.Catcher
	)
	pc.Try(func() {
		quote = sizing.Derive(record, s.params)
	})
	if r := pc.Recovered(); r != nil {
		return sizing.Quote{}, errors.NewDerivationError(record.ReferenceNumber, r.AsError())
	}
	return quote, nil
}

// settle applies a flight's outcome if it is still current. Removing the
// flight and applying its result happen under one lock, so no Fetch can
// join a flight whose result has already been applied.
func (s *Store) settle(f *flight, record bill.Record, quote sizing.Quote, err error) {
	log := s.logger.WithReference(f.reference)

	s.mu.Lock()
	if s.flights[f.reference] == f {
		delete(s.flights, f.reference)
	}
	token, current := f.token, s.generation

	if token != current {
		s.mu.Unlock()
		log.Debug("discarding result", "error", errors.ErrStaleOperation,
			"generation", token, "current_generation", current)
		s.bus.Publish(event.NewSessionStaleEvent(f.reference, token, current))
		close(f.done)
		return
	}

	var msg string
	if err != nil {
		msg = s.failLocked(err)
	} else {
		s.status = Ready
		s.quote = &quote
		s.record = &record
		s.errMsg = ""
		s.retryable = false
		s.notifyLocked()
	}
	s.mu.Unlock()

	if err != nil {
		log.Warn("fetch failed", "generation", token, "error", err,
			"severity", errors.GetSeverity(err).String())
		s.bus.Publish(event.NewSessionFailedEvent(f.reference, token, msg, errors.IsRetryable(err)))
	} else {
		log.Info("quote ready", "generation", token,
			"system_kw", quote.RecommendedSystemSize, "panels", quote.NumberOfPanels)
		s.bus.Publish(event.NewSessionReadyEvent(f.reference, token, quote.RecommendedSystemSize, quote.NumberOfPanels))
	}
	close(f.done)
}

// failLocked moves to Failed. A failure clears any previous quote and bill.
func (s *Store) failLocked(err error) string {
	s.status = Failed
	s.quote = nil
	s.record = nil
	s.errMsg = errors.UserMessage(err)
	s.retryable = errors.IsRetryable(err)
	s.notifyLocked()
	return s.errMsg
}

// notifyLocked wakes everything blocked in Await.
func (s *Store) notifyLocked() {
	close(s.changed)
	s.changed = make(chan struct{})
}

// Await blocks while the store is Loading and returns the settled snapshot.
// If ctx is done first it returns the current snapshot.
func (s *Store) Await(ctx context.Context) Snapshot {
	for {
		s.mu.Lock()
		if s.status != Loading {
			snap := s.snapshotLocked()
			s.mu.Unlock()
			return snap
		}
		changed := s.changed
		s.mu.Unlock()

		select {
		case <-changed:
		case <-ctx.Done():
			return s.Snapshot()
		}
	}
}

// Changed returns a channel closed on the next state change.
func (s *Store) Changed() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.changed
}

// Snapshot returns a consistent copy of the state.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() Snapshot {
	snap := Snapshot{
		Status:     s.status,
		Reference:  s.reference,
		Generation: s.generation,
		Retryable:  s.retryable,
		err:        s.errMsg,
	}
	if s.quote != nil {
		q := *s.quote
		snap.quote = &q
	}
	if s.record != nil {
		r := *s.record
		snap.record = &r
	}
	return snap
}

// Status returns the current status.
func (s *Store) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Quote returns the quote when the store is Ready.
func (s *Store) Quote() (sizing.Quote, bool) {
	return s.Snapshot().Quote()
}

// Err returns the failure message when the store is Failed.
func (s *Store) Err() (string, bool) {
	return s.Snapshot().Err()
}

// Bill returns the bill behind the current quote.
func (s *Store) Bill() (bill.Record, bool) {
	return s.Snapshot().Bill()
}

// Reference returns the reference of the current or most recent fetch.
func (s *Store) Reference() (string, bool) {
	snap := s.Snapshot()
	return snap.Reference, snap.Reference != ""
}

// Parameters returns the parameter set quotes are derived with.
func (s *Store) Parameters() sizing.Parameters {
	return s.params
}
