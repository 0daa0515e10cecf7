package session

import (
	"github.com/Iron-Ham/solarsizer/internal/bill"
	"github.com/Iron-Ham/solarsizer/internal/sizing"
)

// Status is the session's position in its fetch lifecycle.
type Status int

const (
	Idle Status = iota
	Loading
	Ready
	Failed
)

// String returns the lower-case status name.
func (s Status) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Snapshot is a consistent copy of the store's state.
type Snapshot struct {
	Status Status
	// Reference is the reference of the current or most recent fetch.
	Reference  string
	Generation uint64
	// Retryable reports whether a Failed fetch may succeed if retried.
	Retryable bool

	quote  *sizing.Quote
	record *bill.Record
	err    string
}

// Quote returns the derived quote when Status is Ready.
func (s Snapshot) Quote() (sizing.Quote, bool) {
	if s.quote == nil {
		return sizing.Quote{}, false
	}
	return *s.quote, true
}

// Bill returns the bill record the quote was derived from.
func (s Snapshot) Bill() (bill.Record, bool) {
	if s.record == nil {
		return bill.Record{}, false
	}
	return *s.record, true
}

// Err returns the failure message when Status is Failed.
func (s Snapshot) Err() (string, bool) {
	return s.err, s.Status == Failed
}
