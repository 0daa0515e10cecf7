package view

import "sync"

// DefaultHistoryLimit is the number of entries a History keeps by default.
const DefaultHistoryLimit = 50

// Location is where the coordinator reads and writes the current path.
type Location interface {
	Path() string
	Push(path string)
	// Back moves to the previous path. It reports false when there is none.
	Back() bool
}

// History is a bounded in-memory Location. It starts at "/".
type History struct {
	mu      sync.Mutex
	entries []string
	limit   int
}

// NewHistory returns a History keeping at most limit entries. A limit of
// zero or less uses DefaultHistoryLimit.
func NewHistory(limit int) *History {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return &History{
		entries: []string{"/"},
		limit:   limit,
	}
}

// Path returns the current path.
func (h *History) Path() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.entries[len(h.entries)-1]
}

// Push makes path current. Pushing the current path again is a no-op.
func (h *History) Push(path string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.entries[len(h.entries)-1] == path {
		return
	}
	h.entries = append(h.entries, path)
	if len(h.entries) > h.limit {
		h.entries = append([]string(nil), h.entries[len(h.entries)-h.limit:]...)
	}
}

// Back pops the current path.
func (h *History) Back() bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.entries) <= 1 {
		return false
	}
	h.entries = h.entries[:len(h.entries)-1]
	return true
}

// Len returns the number of entries.
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.entries)
}

// Entries returns a copy of the entries, oldest first.
func (h *History) Entries() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.entries...)
}
