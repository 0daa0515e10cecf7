package tui

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Iron-Ham/solarsizer/internal/event"
	"github.com/Iron-Ham/solarsizer/internal/logging"
	"github.com/Iron-Ham/solarsizer/internal/session"
	"github.com/Iron-Ham/solarsizer/internal/view"
)

// Route paths.
const (
	PathEntry    = "/"
	PathBill     = "/bill"
	PathQuote    = "/quote"
	PathAnalysis = "/analysis"
)

// Page is a view the coordinator mounts inside the program.
type Page interface {
	view.View

	Title() string
	// Init returns the page's first command, run right after mounting.
	Init() tea.Cmd
	Update(msg tea.Msg) tea.Cmd
	View(width int) string
}

// pageDeps is what every page factory closes over.
type pageDeps struct {
	store      *session.Store
	format     Formatter
	send       *sender
	keys       keyMap
	interval   time.Duration
	chartYears int
	logger     *logging.Logger
}

var pageIDs atomic.Uint64

func nextPageID() uint64 {
	return pageIDs.Add(1)
}

// sender forwards messages into the running program. Before the program
// starts, and after it stops, messages are dropped.
type sender struct {
	mu sync.RWMutex
	fn func(tea.Msg)
}

func (s *sender) set(fn func(tea.Msg)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fn = fn
}

// Send delivers msg if a program is attached.
func (s *sender) Send(msg tea.Msg) {
	s.mu.RLock()
	fn := s.fn
	s.mu.RUnlock()
	if fn != nil {
		fn(msg)
	}
}

// watchStore sends a refreshMsg now and after every store change until ctx
// is done.
func watchStore(ctx context.Context, store *session.Store, send *sender) error {
	for {
		changed := store.Changed()
		send.Send(refreshMsg{})
		select {
		case <-changed:
		case <-ctx.Done():
			return nil
		}
	}
}

// Messages.

type navigateMsg struct {
	path string
}

type backMsg struct{}

type submitMsg struct {
	reference string
}

type retryMsg struct{}

type fetchDoneMsg struct {
	snapshot session.Snapshot
}

type busEventMsg struct {
	event event.Event
}

type refreshMsg struct{}

type animTickMsg struct {
	page       uint64
	generation uint64
	frame      int
}

// Commands.

func navigate(path string) tea.Cmd {
	return func() tea.Msg {
		return navigateMsg{path: path}
	}
}

func goBack() tea.Msg {
	return backMsg{}
}

func submit(reference string) tea.Cmd {
	return func() tea.Msg {
		return submitMsg{reference: reference}
	}
}

func retry() tea.Msg {
	return retryMsg{}
}
