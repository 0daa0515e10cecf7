package tui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Iron-Ham/solarsizer/internal/event"
	"github.com/Iron-Ham/solarsizer/internal/logging"
	"github.com/Iron-Ham/solarsizer/internal/session"
	"github.com/Iron-Ham/solarsizer/internal/tui/styles"
	"github.com/Iron-Ham/solarsizer/internal/view"
)

// Defaults for Options left zero.
const (
	DefaultAnimationInterval = 40 * time.Millisecond
	DefaultChartYears        = 25
)

// Options configures the wizard.
type Options struct {
	Store  *session.Store
	Bus    *event.Bus
	Logger *logging.Logger

	Formatter         Formatter
	AnimationInterval time.Duration
	ChartYears        int
	DefaultRoute      string
	// Reference, when set, is fetched as soon as the program starts.
	Reference string
}

// tabs are the pages reachable with the number keys, in order.
var tabs = []struct {
	path  string
	title string
}{
	{PathBill, "1 Bill"},
	{PathQuote, "2 Quote"},
	{PathAnalysis, "3 Analysis"},
}

// Model is the bubbletea model hosting the page coordinator.
type Model struct {
	ctx     context.Context
	store   *session.Store
	coord   *view.Coordinator[Page]
	history *view.History
	deps    *pageDeps
	keys    keyMap
	help    help.Model
	logger  *logging.Logger

	defaultRoute string
	reference    string

	width  int
	height int
	notice string
}

// NewModel builds the model and registers every page route. Navigation
// starts when the program runs Init.
func NewModel(ctx context.Context, opts Options) (Model, error) {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NopLogger()
	}
	interval := opts.AnimationInterval
	if interval == 0 {
		interval = DefaultAnimationInterval
	}
	years := opts.ChartYears
	if years <= 0 {
		years = DefaultChartYears
	}
	route := opts.DefaultRoute
	if route == "" {
		route = PathEntry
	}
	format := opts.Formatter
	if format.printer == nil {
		format = NewFormatter("en", "")
	}

	keys := defaultKeyMap()
	deps := &pageDeps{
		store:      opts.Store,
		format:     format,
		send:       &sender{},
		keys:       keys,
		interval:   interval,
		chartYears: years,
		logger:     logger,
	}

	history := view.NewHistory(0)
	coord := view.NewCoordinator[Page](history,
		view.WithLogger(logger),
		view.WithBus(opts.Bus),
		view.WithDefaultPath(PathEntry),
	)
	err := coord.Register(
		view.Route[Page]{Path: PathEntry, Factory: newEntryPage(deps)},
		view.Route[Page]{Path: PathBill, Factory: newBillPage(deps)},
		view.Route[Page]{Path: PathQuote, Factory: newQuotePage(deps)},
		view.Route[Page]{Path: PathAnalysis, Factory: newAnalysisPage(deps)},
	)
	if err != nil {
		return Model{}, err
	}

	return Model{
		ctx:          ctx,
		store:        opts.Store,
		coord:        coord,
		history:      history,
		deps:         deps,
		keys:         keys,
		help:         help.New(),
		logger:       logger,
		defaultRoute: route,
		reference:    strings.TrimSpace(opts.Reference),
	}, nil
}

// Init mounts the first page and starts the prefetch, if any.
func (m Model) Init() tea.Cmd {
	if m.reference != "" {
		return submit(m.reference)
	}
	return navigate(m.defaultRoute)
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case navigateMsg:
		return m.transition(func() error { return m.coord.Push(msg.path) })

	case backMsg:
		return m.transition(m.coord.Back)

	case submitMsg:
		m.notice = ""
		return m, tea.Batch(m.fetch(msg.reference), navigate(PathBill))

	case retryMsg:
		return m, m.retry()

	case fetchDoneMsg:
		m.logger.Debug("fetch settled", "reference", msg.snapshot.Reference,
			"status", msg.snapshot.Status.String())
		return m, nil

	case busEventMsg:
		m.handleEvent(msg.event)
		return m, nil

	case refreshMsg:
		return m, nil
	}

	if p, ok := m.coord.Active(); ok {
		return m, p.Update(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	// The entry page owns the keyboard, so references may contain digits
	// and the letter q.
	if m.coord.ActivePath() == PathEntry {
		if key.Matches(msg, m.keys.Back) && m.history.Len() > 1 {
			return m, goBack
		}
		if p, ok := m.coord.Active(); ok {
			return m, p.Update(msg)
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Back):
		if m.history.Len() > 1 {
			return m, goBack
		}
		return m, navigate(PathEntry)
	case key.Matches(msg, m.keys.Bill):
		return m, navigate(PathBill)
	case key.Matches(msg, m.keys.Quote):
		return m, navigate(PathQuote)
	case key.Matches(msg, m.keys.Analysis):
		return m, navigate(PathAnalysis)
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	if p, ok := m.coord.Active(); ok {
		return m, p.Update(msg)
	}
	return m, nil
}

// transition runs a coordinator move and starts the mounted page.
func (m Model) transition(move func() error) (tea.Model, tea.Cmd) {
	if err := move(); err != nil {
		m.logger.Error("navigation failed", "error", err)
		m.notice = "Could not open that page."
		return m, nil
	}
	m.notice = ""
	if p, ok := m.coord.Active(); ok {
		return m, p.Init()
	}
	return m, nil
}

func (m Model) fetch(reference string) tea.Cmd {
	store, ctx := m.store, m.ctx
	return func() tea.Msg {
		return fetchDoneMsg{snapshot: store.Fetch(ctx, reference)}
	}
}

func (m Model) retry() tea.Cmd {
	store, ctx := m.store, m.ctx
	return func() tea.Msg {
		return fetchDoneMsg{snapshot: store.Retry(ctx)}
	}
}

func (m *Model) handleEvent(e event.Event) {
	switch ev := e.(type) {
	case event.ViewRenderFailedEvent:
		m.notice = "Something went wrong drawing this page."
		m.logger.Warn("page render failed", "path", ev.Path, "error", ev.Err)
	case event.SessionStaleEvent:
		m.logger.Debug("stale fetch ignored", "reference", ev.Reference)
	}
}

// View renders the frame around the active page.
func (m Model) View() string {
	width := m.width
	if width <= 0 {
		width = 80
	}

	var b strings.Builder
	b.WriteString(m.header())
	b.WriteString("\n")

	body := ""
	if p, ok := m.coord.Active(); ok {
		body = p.View(width - 6)
	}
	b.WriteString(styles.ContentBox.Width(width - 2).Render(body))
	b.WriteString("\n")

	if m.notice != "" {
		b.WriteString(styles.ErrorMsg.Render(m.notice))
		b.WriteString("\n")
	}
	b.WriteString(styles.HelpBar.Render(m.help.View(m.keys)))
	return b.String()
}

func (m Model) header() string {
	active := m.coord.ActivePath()
	parts := []string{styles.Primary.Bold(true).Render("☀ solarsizer")}
	for _, t := range tabs {
		style := styles.TabInactive
		if t.path == active {
			style = styles.TabActive
		}
		parts = append(parts, style.Render(t.title))
	}

	snap := m.store.Snapshot()
	status := styles.Badge(snap.Status.String())
	if snap.Reference != "" {
		status = styles.Muted.Render(truncate(snap.Reference, 24)+" ") + status
	}
	parts = append(parts, "  "+status)
	return lipgloss.JoinHorizontal(lipgloss.Center, parts...)
}

// Close unmounts the active page and waits for its render to stop.
func (m Model) Close() {
	m.coord.Close()
}
