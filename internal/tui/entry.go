package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Iron-Ham/solarsizer/internal/session"
	"github.com/Iron-Ham/solarsizer/internal/tui/styles"
	"github.com/Iron-Ham/solarsizer/internal/view"
)

// entryPage asks for a bill reference.
type entryPage struct {
	view.Base

	deps  *pageDeps
	input textinput.Model
	hint  string
}

func newEntryPage(d *pageDeps) view.Factory[Page] {
	return func(string) (Page, error) {
		in := textinput.New()
		in.Placeholder = "e.g. ABC-1001"
		in.Prompt = "› "
		in.CharLimit = 32
		in.Width = 32
		if ref, ok := d.store.Reference(); ok {
			in.SetValue(ref)
		}
		in.Focus()
		return &entryPage{deps: d, input: in}, nil
	}
}

func (p *entryPage) Title() string { return "Reference" }

func (p *entryPage) Init() tea.Cmd { return textinput.Blink }

func (p *entryPage) Render(ctx context.Context) error { return nil }

func (p *entryPage) Update(msg tea.Msg) tea.Cmd {
	if km, ok := msg.(tea.KeyMsg); ok && key.Matches(km, p.deps.keys.Submit) {
		ref := strings.TrimSpace(p.input.Value())
		if ref == "" {
			p.hint = "Enter the reference number printed on your bill."
			return nil
		}
		p.hint = ""
		return submit(ref)
	}

	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	return cmd
}

func (p *entryPage) View(width int) string {
	var b strings.Builder
	b.WriteString(styles.Title.Render("Size a solar system from your electricity bill"))
	b.WriteString("\n")
	b.WriteString(styles.Muted.Render("Enter your bill reference to look up your consumption."))
	b.WriteString("\n\n")
	b.WriteString(p.input.View())
	b.WriteString("\n")

	if p.hint != "" {
		b.WriteString("\n" + styles.WarningMsg.Render(p.hint) + "\n")
	}

	snap := p.deps.store.Snapshot()
	if snap.Status != session.Idle {
		b.WriteString("\n")
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
			styles.Muted.Render("Last lookup: "),
			styles.Value.Render(snap.Reference+" "),
			styles.Badge(snap.Status.String()),
		))
		b.WriteString("\n")
	}
	return b.String()
}
