package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/Iron-Ham/solarsizer/internal/bill"
	"github.com/Iron-Ham/solarsizer/internal/session"
	"github.com/Iron-Ham/solarsizer/internal/tui/styles"
	"github.com/Iron-Ham/solarsizer/internal/view"
)

// billPage previews the bill behind the current session.
type billPage struct {
	view.Base

	deps    *pageDeps
	spinner spinner.Model
}

func newBillPage(d *pageDeps) view.Factory[Page] {
	return func(string) (Page, error) {
		sp := spinner.New()
		sp.Spinner = spinner.Dot
		sp.Style = styles.Accent
		return &billPage{deps: d, spinner: sp}, nil
	}
}

func (p *billPage) Title() string { return "Bill" }

func (p *billPage) Init() tea.Cmd { return p.spinner.Tick }

func (p *billPage) Render(ctx context.Context) error {
	return watchStore(ctx, p.deps.store, p.deps.send)
}

func (p *billPage) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		p.spinner, cmd = p.spinner.Update(msg)
		return cmd
	case tea.KeyMsg:
		snap := p.deps.store.Snapshot()
		switch snap.Status {
		case session.Failed:
			if snap.Retryable && key.Matches(msg, p.deps.keys.Retry) {
				return retry
			}
		case session.Ready:
			if key.Matches(msg, p.deps.keys.Submit) {
				return navigate(PathQuote)
			}
		}
	}
	return nil
}

func (p *billPage) View(width int) string {
	snap := p.deps.store.Snapshot()
	switch snap.Status {
	case session.Loading:
		return p.spinner.View() + " Looking up bill " + styles.Value.Render(snap.Reference) + "…"
	case session.Failed:
		msg, _ := snap.Err()
		return failureView(msg, snap.Retryable)
	case session.Ready:
		rec, _ := snap.Bill()
		return p.readyView(rec, width)
	default:
		return styles.Muted.Render("No bill requested yet. Press esc to enter a reference.")
	}
}

func (p *billPage) readyView(rec bill.Record, width int) string {
	f := p.deps.format
	rows := [][]string{
		{"Reference", rec.ReferenceNumber},
		{"Customer", rec.CustomerName},
		{"Address", rec.Address},
		{"Phone", rec.PhoneNumber},
		{"Issued", rec.IssueDate},
		{"Due", rec.DueDate},
		{"Consumption", f.KWh(rec.UnitsConsumed)},
		{"Rate per kWh", f.Money(rec.RatePerUnit)},
		{"Amount", f.Money(rec.Amount)},
		{"Tax", f.Number(rec.TaxRate*100, 1) + "%  " + f.Money(rec.TaxAmount)},
		{"Total", f.Money(rec.TotalAmount)},
	}

	if width > 0 {
		// Label column, padding and three borders.
		valueWidth := min(width, 72) - 22
		for _, r := range rows {
			r[1] = truncate(r[1], valueWidth)
		}
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(styles.BorderColor)).
		Rows(rows...)
	if width > 0 {
		t = t.Width(min(width, 72))
	}

	var b strings.Builder
	b.WriteString(styles.Title.Render("Your bill"))
	b.WriteString("\n")
	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(styles.Muted.Render("Press enter to see your solar quote."))
	return b.String()
}

// failureView renders a failed lookup. It never touches the quote.
func failureView(msg string, retryable bool) string {
	var b strings.Builder
	b.WriteString(styles.ErrorMsg.Render("✗ " + msg))
	b.WriteString("\n\n")
	if retryable {
		b.WriteString(styles.Muted.Render("Press r to try again, or esc to enter a different reference."))
	} else {
		b.WriteString(styles.Muted.Render("Press esc to enter a different reference."))
	}
	return b.String()
}
