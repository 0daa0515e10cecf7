package tui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Iron-Ham/solarsizer/internal/session"
	"github.com/Iron-Ham/solarsizer/internal/sizing"
	"github.com/Iron-Ham/solarsizer/internal/tui/styles"
	"github.com/Iron-Ham/solarsizer/internal/view"
)

// animationFrames is the length of the count-up animation.
const animationFrames = 25

// quotePage is the sizing dashboard. Its headline numbers count up from
// zero each time a new quote arrives.
type quotePage struct {
	id       uint64
	deps     *pageDeps
	bar      progress.Model
	frame    int
	animGen  uint64
	released bool
}

func newQuotePage(d *pageDeps) view.Factory[Page] {
	return func(string) (Page, error) {
		bar := progress.New(progress.WithSolidFill(string(styles.SecondaryColor)))
		bar.ShowPercentage = false
		return &quotePage{id: nextPageID(), deps: d, bar: bar}, nil
	}
}

func (p *quotePage) Title() string { return "Quote" }

func (p *quotePage) Init() tea.Cmd { return nil }

// Render keeps the page in sync with the store and drives the count-up
// animation for each quote it sees.
func (p *quotePage) Render(ctx context.Context) error {
	var animated uint64
	for {
		changed := p.deps.store.Changed()
		snap := p.deps.store.Snapshot()
		p.deps.send.Send(refreshMsg{})

		if snap.Status == session.Ready && snap.Generation != animated && p.deps.interval > 0 {
			animated = snap.Generation
			if err := p.animate(ctx, snap.Generation); err != nil {
				return nil
			}
		}

		select {
		case <-changed:
		case <-ctx.Done():
			return nil
		}
	}
}

func (p *quotePage) animate(ctx context.Context, generation uint64) error {
	ticker := time.NewTicker(p.deps.interval)
	defer ticker.Stop()

	for frame := 1; frame <= animationFrames; frame++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			p.deps.send.Send(animTickMsg{page: p.id, generation: generation, frame: frame})
		}
	}
	return nil
}

// Cleanup stops the page from reacting to animation ticks still queued in
// the program.
func (p *quotePage) Cleanup() {
	p.released = true
}

func (p *quotePage) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case animTickMsg:
		if p.released || msg.page != p.id {
			return nil
		}
		p.animGen = msg.generation
		p.frame = msg.frame
	case tea.KeyMsg:
		if key.Matches(msg, p.deps.keys.Submit) && p.deps.store.Status() == session.Ready {
			return navigate(PathAnalysis)
		}
	}
	return nil
}

// progressFraction is how far the count-up has run for generation.
func (p *quotePage) progressFraction(generation uint64) float64 {
	if p.deps.interval <= 0 {
		return 1
	}
	if generation != p.animGen {
		return 0
	}
	return easeOutCubic(float64(p.frame) / animationFrames)
}

func easeOutCubic(t float64) float64 {
	if t >= 1 {
		return 1
	}
	if t <= 0 {
		return 0
	}
	u := 1 - t
	return 1 - u*u*u
}

func (p *quotePage) View(width int) string {
	snap := p.deps.store.Snapshot()
	switch snap.Status {
	case session.Ready:
		q, _ := snap.Quote()
		return p.readyView(q, p.progressFraction(snap.Generation), width)
	case session.Failed:
		msg, _ := snap.Err()
		return failureView(msg, false)
	case session.Loading:
		return styles.Muted.Render("Preparing your quote for " + snap.Reference + "…")
	default:
		return styles.Muted.Render("No quote yet. Press esc to enter a bill reference.")
	}
}

func (p *quotePage) readyView(q sizing.Quote, t float64, width int) string {
	f := p.deps.format

	cards := lipgloss.JoinHorizontal(lipgloss.Top,
		statCard("System size", f.KW(q.RecommendedSystemSize*t)),
		statCard("Panels", f.Int(int(float64(q.NumberOfPanels)*t+0.5))),
		statCard("System cost", f.Money(q.EstimatedSystemCost*t)),
		statCard("Annual savings", f.Money(q.EstimatedAnnualSavings*t)),
	)

	barWidth := 40
	if width > 0 && width-20 < barWidth {
		barWidth = max(width-20, 10)
	}
	p.bar.Width = barWidth
	coverage := q.CoveragePercentage / 100 * t

	var b strings.Builder
	b.WriteString(styles.Title.Render("Your solar quote"))
	b.WriteString("\n")
	b.WriteString(cards)
	b.WriteString("\n\n")
	b.WriteString(styles.Label.Render("Coverage") + p.bar.ViewAs(coverage) + " " + f.Percent(q.CoveragePercentage*t))
	b.WriteString("\n")
	b.WriteString(row("Payback", f.Payback(q.EstimatedPaybackPeriod, q.PaybackBounded())))
	b.WriteString(row("Panel rating", f.Number(q.PanelWattage, 0)+" W"))
	b.WriteString("\n")
	b.WriteString(styles.Subtitle.Render("Cost breakdown"))
	b.WriteString("\n")
	b.WriteString(row("Equipment", f.Money(q.CostBreakdown.Equipment)))
	b.WriteString(row("Labor", f.Money(q.CostBreakdown.Labor)))
	b.WriteString(row("Permits", f.Money(q.CostBreakdown.Permits)))
	if q.Incentives > 0 {
		b.WriteString(row("Incentives", "-"+f.Money(q.Incentives)))
		b.WriteString(row("Net cost", f.Money(q.NetSystemCost)))
	}
	b.WriteString("\n")
	b.WriteString(styles.Subtitle.Render("Estimated production"))
	b.WriteString("\n")
	b.WriteString(row("Daily", f.KWh(q.EstimatedDailyProduction)))
	b.WriteString(row("Monthly", f.KWh(q.EstimatedMonthlyProduction)))
	b.WriteString(row("Annual", f.KWh(q.EstimatedAnnualProduction)))
	b.WriteString("\n")
	b.WriteString(styles.Muted.Render("Press enter for the long-term analysis."))
	return b.String()
}

func statCard(label, value string) string {
	return styles.StatCard.Render(styles.Muted.Render(label) + "\n" + styles.BigNumber.Render(value))
}

func row(label, value string) string {
	return styles.Label.Render(label) + styles.Value.Render(value) + "\n"
}
