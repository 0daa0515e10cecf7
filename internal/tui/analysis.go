package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/linechart"
	tslc "github.com/NimbleMarkets/ntcharts/linechart/timeserieslinechart"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Iron-Ham/solarsizer/internal/session"
	"github.com/Iron-Ham/solarsizer/internal/sizing"
	"github.com/Iron-Ham/solarsizer/internal/tui/styles"
	"github.com/Iron-Ham/solarsizer/internal/view"
)

const chartHeight = 12

// chartEpoch anchors projection years on the chart's time axis. Year n is
// plotted at chartEpoch plus n years.
var chartEpoch = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)

// analysisPage shows the long-term view of the quote: cumulative savings
// and environmental impact.
type analysisPage struct {
	view.Base

	deps *pageDeps
}

func newAnalysisPage(d *pageDeps) view.Factory[Page] {
	return func(string) (Page, error) {
		return &analysisPage{deps: d}, nil
	}
}

func (p *analysisPage) Title() string { return "Analysis" }

func (p *analysisPage) Init() tea.Cmd { return nil }

func (p *analysisPage) Render(ctx context.Context) error {
	return watchStore(ctx, p.deps.store, p.deps.send)
}

func (p *analysisPage) Update(tea.Msg) tea.Cmd { return nil }

func (p *analysisPage) View(width int) string {
	snap := p.deps.store.Snapshot()
	switch snap.Status {
	case session.Ready:
		q, _ := snap.Quote()
		return p.readyView(q, width)
	case session.Failed:
		msg, _ := snap.Err()
		return failureView(msg, false)
	case session.Loading:
		return styles.Muted.Render("Preparing your analysis for " + snap.Reference + "…")
	default:
		return styles.Muted.Render("No quote yet. Press esc to enter a bill reference.")
	}
}

func (p *analysisPage) readyView(q sizing.Quote, width int) string {
	f := p.deps.format
	years := p.deps.chartYears
	points := ProjectSavings(q, years)

	var b strings.Builder
	b.WriteString(styles.Title.Render(fmt.Sprintf("%d-year outlook", years)))
	b.WriteString("\n")
	b.WriteString(styles.Subtitle.Render("Cumulative net savings"))
	b.WriteString("\n")
	b.WriteString(savingsChart(points, f, max(width-2, 30)))
	b.WriteString("\n\n")

	breakEven := "not within " + fmt.Sprint(years) + " years"
	if y := BreakEvenYear(points); y >= 0 {
		breakEven = fmt.Sprintf("year %d", y)
	}
	b.WriteString(row("Break-even", breakEven))
	b.WriteString(row(fmt.Sprintf("Net at year %d", years), f.Money(points[len(points)-1])))
	b.WriteString("\n")

	b.WriteString(styles.Subtitle.Render("Environmental impact"))
	b.WriteString("\n")
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		statCard("CO₂ offset", f.Number(q.CO2OffsetTonsPerYear, 2)+" t/yr"),
		statCard("Trees", f.Number(q.TreesEquivalent, 0)),
		statCard("Roof area", f.Number(q.RoofAreaSqFt, 0)+" sq ft"),
		statCard("Annual output", f.KWh(q.EstimatedAnnualProduction)),
	))
	return b.String()
}

// savingsChart draws points as a braille line chart, one point per year.
func savingsChart(points []float64, f Formatter, width int) string {
	if len(points) < 2 {
		return ""
	}
	minY, maxY := points[0], points[0]
	for _, v := range points {
		minY = min(minY, v)
		maxY = max(maxY, v)
	}
	if minY == maxY {
		maxY = minY + 1
	}

	start := chartEpoch
	end := chartEpoch.AddDate(len(points)-1, 0, 0)

	chart := tslc.New(width, chartHeight)
	chart.SetStyle(lipgloss.NewStyle().Foreground(styles.PrimaryColor))
	chart.AxisStyle = lipgloss.NewStyle().Foreground(styles.BorderColor)
	chart.LabelStyle = lipgloss.NewStyle().Foreground(styles.MutedColor)
	chart.SetTimeRange(start, end)
	chart.SetViewTimeRange(start, end)
	chart.SetYRange(minY, maxY)
	chart.SetViewYRange(minY, maxY)
	chart.Model.XLabelFormatter = yearLabelFormatter()
	chart.Model.YLabelFormatter = func(_ int, v float64) string {
		return f.Compact(v)
	}

	for i, v := range points {
		chart.Push(tslc.TimePoint{Time: start.AddDate(i, 0, 0), Value: v})
	}
	chart.DrawBraille()
	return chart.View()
}

func yearLabelFormatter() linechart.LabelFormatter {
	return func(_ int, v float64) string {
		t := time.Unix(int64(v), 0).UTC()
		return fmt.Sprintf("Y%d", t.Year()-chartEpoch.Year())
	}
}
