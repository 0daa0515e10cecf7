package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/Iron-Ham/solarsizer/internal/bill"
	"github.com/Iron-Ham/solarsizer/internal/config"
	"github.com/Iron-Ham/solarsizer/internal/errors"
	"github.com/Iron-Ham/solarsizer/internal/logging"
	"github.com/Iron-Ham/solarsizer/internal/session"
	"github.com/Iron-Ham/solarsizer/internal/sizing"
	"github.com/Iron-Ham/solarsizer/internal/tui"
)

var quoteCmd = &cobra.Command{
	Use:   "quote <reference>",
	Short: "Print a sizing quote for one bill",
	Long: `Look up one bill and print its sizing quote.

Exits non-zero when the bill cannot be looked up or sized.

Examples:
  solarsizer quote ABC-1001
  solarsizer quote ABC-1001 --json`,
	Args: cobra.ExactArgs(1),
	RunE: runQuote,
}

var (
	quoteJSON    bool
	quoteVerbose bool
)

func init() {
	rootCmd.AddCommand(quoteCmd)

	quoteCmd.Flags().BoolVar(&quoteJSON, "json", false, "Print the bill and quote as JSON")
	quoteCmd.Flags().BoolVarP(&quoteVerbose, "verbose", "v", false, "Log lookup details to stderr")
}

// quoteOutput is the --json document.
type quoteOutput struct {
	Reference string       `json:"reference"`
	Bill      bill.Record  `json:"bill"`
	Quote     sizing.Quote `json:"quote"`
}

func runQuote(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	level := logging.LevelWarn
	if quoteVerbose {
		level = logging.LevelDebug
	}
	logger := logging.NewWriterLogger(cmd.ErrOrStderr(), level)

	resolver, err := buildResolver(cmd.Context(), withoutWatch(cfg), logger)
	if err != nil {
		return err
	}

	store := session.NewStore(resolver, cfg.SizingParameters(),
		session.WithLogger(logger),
		session.WithTimeout(cfg.Resolver.Timeout()),
	)
	defer store.Close()

	snap := store.Fetch(cmd.Context(), args[0])
	if msg, failed := snap.Err(); failed {
		return errors.New(msg)
	}
	q, ok := snap.Quote()
	if !ok {
		return fmt.Errorf("lookup for %s did not finish", snap.Reference)
	}
	rec, _ := snap.Bill()

	out := cmd.OutOrStdout()
	if quoteJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(quoteOutput{Reference: snap.Reference, Bill: rec, Quote: q})
	}
	return printQuote(out, tui.NewFormatter(cfg.TUI.Locale, cfg.TUI.CurrencySymbol), rec, q)
}

func printQuote(w io.Writer, f tui.Formatter, rec bill.Record, q sizing.Quote) error {
	t := table.New().
		Border(lipgloss.HiddenBorder()).
		Rows(
			[]string{"Customer", rec.CustomerName},
			[]string{"Monthly consumption", f.KWh(rec.UnitsConsumed)},
			[]string{"System size", f.KW(q.RecommendedSystemSize)},
			[]string{"Panels", fmt.Sprintf("%s × %sW", f.Int(q.NumberOfPanels), f.Number(q.PanelWattage, 0))},
			[]string{"Coverage", f.Percent(q.CoveragePercentage)},
			[]string{"Estimated cost", f.Money(q.EstimatedSystemCost)},
			[]string{"  Equipment", f.Money(q.CostBreakdown.Equipment)},
			[]string{"  Labor", f.Money(q.CostBreakdown.Labor)},
			[]string{"  Permits", f.Money(q.CostBreakdown.Permits)},
			[]string{"Incentives", f.Money(q.Incentives)},
			[]string{"Net cost", f.Money(q.NetSystemCost)},
			[]string{"Annual production", f.KWh(q.EstimatedAnnualProduction)},
			[]string{"Annual savings", f.Money(q.EstimatedAnnualSavings)},
			[]string{"Payback", f.Payback(q.EstimatedPaybackPeriod, q.PaybackBounded())},
			[]string{"CO₂ offset", f.Number(q.CO2OffsetTonsPerYear, 2) + " t/year"},
			[]string{"Trees equivalent", f.Number(q.TreesEquivalent, 0)},
			[]string{"Roof area", f.Number(q.RoofAreaSqFt, 0) + " sq ft"},
		)

	_, err := fmt.Fprintf(w, "Solar quote for %s\n%s\n", rec.ReferenceNumber, t.Render())
	return err
}

// withoutWatch disables fixture watching for commands that exit right away.
func withoutWatch(cfg *config.Config) *config.Config {
	c := *cfg
	c.Resolver.WatchFixtures = false
	return &c
}
