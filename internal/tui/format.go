package tui

import (
	"fmt"
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Formatter renders quote numbers for one locale and currency.
type Formatter struct {
	printer  *message.Printer
	currency string
}

// NewFormatter returns a Formatter for locale (a BCP 47 tag). Unparseable
// locales fall back to English.
func NewFormatter(locale, currency string) Formatter {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.English
	}
	return Formatter{
		printer:  message.NewPrinter(tag),
		currency: currency,
	}
}

// Number formats v with digit grouping and the given number of decimals.
func (f Formatter) Number(v float64, decimals int) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "–"
	}
	return f.printer.Sprintf(fmt.Sprintf("%%.%df", decimals), v)
}

// Int formats n with digit grouping.
func (f Formatter) Int(n int) string {
	return f.printer.Sprintf("%d", n)
}

// Money formats v in whole currency units.
func (f Formatter) Money(v float64) string {
	if v < 0 {
		return "-" + f.currency + f.Number(-v, 0)
	}
	return f.currency + f.Number(v, 0)
}

// KW formats a system size.
func (f Formatter) KW(v float64) string {
	return f.Number(v, 2) + " kW"
}

// KWh formats an energy amount.
func (f Formatter) KWh(v float64) string {
	return f.Number(v, 0) + " kWh"
}

// Percent formats a 0-100 value.
func (f Formatter) Percent(v float64) string {
	return f.Number(v, 1) + "%"
}

// Payback formats a payback period; unbounded periods read "never".
func (f Formatter) Payback(years float64, bounded bool) string {
	if !bounded {
		return "never"
	}
	return f.Number(years, 1) + " years"
}

// Compact formats large values with a K or M suffix, for chart axes.
func (f Formatter) Compact(v float64) string {
	abs := math.Abs(v)
	switch {
	case abs >= 1e6:
		return f.Number(v/1e6, 1) + "M"
	case abs >= 1e3:
		return f.Number(v/1e3, 0) + "K"
	default:
		return f.Number(v, 0)
	}
}
