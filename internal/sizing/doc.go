// Package sizing derives a solar system quote from a utility bill.
//
// [Derive] is a pure function of the bill and a [Parameters] set: it reads no
// clock, draws no random numbers and never panics on a record that passed
// bill.Record.Validate. Arithmetic runs on shopspring/decimal so rounding the
// system size and counting panels are not at the mercy of binary float noise.
//
// Zero (or negative) consumption is a defined case, not an error: the quote
// is all zeros and the payback period is [UnboundedPayback].
package sizing
