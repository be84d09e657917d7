package cli

import (
	"math"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Money formats amounts in one currency for one locale, without decimals.
type Money struct {
	printer *message.Printer
	symbol  string
}

var naira = currency.MustParseISO("NGN")

// NewMoney builds a formatter. Unknown codes fall back to NGN and en-NG.
func NewMoney(code, locale string) Money {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.MustParse("en-NG")
	}
	unit, err := currency.ParseISO(code)
	if err != nil {
		unit = naira
	}
	p := message.NewPrinter(tag)
	return Money{printer: p, symbol: p.Sprint(currency.NarrowSymbol(unit))}
}

// Symbol returns the narrow currency symbol, e.g. "₦".
func (m Money) Symbol() string { return m.symbol }

// Format renders v with grouping separators and no fraction digits.
// NaN renders as the symbol followed by "NaN".
func (m Money) Format(v float64) string {
	switch {
	case math.IsNaN(v):
		return m.symbol + "NaN"
	case math.IsInf(v, 1):
		return m.symbol + "∞"
	case math.IsInf(v, -1):
		return "-" + m.symbol + "∞"
	}

	sign := ""
	r := math.Round(v)
	if r < 0 {
		sign = "-"
		r = -r
	}
	return sign + m.symbol + m.printer.Sprint(number.Decimal(r, number.MaxFractionDigits(0)))
}
