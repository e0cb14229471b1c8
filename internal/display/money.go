package display

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Money formats amounts for one locale with no fraction digits. Each
// figure is shown in its own currency.
type Money struct {
	printer  *message.Printer
	fallback string
}

// NewMoney falls back to English for an unparsable locale.
func NewMoney(locale, defaultCurrency string) *Money {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.English
	}
	return &Money{
		printer:  message.NewPrinter(tag),
		fallback: strings.ToUpper(strings.TrimSpace(defaultCurrency)),
	}
}

// Format renders amount in the ISO currency code. An empty code uses the
// default currency; an unknown one is printed as given.
func (m *Money) Format(amount decimal.Decimal, code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		code = m.fallback
	}

	figure := m.printer.Sprint(number.Decimal(amount.Round(0).IntPart(), number.MaxFractionDigits(0)))

	unit, err := currency.ParseISO(code)
	if err != nil {
		return fmt.Sprintf("%s %s", code, figure)
	}
	return m.printer.Sprintf("%v %s", currency.Symbol(unit), figure)
}

// Default renders amount in the default currency.
func (m *Money) Default(amount decimal.Decimal) string {
	return m.Format(amount, "")
}

// Percent renders a rate with one decimal place.
func Percent(rate decimal.Decimal) string {
	return rate.StringFixed(1) + "%"
}
