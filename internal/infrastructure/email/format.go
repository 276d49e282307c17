package email

import (
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// FormatMoney renders an amount with grouping and its narrow currency
// symbol, e.g. "$1,250.00". Unknown codes are appended instead.
func FormatMoney(amount decimal.Decimal, code string) string {
	value := printer.Sprintf("%.2f", amount.Round(2).InexactFloat64())
	unit, err := currency.ParseISO(code)
	if err != nil {
		return value + " " + code
	}
	return printer.Sprint(currency.NarrowSymbol(unit)) + value
}

func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format("January 2, 2006")
}
