// Package money formats storefront amounts for display.
package money

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

const symbol = "₹"

var printer = message.NewPrinter(language.MustParse("en-IN"))

// Format renders amount as Indian rupees with no fraction digits.
// Display only: fractional paise are rounded away.
func Format(amount decimal.Decimal) string {
	whole := amount.Round(0)
	sign := ""
	if whole.IsNegative() {
		sign = "-"
		whole = whole.Neg()
	}
	return sign + symbol + printer.Sprint(number.Decimal(whole.IntPart()))
}

// Sum adds up amounts.
func Sum(amounts ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total
}
