package db

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Numeric columns are selected as text (col::text) and parsed here, so money
// never passes through float64.

// ParseNumeric parses a numeric column rendered as text.
func ParseNumeric(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse numeric %q: %w", s, err)
	}
	return d, nil
}

// ParseOptionalNumeric maps an empty string (a NULL coalesced to '') to nil.
func ParseOptionalNumeric(s string) (*decimal.Decimal, error) {
	if s == "" {
		return nil, nil
	}
	d, err := ParseNumeric(s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// NumericArg renders an optional amount as a query argument.
func NumericArg(d *decimal.Decimal) any {
	if d == nil {
		return nil
	}
	return d.String()
}
