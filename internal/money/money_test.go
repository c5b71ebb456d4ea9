package money

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestFormat(t *testing.T) {
	cases := []struct {
		in   decimal.Decimal
		want string
	}{
		{decimal.Zero, "₹0"},
		{decimal.NewFromInt(250), "₹250"},
		{decimal.NewFromInt(1500), "₹1,500"},
		{decimal.RequireFromString("99.4"), "₹99"},
		{decimal.NewFromInt(-50), "-₹50"},
	}
	for _, tc := range cases {
		if got := Format(tc.in); got != tc.want {
			t.Fatalf("Format(%s) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestSum(t *testing.T) {
	got := Sum(decimal.NewFromInt(200), decimal.NewFromInt(50))
	if !got.Equal(decimal.NewFromInt(250)) {
		t.Fatalf("expected 250, got %s", got)
	}
}
