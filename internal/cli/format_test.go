package cli

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestFormatBRL(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"600", "R$ 600,00"},
		{"1234.56", "R$ 1.234,56"},
		{"1234567.89", "R$ 1.234.567,89"},
		{"0", "R$ 0,00"},
		{"0.5", "R$ 0,50"},
		{"-1234.56", "R$ -1.234,56"},
		{"1000000", "R$ 1.000.000,00"},
	}

	for _, c := range cases {
		d := decimal.RequireFromString(c.in)
		if got := FormatBRL(d); got != c.want {
			t.Errorf("FormatBRL(%s) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestFormatBRLValue(t *testing.T) {
	cases := []struct {
		in   any
		want string
	}{
		{decimal.RequireFromString("600"), "R$ 600,00"},
		{600.0, "R$ 600,00"},
		{600, "R$ 600,00"},
		{"1234.56", "R$ 1.234,56"},
		{" 42 ", "R$ 42,00"},
		{"n/d", "n/d"}, // unparseable strings come back as-is
	}

	for _, c := range cases {
		if got := FormatBRLValue(c.in); got != c.want {
			t.Errorf("FormatBRLValue(%v) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestFormatCount(t *testing.T) {
	cases := []struct {
		in   int
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1.000"},
		{1234567, "1.234.567"},
		{-1234, "-1.234"},
	}

	for _, c := range cases {
		if got := FormatCount(c.in); got != c.want {
			t.Errorf("FormatCount(%d) = %q, want %q", c.in, got, c.want)
		}
	}
}
