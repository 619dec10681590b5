// Package cli renders tables and values for the terminal surfaces.
package cli

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// FormatBRL renders a monetary value in Brazilian convention:
// "R$ 1.234,56" with dot thousands groups and a comma decimal mark.
func FormatBRL(d decimal.Decimal) string {
	fixed := d.StringFixed(2) // e.g. "-1234.56"

	neg := strings.HasPrefix(fixed, "-")
	if neg {
		fixed = fixed[1:]
	}

	intPart, fracPart, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	for i, ch := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(ch)
	}
	b.WriteByte(',')
	b.WriteString(fracPart)

	return "R$ " + b.String()
}

// FormatBRLValue formats any plausible monetary value and never fails:
// values that cannot be coerced to a number come back as plain text.
func FormatBRLValue(v any) string {
	switch x := v.(type) {
	case decimal.Decimal:
		return FormatBRL(x)
	case float64:
		return FormatBRL(decimal.NewFromFloat(x))
	case float32:
		return FormatBRL(decimal.NewFromFloat32(x))
	case int:
		return FormatBRL(decimal.NewFromInt(int64(x)))
	case int64:
		return FormatBRL(decimal.NewFromInt(x))
	case string:
		if d, err := decimal.NewFromString(strings.TrimSpace(x)); err == nil {
			return FormatBRL(d)
		}
		return x
	default:
		return fmt.Sprint(v)
	}
}

// FormatCount renders an integer with dot thousands groups ("1.234").
func FormatCount(n int) string {
	s := fmt.Sprintf("%d", n)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	for i, ch := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(ch)
	}
	return b.String()
}
