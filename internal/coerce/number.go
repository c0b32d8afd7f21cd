// Package coerce converts untyped sheet cells into amounts, dates and month keys.
package coerce

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mymoney-dev/mymoney/internal/sheet"
)

// numericPrefix matches the leading number of a string, so "12000원" reads as 12000.
var numericPrefix = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)

// ParseNumber reads a fixed-layout amount. Numbers pass through, strings have
// thousands separators stripped, anything unparseable is zero.
func ParseNumber(c sheet.Cell) decimal.Decimal {
	d, ok := ParseAmount(c)
	if !ok {
		return decimal.Zero
	}
	return d
}

// ParseAmount reads an amount, reporting false when the cell holds no number
// at all so callers can tell "no amount" apart from zero.
func ParseAmount(c sheet.Cell) (decimal.Decimal, bool) {
	if n, ok := c.Number(); ok {
		return n, true
	}
	if c.Kind() != sheet.KindText {
		return decimal.Zero, false
	}
	return ParseAmountString(c.String())
}

// ParseAmountString parses s after removing commas and surrounding whitespace.
func ParseAmountString(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if s == "" {
		return decimal.Zero, false
	}
	m := numericPrefix.FindString(s)
	if m == "" {
		return decimal.Zero, false
	}
	m = strings.TrimPrefix(m, "+")
	if i := strings.IndexAny(m, "eE"); i < 0 {
		m = strings.TrimSuffix(m, ".")
	} else if m[i-1] == '.' {
		m = m[:i-1] + m[i:]
	}
	d, err := decimal.NewFromString(m)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}
