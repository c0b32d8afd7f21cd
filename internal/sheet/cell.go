package sheet

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
)

// Kind classifies the value held by a Cell.
type Kind uint8

const (
	KindEmpty Kind = iota
	KindText
	KindNumber
)

// Cell is a single untyped spreadsheet value: absent, text or number.
type Cell struct {
	kind Kind
	text string
	num  decimal.Decimal
}

// Empty returns an absent cell.
func Empty() Cell { return Cell{} }

// Text returns a text cell.
func Text(s string) Cell { return Cell{kind: KindText, text: s} }

// Number returns a numeric cell.
func Number(d decimal.Decimal) Cell { return Cell{kind: KindNumber, num: d} }

// Float returns a numeric cell from a float64.
func Float(f float64) Cell { return Number(decimal.NewFromFloat(f)) }

// Int returns a numeric cell from an int64.
func Int(i int64) Cell { return Number(decimal.NewFromInt(i)) }

// Kind reports what the cell holds.
func (c Cell) Kind() Kind { return c.kind }

// IsEmpty reports whether the cell is absent.
func (c Cell) IsEmpty() bool { return c.kind == KindEmpty }

// Truthy reports whether the cell carries a usable value: absent cells,
// empty strings and numeric zero are not truthy.
func (c Cell) Truthy() bool {
	switch c.kind {
	case KindText:
		return c.text != ""
	case KindNumber:
		return !c.num.IsZero()
	default:
		return false
	}
}

// Raw returns the cell rendered as a string, or "" when the cell is not truthy.
func (c Cell) Raw() string {
	if !c.Truthy() {
		return ""
	}
	if c.kind == KindNumber {
		return c.num.String()
	}
	return c.text
}

// Number returns the numeric value when the cell holds a number.
func (c Cell) Number() (decimal.Decimal, bool) {
	if c.kind != KindNumber {
		return decimal.Zero, false
	}
	return c.num, true
}

func (c Cell) String() string {
	switch c.kind {
	case KindText:
		return c.text
	case KindNumber:
		return c.num.String()
	default:
		return ""
	}
}

// MarshalJSON encodes absent cells as null, numbers as JSON numbers and text as strings.
func (c Cell) MarshalJSON() ([]byte, error) {
	switch c.kind {
	case KindText:
		return json.Marshal(c.text)
	case KindNumber:
		return []byte(c.num.String()), nil
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON accepts null, strings, numbers and booleans.
func (c *Cell) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		*c = Empty()
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("decoding text cell: %w", err)
		}
		*c = Text(s)
	case bytes.Equal(data, []byte("true")) || bytes.Equal(data, []byte("false")):
		*c = Text(string(data))
	default:
		d, err := decimal.NewFromString(string(data))
		if err != nil {
			return fmt.Errorf("decoding numeric cell %s: %w", data, err)
		}
		*c = Number(d)
	}
	return nil
}

// Parse converts a raw string from a workbook into a cell: "" is absent,
// integers and decimals become numbers, anything else stays text.
func Parse(s string) Cell {
	if s == "" {
		return Empty()
	}
	if _, err := strconv.ParseFloat(s, 64); err == nil {
		if d, err := decimal.NewFromString(s); err == nil {
			return Number(d)
		}
	}
	return Text(s)
}
