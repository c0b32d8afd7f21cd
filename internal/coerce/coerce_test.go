package coerce

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mymoney-dev/mymoney/internal/sheet"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestParseNumber(t *testing.T) {
	tests := []struct {
		cell sheet.Cell
		want string
	}{
		{sheet.Text("1,234,567"), "1234567"},
		{sheet.Text(" -1,500.25 "), "-1500.25"},
		{sheet.Text("12,000원"), "12000"},
		{sheet.Text("3.5%"), "3.5"},
		{sheet.Text("abc"), "0"},
		{sheet.Text(""), "0"},
		{sheet.Empty(), "0"},
		{sheet.Float(42.5), "42.5"},
		{sheet.Text("1e3"), "1000"},
		{sheet.Text("7."), "7"},
		{sheet.Text("+8"), "8"},
	}
	for _, tt := range tests {
		got := ParseNumber(tt.cell)
		assert.True(t, got.Equal(dec(tt.want)), "ParseNumber(%q) = %s, want %s", tt.cell.String(), got, tt.want)
	}
}

func TestParseAmountDistinguishesMissing(t *testing.T) {
	_, ok := ParseAmount(sheet.Empty())
	assert.False(t, ok)

	_, ok = ParseAmount(sheet.Text("   "))
	assert.False(t, ok)

	_, ok = ParseAmount(sheet.Text("식비"))
	assert.False(t, ok)

	d, ok := ParseAmount(sheet.Int(0))
	assert.True(t, ok, "zero is an amount")
	assert.True(t, d.IsZero())

	d, ok = ParseAmount(sheet.Text("-4,000"))
	require.True(t, ok)
	assert.True(t, d.Equal(dec("-4000")))
}

func TestParseDate(t *testing.T) {
	seoul, err := time.LoadLocation("Asia/Seoul")
	require.NoError(t, err)
	p := NewDateParser(seoul)

	tests := []struct {
		in   string
		want time.Time
	}{
		{"2025-11-19T00:00:00", time.Date(2025, 11, 19, 0, 0, 0, 0, seoul)},
		{"2025-11-19T10:30", time.Date(2025, 11, 19, 10, 30, 0, 0, seoul)},
		{"2025-11-19T00:00:00Z", time.Date(2025, 11, 19, 0, 0, 0, 0, time.UTC)},
		{"2025-11-19T00:00:00.000+09:00", time.Date(2025, 11, 19, 0, 0, 0, 0, seoul)},
		{"2025-11-19", time.Date(2025, 11, 19, 0, 0, 0, 0, time.UTC)},
		{"2025/11/19", time.Date(2025, 11, 19, 0, 0, 0, 0, time.UTC)},
		{"2025.11.19", time.Date(2025, 11, 19, 0, 0, 0, 0, time.UTC)},
		{"2025-11-19 08:15:00", time.Date(2025, 11, 19, 8, 15, 0, 0, seoul)},
		{"2025/1/5", time.Date(2025, 1, 5, 0, 0, 0, 0, seoul)},
	}
	for _, tt := range tests {
		got, ok := p.ParseDate(sheet.Text(tt.in))
		require.True(t, ok, "ParseDate(%q)", tt.in)
		assert.True(t, got.Equal(tt.want), "ParseDate(%q) = %s, want %s", tt.in, got, tt.want)
	}
}

func TestParseDateFailures(t *testing.T) {
	for _, in := range []sheet.Cell{
		sheet.Empty(),
		sheet.Text(""),
		sheet.Text("Transfer"),
		sheet.Text("2025-13-45"),
		sheet.Text("식비"),
		sheet.Int(45000),
	} {
		_, ok := ParseDate(in)
		assert.False(t, ok, "ParseDate(%q) should fail", in.String())
	}
}

func TestExtractMonthFromString(t *testing.T) {
	got, ok := ExtractMonthFromString(sheet.Text("2025-11-19T00:00:00"))
	require.True(t, ok)
	assert.Equal(t, "2025-11", got)

	_, ok = ExtractMonthFromString(sheet.Text("not a date"))
	assert.False(t, ok)
}

func TestExtractMonthUsesLocation(t *testing.T) {
	// A date-only string is UTC midnight; west of UTC it is still the previous day.
	newYork, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	got, ok := NewDateParser(newYork).ExtractMonthFromString(sheet.Text("2025-12-01"))
	require.True(t, ok)
	assert.Equal(t, "2025-11", got)

	got, ok = NewDateParser(time.UTC).ExtractMonthFromString(sheet.Text("2025-12-01"))
	require.True(t, ok)
	assert.Equal(t, "2025-12", got)
}

func TestFormatMonth(t *testing.T) {
	assert.Equal(t, "2025년 01월", FormatMonth("2025-01"))
	assert.Equal(t, "", FormatMonth(""))
	assert.Equal(t, "2025-13", FormatMonth("2025-13"), "invalid keys pass through")
	assert.Equal(t, "total", FormatMonth("total"))
}

func TestSortMonths(t *testing.T) {
	in := []string{"2025-02", "2024-12", "2025-01"}
	assert.Equal(t, []string{"2024-12", "2025-01", "2025-02"}, SortMonths(in))
	assert.Equal(t, []string{"2025-02", "2024-12", "2025-01"}, in, "input is not modified")
}

func TestParseMonth(t *testing.T) {
	y, m, err := ParseMonth("2024-11")
	require.NoError(t, err)
	assert.Equal(t, 2024, y)
	assert.Equal(t, 11, m)

	_, _, err = ParseMonth("2024-13")
	assert.Error(t, err)
	_, _, err = ParseMonth("202411")
	assert.Error(t, err)
}

func TestIsMonthKey(t *testing.T) {
	assert.True(t, IsMonthKey("2024-11"))
	assert.False(t, IsMonthKey("2024-11-01"))
	assert.False(t, IsMonthKey(" 2024-11"))
}
