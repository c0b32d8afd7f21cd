package coerce

import (
	"fmt"
	"regexp"
	"slices"
	"strconv"
)

var monthKey = regexp.MustCompile(`^\d{4}-\d{2}$`)

// IsMonthKey reports whether s is a "YYYY-MM" key.
func IsMonthKey(s string) bool {
	return monthKey.MatchString(s)
}

// FormatMonth renders "2025-01" as "2025년 01월". Anything that is not a
// valid month key is returned unchanged.
func FormatMonth(key string) string {
	year, month, err := ParseMonth(key)
	if err != nil {
		return key
	}
	return fmt.Sprintf("%04d년 %02d월", year, month)
}

// SortMonths returns a sorted copy of keys. Zero-padded keys sort chronologically.
func SortMonths(keys []string) []string {
	out := slices.Clone(keys)
	slices.Sort(out)
	return out
}

// ParseMonth splits a "YYYY-MM" key into year and month.
func ParseMonth(key string) (year, month int, err error) {
	if !IsMonthKey(key) {
		return 0, 0, fmt.Errorf("invalid month key %q", key)
	}
	year, err = strconv.Atoi(key[:4])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid year in month key %q: %w", key, err)
	}
	month, err = strconv.Atoi(key[5:])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid month in month key %q: %w", key, err)
	}
	if month < 1 || month > 12 {
		return 0, 0, fmt.Errorf("month out of range in %q", key)
	}
	return year, month, nil
}
