package coerce

import (
	"regexp"
	"strings"
	"time"

	"github.com/mymoney-dev/mymoney/internal/sheet"
)

var strictDate = []*regexp.Regexp{
	regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`),
	regexp.MustCompile(`^\d{4}/\d{2}/\d{2}$`),
	regexp.MustCompile(`^\d{4}\.\d{2}\.\d{2}$`),
}

// Date-times carrying an explicit offset.
var zonedLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04Z07:00",
}

// Date-times without an offset are wall-clock times in the parser's location.
var localLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
}

var fallbackLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006/01/02 15:04:05",
	"2006/01/02 15:04",
	"2006-1-2",
	"2006/1/2",
	"2006.1.2",
	"01/02/2006",
	"1/2/2006",
	"Jan 2, 2006",
	"Jan 2 2006",
	"January 2, 2006",
	"2 Jan 2006",
	"Mon Jan 2 2006",
	"Mon Jan 02 2006 15:04:05",
	time.RFC1123,
	time.RFC1123Z,
}

// DateParser parses date cells and projects them to month keys using the
// wall-clock year and month in Location.
type DateParser struct {
	Location *time.Location
}

// NewDateParser returns a parser for loc; nil means time.Local.
func NewDateParser(loc *time.Location) DateParser {
	return DateParser{Location: loc}
}

func (p DateParser) loc() *time.Location {
	if p.Location == nil {
		return time.Local
	}
	return p.Location
}

// ParseDate reads a date from a cell. Strings containing a time marker are
// tried as ISO-8601 date-times first, then strict YYYY-MM-DD style dates
// (UTC midnight), then a permissive set of layouts.
func (p DateParser) ParseDate(c sheet.Cell) (time.Time, bool) {
	s := strings.TrimSpace(c.Raw())
	if s == "" {
		return time.Time{}, false
	}

	if strings.Contains(s, "T") {
		if t, ok := p.parseISO(s); ok {
			return t, true
		}
	}

	for _, re := range strictDate {
		if !re.MatchString(s) {
			continue
		}
		normalized := strings.NewReplacer("/", "-", ".", "-").Replace(s)
		if t, err := time.Parse(time.DateOnly, normalized); err == nil {
			return t, true
		}
	}

	for _, layout := range fallbackLayouts {
		if t, err := time.ParseInLocation(layout, s, p.loc()); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func (p DateParser) parseISO(s string) (time.Time, bool) {
	for _, layout := range zonedLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, s, p.loc()); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ExtractMonth returns the "YYYY-MM" key of t in the parser's location.
// Instants near midnight UTC can land in a neighbouring month depending on
// the location; this matches how the sheets were originally bucketed.
func (p DateParser) ExtractMonth(t time.Time) string {
	return t.In(p.loc()).Format("2006-01")
}

// ExtractMonthFromString parses c and returns its month key.
func (p DateParser) ExtractMonthFromString(c sheet.Cell) (string, bool) {
	t, ok := p.ParseDate(c)
	if !ok {
		return "", false
	}
	return p.ExtractMonth(t), true
}

var local = DateParser{}

// ParseDate parses c in time.Local.
func ParseDate(c sheet.Cell) (time.Time, bool) { return local.ParseDate(c) }

// ExtractMonth returns the month key of t in time.Local.
func ExtractMonth(t time.Time) string { return local.ExtractMonth(t) }

// ExtractMonthFromString parses c in time.Local and returns its month key.
func ExtractMonthFromString(c sheet.Cell) (string, bool) { return local.ExtractMonthFromString(c) }
