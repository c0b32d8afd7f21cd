// Package analysis infers the date, amount and type columns of a free-form
// transaction sheet and totals its income and expense per month.
package analysis

import (
	"strings"

	"github.com/mymoney-dev/mymoney/internal/coerce"
	"github.com/mymoney-dev/mymoney/internal/sheet"
)

// Columns holds the inferred column indexes. A nil field was not found.
type Columns struct {
	Date   *int `json:"dateColumnIndex"`
	Amount *int `json:"amountColumnIndex"`
	Type   *int `json:"typeColumnIndex"`
}

// Complete reports whether both date and amount columns were found.
func (c Columns) Complete() bool {
	return c.Date != nil && c.Amount != nil
}

// Keywords are the header substrings that identify each column.
type Keywords struct {
	Date   []string
	Amount []string
	Type   []string
}

// DefaultKeywords returns the Korean and English header keywords.
func DefaultKeywords() Keywords {
	return Keywords{
		Date:   []string{"날짜", "date", "일자", "등록일", "발생일"},
		Amount: []string{"금액", "amount", "가격", "비용", "수입", "지출", "매출"},
		Type:   []string{"타입", "type", "구분", "분류", "종류"},
	}
}

// Detector finds columns from the header row (index 0) and the first data
// row after it.
//
// By default a sample that fails validation does not unseat a keyword match:
// the last matching column is kept. With StrictValidation a keyword column
// is only accepted when its sample validates, otherwise detection falls back
// to probing the sample row.
type Detector struct {
	Keywords         Keywords
	StrictValidation bool
	Dates            coerce.DateParser
}

// NewDetector returns a detector with the default keywords.
func NewDetector() *Detector {
	return &Detector{Keywords: DefaultKeywords()}
}

// DetectColumns runs a default detector over snap.
func DetectColumns(snap *sheet.Snapshot) Columns {
	return NewDetector().Detect(snap)
}

// Detect infers the columns of snap.
func (d *Detector) Detect(snap *sheet.Snapshot) Columns {
	var out Columns
	header, ok := snap.Header()
	if !ok {
		return out
	}
	sample, hasSample := snap.FirstAfter(0)

	// validates reports whether the sample cell at col is present and passes check.
	validates := func(col int, check func(sheet.Cell) bool) bool {
		if !hasSample {
			return false
		}
		c := sample.Cell(col)
		return c.Truthy() && check(c)
	}

	isDate := func(c sheet.Cell) bool {
		_, ok := d.Dates.ParseDate(c)
		return ok
	}
	isAmount := func(c sheet.Cell) bool {
		_, ok := coerce.ParseAmount(c)
		return ok
	}
	isNonZeroAmount := func(c sheet.Cell) bool {
		n, ok := coerce.ParseAmount(c)
		return ok && !n.IsZero()
	}

	out.Date = d.match(header, d.Keywords.Date, validates, isDate)
	if out.Date == nil {
		out.Date = probe(header.Len(), nil, func(col int) bool { return validates(col, isDate) })
	}

	out.Amount = d.match(header, d.Keywords.Amount, validates, isAmount)
	if out.Amount == nil {
		var skip *int
		if d.StrictValidation {
			skip = out.Date
		}
		out.Amount = probe(header.Len(), skip, func(col int) bool { return validates(col, isNonZeroAmount) })
	}

	for col := 0; col < header.Len(); col++ {
		if containsAny(header.Text(col), d.Keywords.Type) {
			out.Type = intPtr(col)
			break
		}
	}
	return out
}

// match scans header columns in order for keywords and stops at the first
// one whose sample validates.
func (d *Detector) match(header sheet.Row, keywords []string, validates func(int, func(sheet.Cell) bool) bool, check func(sheet.Cell) bool) *int {
	var found *int
	for col := 0; col < header.Len(); col++ {
		if !containsAny(header.Text(col), keywords) {
			continue
		}
		if validates(col, check) {
			return intPtr(col)
		}
		if !d.StrictValidation {
			found = intPtr(col)
		}
	}
	return found
}

func probe(width int, skip *int, ok func(int) bool) *int {
	for col := 0; col < width; col++ {
		if skip != nil && *skip == col {
			continue
		}
		if ok(col) {
			return intPtr(col)
		}
	}
	return nil
}

func containsAny(header string, keywords []string) bool {
	h := strings.ToLower(header)
	if h == "" {
		return false
	}
	for _, k := range keywords {
		if strings.Contains(h, strings.ToLower(k)) {
			return true
		}
	}
	return false
}

// IsTransfer reports whether a type cell marks an account transfer.
func IsTransfer(c sheet.Cell) bool {
	v := strings.ToLower(strings.TrimSpace(c.Raw()))
	return v == "이체" || v == "transfer"
}

func intPtr(i int) *int { return &i }
