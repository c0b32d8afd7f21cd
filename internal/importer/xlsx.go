package importer

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/mymoney-dev/mymoney/internal/sheet"
)

// isoDateTime is how date-formatted cells are stored.
const isoDateTime = "2006-01-02T15:04:05"

// XLSXReader reads Office Open XML workbooks. Formula cells yield their
// cached values and date-formatted numbers become ISO date-time strings.
type XLSXReader struct{}

// Format returns the file extension handled.
func (x *XLSXReader) Format() string { return "xlsx" }

// Read returns every non-empty sheet in workbook order.
func (x *XLSXReader) Read(r io.ReadSeeker) ([]Sheet, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("opening xlsx: %w", err)
	}
	defer f.Close()

	wb := &xlsxWorkbook{f: f, styles: map[int]bool{}}
	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		wb.date1904 = *props.Date1904
	}

	var out []Sheet
	for _, name := range f.GetSheetList() {
		rows, err := wb.rows(name)
		if err != nil {
			return nil, fmt.Errorf("reading sheet %q: %w", name, err)
		}
		if s, ok := newSheet(name, rows); ok {
			out = append(out, s)
		}
	}
	return out, nil
}

type xlsxWorkbook struct {
	f        *excelize.File
	date1904 bool
	styles   map[int]bool // style ID -> has a date number format
}

func (wb *xlsxWorkbook) rows(name string) ([][]sheet.Cell, error) {
	raw, err := wb.f.GetRows(name, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, err
	}
	out := make([][]sheet.Cell, len(raw))
	for i, values := range raw {
		cells := make([]sheet.Cell, len(values))
		for j, v := range values {
			if v == "" {
				continue
			}
			axis, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				return nil, err
			}
			cells[j] = wb.cell(name, axis, v)
		}
		out[i] = cells
	}
	return out, nil
}

func (wb *xlsxWorkbook) cell(name, axis, raw string) sheet.Cell {
	typ, err := wb.f.GetCellType(name, axis)
	if err != nil {
		return sheet.Parse(raw)
	}
	switch typ {
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString, excelize.CellTypeError:
		return sheet.Text(raw)
	case excelize.CellTypeBool:
		if raw == "1" {
			return sheet.Text("true")
		}
		return sheet.Text("false")
	}

	serial, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return sheet.Parse(raw)
	}
	if typ == excelize.CellTypeDate || wb.isDateStyled(name, axis) {
		if t, err := excelize.ExcelDateToTime(serial, wb.date1904); err == nil {
			if serial < 1 {
				return sheet.Text(t.Format(time.TimeOnly))
			}
			return sheet.Text(t.Format(isoDateTime))
		}
	}
	return sheet.Parse(raw)
}

func (wb *xlsxWorkbook) isDateStyled(name, axis string) bool {
	id, err := wb.f.GetCellStyle(name, axis)
	if err != nil || id == 0 {
		return false
	}
	if v, ok := wb.styles[id]; ok {
		return v
	}
	style, err := wb.f.GetStyle(id)
	isDate := err == nil && style != nil && isDateFormat(style.NumFmt, style.CustomNumFmt)
	wb.styles[id] = isDate
	return isDate
}

// isDateFormat reports whether a number format renders a date or time.
func isDateFormat(id int, custom *string) bool {
	switch {
	case id >= 14 && id <= 22, id >= 27 && id <= 36, id >= 45 && id <= 47, id >= 50 && id <= 58:
		return true
	}
	if custom == nil {
		return false
	}
	return hasDateToken(*custom)
}

// hasDateToken looks for y, d, h or s outside quoted literals, bracketed
// sections and escapes. A lone "m" is ambiguous and ignored.
func hasDateToken(code string) bool {
	// Only the first section applies to positive numbers.
	if i := strings.IndexByte(code, ';'); i >= 0 {
		code = code[:i]
	}
	inQuote, inBracket, escaped := false, false, false
	for _, r := range strings.ToLower(code) {
		switch {
		case escaped:
			escaped = false
		case inQuote:
			inQuote = r != '"'
		case inBracket:
			inBracket = r != ']'
		case r == '\\':
			escaped = true
		case r == '"':
			inQuote = true
		case r == '[':
			inBracket = true
		case r == 'y', r == 'd', r == 'h', r == 's':
			return true
		}
	}
	return false
}
