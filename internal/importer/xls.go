package importer

import (
	"fmt"
	"io"

	"github.com/extrame/xls"

	"github.com/mymoney-dev/mymoney/internal/sheet"
)

// XLSReader reads legacy BIFF8 workbooks. Cells arrive as the strings the
// workbook formats them to; numeric strings are stored as numbers.
type XLSReader struct {
	// Charset for text records that are not UTF-16. Defaults to utf-8.
	Charset string
}

// Format returns the file extension handled.
func (x *XLSReader) Format() string { return "xls" }

// Read returns every non-empty sheet in workbook order.
func (x *XLSReader) Read(r io.ReadSeeker) (out []Sheet, err error) {
	// The decoder panics on some malformed records.
	defer func() {
		if p := recover(); p != nil {
			out, err = nil, fmt.Errorf("reading xls: malformed workbook: %v", p)
		}
	}()

	charset := x.Charset
	if charset == "" {
		charset = "utf-8"
	}
	wb, err := xls.OpenReader(r, charset)
	if err != nil {
		return nil, fmt.Errorf("opening xls: %w", err)
	}

	for i := 0; i < wb.NumSheets(); i++ {
		ws := wb.GetSheet(i)
		if ws == nil {
			continue
		}
		if s, ok := newSheet(ws.Name, xlsRows(ws)); ok {
			out = append(out, s)
		}
	}
	return out, nil
}

func xlsRows(ws *xls.WorkSheet) [][]sheet.Cell {
	rows := make([][]sheet.Cell, 0, int(ws.MaxRow)+1)
	for i := 0; i <= int(ws.MaxRow); i++ {
		row := ws.Row(i)
		if row == nil {
			continue
		}
		cells := make([]sheet.Cell, row.LastCol())
		for col := range cells {
			cells[col] = sheet.Parse(row.Col(col))
		}
		rows = append(rows, cells)
	}
	return rows
}
