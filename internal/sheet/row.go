package sheet

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Row is one record of a sheet: its zero-based row index and cells
// addressed by zero-based column index.
type Row struct {
	ID    int64
	Index int
	cells []Cell
}

// NewRow creates a row at index holding cells in column order.
func NewRow(index int, cells ...Cell) Row {
	return Row{Index: index, cells: cells}
}

// Len returns the number of addressable columns.
func (r Row) Len() int { return len(r.cells) }

// Cell returns the cell at col, or an absent cell when col is out of range.
func (r Row) Cell(col int) Cell {
	if col < 0 || col >= len(r.cells) {
		return Empty()
	}
	return r.cells[col]
}

// Text returns the trimmed text of the cell at col ("" when not truthy).
func (r Row) Text(col int) string {
	return strings.TrimSpace(r.Cell(col).Raw())
}

// Cells returns a copy of the row's cells.
func (r Row) Cells() []Cell {
	out := make([]Cell, len(r.cells))
	copy(out, r.cells)
	return out
}

// IsBlank reports whether no cell in the row is truthy.
func (r Row) IsBlank() bool {
	for _, c := range r.cells {
		if c.Truthy() {
			return false
		}
	}
	return true
}

// Data returns the row as a column-index-string keyed map, the layout used
// by the storage collaborator.
func (r Row) Data() map[string]Cell {
	data := make(map[string]Cell, len(r.cells))
	for i, c := range r.cells {
		data[strconv.Itoa(i)] = c
	}
	return data
}

// MaxColumns is the widest row a sheet can hold, the xlsx limit (XFD).
const MaxColumns = 16384

// RowFromData builds a row from a column-index-string keyed map. Keys that
// are not integers in [0, MaxColumns) are ignored.
func RowFromData(index int, data map[string]Cell) Row {
	width := 0
	for k := range data {
		if col, ok := columnKey(k); ok && col+1 > width {
			width = col + 1
		}
	}
	cells := make([]Cell, width)
	for k, v := range data {
		if col, ok := columnKey(k); ok {
			cells[col] = v
		}
	}
	return Row{Index: index, cells: cells}
}

func columnKey(k string) (int, bool) {
	col, err := strconv.Atoi(k)
	if err != nil || col < 0 || col >= MaxColumns {
		return 0, false
	}
	return col, true
}

type recordJSON struct {
	ID       int64           `json:"id,omitempty"`
	SheetID  int64           `json:"sheet_id,omitempty"`
	RowIndex int             `json:"row_index"`
	Data     map[string]Cell `json:"data"`
}

// MarshalJSON encodes the row as a record {id, row_index, data}.
func (r Row) MarshalJSON() ([]byte, error) {
	return json.Marshal(recordJSON{ID: r.ID, RowIndex: r.Index, Data: r.Data()})
}

// UnmarshalJSON decodes a record {id, row_index, data}.
func (r *Row) UnmarshalJSON(b []byte) error {
	var rec recordJSON
	if err := json.Unmarshal(b, &rec); err != nil {
		return fmt.Errorf("decoding record: %w", err)
	}
	*r = RowFromData(rec.RowIndex, rec.Data)
	r.ID = rec.ID
	return nil
}
