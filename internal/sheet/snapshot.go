// Package sheet holds the in-memory form of an uploaded sheet: an ordered
// list of rows with typed cells, addressed by row and column index.
package sheet

import (
	"encoding/json"
	"fmt"
)

// Info describes a stored sheet.
type Info struct {
	ID          int64  `json:"id"`
	UploadID    int64  `json:"upload_id"`
	Name        string `json:"sheet_name"`
	RowCount    int    `json:"row_count"`
	ColumnCount int    `json:"column_count"`
}

// Snapshot is an immutable view of a sheet's rows. Row indexes are unique but
// need not be contiguous. A Snapshot is safe for concurrent readers.
type Snapshot struct {
	Info    Info
	rows    []Row
	byIndex map[int]int
}

// New builds a snapshot over rows in the given order. When two rows share an
// index the first one wins lookups.
func New(info Info, rows []Row) *Snapshot {
	s := &Snapshot{Info: info, rows: rows}
	s.index()
	return s
}

func (s *Snapshot) index() {
	s.byIndex = make(map[int]int, len(s.rows))
	for i, r := range s.rows {
		if _, ok := s.byIndex[r.Index]; !ok {
			s.byIndex[r.Index] = i
		}
	}
}

// Len returns the number of rows.
func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.rows)
}

// Rows returns the rows in snapshot order. Callers must not modify the slice.
func (s *Snapshot) Rows() []Row {
	if s == nil {
		return nil
	}
	return s.rows
}

// Row returns the row with the given row index.
func (s *Snapshot) Row(index int) (Row, bool) {
	if s == nil {
		return Row{}, false
	}
	i, ok := s.byIndex[index]
	if !ok {
		return Row{}, false
	}
	return s.rows[i], true
}

// Header returns row 0.
func (s *Snapshot) Header() (Row, bool) { return s.Row(0) }

// FirstAfter returns the first row, in snapshot order, whose index is greater than index.
func (s *Snapshot) FirstAfter(index int) (Row, bool) {
	for _, r := range s.Rows() {
		if r.Index > index {
			return r, true
		}
	}
	return Row{}, false
}

// Find returns the first row, in snapshot order, with index >= minIndex whose
// cell at col satisfies match.
func (s *Snapshot) Find(minIndex, col int, match func(Cell) bool) (Row, bool) {
	for _, r := range s.Rows() {
		if r.Index >= minIndex && match(r.Cell(col)) {
			return r, true
		}
	}
	return Row{}, false
}

type snapshotJSON struct {
	Sheet   Info  `json:"sheet"`
	Records []Row `json:"records"`
}

// MarshalJSON encodes the snapshot as {sheet, records}.
func (s *Snapshot) MarshalJSON() ([]byte, error) {
	records := s.rows
	if records == nil {
		records = []Row{}
	}
	return json.Marshal(snapshotJSON{Sheet: s.Info, Records: records})
}

// UnmarshalJSON decodes {sheet, records}.
func (s *Snapshot) UnmarshalJSON(b []byte) error {
	var v snapshotJSON
	if err := json.Unmarshal(b, &v); err != nil {
		return fmt.Errorf("decoding sheet snapshot: %w", err)
	}
	s.Info = v.Sheet
	s.rows = v.Records
	s.index()
	return nil
}
