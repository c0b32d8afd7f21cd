package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/korean"

	"github.com/mymoney-dev/mymoney/internal/sheet"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVReader reads a comma-separated export as a single sheet. Input that is
// not valid UTF-8 is decoded as EUC-KR, the default of Korean bank exports.
type CSVReader struct {
	// SheetName names the resulting sheet. Defaults to "Sheet1".
	SheetName string
}

// Format returns the file extension handled.
func (c *CSVReader) Format() string { return "csv" }

// Read parses r. Rows may have differing field counts.
func (c *CSVReader) Read(r io.ReadSeeker) ([]Sheet, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading csv: %w", err)
	}
	data = bytes.TrimPrefix(data, utf8BOM)
	if !utf8.Valid(data) {
		if data, err = korean.EUCKR.NewDecoder().Bytes(data); err != nil {
			return nil, fmt.Errorf("decoding csv as euc-kr: %w", err)
		}
	}

	cr := csv.NewReader(bytes.NewReader(data))
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading csv: %w", err)
	}

	rows := make([][]sheet.Cell, len(records))
	for i, rec := range records {
		cells := make([]sheet.Cell, len(rec))
		for j, v := range rec {
			cells[j] = sheet.Parse(strings.TrimSpace(v))
		}
		rows[i] = cells
	}

	name := c.SheetName
	if name == "" {
		name = "Sheet1"
	}
	s, ok := newSheet(name, rows)
	if !ok {
		return nil, nil
	}
	return []Sheet{s}, nil
}
