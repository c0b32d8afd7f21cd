// Package importer reads spreadsheet workbooks into sheets of typed cells
// and manages the import directory of a workspace.
package importer

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/mymoney-dev/mymoney/internal/sheet"
)

var (
	// ErrUnsupportedFormat is returned for a file extension with no reader.
	ErrUnsupportedFormat = errors.New("unsupported file format")
	// ErrNoData is returned when a workbook has no non-empty sheet.
	ErrNoData = errors.New("workbook has no data")
)

// Sheet is one worksheet after empty rows have been dropped.
type Sheet struct {
	Name        string
	Rows        [][]sheet.Cell
	ColumnCount int
}

// RowCount returns the number of kept rows.
func (s Sheet) RowCount() int { return len(s.Rows) }

// Snapshot returns the sheet as an unsaved snapshot. Row indexes are
// positions among the kept rows.
func (s Sheet) Snapshot() *sheet.Snapshot {
	rows := make([]sheet.Row, len(s.Rows))
	for i, cells := range s.Rows {
		rows[i] = sheet.NewRow(i, cells...)
	}
	return sheet.New(sheet.Info{
		Name:        s.Name,
		RowCount:    len(s.Rows),
		ColumnCount: s.ColumnCount,
	}, rows)
}

// newSheet keeps the rows that carry at least one non-empty cell. It reports
// false when nothing is left.
func newSheet(name string, rows [][]sheet.Cell) (Sheet, bool) {
	s := Sheet{Name: name}
	for _, row := range rows {
		blank := true
		for _, c := range row {
			if !c.IsEmpty() {
				blank = false
				break
			}
		}
		if blank {
			continue
		}
		s.Rows = append(s.Rows, row)
		s.ColumnCount = max(s.ColumnCount, len(row))
	}
	return s, len(s.Rows) > 0
}

// Reader converts a workbook stream into sheets.
type Reader interface {
	Read(r io.ReadSeeker) ([]Sheet, error)
	Format() string
}

// Registry maps file extensions to readers.
type Registry struct {
	readers map[string]Reader
}

// FileInfo describes a workbook in the import directory.
type FileInfo struct {
	Name string
	Path string
	Size int64
}

// NewRegistry creates an empty reader registry.
func NewRegistry() *Registry {
	return &Registry{readers: make(map[string]Reader)}
}

// Register adds a reader under its format. Panics on duplicate format.
func (r *Registry) Register(rd Reader) {
	key := strings.ToLower(rd.Format())
	if _, ok := r.readers[key]; ok {
		panic("duplicate reader format: " + key)
	}
	r.readers[key] = rd
}

// Get returns the reader for format, or nil.
func (r *Registry) Get(format string) Reader {
	return r.readers[strings.ToLower(strings.TrimPrefix(format, "."))]
}

// ForFile returns the reader matching name's extension.
func (r *Registry) ForFile(name string) (Reader, error) {
	ext := filepath.Ext(name)
	rd := r.Get(ext)
	if rd == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	return rd, nil
}

// Supports reports whether name has a registered extension.
func (r *Registry) Supports(name string) bool {
	return r.Get(filepath.Ext(name)) != nil
}

// ReadFile opens path and reads it with the matching reader.
func (r *Registry) ReadFile(path string) ([]Sheet, error) {
	rd, err := r.ForFile(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	sheets, err := rd.Read(f)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", filepath.Base(path), err)
	}
	if len(sheets) == 0 {
		return nil, fmt.Errorf("reading %s: %w", filepath.Base(path), ErrNoData)
	}
	return sheets, nil
}

// DefaultRegistry returns a registry with all built-in readers.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(&XLSXReader{})
	r.Register(&XLSReader{})
	r.Register(&CSVReader{})
	return r
}

// importDir is the subdirectory watched for workbooks.
const importDir = "import"

// processedDir is the subdirectory for ingested workbooks.
const processedDir = "import/processed"

// Scan returns the workbooks in <root>/import/ that reg can read.
func Scan(root string, reg *Registry) ([]FileInfo, error) {
	dir := filepath.Join(root, importDir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading import dir: %w", err)
	}

	var files []FileInfo
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), "~$") {
			continue
		}
		if !reg.Supports(e.Name()) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", e.Name(), err)
		}
		files = append(files, FileInfo{
			Name: e.Name(),
			Path: filepath.Join(dir, e.Name()),
			Size: info.Size(),
		})
	}
	return files, nil
}

// MarkProcessed moves a file from import/ to import/processed/.
func MarkProcessed(root, fileName string) error {
	src := filepath.Join(root, importDir, fileName)
	dstDir := filepath.Join(root, processedDir)

	if err := os.MkdirAll(dstDir, 0o755); err != nil {
		return fmt.Errorf("creating processed dir: %w", err)
	}

	dst := filepath.Join(dstDir, fileName)
	if err := os.Rename(src, dst); err != nil {
		return fmt.Errorf("moving %s to processed: %w", fileName, err)
	}
	return nil
}
