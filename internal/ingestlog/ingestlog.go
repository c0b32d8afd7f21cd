// Package ingestlog keeps an append-only CSV audit of workbook ingestion.
package ingestlog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Actions recorded in the log.
const (
	ActionUploaded = "uploaded"
	ActionFailed   = "failed"
)

// Entry is one ingestion attempt.
type Entry struct {
	Timestamp time.Time
	RunID     string
	File      string
	Action    string
	UploadID  int64 // 0 when the attempt failed
	Sheets    int
	Details   string
}

// Header is the CSV header for ingest-log.csv.
const Header = "timestamp,run_id,file,action,upload_id,sheets,details"

const (
	numFields    = 7
	logDir       = "logs"
	logFile      = "ingest-log.csv"
	colTimestamp = 0
	colRunID     = 1
	colFile      = 2
	colAction    = 3
	colUploadID  = 4
	colSheets    = 5
	colDetails   = 6
)

// Path returns the log location under a workspace root.
func Path(root string) string {
	return filepath.Join(root, logDir, logFile)
}

// MarshalEntry converts an Entry to a CSV row.
func MarshalEntry(e Entry) []string {
	row := make([]string, numFields)
	row[colTimestamp] = e.Timestamp.Format(time.RFC3339)
	row[colRunID] = e.RunID
	row[colFile] = e.File
	row[colAction] = e.Action
	if e.UploadID != 0 {
		row[colUploadID] = strconv.FormatInt(e.UploadID, 10)
	}
	row[colSheets] = strconv.Itoa(e.Sheets)
	row[colDetails] = e.Details
	return row
}

// UnmarshalEntry converts a CSV row to an Entry.
func UnmarshalEntry(record []string) (Entry, error) {
	if len(record) != numFields {
		return Entry{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}
	ts, err := time.Parse(time.RFC3339, record[colTimestamp])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing timestamp %q: %w", record[colTimestamp], err)
	}
	var uploadID int64
	if s := record[colUploadID]; s != "" {
		if uploadID, err = strconv.ParseInt(s, 10, 64); err != nil {
			return Entry{}, fmt.Errorf("parsing upload_id %q: %w", s, err)
		}
	}
	sheets, err := strconv.Atoi(record[colSheets])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing sheets %q: %w", record[colSheets], err)
	}
	return Entry{
		Timestamp: ts,
		RunID:     record[colRunID],
		File:      record[colFile],
		Action:    record[colAction],
		UploadID:  uploadID,
		Sheets:    sheets,
		Details:   record[colDetails],
	}, nil
}

// Append writes entries to <root>/logs/ingest-log.csv, creating the file and
// header if needed.
func Append(root string, entries []Entry) error {
	if err := os.MkdirAll(filepath.Join(root, logDir), 0o755); err != nil {
		return fmt.Errorf("creating logs dir: %w", err)
	}

	path := Path(root)
	needsHeader := false
	if _, err := os.Stat(path); os.IsNotExist(err) {
		needsHeader = true
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening ingest log: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if needsHeader {
		if err := cw.Write(strings.Split(Header, ",")); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}
	for i, e := range entries {
		if err := cw.Write(MarshalEntry(e)); err != nil {
			return fmt.Errorf("writing entry %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Read returns all entries in the workspace log, or nil if there is none.
func Read(root string) ([]Entry, error) {
	f, err := os.Open(Path(root))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening ingest log: %w", err)
	}
	defer f.Close()

	return readEntries(f)
}

func readEntries(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading ingest log CSV: %w", err)
	}
	if len(records) <= 1 {
		return nil, nil
	}

	entries := make([]Entry, 0, len(records)-1)
	for i, rec := range records[1:] {
		e, err := UnmarshalEntry(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}
