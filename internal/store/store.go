// Package store persists uploads, their sheets and row records in SQLite.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/mymoney-dev/mymoney/internal/sheet"
)

// ErrNotFound is returned when an upload or sheet ID does not exist.
var ErrNotFound = errors.New("not found")

const schema = `
CREATE TABLE IF NOT EXISTS upload_history (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	filename    TEXT    NOT NULL,
	uploaded_at TEXT    NOT NULL,
	sheet_count INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS sheet_data (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	upload_id    INTEGER NOT NULL REFERENCES upload_history(id) ON DELETE CASCADE,
	sheet_name   TEXT    NOT NULL,
	row_count    INTEGER NOT NULL DEFAULT 0,
	column_count INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_sheet_data_upload ON sheet_data(upload_id);

CREATE TABLE IF NOT EXISTS data_record (
	id        INTEGER PRIMARY KEY AUTOINCREMENT,
	sheet_id  INTEGER NOT NULL REFERENCES sheet_data(id) ON DELETE CASCADE,
	row_index INTEGER NOT NULL,
	data      TEXT    NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_data_record_sheet ON data_record(sheet_id, row_index);
`

// Upload is one ingested workbook.
type Upload struct {
	ID         int64     `json:"id"`
	Filename   string    `json:"filename"`
	UploadedAt time.Time `json:"uploaded_at"`
	SheetCount int       `json:"sheet_count"`
}

// Store is a SQLite-backed upload store. It is safe for concurrent use.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens or creates the database at path and ensures the schema exists.
func Open(ctx context.Context, path string) (*Store, error) {
	dsn := path
	if !strings.Contains(dsn, "?") {
		dsn += "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// SQLite allows a single writer.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{db: db, now: time.Now}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// CreateUpload stores filename and every sheet with its rows in one
// transaction. The returned infos carry the assigned sheet IDs.
func (s *Store) CreateUpload(ctx context.Context, filename string, sheets []*sheet.Snapshot) (Upload, []sheet.Info, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Upload{}, nil, fmt.Errorf("begin upload: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	up := Upload{
		Filename:   filename,
		UploadedAt: s.now().UTC().Truncate(time.Second),
		SheetCount: len(sheets),
	}
	res, err := tx.ExecContext(ctx,
		`INSERT INTO upload_history (filename, uploaded_at, sheet_count) VALUES (?, ?, ?)`,
		up.Filename, up.UploadedAt.Format(time.RFC3339), up.SheetCount)
	if err != nil {
		return Upload{}, nil, fmt.Errorf("insert upload: %w", err)
	}
	if up.ID, err = res.LastInsertId(); err != nil {
		return Upload{}, nil, fmt.Errorf("upload id: %w", err)
	}

	insertRecord, err := tx.PrepareContext(ctx,
		`INSERT INTO data_record (sheet_id, row_index, data) VALUES (?, ?, ?)`)
	if err != nil {
		return Upload{}, nil, fmt.Errorf("prepare record insert: %w", err)
	}
	defer insertRecord.Close()

	infos := make([]sheet.Info, 0, len(sheets))
	for _, snap := range sheets {
		info := snap.Info
		info.UploadID = up.ID
		res, err := tx.ExecContext(ctx,
			`INSERT INTO sheet_data (upload_id, sheet_name, row_count, column_count) VALUES (?, ?, ?, ?)`,
			info.UploadID, info.Name, info.RowCount, info.ColumnCount)
		if err != nil {
			return Upload{}, nil, fmt.Errorf("insert sheet %q: %w", info.Name, err)
		}
		if info.ID, err = res.LastInsertId(); err != nil {
			return Upload{}, nil, fmt.Errorf("sheet id: %w", err)
		}

		for _, row := range snap.Rows() {
			data, err := json.Marshal(row.Data())
			if err != nil {
				return Upload{}, nil, fmt.Errorf("encoding row %d of %q: %w", row.Index, info.Name, err)
			}
			if _, err := insertRecord.ExecContext(ctx, info.ID, row.Index, string(data)); err != nil {
				return Upload{}, nil, fmt.Errorf("insert row %d of %q: %w", row.Index, info.Name, err)
			}
		}
		infos = append(infos, info)
	}

	if err := tx.Commit(); err != nil {
		return Upload{}, nil, fmt.Errorf("commit upload: %w", err)
	}
	return up, infos, nil
}

// ListUploads returns uploads in creation order. A limit of zero or less
// means no limit.
func (s *Store) ListUploads(ctx context.Context, skip, limit int) ([]Upload, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, filename, uploaded_at, sheet_count FROM upload_history ORDER BY id LIMIT ? OFFSET ?`,
		sqlLimit(limit), max(skip, 0))
	if err != nil {
		return nil, fmt.Errorf("query uploads: %w", err)
	}
	defer rows.Close()

	out := []Upload{}
	for rows.Next() {
		up, err := scanUpload(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, up)
	}
	return out, rows.Err()
}

// GetUpload returns one upload.
func (s *Store) GetUpload(ctx context.Context, id int64) (Upload, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, filename, uploaded_at, sheet_count FROM upload_history WHERE id = ?`, id)
	up, err := scanUpload(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Upload{}, fmt.Errorf("upload %d: %w", id, ErrNotFound)
	}
	return up, err
}

// DeleteUpload removes an upload with its sheets and records.
func (s *Store) DeleteUpload(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM upload_history WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete upload %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete upload %d: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("upload %d: %w", id, ErrNotFound)
	}
	return nil
}

// ListSheets returns the sheets of an upload in workbook order.
func (s *Store) ListSheets(ctx context.Context, uploadID int64) ([]sheet.Info, error) {
	if _, err := s.GetUpload(ctx, uploadID); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, upload_id, sheet_name, row_count, column_count FROM sheet_data WHERE upload_id = ? ORDER BY id`,
		uploadID)
	if err != nil {
		return nil, fmt.Errorf("query sheets: %w", err)
	}
	defer rows.Close()

	out := []sheet.Info{}
	for rows.Next() {
		info, err := scanSheet(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, info)
	}
	return out, rows.Err()
}

// GetSheet returns one sheet's metadata.
func (s *Store) GetSheet(ctx context.Context, id int64) (sheet.Info, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, upload_id, sheet_name, row_count, column_count FROM sheet_data WHERE id = ?`, id)
	info, err := scanSheet(row)
	if errors.Is(err, sql.ErrNoRows) {
		return sheet.Info{}, fmt.Errorf("sheet %d: %w", id, ErrNotFound)
	}
	return info, err
}

// Snapshot loads a sheet with its records ordered by row index. A limit of
// zero or less loads every record.
func (s *Store) Snapshot(ctx context.Context, sheetID int64, skip, limit int) (*sheet.Snapshot, error) {
	info, err := s.GetSheet(ctx, sheetID)
	if err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, row_index, data FROM data_record WHERE sheet_id = ? ORDER BY row_index, id LIMIT ? OFFSET ?`,
		sheetID, sqlLimit(limit), max(skip, 0))
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()

	var records []sheet.Row
	for rows.Next() {
		var (
			id    int64
			index int
			raw   string
		)
		if err := rows.Scan(&id, &index, &raw); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		var data map[string]sheet.Cell
		if err := json.Unmarshal([]byte(raw), &data); err != nil {
			return nil, fmt.Errorf("decoding record %d: %w", id, err)
		}
		r := sheet.RowFromData(index, data)
		r.ID = id
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading records: %w", err)
	}
	return sheet.New(info, records), nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanUpload(sc scanner) (Upload, error) {
	var (
		up Upload
		at string
	)
	if err := sc.Scan(&up.ID, &up.Filename, &at, &up.SheetCount); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Upload{}, err
		}
		return Upload{}, fmt.Errorf("scan upload: %w", err)
	}
	t, err := time.Parse(time.RFC3339, at)
	if err != nil {
		return Upload{}, fmt.Errorf("parsing uploaded_at %q: %w", at, err)
	}
	up.UploadedAt = t
	return up, nil
}

func scanSheet(sc scanner) (sheet.Info, error) {
	var info sheet.Info
	if err := sc.Scan(&info.ID, &info.UploadID, &info.Name, &info.RowCount, &info.ColumnCount); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return sheet.Info{}, err
		}
		return sheet.Info{}, fmt.Errorf("scan sheet: %w", err)
	}
	return info, nil
}

// sqlLimit maps "no limit" to SQLite's -1.
func sqlLimit(limit int) int {
	if limit <= 0 {
		return -1
	}
	return limit
}
