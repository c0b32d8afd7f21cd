package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/mymoney-dev/mymoney/internal/analysis"
	"github.com/mymoney-dev/mymoney/internal/coerce"
	"github.com/mymoney-dev/mymoney/internal/config"
	"github.com/mymoney-dev/mymoney/internal/importer"
	"github.com/mymoney-dev/mymoney/internal/logging"
	"github.com/mymoney-dev/mymoney/internal/sheet"
	"github.com/mymoney-dev/mymoney/internal/statement"
	"github.com/mymoney-dev/mymoney/internal/store"
)

// workspace is an opened mymoney directory: its config, database and logger.
type workspace struct {
	root   string
	cfg    *config.Config
	store  *store.Store
	logger *slog.Logger
	dates  coerce.DateParser
}

// openWorkspace loads <root>/mymoney.yaml and opens the configured database.
// Log records go to logOut.
func openWorkspace(ctx context.Context, root string, logOut io.Writer) (*workspace, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}
	cfg, err := config.Load(filepath.Join(abs, config.FileName))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%s is not a mymoney workspace (run mymoney init): %w", abs, err)
		}
		return nil, err
	}
	logger, err := logging.New(cfg.Logging, logOut)
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	dbPath := cfg.Storage.Path
	if !filepath.IsAbs(dbPath) {
		dbPath = filepath.Join(abs, dbPath)
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}
	st, err := store.Open(ctx, dbPath)
	if err != nil {
		return nil, err
	}

	return &workspace{
		root:   abs,
		cfg:    cfg,
		store:  st,
		logger: logger,
		dates:  coerce.NewDateParser(loc),
	}, nil
}

func (w *workspace) Close() error {
	return w.store.Close()
}

// registry returns the readers for supported workbook formats.
func (w *workspace) registry() *importer.Registry {
	r := importer.NewRegistry()
	r.Register(&importer.XLSXReader{})
	r.Register(&importer.XLSReader{Charset: w.cfg.Import.XLSCharset})
	r.Register(&importer.CSVReader{})
	return r
}

// parser returns a statement parser with the configured caption overrides.
func (w *workspace) parser() *statement.Parser {
	v := statement.DefaultVocabulary()
	if len(w.cfg.Vocabulary.Income) > 0 {
		v = v.WithIncome(w.cfg.Vocabulary.Income...)
	}
	if len(w.cfg.Vocabulary.Expense) > 0 {
		v = v.WithExpense(w.cfg.Vocabulary.Expense...)
	}
	if len(w.cfg.Vocabulary.Totals) > 0 {
		v = v.WithTotals(w.cfg.Vocabulary.Totals...)
	}
	return statement.New(v)
}

func (w *workspace) detector(strict bool) *analysis.Detector {
	d := analysis.NewDetector()
	d.StrictValidation = strict || w.cfg.Analysis.StrictColumns
	d.Dates = w.dates
	return d
}

// ingest reads a workbook and stores all of its sheets as one upload.
func (w *workspace) ingest(ctx context.Context, reg *importer.Registry, path string) (store.Upload, []sheet.Info, error) {
	sheets, err := reg.ReadFile(path)
	if err != nil {
		return store.Upload{}, nil, err
	}
	snaps := make([]*sheet.Snapshot, len(sheets))
	for i, s := range sheets {
		snaps[i] = s.Snapshot()
	}
	up, infos, err := w.store.CreateUpload(ctx, filepath.Base(path), snaps)
	if err != nil {
		return store.Upload{}, nil, fmt.Errorf("storing %s: %w", filepath.Base(path), err)
	}
	w.logger.InfoContext(ctx, "uploaded", "file", up.Filename, "upload_id", up.ID, "sheets", up.SheetCount)
	return up, infos, nil
}

func parseID(s, what string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s %q", what, s)
	}
	return id, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}
	return nil
}
