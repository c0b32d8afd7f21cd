package commands

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/mymoney-dev/mymoney/internal/importer"
	"github.com/mymoney-dev/mymoney/internal/ingestlog"
	"github.com/mymoney-dev/mymoney/internal/logging"
	"github.com/mymoney-dev/mymoney/internal/store"
)

// syncResult counts the outcome of one pass over import/.
type syncResult struct {
	Uploaded int
	Failed   int
}

func newSyncCommand(root *string) *cobra.Command {
	var interval time.Duration
	var once bool

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Ingest every workbook in import/ and move it to import/processed/",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			ws, err := openWorkspace(ctx, *root, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer ws.Close()

			every := ws.cfg.Import.Interval
			if cmd.Flags().Changed("interval") {
				every = interval
			}
			if once {
				every = 0
			}
			return runSync(ctx, cmd.OutOrStdout(), ws, every)
		},
	}

	cmd.Flags().DurationVar(&interval, "interval", 0, "repeat every interval until interrupted (default from config; 0 runs once)")
	cmd.Flags().BoolVar(&once, "once", false, "run a single pass and exit")

	return cmd
}

// runSync runs one pass, then repeats every interval until ctx is done. A
// zero interval runs a single pass.
func runSync(ctx context.Context, out io.Writer, ws *workspace, interval time.Duration) error {
	if _, err := syncOnce(ctx, out, ws); err != nil {
		return err
	}
	if interval <= 0 {
		return nil
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if _, err := syncOnce(ctx, out, ws); err != nil {
				return err
			}
		}
	}
}

// syncOnce ingests the files currently in import/ with a bounded worker pool.
// A file that fails to ingest stays in import/ and is logged; it does not
// stop the others.
func syncOnce(ctx context.Context, out io.Writer, ws *workspace) (syncResult, error) {
	reg := ws.registry()
	files, err := importer.Scan(ws.root, reg)
	if err != nil {
		return syncResult{}, err
	}
	if len(files) == 0 {
		return syncResult{}, nil
	}

	runID := uuid.NewString()
	ctx = logging.WithRunID(ctx, runID)
	ws.logger.InfoContext(ctx, "sync started", "files", len(files))

	var (
		mu      sync.Mutex
		entries = make([]ingestlog.Entry, len(files))
		res     syncResult
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(ws.cfg.Import.Workers)
	for i, f := range files {
		i, f := i, f
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			entry := ingestlog.Entry{Timestamp: time.Now().UTC(), RunID: runID, File: f.Name}
			up, infos, err := ws.ingest(gctx, reg, f.Path)
			if err == nil {
				if err = importer.MarkProcessed(ws.root, f.Name); err != nil {
					// The file stays in import/ for the next pass, so its upload must not survive.
					if derr := ws.store.DeleteUpload(context.WithoutCancel(gctx), up.ID); derr != nil {
						err = fmt.Errorf("%w (rolling back upload %d: %v)", err, up.ID, derr)
					} else {
						up = store.Upload{}
					}
				}
			}

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				ws.logger.ErrorContext(gctx, "ingest failed", "file", f.Name, "error", err)
				entry.Action = ingestlog.ActionFailed
				entry.UploadID = up.ID
				entry.Details = err.Error()
				res.Failed++
				fmt.Fprintf(out, "FAILED %s: %v\n", f.Name, err)
			} else {
				entry.Action = ingestlog.ActionUploaded
				entry.UploadID = up.ID
				entry.Sheets = up.SheetCount
				entry.Details = sheetNames(infos)
				res.Uploaded++
				fmt.Fprintf(out, "Uploaded %s as upload %d (%d sheets)\n", f.Name, up.ID, up.SheetCount)
			}
			entries[i] = entry
			return gctx.Err()
		})
	}
	waitErr := g.Wait()

	var logged []ingestlog.Entry
	for _, e := range entries {
		if e.Action != "" {
			logged = append(logged, e)
		}
	}
	if err := ingestlog.Append(ws.root, logged); err != nil {
		return res, err
	}
	ws.logger.InfoContext(ctx, "sync finished", "uploaded", res.Uploaded, "failed", res.Failed)
	if waitErr != nil && ctx.Err() == nil {
		return res, waitErr
	}
	return res, nil
}
