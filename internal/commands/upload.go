package commands

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/mymoney-dev/mymoney/internal/ingestlog"
	"github.com/mymoney-dev/mymoney/internal/sheet"
	"github.com/mymoney-dev/mymoney/internal/store"
)

func newUploadCommand(root *string) *cobra.Command {
	return &cobra.Command{
		Use:   "upload <file>",
		Short: "Store every sheet of an .xlsx, .xls or .csv workbook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := openWorkspace(cmd.Context(), *root, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer ws.Close()
			return runUpload(cmd.Context(), cmd.OutOrStdout(), ws, args[0])
		},
	}
}

func runUpload(ctx context.Context, out io.Writer, ws *workspace, path string) error {
	entry := ingestlog.Entry{
		Timestamp: time.Now().UTC(),
		RunID:     uuid.NewString(),
		File:      filepath.Base(path),
	}
	up, infos, err := ws.ingest(ctx, ws.registry(), path)
	if err != nil {
		entry.Action = ingestlog.ActionFailed
		entry.Details = err.Error()
		if lerr := ingestlog.Append(ws.root, []ingestlog.Entry{entry}); lerr != nil {
			ws.logger.Warn("writing ingest log", "error", lerr)
		}
		return err
	}

	entry.Action = ingestlog.ActionUploaded
	entry.UploadID = up.ID
	entry.Sheets = up.SheetCount
	entry.Details = sheetNames(infos)
	if err := ingestlog.Append(ws.root, []ingestlog.Entry{entry}); err != nil {
		return err
	}

	fmt.Fprintf(out, "Uploaded %s as upload %d (%d sheets)\n", up.Filename, up.ID, up.SheetCount)
	for _, info := range infos {
		fmt.Fprintf(out, "  sheet %d %s: %d rows, %d columns\n", info.ID, info.Name, info.RowCount, info.ColumnCount)
	}
	return nil
}

func sheetNames(infos []sheet.Info) string {
	names := make([]string, len(infos))
	for i, info := range infos {
		names[i] = info.Name
	}
	return strings.Join(names, ", ")
}

func newUploadsCommand(root *string) *cobra.Command {
	var skip, limit int

	cmd := &cobra.Command{
		Use:   "uploads",
		Short: "List upload history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := openWorkspace(cmd.Context(), *root, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer ws.Close()
			return runUploads(cmd.Context(), cmd.OutOrStdout(), ws.store, skip, limit)
		},
	}

	cmd.Flags().IntVar(&skip, "skip", 0, "uploads to skip")
	cmd.Flags().IntVar(&limit, "limit", 100, "maximum uploads to list (0 for all)")

	return cmd
}

func runUploads(ctx context.Context, out io.Writer, st *store.Store, skip, limit int) error {
	uploads, err := st.ListUploads(ctx, skip, limit)
	if err != nil {
		return err
	}
	if len(uploads) == 0 {
		fmt.Fprintln(out, "No uploads.")
		return nil
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tFILENAME\tUPLOADED\tSHEETS")
	for _, u := range uploads {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\n", u.ID, u.Filename, u.UploadedAt.Format(time.RFC3339), u.SheetCount)
	}
	return tw.Flush()
}

func newSheetsCommand(root *string) *cobra.Command {
	return &cobra.Command{
		Use:   "sheets <upload-id>",
		Short: "List the sheets of an upload",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "upload id")
			if err != nil {
				return err
			}
			ws, err := openWorkspace(cmd.Context(), *root, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer ws.Close()
			return runSheets(cmd.Context(), cmd.OutOrStdout(), ws.store, id)
		},
	}
}

func runSheets(ctx context.Context, out io.Writer, st *store.Store, uploadID int64) error {
	infos, err := st.ListSheets(ctx, uploadID)
	if err != nil {
		return fmt.Errorf("upload %d: %w", uploadID, err)
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tROWS\tCOLUMNS")
	for _, info := range infos {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%d\n", info.ID, info.Name, info.RowCount, info.ColumnCount)
	}
	return tw.Flush()
}

func newRecordsCommand(root *string) *cobra.Command {
	var skip, limit int

	cmd := &cobra.Command{
		Use:   "records <sheet-id>",
		Short: "Print a sheet's rows as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "sheet id")
			if err != nil {
				return err
			}
			ws, err := openWorkspace(cmd.Context(), *root, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer ws.Close()
			snap, err := ws.store.Snapshot(cmd.Context(), id, skip, limit)
			if err != nil {
				return fmt.Errorf("sheet %d: %w", id, err)
			}
			return writeJSON(cmd.OutOrStdout(), snap)
		},
	}

	cmd.Flags().IntVar(&skip, "skip", 0, "rows to skip")
	cmd.Flags().IntVar(&limit, "limit", 1000, "maximum rows to print (0 for all)")

	return cmd
}

func newDeleteCommand(root *string) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <upload-id>",
		Short: "Delete an upload with its sheets and rows",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "upload id")
			if err != nil {
				return err
			}
			ws, err := openWorkspace(cmd.Context(), *root, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer ws.Close()
			if err := ws.store.DeleteUpload(cmd.Context(), id); err != nil {
				return fmt.Errorf("upload %d: %w", id, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted upload %d\n", id)
			return nil
		},
	}
}
