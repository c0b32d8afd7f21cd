package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mymoney-dev/mymoney/internal/export"
)

func newExportCommand(root *string) *cobra.Command {
	var outDir string
	var strict bool

	cmd := &cobra.Command{
		Use:   "export <sheet-id>",
		Short: "Write monthly totals and parsed statement sections as CSV files",
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

			dir := outDir
			if dir == "" {
				dir = filepath.Join(ws.root, "exports", fmt.Sprintf("sheet-%d", id))
			}
			return runExport(cmd.Context(), cmd.OutOrStdout(), ws, id, dir, strict)
		},
	}

	cmd.Flags().StringVar(&outDir, "out", "", "output directory (default exports/sheet-<id>)")
	cmd.Flags().BoolVar(&strict, "strict", false, "only accept header matches whose sample value parses")

	return cmd
}

func runExport(ctx context.Context, out io.Writer, ws *workspace, sheetID int64, dir string, strict bool) error {
	res, err := ws.monthly(ctx, sheetID, strict)
	if err != nil {
		return err
	}
	snap, err := ws.store.Snapshot(ctx, sheetID, 0, 0)
	if err != nil {
		return fmt.Errorf("sheet %d: %w", sheetID, err)
	}
	p := ws.parser()

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating export dir: %w", err)
	}

	written := []string{"monthly.csv"}
	if err := writeFile(filepath.Join(dir, "monthly.csv"), func(w io.Writer) error {
		return export.WriteMonthly(w, res.Months)
	}); err != nil {
		return err
	}
	if cf := p.CashFlow(snap); cf != nil {
		if err := writeFile(filepath.Join(dir, "cashflow.csv"), func(w io.Writer) error {
			return export.WriteCashFlow(w, cf)
		}); err != nil {
			return err
		}
		written = append(written, "cashflow.csv")
	}
	if pos := p.Position(snap); pos != nil {
		if err := writeFile(filepath.Join(dir, "position.csv"), func(w io.Writer) error {
			return export.WritePosition(w, pos)
		}); err != nil {
			return err
		}
		written = append(written, "position.csv")
	}

	for _, name := range written {
		fmt.Fprintf(out, "Wrote %s\n", filepath.Join(dir, name))
	}
	return nil
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Base(path), err)
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", filepath.Base(path), err)
	}
	return f.Close()
}
