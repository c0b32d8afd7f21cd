package commands

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mymoney-dev/mymoney/internal/analysis"
	"github.com/mymoney-dev/mymoney/internal/coerce"
	"github.com/mymoney-dev/mymoney/internal/export"
	"github.com/mymoney-dev/mymoney/internal/model"
)

// monthlyResult is the JSON shape of the monthly command.
type monthlyResult struct {
	Columns analysis.Columns     `json:"columns"`
	Months  []model.MonthlyTotal `json:"months"`
	Summary model.MonthlyTotal   `json:"summary"`
}

func newMonthlyCommand(root *string) *cobra.Command {
	var strict bool
	var format string

	cmd := &cobra.Command{
		Use:   "monthly <sheet-id>",
		Short: "Detect date and amount columns and total income and expense per month",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "sheet id")
			if err != nil {
				return err
			}
			switch format {
			case "json", "text", "csv":
			default:
				return fmt.Errorf("unknown format %q (want json, text or csv)", format)
			}
			ws, err := openWorkspace(cmd.Context(), *root, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer ws.Close()
			return runMonthly(cmd.Context(), cmd.OutOrStdout(), ws, id, strict, format)
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "only accept header matches whose sample value parses")
	cmd.Flags().StringVar(&format, "format", "json", "output format: json, text or csv")

	return cmd
}

func (w *workspace) monthly(ctx context.Context, sheetID int64, strict bool) (monthlyResult, error) {
	snap, err := w.store.Snapshot(ctx, sheetID, 0, 0)
	if err != nil {
		return monthlyResult{}, fmt.Errorf("sheet %d: %w", sheetID, err)
	}
	cols := w.detector(strict).Detect(snap)
	months := analysis.Aggregator{Dates: w.dates}.Aggregate(snap, cols)
	w.logger.DebugContext(ctx, "aggregated", "sheet_id", sheetID, "complete", cols.Complete(), "months", len(months))
	return monthlyResult{Columns: cols, Months: months, Summary: analysis.Summary(months)}, nil
}

func runMonthly(ctx context.Context, out io.Writer, ws *workspace, sheetID int64, strict bool, format string) error {
	res, err := ws.monthly(ctx, sheetID, strict)
	if err != nil {
		return err
	}

	switch format {
	case "csv":
		return export.WriteMonthly(out, res.Months)
	case "text":
		if !res.Columns.Complete() {
			fmt.Fprintf(out, "Could not find date and amount columns in sheet %d.\n", sheetID)
			return nil
		}
		tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', tabwriter.AlignRight)
		fmt.Fprintln(tw, "MONTH\tINCOME\tEXPENSE\tNET\t")
		for _, m := range res.Months {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t\n", coerce.FormatMonth(m.Month), m.Income, m.Expense, m.Net())
		}
		fmt.Fprintf(tw, "total\t%s\t%s\t%s\t\n", res.Summary.Income, res.Summary.Expense, res.Summary.Net())
		return tw.Flush()
	default:
		return writeJSON(out, res)
	}
}
