package commands

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mymoney-dev/mymoney/internal/coerce"
	"github.com/mymoney-dev/mymoney/internal/statement"
)

func newStatementCommand(root *string) *cobra.Command {
	var section, format string

	cmd := &cobra.Command{
		Use:   "statement <sheet-id>",
		Short: "Parse the fixed-layout household statement sections of a sheet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "sheet id")
			if err != nil {
				return err
			}
			if format != "json" && format != "text" {
				return fmt.Errorf("unknown format %q (want json or text)", format)
			}
			ws, err := openWorkspace(cmd.Context(), *root, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer ws.Close()
			return runStatement(cmd.Context(), cmd.OutOrStdout(), ws, id, section, format)
		},
	}

	cmd.Flags().StringVar(&section, "section", "", "only parse one section: "+strings.Join(statement.SectionNames, ", "))
	cmd.Flags().StringVar(&format, "format", "json", "output format: json or text")

	return cmd
}

func runStatement(ctx context.Context, out io.Writer, ws *workspace, sheetID int64, section, format string) error {
	snap, err := ws.store.Snapshot(ctx, sheetID, 0, 0)
	if err != nil {
		return fmt.Errorf("sheet %d: %w", sheetID, err)
	}
	p := ws.parser()

	if section != "" {
		v, err := p.ParseSection(section, snap)
		if err != nil {
			return err
		}
		return writeJSON(out, v)
	}

	report := p.ParseAll(snap)
	ws.logger.DebugContext(ctx, "parsed statement", "sheet_id", sheetID, "empty", report.Empty())
	if report.Empty() {
		fmt.Fprintln(out, fallbackMessage(sheetID))
		return nil
	}
	if format == "text" {
		return writeReportText(out, report)
	}
	return writeJSON(out, report)
}

func fallbackMessage(sheetID int64) string {
	return fmt.Sprintf("No statement sections recognised in sheet %d; try `mymoney monthly %d` for a generic monthly analysis.", sheetID, sheetID)
}

func writeReportText(out io.Writer, r statement.Report) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)

	if cf := r.CashFlow; cf != nil {
		months := make([]string, len(cf.Months))
		for i, m := range cf.Months {
			months[i] = coerce.FormatMonth(m)
		}
		fmt.Fprintf(tw, "Cash flow (%s)\n", strings.Join(months, ", "))
		for _, it := range cf.Income {
			fmt.Fprintf(tw, "  income\t%s\t%s\tavg %s\n", it.Name, it.Total, it.MonthlyAverage.Round(0))
		}
		for _, it := range cf.Expense {
			fmt.Fprintf(tw, "  expense\t%s\t%s\tavg %s\n", it.Name, it.Total, it.MonthlyAverage.Round(0))
		}
	}
	if p := r.Position; p != nil {
		assets, liabilities := p.TotalAssets(), p.TotalLiabilities()
		fmt.Fprintln(tw, "Financial position")
		fmt.Fprintf(tw, "  assets\t%s\t(%d items)\n", assets, len(p.Assets))
		fmt.Fprintf(tw, "  liabilities\t%s\t(%d items)\n", liabilities, len(p.Liabilities))
		fmt.Fprintf(tw, "  net worth\t%s\t\n", assets.Sub(liabilities))
	}
	if !r.Insurance.Empty() {
		fmt.Fprintf(tw, "Insurance\t%d policies\n", len(r.Insurance.Items))
		for _, it := range r.Insurance.Items {
			fmt.Fprintf(tw, "  %s\t%s\t%s\tpaid %s\n", it.Company, it.Name, it.Status, it.TotalPaid)
		}
	}
	if !r.Investments.Empty() {
		fmt.Fprintf(tw, "Investments\t%d holdings\n", len(r.Investments.Items))
		for _, it := range r.Investments.Items {
			fmt.Fprintf(tw, "  %s\t%s\t%s\t%s%%\n", it.Company, it.ProductName, it.CurrentValue, it.ReturnRate)
		}
	}
	if !r.Loans.Empty() {
		fmt.Fprintf(tw, "Loans\t%d loans\n", len(r.Loans.Items))
		for _, it := range r.Loans.Items {
			fmt.Fprintf(tw, "  %s\t%s\t%s\t%s%%\n", it.Company, it.ProductName, it.Balance, it.InterestRate)
		}
	}
	return tw.Flush()
}
