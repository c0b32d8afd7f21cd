package commands

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/mymoney-dev/mymoney/internal/ingestlog"
)

func newLogCommand(root *string) *cobra.Command {
	var tail int

	cmd := &cobra.Command{
		Use:   "log",
		Short: "Show the ingest log",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLog(cmd.OutOrStdout(), *root, tail)
		},
	}

	cmd.Flags().IntVar(&tail, "tail", 20, "show the last n entries (0 for all)")

	return cmd
}

func runLog(out io.Writer, root string, tail int) error {
	entries, err := ingestlog.Read(root)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintln(out, "No ingest log entries.")
		return nil
	}
	if tail > 0 && len(entries) > tail {
		entries = entries[len(entries)-tail:]
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TIME\tFILE\tACTION\tUPLOAD\tSHEETS\tDETAILS")
	for _, e := range entries {
		upload := "-"
		if e.UploadID != 0 {
			upload = fmt.Sprint(e.UploadID)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%s\n", e.Timestamp.Format(time.RFC3339), e.File, e.Action, upload, e.Sheets, e.Details)
	}
	return tw.Flush()
}
