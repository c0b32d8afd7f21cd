package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mymoney-dev/mymoney/internal/buildinfo"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	var root string

	rootCmd := &cobra.Command{
		Use:     "mymoney",
		Short:   "Household spreadsheet ingestion and monthly analysis",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&root, "root", ".", "workspace directory")

	rootCmd.AddCommand(
		newInitCommand(),
		newUploadCommand(&root),
		newUploadsCommand(&root),
		newSheetsCommand(&root),
		newRecordsCommand(&root),
		newDeleteCommand(&root),
		newStatementCommand(&root),
		newMonthlyCommand(&root),
		newExportCommand(&root),
		newSyncCommand(&root),
		newLogCommand(&root),
	)

	return rootCmd
}
