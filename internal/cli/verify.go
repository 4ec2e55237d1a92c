package cli

import (
	"github.com/spf13/cobra"
)

var verifyFlags BackupFlags

// NewVerifyCommand creates the verify command
func NewVerifyCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify SOURCE LATEST",
		Short: "Check whether the latest snapshot matches the source",
		Long: `Compare SOURCE against the LATEST snapshot without changing anything.
Exits with status 1 when differences exist.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBackup(cmd, args[0], args[1], &verifyFlags, true)
		},
	}

	cmd.Flags().BoolVar(&verifyFlags.Content, "content", false, "compare file content, not only size and modification time")
	cmd.Flags().StringSliceVarP(&verifyFlags.Omit, "omit", "o", []string{}, "comma separated names or glob patterns to ignore")
	cmd.Flags().StringVar(&verifyFlags.Report, "report", "", "write the list of differences to file")
	cmd.Flags().StringVar(&verifyFlags.ReportFormat, "report-format", "human", "report format: human, json")

	return cmd
}
