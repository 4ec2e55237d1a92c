package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/sdejongh/linksnap/pkg/config"
	"github.com/sdejongh/linksnap/pkg/logging"
	"github.com/sdejongh/linksnap/pkg/output"
	"github.com/sdejongh/linksnap/pkg/snapshot"
	"github.com/sdejongh/linksnap/pkg/storage"
)

// BackupFlags holds backup command flags
type BackupFlags struct {
	Test             bool
	UseSymbolicLinks bool
	Content          bool
	Omit             []string
	Report           string
	ReportFormat     string
}

var backupFlags BackupFlags

// exit is replaced in tests
var exit = os.Exit

// NewBackupCommand creates the backup command
func NewBackupCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup SOURCE LATEST",
		Short: "Create an incremental linked snapshot",
		Long: `Archive the LATEST snapshot under a timestamped name next to it, relink
it into a fresh LATEST and bring that up to date with SOURCE. Unchanged files
stay shared with the archive through hard (or symbolic) links.

If LATEST does not exist yet, SOURCE is copied in full.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBackup(cmd, args[0], args[1], &backupFlags, backupFlags.Test)
		},
	}

	cmd.Flags().BoolVarP(&backupFlags.Test, "test", "t", false, "compare source against latest only, change nothing")
	cmd.Flags().BoolVarP(&backupFlags.UseSymbolicLinks, "use-symbolic-links", "s", false, "use symbolic links instead of hard links")
	cmd.Flags().BoolVar(&backupFlags.Content, "content", false, "compare file content, not only size and modification time")
	cmd.Flags().StringSliceVarP(&backupFlags.Omit, "omit", "o", []string{}, "comma separated names or glob patterns to ignore (e.g. \"*.log,.cache\")")
	cmd.Flags().StringVar(&backupFlags.Report, "report", "", "write the actions report to file")
	cmd.Flags().StringVar(&backupFlags.ReportFormat, "report-format", "human", "actions report format: human, json")

	return cmd
}

func runBackup(cmd *cobra.Command, source, latest string, flags *BackupFlags, dryRun bool) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	source, latest, err := validateBackupPaths(source, latest)
	if err != nil {
		return err
	}

	// Load configuration
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Override config with command-line flags
	applyBackupFlagsToConfig(cfg, flags)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	operation, err := createBackupOperation(cfg, source, latest, dryRun)
	if err != nil {
		return fmt.Errorf("failed to create backup operation: %w", err)
	}

	logger, err := createLogger(cfg, cmd.ErrOrStderr())
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Close()

	formatter, err := output.New(cfg.Output.Format, globalFlags.Verbose)
	if err != nil {
		return err
	}
	title := "backup"
	if dryRun {
		title = "comparison (testing mode)"
	}
	if err := formatter.Start(reportWriter(cmd, cfg), title); err != nil {
		return err
	}

	logger.Debug(ctx, "Backup configuration", logging.Fields{
		"operation_id": operation.ID,
		"link_kind":    operation.LinkKind,
		"shallow":      operation.Shallow,
		"ignore":       operation.IgnorePatterns,
	})

	rotator := snapshot.NewRotator(storage.NewLocal(), logger)

	report, err := rotator.Rotate(ctx, operation)
	if err != nil {
		formatter.Error(err)
		return fmt.Errorf("backup failed: %w", err)
	}

	if err := formatter.Backup(report); err != nil {
		return err
	}

	if cfg.Output.Report != "" {
		if err := output.WriteActionsReport(report, cfg.Output.Report, flags.ReportFormat); err != nil {
			return fmt.Errorf("failed to write actions report: %w", err)
		}
	}

	// Exit with appropriate code
	if code := report.Status.ExitCode(dryRun); code != 0 {
		logger.Close()
		exit(code)
	}
	return nil
}

// reportWriter returns where reports go; quiet mode discards them
func reportWriter(cmd *cobra.Command, cfg *config.Config) io.Writer {
	if cfg.Output.Quiet {
		return io.Discard
	}
	return cmd.OutOrStdout()
}
