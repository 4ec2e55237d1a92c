package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sdejongh/linksnap/pkg/logging"
	"github.com/sdejongh/linksnap/pkg/output"
	"github.com/sdejongh/linksnap/pkg/purge"
	"github.com/sdejongh/linksnap/pkg/storage"
)

// PurgeFlags holds purge command flags
type PurgeFlags struct {
	Destroy  bool
	NoPrompt bool
	Shallow  bool
	Omit     []string
}

var purgeFlags PurgeFlags

// NewPurgeCommand creates the purge command
func NewPurgeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "purge ROOT",
		Short: "Remove snapshots identical to an older one",
		Long: `Compare the snapshots stored under ROOT, oldest first, and list those
holding the same data as the snapshot before them. The newest snapshot is
always kept. Nothing is deleted unless --destroy is given.

Only use this on snapshots made with hard links: deleting a snapshot that
symbolic links point into breaks the newer ones.`,
		Args: cobra.ExactArgs(1),
		RunE: runPurge,
	}

	cmd.Flags().BoolVarP(&purgeFlags.Destroy, "destroy", "d", false, "delete redundant snapshots (prompts unless --no-prompt)")
	cmd.Flags().BoolVarP(&purgeFlags.NoPrompt, "no-prompt", "n", false, "destroy without asking for confirmation")
	cmd.Flags().BoolVarP(&purgeFlags.Shallow, "shallow", "s", false, "compare files by size and modification time only")
	cmd.Flags().StringSliceVarP(&purgeFlags.Omit, "omit", "o", []string{}, "comma separated names or glob patterns to ignore")

	return cmd
}

func runPurge(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	root, err := validatePurgeRoot(args[0])
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyPurgeFlagsToConfig(cfg, &purgeFlags)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	operation, err := createPurgeOperation(cfg, root)
	if err != nil {
		return fmt.Errorf("failed to create purge operation: %w", err)
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
	if err := formatter.Start(reportWriter(cmd, cfg), purgeTitle(operation.Destroy, operation.Prompt)); err != nil {
		return err
	}

	logger.Debug(ctx, "Purge configuration", logging.Fields{
		"operation_id": operation.ID,
		"shallow":      operation.Shallow,
		"ignore":       operation.IgnorePatterns,
		"destroy":      operation.Destroy,
		"prompt":       operation.Prompt,
	})

	// the prompt goes to stderr so that json reports on stdout stay parseable
	purger := purge.NewPurger(storage.NewLocal(), logger).
		WithConfirmer(NewStdinConfirmer(cmd.InOrStdin(), cmd.ErrOrStderr()))

	if cfg.Output.Progress && output.IsTerminal(os.Stderr) {
		purger.WithProgress(output.NewProgressBar(os.Stderr))
	}

	report, err := purger.Purge(ctx, operation)
	if err != nil {
		formatter.Error(err)
		return fmt.Errorf("purge failed: %w", err)
	}

	return formatter.Purge(report)
}

func purgeTitle(destroy, prompt bool) string {
	switch {
	case !destroy:
		return "purge of duplicate backups in testing mode (no directories will be deleted)"
	case !prompt:
		return "purge of duplicate backups, data will be destroyed without prompting"
	default:
		return "purge of duplicate backups, will prompt before deleting data"
	}
}
