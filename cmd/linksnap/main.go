package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sdejongh/linksnap/internal/cli"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}
}

func run() error {
	rootCmd := &cobra.Command{
		Use:   "linksnap",
		Short: "Incremental linked snapshot backups",
		Long: `linksnap keeps a series of full directory snapshots where unchanged files
are shared between snapshots through hard or symbolic links. Each backup
archives the previous snapshot under a timestamped name and refreshes the
latest one from the source. Identical snapshots can later be purged.`,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", cli.Version, cli.Commit, cli.BuildDate),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Add global flags
	cli.AddGlobalFlags(rootCmd)

	// Add commands
	rootCmd.AddCommand(cli.NewBackupCommand())
	rootCmd.AddCommand(cli.NewVerifyCommand())
	rootCmd.AddCommand(cli.NewPurgeCommand())
	rootCmd.AddCommand(cli.NewConfigCommand())
	rootCmd.AddCommand(cli.NewVersionCommand())

	return rootCmd.Execute()
}
