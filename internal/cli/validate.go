package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/sdejongh/linksnap/internal/platform"
	"github.com/sdejongh/linksnap/pkg/config"
	"github.com/sdejongh/linksnap/pkg/models"
)

// validateBackupPaths resolves and checks the source and latest paths
func validateBackupPaths(source, latest string) (string, string, error) {
	sourceAbs, err := platform.NormalizePath(source)
	if err != nil {
		return "", "", fmt.Errorf("failed to resolve source path: %w", err)
	}
	latestAbs, err := platform.NormalizePath(latest)
	if err != nil {
		return "", "", fmt.Errorf("failed to resolve latest path: %w", err)
	}

	info, err := os.Stat(sourceAbs)
	if os.IsNotExist(err) {
		return "", "", fmt.Errorf("source path does not exist: %s", sourceAbs)
	} else if err != nil {
		return "", "", fmt.Errorf("failed to access source path: %w", err)
	} else if !info.IsDir() {
		return "", "", fmt.Errorf("source location %s is not a directory", sourceAbs)
	}

	if sourceAbs == latestAbs {
		return "", "", fmt.Errorf("source and latest cannot be the same: %s", sourceAbs)
	}

	// Validate paths are not nested
	if platform.IsNested(sourceAbs, latestAbs) {
		return "", "", fmt.Errorf("latest cannot be inside source directory")
	}
	if platform.IsNested(latestAbs, sourceAbs) {
		return "", "", fmt.Errorf("source cannot be inside latest directory")
	}

	return sourceAbs, latestAbs, nil
}

// validatePurgeRoot resolves and checks the purge root
func validatePurgeRoot(root string) (string, error) {
	rootAbs, err := platform.NormalizePath(root)
	if err != nil {
		return "", fmt.Errorf("failed to resolve root path: %w", err)
	}

	info, err := os.Stat(rootAbs)
	if os.IsNotExist(err) {
		return "", fmt.Errorf("there was no directory %s", rootAbs)
	} else if err != nil {
		return "", fmt.Errorf("failed to access root path: %w", err)
	} else if !info.IsDir() {
		return "", fmt.Errorf("root path exists but is not a directory: %s", rootAbs)
	}
	return rootAbs, nil
}

// loadConfig loads configuration from file or returns default
func loadConfig() (*config.Config, error) {
	if globalFlags.ConfigFile != "" {
		return config.LoadFromFile(globalFlags.ConfigFile)
	}
	return config.LoadDefault()
}

// applyGlobalFlagsToConfig overrides config values with global flags
func applyGlobalFlagsToConfig(cfg *config.Config) {
	if globalFlags.Format != "" {
		cfg.Output.Format = globalFlags.Format
	}
	if globalFlags.LogFile != "" {
		cfg.Logging.File = globalFlags.LogFile
	}
	if globalFlags.LogFormat != "" {
		cfg.Logging.Format = globalFlags.LogFormat
	}
	if globalFlags.LogLevel != "" {
		cfg.Logging.Level = globalFlags.LogLevel
	}

	// Disable progress in quiet mode
	if globalFlags.Quiet {
		cfg.Output.Progress = false
		cfg.Output.Quiet = true
	}
}

// applyBackupFlagsToConfig overrides config values with backup flags
func applyBackupFlagsToConfig(cfg *config.Config, flags *BackupFlags) {
	applyGlobalFlagsToConfig(cfg)

	if flags.UseSymbolicLinks {
		cfg.Backup.UseSymbolicLinks = true
	}
	if flags.Content {
		cfg.Backup.Shallow = false
	}
	if len(flags.Omit) > 0 {
		cfg.Ignore = append(cfg.Ignore, flags.Omit...)
	}
	if flags.Report != "" {
		cfg.Output.Report = flags.Report
	}
}

// applyPurgeFlagsToConfig overrides config values with purge flags
func applyPurgeFlagsToConfig(cfg *config.Config, flags *PurgeFlags) {
	applyGlobalFlagsToConfig(cfg)

	if flags.Destroy {
		cfg.Purge.Destroy = true
	}
	if flags.NoPrompt {
		cfg.Purge.Prompt = false
	}
	if flags.Shallow {
		cfg.Purge.Shallow = true
	}
	if len(flags.Omit) > 0 {
		cfg.Ignore = append(cfg.Ignore, flags.Omit...)
	}
}

// createBackupOperation creates a backup operation from configuration
func createBackupOperation(cfg *config.Config, source, latest string, dryRun bool) (*models.BackupOperation, error) {
	operation := &models.BackupOperation{
		ID:             uuid.New().String(),
		SourcePath:     source,
		LatestPath:     latest,
		LinkKind:       cfg.LinkKind(),
		IgnorePatterns: cfg.Ignore,
		Shallow:        cfg.Backup.Shallow,
		BufferSize:     cfg.Backup.BufferSize,
		DryRun:         dryRun,
		CreatedAt:      time.Now(),
	}

	if err := operation.Validate(); err != nil {
		return nil, err
	}

	return operation, nil
}

// createPurgeOperation creates a purge operation from configuration
func createPurgeOperation(cfg *config.Config, root string) (*models.PurgeOperation, error) {
	operation := &models.PurgeOperation{
		ID:             uuid.New().String(),
		RootPath:       root,
		IgnorePatterns: cfg.Ignore,
		Shallow:        cfg.Purge.Shallow,
		BufferSize:     cfg.Purge.BufferSize,
		Destroy:        cfg.Purge.Destroy,
		Prompt:         cfg.Purge.Prompt,
		CreatedAt:      time.Now(),
	}

	if err := operation.Validate(); err != nil {
		return nil, err
	}

	return operation, nil
}
