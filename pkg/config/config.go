package config

import (
	"github.com/sdejongh/linksnap/pkg/models"
)

// Config represents the application configuration
type Config struct {
	Backup  BackupConfig  `yaml:"backup"`
	Purge   PurgeConfig   `yaml:"purge"`
	Output  OutputConfig  `yaml:"output"`
	Logging LoggingConfig `yaml:"logging"`
	Ignore  []string      `yaml:"ignore"`
}

// BackupConfig holds backup-related settings
type BackupConfig struct {
	UseSymbolicLinks bool `yaml:"use_symbolic_links"`
	Shallow          bool `yaml:"shallow"`
	BufferSize       int  `yaml:"buffer_size"`
}

// PurgeConfig holds duplicate purge settings
type PurgeConfig struct {
	Shallow    bool `yaml:"shallow"`
	Destroy    bool `yaml:"destroy"`
	Prompt     bool `yaml:"prompt"`
	BufferSize int  `yaml:"buffer_size"`
}

// OutputConfig holds output-related settings
type OutputConfig struct {
	Format   string `yaml:"format"`   // "human" or "json"
	Progress bool   `yaml:"progress"` // Show progress bars
	Quiet    bool   `yaml:"quiet"`    // Suppress non-error output
	Report   string `yaml:"report"`   // Actions report file (empty = none)
}

// LoggingConfig holds logging-related settings
type LoggingConfig struct {
	Format string `yaml:"format"` // "json" or "text"
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	File   string `yaml:"file"`   // Log file path (empty = stderr)
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		Backup: BackupConfig{
			UseSymbolicLinks: false,
			Shallow:          true,
			BufferSize:       65536,
		},
		Purge: PurgeConfig{
			Shallow:    false,
			Destroy:    false,
			Prompt:     true,
			BufferSize: 65536,
		},
		Output: OutputConfig{
			Format:   "human",
			Progress: true,
			Quiet:    false,
		},
		Logging: LoggingConfig{
			Format: "text",
			Level:  "info",
			File:   "",
		},
		Ignore: []string{},
	}
}

// LinkKind returns the link kind selected by the backup settings
func (c *Config) LinkKind() models.LinkKind {
	return models.LinkKindFor(c.Backup.UseSymbolicLinks)
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Backup.BufferSize < 4096 {
		return &models.ValidationError{
			Field:   "backup.buffer_size",
			Message: "must be at least 4096 bytes",
		}
	}

	if c.Purge.BufferSize < 4096 {
		return &models.ValidationError{
			Field:   "purge.buffer_size",
			Message: "must be at least 4096 bytes",
		}
	}

	validFormats := map[string]bool{"human": true, "json": true}
	if !validFormats[c.Output.Format] {
		return &models.ValidationError{
			Field:   "output.format",
			Message: "must be 'human' or 'json'",
		}
	}

	validLogFormats := map[string]bool{"json": true, "text": true}
	if !validLogFormats[c.Logging.Format] {
		return &models.ValidationError{
			Field:   "logging.format",
			Message: "must be 'json' or 'text'",
		}
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.Logging.Level] {
		return &models.ValidationError{
			Field:   "logging.level",
			Message: "must be 'debug', 'info', 'warn', or 'error'",
		}
	}

	for _, p := range c.Ignore {
		if p == "" {
			return &models.ValidationError{
				Field:   "ignore",
				Message: "patterns must not be empty",
			}
		}
	}

	return nil
}
