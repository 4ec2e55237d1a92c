package cli

import (
	"io"

	"github.com/sdejongh/linksnap/pkg/config"
	"github.com/sdejongh/linksnap/pkg/logging"
)

// createLogger creates the logrus-backed logger for a command. Verbose
// lowers the level to debug so every per-entry decision is logged, quiet
// keeps only errors.
func createLogger(cfg *config.Config, stderr io.Writer) (logging.Logger, error) {
	level := logging.ParseLevel(cfg.Logging.Level)
	switch {
	case globalFlags.Verbose:
		level = logging.DebugLevel
	case globalFlags.Quiet:
		level = logging.ErrorLevel
	}

	format := logging.FormatText
	if cfg.Logging.Format == "json" {
		format = logging.FormatJSON
	}

	return logging.NewLogrusLogger(logging.Config{
		Path:   cfg.Logging.File,
		Output: stderr,
		Format: format,
		Level:  level,
	})
}
