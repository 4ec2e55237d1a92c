package output

import (
	"fmt"
	"io"

	"github.com/sdejongh/linksnap/pkg/models"
)

// Formatter defines the interface for output formatting
// Implementations include human-readable and JSON formatters
type Formatter interface {
	// Start initializes the formatter for a new operation
	Start(writer io.Writer, operation string) error

	// Backup displays the result of a backup cycle
	Backup(report *models.BackupReport) error

	// Purge displays the result of a duplicate purge
	Purge(report *models.PurgeReport) error

	// Error reports an error that aborted the operation
	Error(err error) error

	// Name returns the formatter name
	Name() string
}

// New returns the formatter for format ("human" or "json")
func New(format string, verbose bool) (Formatter, error) {
	switch format {
	case "", "human":
		return NewHumanFormatter(verbose), nil
	case "json":
		return NewJSONFormatter(), nil
	default:
		return nil, fmt.Errorf("unknown output format: %s", format)
	}
}
