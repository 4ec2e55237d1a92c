package output

import (
	"encoding/json"
	"io"
	"time"

	"github.com/sdejongh/linksnap/pkg/models"
)

// JSONFormatter formats output as JSON for automation and scripting
type JSONFormatter struct {
	writer    io.Writer
	operation string
}

// JSONBackupData is the JSON document written for a backup cycle
type JSONBackupData struct {
	OperationID string              `json:"operation_id"`
	Operation   string              `json:"operation,omitempty"`
	Status      string              `json:"status"`
	SourcePath  string              `json:"source_path"`
	LatestPath  string              `json:"latest_path"`
	ArchivePath string              `json:"archive_path,omitempty"`
	LinkKind    string              `json:"link_kind"`
	FirstRun    bool                `json:"first_run"`
	DryRun      bool                `json:"dry_run"`
	Changed     bool                `json:"changed"`
	StartTime   time.Time           `json:"start_time"`
	Duration    string              `json:"duration"`
	DurationMs  int64               `json:"duration_ms"`
	Stats       models.Statistics   `json:"stats"`
	Actions     []models.FileAction `json:"actions,omitempty"`
}

// JSONPurgeData is the JSON document written for a duplicate purge
type JSONPurgeData struct {
	OperationID string    `json:"operation_id"`
	Operation   string    `json:"operation,omitempty"`
	Status      string    `json:"status"`
	RootPath    string    `json:"root_path"`
	Kept        string    `json:"kept,omitempty"`
	Scanned     []string  `json:"scanned"`
	Redundant   []string  `json:"redundant"`
	Removed     []string  `json:"removed"`
	Destroy     bool      `json:"destroy"`
	Confirmed   bool      `json:"confirmed"`
	Comparisons int       `json:"comparisons"`
	StartTime   time.Time `json:"start_time"`
	Duration    string    `json:"duration"`
	DurationMs  int64     `json:"duration_ms"`

	Actions []models.FileAction `json:"actions,omitempty"`
}

// JSONErrorData is written when an operation aborts
type JSONErrorData struct {
	Operation string `json:"operation,omitempty"`
	Status    string `json:"status"`
	Error     string `json:"error"`
}

// NewJSONFormatter creates a new JSON formatter
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

// Start initializes the formatter
func (f *JSONFormatter) Start(writer io.Writer, operation string) error {
	f.writer = writer
	f.operation = operation
	return nil
}

// Backup writes the backup report as one JSON document
func (f *JSONFormatter) Backup(report *models.BackupReport) error {
	return f.encode(JSONBackupData{
		OperationID: report.OperationID,
		Operation:   f.operation,
		Status:      string(report.Status),
		SourcePath:  report.SourcePath,
		LatestPath:  report.LatestPath,
		ArchivePath: report.ArchivePath,
		LinkKind:    string(report.LinkKind),
		FirstRun:    report.FirstRun,
		DryRun:      report.DryRun,
		Changed:     report.Changed,
		StartTime:   report.StartTime,
		Duration:    report.Duration.String(),
		DurationMs:  report.Duration.Milliseconds(),
		Stats:       report.Stats,
		Actions:     report.Actions,
	})
}

// Purge writes the purge report as one JSON document
func (f *JSONFormatter) Purge(report *models.PurgeReport) error {
	return f.encode(JSONPurgeData{
		OperationID: report.OperationID,
		Operation:   f.operation,
		Status:      string(report.Status),
		RootPath:    report.RootPath,
		Kept:        report.Kept,
		Scanned:     nonNil(report.Scanned),
		Redundant:   nonNil(report.Redundant),
		Removed:     nonNil(report.Removed),
		Destroy:     report.Destroy,
		Confirmed:   report.Confirmed,
		Comparisons: report.Comparisons,
		StartTime:   report.StartTime,
		Duration:    report.Duration.String(),
		DurationMs:  report.Duration.Milliseconds(),
		Actions:     report.Actions,
	})
}

// Error writes the error as a JSON document
func (f *JSONFormatter) Error(err error) error {
	return f.encode(JSONErrorData{
		Operation: f.operation,
		Status:    string(models.StatusFailed),
		Error:     err.Error(),
	})
}

// Name returns the formatter name
func (f *JSONFormatter) Name() string {
	return "json"
}

func (f *JSONFormatter) encode(v any) error {
	if f.writer == nil {
		return nil
	}
	encoder := json.NewEncoder(f.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// nonNil keeps empty lists as [] rather than null
func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
