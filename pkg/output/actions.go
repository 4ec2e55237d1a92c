package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/afero"

	"github.com/sdejongh/linksnap/pkg/models"
)

// fs is overridden by afero.NewMemMapFs() in the tests
var fs = afero.NewOsFs()

// WriteActionsReport writes the actions of a backup report to a file
// Format can be "human" or "json"
func WriteActionsReport(report *models.BackupReport, path string, format string) error {
	if len(report.Actions) == 0 {
		// Nothing happened - don't create empty file
		return nil
	}

	file, err := fs.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create actions report: %w", err)
	}
	defer file.Close()

	switch format {
	case "json":
		return writeActionsJSON(report, file)
	default: // "human"
		return writeActionsHuman(report, file)
	}
}

// writeActionsHuman writes actions grouped by kind
func writeActionsHuman(report *models.BackupReport, w io.Writer) error {
	fmt.Fprintf(w, "Actions Report\n")
	fmt.Fprintf(w, "==============\n\n")
	fmt.Fprintf(w, "Generated: %s\n", report.EndTime.Format(time.RFC3339))
	fmt.Fprintf(w, "Operation: %s\n", report.OperationID)
	fmt.Fprintf(w, "Source: %s\n", report.SourcePath)
	fmt.Fprintf(w, "Latest: %s\n", report.LatestPath)
	if report.ArchivePath != "" {
		fmt.Fprintf(w, "Archive: %s\n", report.ArchivePath)
	}
	fmt.Fprintf(w, "Dry Run: %v\n\n", report.DryRun)

	fmt.Fprintf(w, "Total Actions: %d\n\n", len(report.Actions))

	byAction := make(map[models.Action][]models.FileAction)
	for _, a := range report.Actions {
		byAction[a.Action] = append(byAction[a.Action], a)
	}

	order := []models.Action{
		models.ActionDelete,
		models.ActionCopy,
		models.ActionReplace,
	}
	labels := map[models.Action]string{
		models.ActionDelete:  "Deleted",
		models.ActionCopy:    "Copied",
		models.ActionReplace: "Replaced",
	}

	for _, action := range order {
		actions := byAction[action]
		if len(actions) == 0 {
			continue
		}

		label := fmt.Sprintf("%s (%d entries)", labels[action], len(actions))
		fmt.Fprintf(w, "%s\n", label)
		fmt.Fprintf(w, "%s\n", strings.Repeat("-", len(label)))

		for _, a := range actions {
			suffix := ""
			if a.IsDir {
				suffix = "/"
			}
			fmt.Fprintf(w, "  %s%s\n", a.Path, suffix)
			if a.Source != "" {
				fmt.Fprintf(w, "    From: %s\n", a.Source)
			}
		}
		fmt.Fprintf(w, "\n")
	}

	return nil
}

// writeActionsJSON writes actions in JSON format
func writeActionsJSON(report *models.BackupReport, w io.Writer) error {
	output := struct {
		Generated   string              `json:"generated"`
		OperationID string              `json:"operation_id"`
		SourcePath  string              `json:"source_path"`
		LatestPath  string              `json:"latest_path"`
		ArchivePath string              `json:"archive_path,omitempty"`
		DryRun      bool                `json:"dry_run"`
		TotalCount  int                 `json:"total_count"`
		Actions     []models.FileAction `json:"actions"`
	}{
		Generated:   report.EndTime.Format(time.RFC3339),
		OperationID: report.OperationID,
		SourcePath:  report.SourcePath,
		LatestPath:  report.LatestPath,
		ArchivePath: report.ArchivePath,
		DryRun:      report.DryRun,
		TotalCount:  len(report.Actions),
		Actions:     report.Actions,
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}
