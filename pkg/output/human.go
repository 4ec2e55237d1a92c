package output

import (
	"fmt"
	"io"
	"time"

	"github.com/sdejongh/linksnap/pkg/models"
)

// HumanFormatter formats output in human-readable format
type HumanFormatter struct {
	writer  io.Writer
	verbose bool
}

// NewHumanFormatter creates a new human-readable formatter. Verbose output
// lists every action taken.
func NewHumanFormatter(verbose bool) *HumanFormatter {
	return &HumanFormatter{verbose: verbose}
}

// Start initializes the formatter
func (f *HumanFormatter) Start(writer io.Writer, operation string) error {
	f.writer = writer
	if writer != nil && operation != "" {
		fmt.Fprintf(writer, "Starting %s\n", operation)
	}
	return nil
}

// Backup displays the result of a backup cycle
func (f *HumanFormatter) Backup(report *models.BackupReport) error {
	w := f.out()

	fmt.Fprintf(w, "\n")
	switch {
	case report.DryRun:
		fmt.Fprintf(w, "Comparison completed in %s\n", formatDuration(report.Duration))
	default:
		fmt.Fprintf(w, "Backup completed in %s\n", formatDuration(report.Duration))
	}
	fmt.Fprintf(w, "\n")
	fmt.Fprintf(w, "  Source:     %s\n", report.SourcePath)
	fmt.Fprintf(w, "  Latest:     %s\n", report.LatestPath)
	if report.ArchivePath != "" {
		fmt.Fprintf(w, "  Archived:   %s\n", report.ArchivePath)
	}
	fmt.Fprintf(w, "  Links:      %s\n", report.LinkKind)

	if report.FirstRun {
		fmt.Fprintf(w, "\n")
		if report.DryRun {
			fmt.Fprintf(w, "Latest directory does not exist, nothing to compare.\n")
		} else {
			fmt.Fprintf(w, "First run: all data copied from source.\n")
		}
	} else {
		fmt.Fprintf(w, "\n")
		fmt.Fprintf(w, "Summary:\n")
		fmt.Fprintf(w, "  Dirs compared:      %d\n", report.Stats.DirsCompared)
		if !report.DryRun {
			fmt.Fprintf(w, "  Files linked:       %d\n", report.Stats.FilesLinked)
		}
		fmt.Fprintf(w, "  Files copied:       %d\n", report.Stats.FilesCopied)
		fmt.Fprintf(w, "  Dirs copied:        %d\n", report.Stats.DirsCopied)
		fmt.Fprintf(w, "  Files replaced:     %d\n", report.Stats.FilesReplaced)
		fmt.Fprintf(w, "  Files deleted:      %d\n", report.Stats.FilesDeleted)
		fmt.Fprintf(w, "  Dirs deleted:       %d\n", report.Stats.DirsDeleted)
	}

	if f.verbose && len(report.Actions) > 0 {
		fmt.Fprintf(w, "\n")
		fmt.Fprintf(w, "Actions:\n")
		for _, a := range report.Actions {
			fmt.Fprintf(w, "  %s\n", describeAction(a))
		}
	}

	fmt.Fprintf(w, "\n")
	if !report.Changed && report.Status != models.StatusFailed {
		fmt.Fprintf(w, "[ Directories are identical. ]\n")
	} else if report.DryRun {
		fmt.Fprintf(w, "Differences: %v\n", report.Changed)
	}
	fmt.Fprintf(w, "Status: %s\n", report.Status)
	return nil
}

// Purge displays the result of a duplicate purge
func (f *HumanFormatter) Purge(report *models.PurgeReport) error {
	w := f.out()

	fmt.Fprintf(w, "\n")
	fmt.Fprintf(w, "Purge scan completed in %s\n", formatDuration(report.Duration))
	fmt.Fprintf(w, "\n")
	fmt.Fprintf(w, "  Root:         %s\n", report.RootPath)
	if report.Kept != "" {
		fmt.Fprintf(w, "  Newest kept:  %s\n", report.Kept)
	}
	fmt.Fprintf(w, "  Scanned:      %d snapshots\n", len(report.Scanned))
	fmt.Fprintf(w, "  Comparisons:  %d\n", report.Comparisons)

	if f.verbose && len(report.Scanned) > 0 {
		fmt.Fprintf(w, "\n")
		fmt.Fprintf(w, "Compared oldest first:\n")
		for _, s := range report.Scanned {
			fmt.Fprintf(w, "  %s\n", s)
		}
	}

	fmt.Fprintf(w, "\n")
	if len(report.Redundant) == 0 {
		fmt.Fprintf(w, "No duplicate directories found.\n")
	} else {
		fmt.Fprintf(w, "The directories which are the same and can be removed are:\n")
		for _, r := range report.Redundant {
			fmt.Fprintf(w, "  %s\n", r)
		}
		switch {
		case !report.Destroy:
			fmt.Fprintf(w, "\nTesting mode: nothing was deleted (use --destroy).\n")
		case !report.Confirmed:
			fmt.Fprintf(w, "\nDeletion declined: nothing was deleted.\n")
		default:
			fmt.Fprintf(w, "\nDeleted %d of %d directories.\n", len(report.Removed), len(report.Redundant))
		}
	}

	fmt.Fprintf(w, "Status: %s\n", report.Status)
	return nil
}

// Error reports an error
func (f *HumanFormatter) Error(err error) error {
	fmt.Fprintf(f.out(), "Error: %v\n", err)
	return nil
}

// Name returns the formatter name
func (f *HumanFormatter) Name() string {
	return "human"
}

func (f *HumanFormatter) out() io.Writer {
	if f.writer == nil {
		return io.Discard
	}
	return f.writer
}

func describeAction(a models.FileAction) string {
	prefix := ""
	if !a.Applied {
		prefix = "would "
	}
	kind := "file"
	if a.IsDir {
		kind = "dir"
	}
	switch a.Action {
	case models.ActionCopy:
		return fmt.Sprintf("%scopy %s %s -> %s", prefix, kind, a.Source, a.Path)
	case models.ActionReplace:
		return fmt.Sprintf("%sreplace %s with %s", prefix, a.Path, a.Source)
	case models.ActionDelete:
		return fmt.Sprintf("%sdelete %s %s", prefix, kind, a.Path)
	default:
		return fmt.Sprintf("%s%s %s", prefix, a.Action, a.Path)
	}
}

// formatDuration formats duration in human-readable format
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return d.Round(time.Millisecond).String()
	}
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm%ds", int(d.Minutes()), int(d.Seconds())%60)
	}
	return fmt.Sprintf("%dh%dm", int(d.Hours()), int(d.Minutes())%60)
}
