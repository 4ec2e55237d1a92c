package models

import (
	"time"
)

// Status represents the overall result of an operation
type Status string

const (
	// StatusIdentical indicates nothing differed
	StatusIdentical Status = "identical"
	// StatusChanged indicates differences were found (and applied, unless dry-run)
	StatusChanged Status = "changed"
	// StatusFailed indicates the operation aborted
	StatusFailed Status = "failed"
)

// ExitCode returns the appropriate exit code for the status.
// Dry-run comparisons exit 1 when differences exist.
func (s Status) ExitCode(dryRun bool) int {
	switch s {
	case StatusIdentical:
		return 0
	case StatusChanged:
		if dryRun {
			return 1
		}
		return 0
	default:
		return 2
	}
}

// Statistics holds counters of a reconciliation or clone
type Statistics struct {
	FilesCopied   int `json:"files_copied"`
	FilesReplaced int `json:"files_replaced"`
	FilesDeleted  int `json:"files_deleted"`
	DirsCopied    int `json:"dirs_copied"`
	DirsDeleted   int `json:"dirs_deleted"`
	DirsCompared  int `json:"dirs_compared"`
	FilesLinked   int `json:"files_linked"`
	DirsCreated   int `json:"dirs_created"`
}

// Add accumulates other into s
func (s *Statistics) Add(other Statistics) {
	s.FilesCopied += other.FilesCopied
	s.FilesReplaced += other.FilesReplaced
	s.FilesDeleted += other.FilesDeleted
	s.DirsCopied += other.DirsCopied
	s.DirsDeleted += other.DirsDeleted
	s.DirsCompared += other.DirsCompared
	s.FilesLinked += other.FilesLinked
	s.DirsCreated += other.DirsCreated
}

// SyncResult is the outcome of reconciling a destination against a source
type SyncResult struct {
	Changed bool
	Actions []FileAction
	Stats   Statistics
}

// CloneResult is the outcome of linking a snapshot into a new location
type CloneResult struct {
	// Resumed is true when the destination root already existed
	Resumed bool
	Stats   Statistics
}

// BackupReport represents the results of a backup cycle
type BackupReport struct {
	OperationID string
	SourcePath  string
	LatestPath  string
	// ArchivePath is where the previous latest was moved, empty on first run
	ArchivePath string
	FirstRun    bool
	DryRun      bool
	LinkKind    LinkKind

	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration

	Changed bool
	Actions []FileAction
	Stats   Statistics
	Status  Status
}

// PurgeReport represents the results of a duplicate purge
type PurgeReport struct {
	OperationID string
	RootPath    string
	// Kept is the newest snapshot, never considered for removal
	Kept string
	// Scanned lists candidates oldest first
	Scanned []string
	// Redundant lists snapshots identical to an earlier one in their run
	Redundant []string
	// Removed lists snapshots actually deleted
	Removed     []string
	Destroy     bool
	Confirmed   bool
	Comparisons int
	// Actions has one purge entry per redundant snapshot, applied only
	// when it was deleted
	Actions []FileAction

	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration
	Status    Status
}
