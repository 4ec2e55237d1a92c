package models

import (
	"time"
)

// EntryKind classifies a filesystem entry after following symbolic links
type EntryKind string

const (
	// KindFile is a regular file
	KindFile EntryKind = "file"
	// KindDir is a directory
	KindDir EntryKind = "dir"
	// KindSymlink is a symbolic link (only reported by Lstat)
	KindSymlink EntryKind = "symlink"
	// KindOther is a device, socket, pipe or anything else
	KindOther EntryKind = "other"
)

// LinkKind selects how a cloned snapshot references the previous one
type LinkKind string

const (
	// LinkHard shares the underlying storage with the previous snapshot
	LinkHard LinkKind = "hard"
	// LinkSymbolic stores the path of the previous snapshot's file
	LinkSymbolic LinkKind = "symbolic"
)

// LinkKindFor returns the link kind selected by the symbolic-links setting
func LinkKindFor(useSymbolicLinks bool) LinkKind {
	if useSymbolicLinks {
		return LinkSymbolic
	}
	return LinkHard
}

// Action represents what is done to a destination entry
type Action string

const (
	// ActionCopy copies a source-only entry into the destination
	ActionCopy Action = "copy"
	// ActionReplace removes a differing destination file and copies the source over
	ActionReplace Action = "replace"
	// ActionDelete removes a destination-only entry
	ActionDelete Action = "delete"
	// ActionPurge removes a redundant snapshot
	ActionPurge Action = "purge"
)

// FileAction is one decision taken (or planned, in dry-run) on an entry
type FileAction struct {
	// Action is what was done
	Action Action `json:"action"`
	// Path is the affected destination path
	Path string `json:"path"`
	// Source is the path the content comes from, if any
	Source string `json:"source,omitempty"`
	// IsDir indicates the entry is a directory
	IsDir bool `json:"is_dir"`
	// Applied is false when the action was only planned (dry-run)
	Applied bool `json:"applied"`
	// At is when the decision was taken
	At time.Time `json:"at"`
}
