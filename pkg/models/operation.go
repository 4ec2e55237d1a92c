package models

import (
	"time"
)

// BackupOperation represents one backup cycle configuration
type BackupOperation struct {
	ID             string
	SourcePath     string
	LatestPath     string
	LinkKind       LinkKind
	IgnorePatterns []string
	// Shallow compares files by size and modification time only
	Shallow bool
	// BufferSize is the block size of content comparison; values below
	// 4096 use 4096
	BufferSize int
	// DryRun only compares source against latest, nothing changes
	DryRun    bool
	CreatedAt time.Time
}

// Validate checks if the operation configuration is valid
func (op *BackupOperation) Validate() error {
	if op.SourcePath == "" {
		return &ValidationError{Field: "SourcePath", Message: "source path is required"}
	}
	if op.LatestPath == "" {
		return &ValidationError{Field: "LatestPath", Message: "latest path is required"}
	}
	switch op.LinkKind {
	case LinkHard, LinkSymbolic:
	default:
		return &ValidationError{Field: "LinkKind", Message: "link kind must be 'hard' or 'symbolic'"}
	}
	return nil
}

// PurgeOperation represents one duplicate purge configuration
type PurgeOperation struct {
	ID             string
	RootPath       string
	IgnorePatterns []string
	Shallow        bool
	BufferSize     int
	// Destroy deletes redundant snapshots; otherwise they are only reported
	Destroy bool
	// Prompt asks for confirmation before destroying
	Prompt    bool
	CreatedAt time.Time
}

// Validate checks if the operation configuration is valid
func (op *PurgeOperation) Validate() error {
	if op.RootPath == "" {
		return &ValidationError{Field: "RootPath", Message: "root path is required"}
	}
	return nil
}

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}
