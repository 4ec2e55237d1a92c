package storage

import (
	"context"
	"io"
	"time"

	"github.com/sdejongh/linksnap/pkg/models"
)

// FileInfo represents metadata about a filesystem entry
type FileInfo struct {
	Path        string
	Name        string
	Size        int64
	ModTime     time.Time
	Kind        models.EntryKind
	Permissions uint32
}

// IsDir reports whether the entry is a directory
func (fi *FileInfo) IsDir() bool {
	return fi.Kind == models.KindDir
}

// IsRegular reports whether the entry is a regular file
func (fi *FileInfo) IsRegular() bool {
	return fi.Kind == models.KindFile
}

// Backend defines the filesystem operations snapshots are built from.
// All paths are absolute or relative to the working directory.
type Backend interface {
	// ReadDir returns the sorted names of the immediate children of path
	ReadDir(ctx context.Context, path string) ([]string, error)

	// Stat returns metadata, following symbolic links
	Stat(ctx context.Context, path string) (*FileInfo, error)

	// Lstat returns metadata without following symbolic links
	Lstat(ctx context.Context, path string) (*FileInfo, error)

	// Exists checks if an entry exists (a dangling symbolic link exists)
	Exists(ctx context.Context, path string) (bool, error)

	// Read opens a file for reading
	Read(ctx context.Context, path string) (io.ReadCloser, error)

	// Mkdir creates a single directory
	Mkdir(ctx context.Context, path string) error

	// Link creates a hard or symbolic link at link pointing to target
	Link(ctx context.Context, target, link string, kind models.LinkKind) error

	// CopyFile copies a regular file preserving timestamps and permissions.
	// The destination must not exist.
	CopyFile(ctx context.Context, src, dst string) error

	// CopyTree recursively copies src into the new directory dst, skipping
	// every entry whose basename exclude reports true
	CopyTree(ctx context.Context, src, dst string, exclude func(name string) bool) error

	// Remove removes a file, symbolic link or empty directory
	Remove(ctx context.Context, path string) error

	// RemoveAll removes a tree
	RemoveAll(ctx context.Context, path string) error

	// ForceRemoveAll removes a tree, clearing read-only attributes on any
	// entry whose removal fails and retrying that removal once
	ForceRemoveAll(ctx context.Context, path string) error

	// Rename moves an entry within the same volume
	Rename(ctx context.Context, oldPath, newPath string) error

	// CreationTime returns when the entry was created, as precisely as the
	// platform allows
	CreationTime(ctx context.Context, path string) (time.Time, error)
}
