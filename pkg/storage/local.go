package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/sdejongh/linksnap/internal/platform"
	"github.com/sdejongh/linksnap/pkg/models"
)

// Local is the local filesystem backend
type Local struct{}

// NewLocal creates a new local filesystem backend
func NewLocal() *Local {
	return &Local{}
}

// ReadDir returns the sorted names of the immediate children of path
func (l *Local) ReadDir(ctx context.Context, path string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open directory: %w", err)
	}
	defer f.Close()

	names, err := f.Readdirnames(-1)
	if err != nil {
		return nil, fmt.Errorf("failed to list directory: %w", err)
	}
	sort.Strings(names)
	return names, nil
}

// Stat returns metadata, following symbolic links
func (l *Local) Stat(ctx context.Context, path string) (*FileInfo, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}
	return toFileInfo(path, info), nil
}

// Lstat returns metadata without following symbolic links
func (l *Local) Lstat(ctx context.Context, path string) (*FileInfo, error) {
	info, err := os.Lstat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}
	return toFileInfo(path, info), nil
}

// Exists checks if an entry exists
func (l *Local) Exists(ctx context.Context, path string) (bool, error) {
	_, err := os.Lstat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, fmt.Errorf("failed to check existence: %w", err)
}

// Read opens a file for reading
func (l *Local) Read(ctx context.Context, path string) (io.ReadCloser, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	return file, nil
}

// Mkdir creates a single directory. An existing entry yields an error
// matching fs.ErrExist.
func (l *Local) Mkdir(ctx context.Context, path string) error {
	if err := os.Mkdir(path, 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	return nil
}

// Link creates a hard or symbolic link at link pointing to target
func (l *Local) Link(ctx context.Context, target, link string, kind models.LinkKind) error {
	var err error
	switch kind {
	case models.LinkHard:
		err = os.Link(target, link)
	case models.LinkSymbolic:
		err = os.Symlink(target, link)
	default:
		err = fmt.Errorf("unknown link kind %q", kind)
	}
	if err != nil {
		return &models.LinkError{Kind: kind, Target: target, Link: link, Err: err}
	}
	return nil
}

// CopyFile copies a regular file preserving timestamps and permissions
func (l *Local) CopyFile(ctx context.Context, src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("failed to stat source: %w", err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("cannot copy %s: not a regular file", src)
	}

	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open source: %w", err)
	}
	defer in.Close()

	// O_EXCL so an existing (possibly hard-linked) destination is never
	// written through
	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}

	written, err := io.Copy(out, in)
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	if written != info.Size() {
		return fmt.Errorf("incomplete write: expected %d bytes, wrote %d", info.Size(), written)
	}

	if err := os.Chmod(dst, info.Mode().Perm()); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}
	if err := os.Chtimes(dst, time.Now(), info.ModTime()); err != nil {
		return fmt.Errorf("failed to set modification time: %w", err)
	}

	return nil
}

// CopyTree recursively copies src into the new directory dst
func (l *Local) CopyTree(ctx context.Context, src, dst string, exclude func(name string) bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	info, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("failed to stat source: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("cannot copy tree %s: not a directory", src)
	}

	if err := os.Mkdir(dst, info.Mode().Perm()|0o700); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	names, err := l.ReadDir(ctx, src)
	if err != nil {
		return err
	}

	for _, name := range names {
		if exclude != nil && exclude(name) {
			continue
		}
		srcPath := filepath.Join(src, name)
		dstPath := filepath.Join(dst, name)

		child, err := os.Stat(srcPath)
		if err != nil {
			return fmt.Errorf("failed to stat source: %w", err)
		}
		if child.IsDir() {
			err = l.CopyTree(ctx, srcPath, dstPath, exclude)
		} else {
			err = l.CopyFile(ctx, srcPath, dstPath)
		}
		if err != nil {
			return err
		}
	}

	// restore the source mode and mtime once children are in place
	if err := os.Chmod(dst, info.Mode().Perm()); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}
	if err := os.Chtimes(dst, time.Now(), info.ModTime()); err != nil {
		return fmt.Errorf("failed to set modification time: %w", err)
	}
	return nil
}

// Remove removes a file, symbolic link or empty directory
func (l *Local) Remove(ctx context.Context, path string) error {
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("failed to delete: %w", err)
	}
	return nil
}

// RemoveAll removes a tree
func (l *Local) RemoveAll(ctx context.Context, path string) error {
	if err := os.RemoveAll(path); err != nil {
		return fmt.Errorf("failed to delete: %w", err)
	}
	return nil
}

// ForceRemoveAll removes a tree, clearing read-only attributes where a
// removal fails and retrying it once
func (l *Local) ForceRemoveAll(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	info, err := os.Lstat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return &models.DeletionError{Path: path, Err: err}
	}

	if info.IsDir() {
		names, err := l.readDirForced(ctx, path)
		if err != nil {
			return &models.DeletionError{Path: path, Err: err}
		}
		for _, name := range names {
			if err := l.ForceRemoveAll(ctx, filepath.Join(path, name)); err != nil {
				return err
			}
		}
	}

	return removeForced(path)
}

func (l *Local) readDirForced(ctx context.Context, path string) ([]string, error) {
	names, err := l.ReadDir(ctx, path)
	if err == nil {
		return names, nil
	}
	if clearErr := platform.ClearReadOnly(path); clearErr != nil {
		return nil, err
	}
	return l.ReadDir(ctx, path)
}

// removeForced removes a single entry. On failure the entry and its parent
// directory are made writable and the removal is retried once.
func removeForced(path string) error {
	err := os.Remove(path)
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}

	if clearErr := platform.ClearReadOnly(path); clearErr != nil && !errors.Is(clearErr, fs.ErrNotExist) {
		return &models.DeletionError{Path: path, Err: err}
	}
	if clearErr := platform.ClearReadOnly(filepath.Dir(path)); clearErr != nil {
		return &models.DeletionError{Path: path, Err: err}
	}

	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return &models.DeletionError{Path: path, Err: err}
	}
	return nil
}

// Rename moves an entry within the same volume
func (l *Local) Rename(ctx context.Context, oldPath, newPath string) error {
	if _, err := os.Lstat(newPath); err == nil {
		return fmt.Errorf("failed to rename %s: %s already exists", oldPath, newPath)
	}
	if err := os.Rename(oldPath, newPath); err != nil {
		return fmt.Errorf("failed to rename: %w", err)
	}
	return nil
}

// CreationTime returns when the entry was created
func (l *Local) CreationTime(ctx context.Context, path string) (time.Time, error) {
	return platform.CreationTime(path)
}

func toFileInfo(path string, info os.FileInfo) *FileInfo {
	return &FileInfo{
		Path:        path,
		Name:        info.Name(),
		Size:        info.Size(),
		ModTime:     info.ModTime(),
		Kind:        kindOf(info.Mode()),
		Permissions: uint32(info.Mode().Perm()),
	}
}

func kindOf(mode os.FileMode) models.EntryKind {
	switch {
	case mode.IsRegular():
		return models.KindFile
	case mode.IsDir():
		return models.KindDir
	case mode&os.ModeSymlink != 0:
		return models.KindSymlink
	default:
		return models.KindOther
	}
}
