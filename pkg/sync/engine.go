package sync

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/jonboulle/clockwork"

	"github.com/sdejongh/linksnap/pkg/compare"
	"github.com/sdejongh/linksnap/pkg/logging"
	"github.com/sdejongh/linksnap/pkg/models"
	"github.com/sdejongh/linksnap/pkg/storage"
)

// Engine reconciles a destination tree against a source tree so the
// destination ends up set-equal to the source, ignored names aside
type Engine struct {
	backend    storage.Backend
	comparator *compare.DirComparator
	logger     logging.Logger
	clock      clockwork.Clock
	dryRun     bool
}

// NewEngine creates a new sync engine. The comparator's ignore filter is
// applied to both sides and to every directory copy.
func NewEngine(
	backend storage.Backend,
	comparator *compare.DirComparator,
	logger logging.Logger,
	dryRun bool,
) *Engine {
	return &Engine{
		backend:    backend,
		comparator: comparator,
		logger:     logging.OrNull(logger),
		clock:      clockwork.NewRealClock(),
		dryRun:     dryRun,
	}
}

// WithClock sets the clock used to timestamp actions
func (e *Engine) WithClock(clock clockwork.Clock) *Engine {
	e.clock = clock
	return e
}

// DryRun reports whether the engine only detects differences
func (e *Engine) DryRun() bool {
	return e.dryRun
}

// Reconcile walks source and dest depth-first and makes dest match source.
//
// Within each directory level deletions happen first, then copies, then
// replacements, then recursion into common subdirectories. In dry-run mode
// the same decisions are taken and recorded but nothing is modified, so the
// Changed verdict is identical. Any uninspectable or structurally mismatched
// entry aborts the whole walk.
func (e *Engine) Reconcile(ctx context.Context, source, dest string) (*models.SyncResult, error) {
	result := &models.SyncResult{}
	changed, err := e.reconcile(ctx, source, dest, result)
	result.Changed = changed
	if err != nil {
		return result, err
	}

	e.logger.Debug(ctx, "Reconciliation finished", logging.Fields{
		"source":  source,
		"dest":    dest,
		"changed": changed,
		"dry_run": e.dryRun,
	})
	return result, nil
}

func (e *Engine) reconcile(ctx context.Context, source, dest string, result *models.SyncResult) (bool, error) {
	level, err := e.comparator.CompareOneLevel(ctx, source, dest)
	if err != nil {
		return false, err
	}
	result.Stats.DirsCompared++

	changed := false

	for _, name := range level.RightOnly {
		changed = true
		if err := e.deleteEntry(ctx, filepath.Join(dest, name), result); err != nil {
			return changed, err
		}
	}

	for _, name := range level.LeftOnly {
		changed = true
		if err := e.copyEntry(ctx, source, dest, name, result); err != nil {
			return changed, err
		}
	}

	for _, name := range level.DiffFiles {
		changed = true
		if err := e.replaceEntry(ctx, source, dest, name, result); err != nil {
			return changed, err
		}
	}

	for _, name := range level.CommonDirs {
		sub, err := e.reconcile(ctx, filepath.Join(source, name), filepath.Join(dest, name), result)
		if sub {
			changed = true
		}
		if err != nil {
			return changed, err
		}
	}

	return changed, nil
}

// deleteEntry removes a destination-only entry. Directories go recursively,
// symbolic links are removed themselves, never their targets.
func (e *Engine) deleteEntry(ctx context.Context, path string, result *models.SyncResult) error {
	info, err := e.backend.Lstat(ctx, path)
	if err != nil {
		return &models.UninspectableError{Left: filepath.Dir(path), Right: filepath.Dir(path), Err: err}
	}
	isDir := info.IsDir()

	if !e.dryRun {
		if isDir {
			err = e.backend.RemoveAll(ctx, path)
		} else {
			err = e.backend.Remove(ctx, path)
		}
		if err != nil {
			e.logger.Error(ctx, "Failed to delete entry", err, logging.Fields{"path": path})
			return fmt.Errorf("failed to delete %s: %w", path, err)
		}
	}

	if isDir {
		result.Stats.DirsDeleted++
	} else {
		result.Stats.FilesDeleted++
	}
	e.record(ctx, result, models.FileAction{Action: models.ActionDelete, Path: path, IsDir: isDir})
	return nil
}

// copyEntry brings a source-only entry into the destination
func (e *Engine) copyEntry(ctx context.Context, source, dest, name string, result *models.SyncResult) error {
	src := filepath.Join(source, name)
	dst := filepath.Join(dest, name)

	info, err := e.backend.Stat(ctx, src)
	if err != nil {
		return &models.UninspectableError{
			Left:    source,
			Right:   dest,
			Entries: []models.FunnyEntry{{Name: name, Reason: err.Error()}},
		}
	}

	switch {
	case info.IsDir():
		if !e.dryRun {
			if err := e.backend.CopyTree(ctx, src, dst, e.comparator.Filter().Match); err != nil {
				e.logger.Error(ctx, "Failed to copy directory", err, logging.Fields{"source": src, "dest": dst})
				return fmt.Errorf("failed to copy directory %s: %w", src, err)
			}
		}
		result.Stats.DirsCopied++

	case info.IsRegular():
		if !e.dryRun {
			if err := e.backend.CopyFile(ctx, src, dst); err != nil {
				e.logger.Error(ctx, "Failed to copy file", err, logging.Fields{"source": src, "dest": dst})
				return fmt.Errorf("failed to copy file %s: %w", src, err)
			}
		}
		result.Stats.FilesCopied++

	default:
		return &models.UninspectableError{
			Left:    source,
			Right:   dest,
			Entries: []models.FunnyEntry{{Name: name, Reason: fmt.Sprintf("cannot copy %s entry", info.Kind)}},
		}
	}

	e.record(ctx, result, models.FileAction{Action: models.ActionCopy, Path: dst, Source: src, IsDir: info.IsDir()})
	return nil
}

// replaceEntry swaps a differing destination file for the source version.
// The destination is removed before copying so a file still shared with an
// archived snapshot through a hard link is never written through.
func (e *Engine) replaceEntry(ctx context.Context, source, dest, name string, result *models.SyncResult) error {
	src := filepath.Join(source, name)
	dst := filepath.Join(dest, name)

	srcInfo, err := e.backend.Stat(ctx, src)
	if err != nil {
		return &models.UninspectableError{Left: source, Right: dest, Entries: []models.FunnyEntry{{Name: name, Reason: err.Error()}}}
	}
	dstInfo, err := e.backend.Stat(ctx, dst)
	if err != nil {
		return &models.UninspectableError{Left: source, Right: dest, Entries: []models.FunnyEntry{{Name: name, Reason: err.Error()}}}
	}
	if srcInfo.IsDir() || dstInfo.IsDir() {
		return &models.StructuralMismatchError{
			Left:    source,
			Right:   dest,
			Names:   []string{name},
			Message: "differing entry is a directory",
		}
	}

	if !e.dryRun {
		if err := e.backend.Remove(ctx, dst); err != nil {
			e.logger.Error(ctx, "Failed to remove outdated file", err, logging.Fields{"path": dst})
			return fmt.Errorf("failed to remove outdated file %s: %w", dst, err)
		}
		if err := e.backend.CopyFile(ctx, src, dst); err != nil {
			e.logger.Error(ctx, "Failed to copy file", err, logging.Fields{"source": src, "dest": dst})
			return fmt.Errorf("failed to copy file %s: %w", src, err)
		}
	}

	result.Stats.FilesReplaced++
	e.record(ctx, result, models.FileAction{Action: models.ActionReplace, Path: dst, Source: src})
	return nil
}

func (e *Engine) record(ctx context.Context, result *models.SyncResult, action models.FileAction) {
	action.Applied = !e.dryRun
	action.At = e.clock.Now()
	result.Actions = append(result.Actions, action)

	msg := actionMessage(action)
	fields := logging.Fields{"path": action.Path}
	if action.Source != "" {
		fields["source"] = action.Source
	}
	e.logger.Debug(ctx, msg, fields)
}

func actionMessage(action models.FileAction) string {
	kind := "file"
	if action.IsDir {
		kind = "directory"
	}

	switch action.Action {
	case models.ActionDelete:
		if action.Applied {
			return "Deleted " + kind
		}
		return "Would delete " + kind
	case models.ActionCopy:
		if action.Applied {
			return "Copied " + kind
		}
		return "Would copy " + kind
	case models.ActionReplace:
		if action.Applied {
			return "Replaced file"
		}
		return "Would replace file"
	default:
		return string(action.Action)
	}
}
