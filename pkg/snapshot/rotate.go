package snapshot

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/jonboulle/clockwork"

	"github.com/sdejongh/linksnap/pkg/compare"
	"github.com/sdejongh/linksnap/pkg/ignore"
	"github.com/sdejongh/linksnap/pkg/logging"
	"github.com/sdejongh/linksnap/pkg/models"
	"github.com/sdejongh/linksnap/pkg/storage"
	"github.com/sdejongh/linksnap/pkg/sync"
)

// Rotator runs backup cycles: archive the latest snapshot under a
// timestamped name, relink it into a fresh latest and reconcile that
// against the source
type Rotator struct {
	backend storage.Backend
	logger  logging.Logger
	clock   clockwork.Clock
}

// NewRotator creates a rotator
func NewRotator(backend storage.Backend, logger logging.Logger) *Rotator {
	return &Rotator{
		backend: backend,
		logger:  logging.OrNull(logger),
		clock:   clockwork.NewRealClock(),
	}
}

// WithClock sets the clock used for report timings
func (r *Rotator) WithClock(clock clockwork.Clock) *Rotator {
	r.clock = clock
	return r
}

// Rotate executes one backup cycle described by op.
//
// A missing latest snapshot is a first run: the source is copied in full.
// With op.DryRun set nothing is archived or modified; source and latest are
// only compared. op.IgnorePatterns apply to the first-run copy, the clone and
// the reconciliation alike; op.Shallow selects the file comparison strength.
func (r *Rotator) Rotate(ctx context.Context, op *models.BackupOperation) (*models.BackupReport, error) {
	if err := op.Validate(); err != nil {
		return nil, fmt.Errorf("invalid operation: %w", err)
	}

	source, err := filepath.Abs(op.SourcePath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve source path: %w", err)
	}
	latest, err := filepath.Abs(op.LatestPath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve latest path: %w", err)
	}

	report := &models.BackupReport{
		OperationID: op.ID,
		SourcePath:  source,
		LatestPath:  latest,
		DryRun:      op.DryRun,
		LinkKind:    op.LinkKind,
		StartTime:   r.clock.Now(),
	}
	logger := r.logger.WithFields(logging.Fields{"operation_id": op.ID})
	comparator := compare.NewDirComparator(
		r.backend,
		compare.New(r.backend, op.Shallow, op.BufferSize),
		ignore.New(op.IgnorePatterns),
		logger,
	)

	err = r.rotate(ctx, logger, comparator, source, latest, op, report)
	report.EndTime = r.clock.Now()
	report.Duration = report.EndTime.Sub(report.StartTime)

	switch {
	case err != nil:
		report.Status = models.StatusFailed
		logger.Error(ctx, "Backup failed", err, logging.Fields{"source": source, "latest": latest})
		return report, err
	case report.Changed:
		report.Status = models.StatusChanged
	default:
		report.Status = models.StatusIdentical
		logger.Info(ctx, "Directories are identical", logging.Fields{"source": source, "latest": latest})
	}

	logger.Info(ctx, "Backup completed", logging.Fields{
		"status":   report.Status,
		"archive":  report.ArchivePath,
		"duration": report.Duration.String(),
	})
	return report, nil
}

func (r *Rotator) rotate(ctx context.Context, logger logging.Logger, comparator *compare.DirComparator, source, latest string, op *models.BackupOperation, report *models.BackupReport) error {
	srcInfo, err := r.backend.Stat(ctx, source)
	if err != nil {
		return fmt.Errorf("failed to access source: %w", err)
	}
	if !srcInfo.IsDir() {
		return fmt.Errorf("source %s is not a directory", source)
	}

	exists, err := r.backend.Exists(ctx, latest)
	if err != nil {
		return err
	}
	if !exists {
		return r.firstRun(ctx, logger, comparator.Filter(), source, latest, report)
	}

	latestInfo, err := r.backend.Stat(ctx, latest)
	if err != nil {
		return fmt.Errorf("failed to access latest snapshot: %w", err)
	}
	if !latestInfo.IsDir() {
		return fmt.Errorf("latest snapshot %s is not a directory", latest)
	}

	if op.DryRun {
		logger.Info(ctx, "Comparing source against latest snapshot", logging.Fields{"source": source, "latest": latest})
		return r.reconcile(ctx, logger, comparator, source, latest, true, report)
	}

	created, err := r.backend.CreationTime(ctx, latest)
	if err != nil {
		return fmt.Errorf("failed to read creation time of %s: %w", latest, err)
	}
	archive := ArchivePath(source, latest, created)

	// a second rotation within the same second collides here and fails
	if err := r.backend.Rename(ctx, latest, archive); err != nil {
		return fmt.Errorf("failed to archive latest snapshot: %w", err)
	}
	report.ArchivePath = archive
	logger.Info(ctx, "Latest snapshot archived", logging.Fields{"latest": latest, "archive": archive})

	cloner := NewCloner(r.backend, comparator.Filter(), logger)
	cloned, err := cloner.Clone(ctx, archive, latest, op.LinkKind)
	if err != nil {
		return fmt.Errorf("failed to link %s into %s: %w", archive, latest, err)
	}
	report.Stats.Add(cloned.Stats)
	logger.Info(ctx, "Archive linked into latest", logging.Fields{
		"archive":      archive,
		"latest":       latest,
		"link_kind":    op.LinkKind,
		"files_linked": cloned.Stats.FilesLinked,
	})

	return r.reconcile(ctx, logger, comparator, source, latest, false, report)
}

func (r *Rotator) firstRun(ctx context.Context, logger logging.Logger, filter *ignore.Filter, source, latest string, report *models.BackupReport) error {
	report.FirstRun = true
	report.Changed = true

	if report.DryRun {
		logger.Info(ctx, "Latest snapshot does not exist, nothing to compare", logging.Fields{"latest": latest})
		return nil
	}

	logger.Info(ctx, "First run detected, copying all data", logging.Fields{"source": source, "latest": latest})
	if err := r.backend.CopyTree(ctx, source, latest, filter.Match); err != nil {
		return fmt.Errorf("failed to copy %s to %s: %w", source, latest, err)
	}
	report.Stats.DirsCopied++
	report.Actions = append(report.Actions, models.FileAction{
		Action:  models.ActionCopy,
		Path:    latest,
		Source:  source,
		IsDir:   true,
		Applied: true,
		At:      r.clock.Now(),
	})
	return nil
}

func (r *Rotator) reconcile(ctx context.Context, logger logging.Logger, comparator *compare.DirComparator, source, latest string, dryRun bool, report *models.BackupReport) error {
	engine := sync.NewEngine(r.backend, comparator, logger, dryRun).WithClock(r.clock)
	result, err := engine.Reconcile(ctx, source, latest)
	if result != nil {
		report.Changed = result.Changed
		report.Actions = append(report.Actions, result.Actions...)
		report.Stats.Add(result.Stats)
	}
	if err != nil {
		return fmt.Errorf("failed to reconcile %s with %s: %w", latest, source, err)
	}
	return nil
}
