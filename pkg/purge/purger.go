package purge

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/sdejongh/linksnap/pkg/compare"
	"github.com/sdejongh/linksnap/pkg/ignore"
	"github.com/sdejongh/linksnap/pkg/logging"
	"github.com/sdejongh/linksnap/pkg/models"
	"github.com/sdejongh/linksnap/pkg/storage"
)

// ErrNoConfirmer is returned when destruction must be confirmed but no
// Confirmer was configured
var ErrNoConfirmer = errors.New("confirmation required but no confirmer configured")

// Confirmer asks whether the listed snapshots may be destroyed
type Confirmer interface {
	Confirm(ctx context.Context, paths []string) (bool, error)
}

// Progress receives one step per snapshot comparison
type Progress interface {
	Start(total int)
	Advance(anchor, candidate string)
	Finish()
}

// Purger finds snapshots identical to an older sibling and removes them
type Purger struct {
	backend   storage.Backend
	logger    logging.Logger
	confirmer Confirmer
	progress  Progress
	clock     clockwork.Clock
}

// NewPurger creates a purger
func NewPurger(backend storage.Backend, logger logging.Logger) *Purger {
	return &Purger{
		backend: backend,
		logger:  logging.OrNull(logger),
		clock:   clockwork.NewRealClock(),
	}
}

// WithConfirmer sets who confirms destruction
func (p *Purger) WithConfirmer(c Confirmer) *Purger {
	p.confirmer = c
	return p
}

// WithProgress sets the comparison progress sink
func (p *Purger) WithProgress(progress Progress) *Purger {
	p.progress = progress
	return p
}

// WithClock sets the clock used for report timings
func (p *Purger) WithClock(clock clockwork.Clock) *Purger {
	p.clock = clock
	return p
}

type snapshot struct {
	path    string
	created time.Time
}

// Purge scans the immediate subdirectories of op.RootPath for redundant
// snapshots.
//
// Snapshots are ordered by creation time and the newest is always kept.
// Starting from the oldest, an anchor is compared in full depth against each
// following snapshot; every match is redundant, and the first mismatch
// becomes the next anchor. A run of identical snapshots therefore keeps only
// its first member. Comparison honours op.IgnorePatterns and op.Shallow.
// Redundant snapshots are deleted only with op.Destroy,
// after confirmation when op.Prompt is set.
func (p *Purger) Purge(ctx context.Context, op *models.PurgeOperation) (*models.PurgeReport, error) {
	if err := op.Validate(); err != nil {
		return nil, fmt.Errorf("invalid operation: %w", err)
	}

	root, err := filepath.Abs(op.RootPath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve root path: %w", err)
	}

	report := &models.PurgeReport{
		OperationID: op.ID,
		RootPath:    root,
		Destroy:     op.Destroy,
		StartTime:   p.clock.Now(),
	}
	logger := p.logger.WithFields(logging.Fields{"operation_id": op.ID})
	comparator := compare.NewDirComparator(
		p.backend,
		compare.New(p.backend, op.Shallow, op.BufferSize),
		ignore.New(op.IgnorePatterns),
		logger,
	)

	err = p.purge(ctx, logger, comparator, root, op, report)
	report.EndTime = p.clock.Now()
	report.Duration = report.EndTime.Sub(report.StartTime)

	switch {
	case err != nil:
		report.Status = models.StatusFailed
		logger.Error(ctx, "Purge failed", err, logging.Fields{"root": root})
		return report, err
	case len(report.Redundant) > 0:
		report.Status = models.StatusChanged
	default:
		report.Status = models.StatusIdentical
	}
	return report, nil
}

func (p *Purger) purge(ctx context.Context, logger logging.Logger, comparator *compare.DirComparator, root string, op *models.PurgeOperation, report *models.PurgeReport) error {
	snapshots, err := p.listSnapshots(ctx, root)
	if err != nil {
		return err
	}
	if len(snapshots) == 0 {
		logger.Info(ctx, "No snapshots found", logging.Fields{"root": root})
		return nil
	}

	report.Kept = snapshots[len(snapshots)-1].path
	candidates := snapshots[:len(snapshots)-1]
	for _, s := range candidates {
		report.Scanned = append(report.Scanned, s.path)
	}
	logger.Debug(ctx, "Keeping the newest snapshot", logging.Fields{"path": report.Kept})

	redundant, comparisons, err := p.scan(ctx, logger, comparator, report.Scanned)
	report.Comparisons = comparisons
	if err != nil {
		return err
	}
	report.Redundant = redundant
	for _, path := range redundant {
		report.Actions = append(report.Actions, models.FileAction{
			Action: models.ActionPurge,
			Path:   path,
			IsDir:  true,
			At:     p.clock.Now(),
		})
	}

	if len(redundant) == 0 {
		logger.Info(ctx, "No duplicate snapshots found", logging.Fields{"root": root})
		return nil
	}
	logger.Info(ctx, "Duplicate snapshots found", logging.Fields{"count": len(redundant), "paths": redundant})

	if !op.Destroy {
		return nil
	}

	confirmed := true
	if op.Prompt {
		if p.confirmer == nil {
			return ErrNoConfirmer
		}
		confirmed, err = p.confirmer.Confirm(ctx, redundant)
		if err != nil {
			return fmt.Errorf("failed to read confirmation: %w", err)
		}
	}
	report.Confirmed = confirmed
	if !confirmed {
		logger.Info(ctx, "Deletion declined", nil)
		return nil
	}

	for i, path := range redundant {
		if err := p.backend.ForceRemoveAll(ctx, path); err != nil {
			logger.Error(ctx, "Failed to delete snapshot", err, logging.Fields{"path": path})
			return err
		}
		report.Removed = append(report.Removed, path)
		report.Actions[i].Applied = true
		report.Actions[i].At = p.clock.Now()
		logger.Info(ctx, "Deleted snapshot", logging.Fields{"path": path})
	}
	return nil
}

// listSnapshots returns the subdirectories of root, oldest first. Entries
// created at the same instant are ordered by name.
func (p *Purger) listSnapshots(ctx context.Context, root string) ([]snapshot, error) {
	info, err := p.backend.Stat(ctx, root)
	if err != nil {
		return nil, fmt.Errorf("failed to access root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("root %s is not a directory", root)
	}

	names, err := p.backend.ReadDir(ctx, root)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", root, err)
	}

	var snapshots []snapshot
	for _, name := range names {
		path := filepath.Join(root, name)
		info, err := p.backend.Stat(ctx, path)
		if err != nil || !info.IsDir() {
			continue
		}
		created, err := p.backend.CreationTime(ctx, path)
		if err != nil {
			return nil, fmt.Errorf("failed to read creation time of %s: %w", path, err)
		}
		snapshots = append(snapshots, snapshot{path: path, created: created})
	}

	sort.SliceStable(snapshots, func(i, j int) bool {
		if !snapshots[i].created.Equal(snapshots[j].created) {
			return snapshots[i].created.Before(snapshots[j].created)
		}
		return snapshots[i].path < snapshots[j].path
	})
	return snapshots, nil
}

// scan walks candidates oldest first, matching each run against its anchor
func (p *Purger) scan(ctx context.Context, logger logging.Logger, comparator *compare.DirComparator, candidates []string) ([]string, int, error) {
	var redundant []string
	comparisons := 0

	if p.progress != nil && len(candidates) > 1 {
		p.progress.Start(len(candidates) - 1)
		defer p.progress.Finish()
	}

	anchor := 0
	for anchor < len(candidates)-1 {
		candidate := anchor + 1
		for ; candidate < len(candidates); candidate++ {
			logger.Debug(ctx, "Comparing snapshots", logging.Fields{
				"anchor":    candidates[anchor],
				"candidate": candidates[candidate],
			})

			equal, err := comparator.TreesEqual(ctx, candidates[anchor], candidates[candidate])
			comparisons++
			if p.progress != nil {
				p.progress.Advance(candidates[anchor], candidates[candidate])
			}
			if err != nil {
				return redundant, comparisons, fmt.Errorf("failed to compare %s to %s: %w", candidates[anchor], candidates[candidate], err)
			}

			logger.Debug(ctx, "Snapshots compared", logging.Fields{"candidate": candidates[candidate], "match": equal})
			if !equal {
				break
			}
			redundant = append(redundant, candidates[candidate])
		}
		// the first unmatched candidate, or the end of the list
		anchor = candidate
	}

	return redundant, comparisons, nil
}
