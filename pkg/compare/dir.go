package compare

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/sdejongh/linksnap/pkg/ignore"
	"github.com/sdejongh/linksnap/pkg/logging"
	"github.com/sdejongh/linksnap/pkg/models"
	"github.com/sdejongh/linksnap/pkg/storage"
)

// DirComparator produces one-level categorized comparisons of directory
// pairs. It never recurses on its own: callers walk CommonDirs themselves.
type DirComparator struct {
	backend storage.Backend
	files   FileComparator
	filter  *ignore.Filter
	logger  logging.Logger
}

// NewDirComparator creates a directory comparator. A nil filter ignores
// nothing, a nil logger discards output.
func NewDirComparator(backend storage.Backend, files FileComparator, filter *ignore.Filter, logger logging.Logger) *DirComparator {
	return &DirComparator{
		backend: backend,
		files:   files,
		filter:  filter,
		logger:  logging.OrNull(logger),
	}
}

// Filter returns the ignore filter applied to every comparison
func (d *DirComparator) Filter() *ignore.Filter {
	return d.filter
}

// CompareOneLevel compares the immediate children of left and right.
//
// The result is filtered by the ignore filter before it is returned. When
// uninspectable entries survive filtering the result is returned together
// with a *models.StructuralMismatchError (type conflicts) or a
// *models.UninspectableError (inspection failures).
func (d *DirComparator) CompareOneLevel(ctx context.Context, left, right string) (models.DirComparison, error) {
	raw, err := d.compare(ctx, left, right)
	if err != nil {
		return models.DirComparison{Left: left, Right: right}, err
	}

	result := d.filter.FilterComparison(raw)
	return result, models.FunnyError(result)
}

func (d *DirComparator) compare(ctx context.Context, left, right string) (models.DirComparison, error) {
	if err := ctx.Err(); err != nil {
		return models.DirComparison{}, err
	}

	leftNames, err := d.backend.ReadDir(ctx, left)
	if err != nil {
		return models.DirComparison{}, &models.UninspectableError{Left: left, Right: right, Err: err}
	}
	rightNames, err := d.backend.ReadDir(ctx, right)
	if err != nil {
		return models.DirComparison{}, &models.UninspectableError{Left: left, Right: right, Err: err}
	}

	result := models.DirComparison{Left: left, Right: right}

	inRight := make(map[string]struct{}, len(rightNames))
	for _, name := range rightNames {
		inRight[name] = struct{}{}
	}
	inLeft := make(map[string]struct{}, len(leftNames))
	for _, name := range leftNames {
		inLeft[name] = struct{}{}
	}

	for _, name := range leftNames {
		if _, ok := inRight[name]; !ok {
			result.LeftOnly = append(result.LeftOnly, name)
		}
	}
	for _, name := range rightNames {
		if _, ok := inLeft[name]; !ok {
			result.RightOnly = append(result.RightOnly, name)
		}
	}

	// leftNames is sorted, so every category stays sorted
	for _, name := range leftNames {
		if _, ok := inRight[name]; !ok {
			continue
		}
		// ignored names are never stat'ed, so they cannot raise errors
		if d.filter.Match(name) {
			continue
		}
		d.classify(ctx, &result, name)
	}

	return result, nil
}

// classify places a name present on both sides. Symbolic links are followed
// so a symlinked snapshot compares like the files it points to.
func (d *DirComparator) classify(ctx context.Context, result *models.DirComparison, name string) {
	leftInfo, err := d.backend.Stat(ctx, filepath.Join(result.Left, name))
	if err != nil {
		result.Uninspectable = append(result.Uninspectable, models.FunnyEntry{Name: name, Reason: err.Error()})
		return
	}
	rightInfo, err := d.backend.Stat(ctx, filepath.Join(result.Right, name))
	if err != nil {
		result.Uninspectable = append(result.Uninspectable, models.FunnyEntry{Name: name, Reason: err.Error()})
		return
	}

	switch {
	case leftInfo.IsDir() && rightInfo.IsDir():
		result.CommonDirs = append(result.CommonDirs, name)

	case leftInfo.IsRegular() && rightInfo.IsRegular():
		cmp, err := d.files.Compare(ctx, leftInfo, rightInfo)
		if err != nil {
			result.Uninspectable = append(result.Uninspectable, models.FunnyEntry{Name: name, Reason: err.Error()})
			return
		}
		result.CommonFiles = append(result.CommonFiles, name)
		if cmp.Result == Same {
			result.SameFiles = append(result.SameFiles, name)
		} else {
			result.DiffFiles = append(result.DiffFiles, name)
			d.logger.Debug(ctx, "Files differ", logging.Fields{
				"left":   leftInfo.Path,
				"right":  rightInfo.Path,
				"reason": cmp.Reason,
			})
		}

	default:
		result.Uninspectable = append(result.Uninspectable, models.FunnyEntry{
			Name:         name,
			Reason:       fmt.Sprintf("%s on left, %s on right", leftInfo.Kind, rightInfo.Kind),
			TypeConflict: leftInfo.Kind != rightInfo.Kind,
		})
	}
}
