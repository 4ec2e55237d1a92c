package compare

import (
	"context"
	"path/filepath"

	"github.com/sdejongh/linksnap/pkg/logging"
)

// TreesEqual reports whether two directory trees are identical at every
// level, down to the leaves. It stops at the first difference found.
//
// Uninspectable entries anywhere in the trees abort the walk with an error
// rather than being counted as a difference.
func (d *DirComparator) TreesEqual(ctx context.Context, left, right string) (bool, error) {
	result, err := d.CompareOneLevel(ctx, left, right)
	if err != nil {
		return false, err
	}

	if result.HasDifferences() {
		fields := logging.Fields{"left": left, "right": right}
		if len(result.LeftOnly) > 0 {
			fields["left_only"] = result.LeftOnly
		}
		if len(result.RightOnly) > 0 {
			fields["right_only"] = result.RightOnly
		}
		if len(result.DiffFiles) > 0 {
			fields["different"] = result.DiffFiles
		}
		d.logger.Debug(ctx, "Difference found", fields)
		return false, nil
	}

	for _, dir := range result.CommonDirs {
		equal, err := d.TreesEqual(ctx, filepath.Join(left, dir), filepath.Join(right, dir))
		if err != nil || !equal {
			return false, err
		}
	}

	return true, nil
}
