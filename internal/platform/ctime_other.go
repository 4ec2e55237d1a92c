//go:build !linux && !darwin && !windows

package platform

import (
	"fmt"
	"os"
	"time"
)

// CreationTime falls back to the modification time where no creation time
// is available
func CreationTime(path string) (time.Time, error) {
	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	return info.ModTime(), nil
}
