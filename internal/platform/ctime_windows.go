//go:build windows

package platform

import (
	"fmt"
	"os"
	"syscall"
	"time"
)

// CreationTime returns the creation time NTFS records for path
func CreationTime(path string) (time.Time, error) {
	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	attrs, ok := info.Sys().(*syscall.Win32FileAttributeData)
	if !ok {
		return info.ModTime(), nil
	}
	return time.Unix(0, attrs.CreationTime.Nanoseconds()), nil
}
