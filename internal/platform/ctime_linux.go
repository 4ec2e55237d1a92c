//go:build linux

package platform

import (
	"fmt"
	"time"

	"golang.org/x/sys/unix"
)

// CreationTime returns the birth time of path when the filesystem records it,
// and the inode change time otherwise.
func CreationTime(path string) (time.Time, error) {
	var stx unix.Statx_t
	err := unix.Statx(unix.AT_FDCWD, path, unix.AT_STATX_SYNC_AS_STAT, unix.STATX_BTIME|unix.STATX_CTIME, &stx)
	if err == nil {
		if stx.Mask&unix.STATX_BTIME != 0 {
			return time.Unix(stx.Btime.Sec, int64(stx.Btime.Nsec)), nil
		}
		return time.Unix(stx.Ctime.Sec, int64(stx.Ctime.Nsec)), nil
	}
	if err != unix.ENOSYS {
		return time.Time{}, fmt.Errorf("failed to stat %s: %w", path, err)
	}

	// kernels before 4.11
	var st unix.Stat_t
	if err := unix.Stat(path, &st); err != nil {
		return time.Time{}, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	return time.Unix(st.Ctim.Sec, st.Ctim.Nsec), nil
}
