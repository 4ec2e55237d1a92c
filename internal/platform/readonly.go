package platform

import (
	"os"
)

// ClearReadOnly makes path writable by its owner so it can be removed, and
// makes directories listable. Symbolic links are left alone since changing
// their mode would affect the target.
//
// On Windows os.Chmod toggles the read-only attribute from the owner write bit.
func ClearReadOnly(path string) error {
	info, err := os.Lstat(path)
	if err != nil {
		return err
	}
	if info.Mode()&os.ModeSymlink != 0 {
		return nil
	}

	mode := info.Mode().Perm() | 0o200
	if info.IsDir() {
		mode |= 0o700
	}
	if mode == info.Mode().Perm() {
		return nil
	}
	return os.Chmod(path, mode)
}
