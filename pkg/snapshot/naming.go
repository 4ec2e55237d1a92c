package snapshot

import (
	"path/filepath"
	"time"

	"github.com/sdejongh/linksnap/internal/platform"
)

// ArchiveTimeLayout formats the creation time suffix of archived snapshots,
// e.g. 2024-03-01-14h05m09s
const ArchiveTimeLayout = "2006-01-02-15h04m05s"

// ArchiveName returns the directory name an archived snapshot of the tree
// named base gets when it was created at t
func ArchiveName(base string, t time.Time) string {
	return base + "_" + t.Format(ArchiveTimeLayout)
}

// ArchivePath returns where latest is moved when archived: a sibling of
// latest named after the source tree and latest's creation time
func ArchivePath(source, latest string, created time.Time) string {
	return filepath.Join(filepath.Dir(latest), ArchiveName(platform.TreeName(source), created))
}
