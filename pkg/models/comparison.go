package models

// FunnyEntry is a name present in a compared directory pair that could not be
// classified: the two sides disagree on its type, or inspecting it failed.
type FunnyEntry struct {
	// Name is the basename of the entry
	Name string
	// Reason explains why the entry could not be classified
	Reason string
	// TypeConflict is true when both sides exist but have incompatible types
	TypeConflict bool
}

// DirComparison is the one-level, non-recursive comparison of two directories.
// Values are produced fresh per directory level and never modified; filtering
// returns a new value.
type DirComparison struct {
	// Left and Right are the compared directory paths
	Left  string
	Right string

	// LeftOnly holds names present only on the left side
	LeftOnly []string
	// RightOnly holds names present only on the right side
	RightOnly []string
	// CommonDirs holds names that are directories on both sides
	CommonDirs []string
	// CommonFiles holds names that are regular files on both sides
	CommonFiles []string
	// SameFiles is the subset of CommonFiles judged identical
	SameFiles []string
	// DiffFiles is the subset of CommonFiles judged different
	DiffFiles []string
	// Uninspectable holds entries that could not be classified
	Uninspectable []FunnyEntry
}

// HasDifferences reports whether the level contains side-only entries or
// differing files. Uninspectable entries are reported separately.
func (c DirComparison) HasDifferences() bool {
	return len(c.LeftOnly) > 0 || len(c.RightOnly) > 0 || len(c.DiffFiles) > 0
}

// HasFunny reports whether any entry could not be classified
func (c DirComparison) HasFunny() bool {
	return len(c.Uninspectable) > 0
}

// Without returns a copy of the comparison with every name for which drop
// returns true removed from all categories.
func (c DirComparison) Without(drop func(name string) bool) DirComparison {
	out := DirComparison{
		Left:        c.Left,
		Right:       c.Right,
		LeftOnly:    keepNames(c.LeftOnly, drop),
		RightOnly:   keepNames(c.RightOnly, drop),
		CommonDirs:  keepNames(c.CommonDirs, drop),
		CommonFiles: keepNames(c.CommonFiles, drop),
		SameFiles:   keepNames(c.SameFiles, drop),
		DiffFiles:   keepNames(c.DiffFiles, drop),
	}
	for _, f := range c.Uninspectable {
		if !drop(f.Name) {
			out.Uninspectable = append(out.Uninspectable, f)
		}
	}
	return out
}

func keepNames(names []string, drop func(string) bool) []string {
	var kept []string
	for _, name := range names {
		if !drop(name) {
			kept = append(kept, name)
		}
	}
	return kept
}
