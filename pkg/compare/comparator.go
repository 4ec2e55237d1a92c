package compare

import (
	"context"

	"github.com/sdejongh/linksnap/pkg/storage"
)

// Result represents the outcome of comparing two files
type Result string

const (
	// Same indicates files are identical
	Same Result = "same"
	// Different indicates files differ
	Different Result = "different"
)

// Comparison holds the result of comparing two files
type Comparison struct {
	LeftPath  string
	RightPath string
	Result    Result
	Reason    string
}

// FileComparator defines the interface for file comparison algorithms.
// Both entries are known to be regular files.
type FileComparator interface {
	// Compare compares two files and returns the result
	Compare(ctx context.Context, left, right *storage.FileInfo) (*Comparison, error)

	// Name returns the name of the comparison method
	Name() string
}

// New returns the comparator for the configured strength: signature only
// when shallow, signature then content otherwise
func New(backend storage.Backend, shallow bool, bufferSize int) FileComparator {
	return NewCompositeComparator(backend, shallow, bufferSize)
}
