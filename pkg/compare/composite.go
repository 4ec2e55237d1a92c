package compare

import (
	"context"

	"github.com/sdejongh/linksnap/pkg/storage"
)

// CompositeComparator performs multi-stage comparison
// Stage 1: signature (size + modification time), always
// Stage 2: byte-by-byte content when not shallow
type CompositeComparator struct {
	shallow   bool
	signature *SignatureComparator
	binary    *BinaryComparator
}

// NewCompositeComparator creates a two-tier comparator
func NewCompositeComparator(backend storage.Backend, shallow bool, bufferSize int) *CompositeComparator {
	c := &CompositeComparator{
		shallow:   shallow,
		signature: NewSignatureComparator(),
	}
	if !shallow {
		c.binary = NewBinaryComparator(backend, bufferSize)
	}
	return c
}

// Compare runs the signature check and, unless shallow, confirms the verdict
// against file content
func (c *CompositeComparator) Compare(ctx context.Context, left, right *storage.FileInfo) (*Comparison, error) {
	quick, err := c.signature.Compare(ctx, left, right)
	if err != nil {
		return nil, err
	}
	if c.shallow {
		return quick, nil
	}

	// sizes differing settles it without reading anything
	if left.Size != right.Size {
		return quick, nil
	}
	return c.binary.Compare(ctx, left, right)
}

// Shallow reports whether only signatures are compared
func (c *CompositeComparator) Shallow() bool {
	return c.shallow
}

// Name returns the comparator name
func (c *CompositeComparator) Name() string {
	if c.shallow {
		return "composite-shallow"
	}
	return "composite-content"
}
