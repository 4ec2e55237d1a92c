package compare

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/sdejongh/linksnap/pkg/storage"
)

// BinaryComparator compares files byte-by-byte
// This is the most thorough comparison but also the slowest
type BinaryComparator struct {
	backend    storage.Backend
	bufferSize int
	bufferPool *sync.Pool
}

// NewBinaryComparator creates a new byte-by-byte comparator
func NewBinaryComparator(backend storage.Backend, bufferSize int) *BinaryComparator {
	if bufferSize < 4096 {
		bufferSize = 4096
	}
	return &BinaryComparator{
		backend:    backend,
		bufferSize: bufferSize,
		bufferPool: &sync.Pool{
			New: func() interface{} {
				buf := make([]byte, bufferSize)
				return &buf
			},
		},
	}
}

// Compare compares two files byte-by-byte
func (c *BinaryComparator) Compare(ctx context.Context, left, right *storage.FileInfo) (*Comparison, error) {
	if left.Size != right.Size {
		return &Comparison{
			LeftPath:  left.Path,
			RightPath: right.Path,
			Result:    Different,
			Reason:    fmt.Sprintf("size mismatch: left=%d, right=%d", left.Size, right.Size),
		}, nil
	}

	leftReader, err := c.backend.Read(ctx, left.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open left file: %w", err)
	}
	defer leftReader.Close()

	rightReader, err := c.backend.Read(ctx, right.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open right file: %w", err)
	}
	defer rightReader.Close()

	leftBufPtr := c.bufferPool.Get().(*[]byte)
	defer c.bufferPool.Put(leftBufPtr)
	leftBuf := *leftBufPtr

	rightBufPtr := c.bufferPool.Get().(*[]byte)
	defer c.bufferPool.Put(rightBufPtr)
	rightBuf := *rightBufPtr

	var bytesCompared int64
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		// ReadFull so short reads on one side do not look like a mismatch
		leftN, leftErr := io.ReadFull(leftReader, leftBuf)
		rightN, rightErr := io.ReadFull(rightReader, rightBuf)

		if leftErr != nil && leftErr != io.EOF && leftErr != io.ErrUnexpectedEOF {
			return nil, fmt.Errorf("failed to read left file: %w", leftErr)
		}
		if rightErr != nil && rightErr != io.EOF && rightErr != io.ErrUnexpectedEOF {
			return nil, fmt.Errorf("failed to read right file: %w", rightErr)
		}

		if leftN != rightN {
			return &Comparison{
				LeftPath:  left.Path,
				RightPath: right.Path,
				Result:    Different,
				Reason:    fmt.Sprintf("length mismatch at offset %d", bytesCompared),
			}, nil
		}

		if !bytes.Equal(leftBuf[:leftN], rightBuf[:rightN]) {
			offset := bytesCompared
			for i := 0; i < leftN; i++ {
				if leftBuf[i] != rightBuf[i] {
					offset += int64(i)
					break
				}
			}
			return &Comparison{
				LeftPath:  left.Path,
				RightPath: right.Path,
				Result:    Different,
				Reason:    fmt.Sprintf("binary content differs at byte offset %d", offset),
			}, nil
		}
		bytesCompared += int64(leftN)

		// a short or empty read means both files ended here
		if leftErr != nil {
			break
		}
	}

	return &Comparison{
		LeftPath:  left.Path,
		RightPath: right.Path,
		Result:    Same,
		Reason:    fmt.Sprintf("binary content matches (%d bytes)", bytesCompared),
	}, nil
}

// Name returns the comparator name
func (c *BinaryComparator) Name() string {
	return "binary"
}
