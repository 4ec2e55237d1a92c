package models

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrStructuralMismatch marks entries whose types are incompatible
	ErrStructuralMismatch = errors.New("structural mismatch")
	// ErrUninspectable marks entries that could not be inspected
	ErrUninspectable = errors.New("uninspectable entry")
	// ErrLinkCreation marks a failed hard or symbolic link creation
	ErrLinkCreation = errors.New("link creation failed")
	// ErrDeletion marks a removal that failed even after clearing read-only attributes
	ErrDeletion = errors.New("deletion failed")
)

// StructuralMismatchError is raised when an entry has incompatible types on
// the two compared sides, or a differing file turns out to be a directory.
type StructuralMismatchError struct {
	Left    string
	Right   string
	Names   []string
	Message string
}

func (e *StructuralMismatchError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = "entries have incompatible types"
	}
	return fmt.Sprintf("comparing %s to %s: %s: %s", e.Left, e.Right, msg, strings.Join(e.Names, ", "))
}

// Is lets errors.Is match ErrStructuralMismatch
func (e *StructuralMismatchError) Is(target error) bool {
	return target == ErrStructuralMismatch
}

// UninspectableError is raised when filesystem inspection failed for entries
type UninspectableError struct {
	Left    string
	Right   string
	Entries []FunnyEntry
	Err     error
}

func (e *UninspectableError) Error() string {
	parts := make([]string, 0, len(e.Entries))
	for _, f := range e.Entries {
		parts = append(parts, fmt.Sprintf("%s (%s)", f.Name, f.Reason))
	}
	if e.Err != nil && len(parts) == 0 {
		return fmt.Sprintf("comparing %s to %s: %v", e.Left, e.Right, e.Err)
	}
	return fmt.Sprintf("funny files found comparing %s to %s: %s", e.Left, e.Right, strings.Join(parts, ", "))
}

// Is lets errors.Is match ErrUninspectable
func (e *UninspectableError) Is(target error) bool {
	return target == ErrUninspectable
}

func (e *UninspectableError) Unwrap() error {
	return e.Err
}

// FunnyError builds the error for a comparison holding uninspectable entries.
// Type conflicts take precedence and yield a StructuralMismatchError.
func FunnyError(c DirComparison) error {
	if !c.HasFunny() {
		return nil
	}
	var conflicts []string
	for _, f := range c.Uninspectable {
		if f.TypeConflict {
			conflicts = append(conflicts, f.Name)
		}
	}
	if len(conflicts) > 0 {
		return &StructuralMismatchError{Left: c.Left, Right: c.Right, Names: conflicts}
	}
	return &UninspectableError{Left: c.Left, Right: c.Right, Entries: c.Uninspectable}
}

// LinkError is raised when a link cannot be created. It is never retried and
// never replaced by a copy.
type LinkError struct {
	Kind   LinkKind
	Target string
	Link   string
	Err    error
}

func (e *LinkError) Error() string {
	return fmt.Sprintf("failed to create %s link %s -> %s: %v", e.Kind, e.Link, e.Target, e.Err)
}

// Is lets errors.Is match ErrLinkCreation
func (e *LinkError) Is(target error) bool {
	return target == ErrLinkCreation
}

func (e *LinkError) Unwrap() error {
	return e.Err
}

// DeletionError is raised when removing an entry failed after its read-only
// attributes were cleared once.
type DeletionError struct {
	Path string
	Err  error
}

func (e *DeletionError) Error() string {
	return fmt.Sprintf("failed to delete %s: %v", e.Path, e.Err)
}

// Is lets errors.Is match ErrDeletion
func (e *DeletionError) Is(target error) bool {
	return target == ErrDeletion
}

func (e *DeletionError) Unwrap() error {
	return e.Err
}
