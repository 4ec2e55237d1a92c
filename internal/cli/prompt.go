package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// StdinConfirmer asks on a terminal before snapshots are destroyed. Only an
// exact "yes" answer confirms.
type StdinConfirmer struct {
	in  io.Reader
	out io.Writer
}

// NewStdinConfirmer creates a confirmer reading answers from in
func NewStdinConfirmer(in io.Reader, out io.Writer) *StdinConfirmer {
	return &StdinConfirmer{in: in, out: out}
}

// Confirm lists paths and reads one answer line
func (c *StdinConfirmer) Confirm(ctx context.Context, paths []string) (bool, error) {
	fmt.Fprintf(c.out, "\nThe directories which are the same and can be removed are:\n\n")
	for _, p := range paths {
		fmt.Fprintf(c.out, "%s\n", p)
	}
	fmt.Fprintf(c.out, "\nProceed with deletion of directories? (yes or no)\n")

	answer, err := bufio.NewReader(c.in).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, err
	}
	return strings.TrimSpace(answer) == "yes", nil
}
