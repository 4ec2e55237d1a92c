package output

import (
	"io"
	"os"
	"path/filepath"

	"github.com/cheggaaa/pb/v3"
	"golang.org/x/term"
)

const progressTemplate = `{{counters . }} {{bar . }} {{percent . }} {{etime . }} {{string . "current"}}`

// ProgressBar shows snapshot comparison progress on a terminal
type ProgressBar struct {
	writer io.Writer
	bar    *pb.ProgressBar
}

// NewProgressBar creates a progress bar drawing to writer
func NewProgressBar(writer io.Writer) *ProgressBar {
	return &ProgressBar{writer: writer}
}

// IsTerminal reports whether w is an interactive terminal
func IsTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	return ok && term.IsTerminal(int(file.Fd()))
}

// Start begins a bar for total comparisons
func (p *ProgressBar) Start(total int) {
	p.bar = pb.ProgressBarTemplate(progressTemplate).New(total)
	p.bar.SetWriter(p.writer)
	if file, ok := p.writer.(*os.File); ok {
		if width, _, err := term.GetSize(int(file.Fd())); err == nil && width > 0 {
			p.bar.SetWidth(width)
		}
	}
	p.bar.Start()
}

// Advance counts one finished comparison
func (p *ProgressBar) Advance(anchor, candidate string) {
	if p.bar == nil {
		return
	}
	p.bar.Set("current", filepath.Base(candidate))
	p.bar.Increment()
}

// Finish stops the bar
func (p *ProgressBar) Finish() {
	if p.bar == nil {
		return
	}
	p.bar.Finish()
	p.bar = nil
}

// Current returns the number of comparisons counted so far
func (p *ProgressBar) Current() int64 {
	if p.bar == nil {
		return 0
	}
	return p.bar.Current()
}
