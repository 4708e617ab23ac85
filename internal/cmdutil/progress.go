package cmdutil

import (
	"io"

	"github.com/cheggaaa/pb/v3"
)

// Progress is a thin wrapper over a pb bar; the zero value (bar disabled)
// is safe to use.
type Progress struct {
	bar *pb.ProgressBar
}

// StartProgress draws a bar for total units on w when enabled.
func StartProgress(w io.Writer, total int, enabled bool) *Progress {
	if !enabled || total <= 0 || w == nil {
		return &Progress{}
	}
	return &Progress{bar: pb.Full.New(total).SetWriter(w).Start()}
}

// Add advances the bar by n units.
func (p *Progress) Add(n int) {
	if p.bar != nil {
		p.bar.Add(n)
	}
}

// Finish completes the bar.
func (p *Progress) Finish() {
	if p.bar != nil {
		p.bar.Finish()
	}
}
