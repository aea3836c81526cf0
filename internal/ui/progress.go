package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/cheggaaa/pb/v3"
)

// Progress wraps a progress bar. A nil *Progress ignores every call.
type Progress struct {
	bar *pb.ProgressBar
}

// NewProgress starts a bar of total steps on stderr, or returns nil when silence is set
func NewProgress(total int, silence bool) *Progress {
	if silence {
		return nil
	}
	return newProgress(total, os.Stderr)
}

func newProgress(total int, w io.Writer) *Progress {
	bar := pb.New(total)
	bar.SetWriter(w)
	bar.Start()
	return &Progress{bar: bar}
}

// Increment advances the bar by one step
func (p *Progress) Increment() {
	if p == nil {
		return
	}
	p.bar.Increment()
}

// AddTotal grows the bar when more work is discovered
func (p *Progress) AddTotal(n int) {
	if p == nil {
		return
	}
	p.bar.SetTotal(p.bar.Total() + int64(n))
}

// Current returns the number of finished steps
func (p *Progress) Current() int64 {
	if p == nil {
		return 0
	}
	return p.bar.Current()
}

// Finish stops the bar
func (p *Progress) Finish() {
	if p == nil {
		return
	}
	p.bar.Finish()
}

// DownloadProgress tracks the hourly windows and pages of a vacancy download
type DownloadProgress struct {
	WindowBar *pb.ProgressBar
	PageBar   *pb.ProgressBar
	pool      *pb.Pool
}

// StartDownloadProgress starts a pool of two bars, or returns nil when silence is set
func StartDownloadProgress(windows int, silence bool) (*DownloadProgress, error) {
	if silence {
		return nil, nil
	}
	progress := &DownloadProgress{
		WindowBar: pb.New(windows),
		PageBar:   pb.New(0),
	}
	pool, err := pb.StartPool(progress.WindowBar, progress.PageBar)
	if err != nil {
		return nil, fmt.Errorf("failed to create progress bars: %v", err)
	}
	progress.pool = pool
	return progress, nil
}

// WindowDone advances the window bar
func (d *DownloadProgress) WindowDone() {
	if d == nil {
		return
	}
	d.WindowBar.Increment()
}

// PageDone advances the page bar, growing its total by one
func (d *DownloadProgress) PageDone() {
	if d == nil {
		return
	}
	d.PageBar.SetTotal(d.PageBar.Total() + 1)
	d.PageBar.Increment()
}

// Stop stops the pool
func (d *DownloadProgress) Stop() {
	if d == nil || d.pool == nil {
		return
	}
	d.pool.Stop()
}
