package output

import (
	"os"

	"github.com/schollz/progressbar/v3"
)

// Progress renders a live per-target progress bar on stderr.
type Progress struct {
	bar *progressbar.ProgressBar
}

// NewProgress creates a progress bar over total targets. In quiet mode the
// bar is disabled and every method is a no-op.
func NewProgress(total int, quiet bool) *Progress {
	if quiet || total == 0 {
		return &Progress{}
	}
	bar := progressbar.NewOptions(total,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetDescription("[cyan]Scanning...[reset]"),
		progressbar.OptionShowCount(),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionOnCompletion(func() { os.Stderr.WriteString("\n") }),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))
	return &Progress{bar: bar}
}

// Increment records one finished target. Safe for concurrent use.
func (p *Progress) Increment() {
	if p.bar != nil {
		_ = p.bar.Add(1)
	}
}

// Finish completes the bar and moves off its line.
func (p *Progress) Finish() {
	if p.bar != nil {
		_ = p.bar.Finish()
	}
}

// Clear wipes the bar line so interleaved stderr messages stay readable.
func (p *Progress) Clear() {
	if p.bar != nil {
		_ = p.bar.Clear()
	}
}
