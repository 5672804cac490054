// Package progress reports scan progress on a side channel (stderr) while
// stdout carries the report.
package progress

import (
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
)

// DefaultInterval is the number of files per dot.
const DefaultInterval = 1000

// Reporter receives the running file count after each accepted entry.
type Reporter interface {
	Tick(files int)
	Finish()
}

// Style names accepted by New.
const (
	StyleDots = "dots"
	StyleBar  = "bar"
	StyleNone = "none"
)

// New picks a reporter for style. The bar only renders on a terminal; on
// anything else it degrades to dots so redirected stderr stays readable.
func New(style string, w io.Writer, interval int) Reporter {
	switch style {
	case StyleNone:
		return Nop{}
	case StyleBar:
		if IsTerminal(w) {
			return NewBar(w)
		}
	}
	return NewDots(w, interval)
}

// IsTerminal reports whether w is a terminal file descriptor.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// Dots prints one "." every Interval files and a newline on Finish when at
// least one dot was printed.
type Dots struct {
	w        io.Writer
	interval int
	printed  bool
}

func NewDots(w io.Writer, interval int) *Dots {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Dots{w: w, interval: interval}
}

func (d *Dots) Tick(files int) {
	if files > 0 && files%d.interval == 0 {
		_, _ = io.WriteString(d.w, ".")
		d.printed = true
	}
}

func (d *Dots) Finish() {
	if d.printed {
		_, _ = io.WriteString(d.w, "\n")
		d.printed = false
	}
}

// Bar renders a spinner with the running file count.
type Bar struct {
	bar *progressbar.ProgressBar
}

func NewBar(w io.Writer) *Bar {
	return &Bar{bar: progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription("scanning"),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionShowCount(),
		progressbar.OptionSetItsString("files"),
		progressbar.OptionShowIts(),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionClearOnFinish(),
	)}
}

func (b *Bar) Tick(files int) {
	_ = b.bar.Set(files)
}

func (b *Bar) Finish() {
	_ = b.bar.Finish()
}

// Nop discards progress.
type Nop struct{}

func (Nop) Tick(int) {}

func (Nop) Finish() {}
