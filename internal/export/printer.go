package export

import (
	"errors"
	"fmt"
	"io"
)

// Printer writes report lines to stdout-like writers. After the reader of a
// pipe goes away it swallows further output instead of failing.
type Printer struct {
	w      io.Writer
	closed bool
	err    error
}

// NewPrinter wraps w. Passing an existing *Printer returns it unchanged so
// callers can share one closed-state across stages.
func NewPrinter(w io.Writer) *Printer {
	if p, ok := w.(*Printer); ok {
		return p
	}
	if w == nil {
		w = io.Discard
	}
	return &Printer{w: w}
}

func (p *Printer) Write(b []byte) (int, error) {
	if p.closed || p.err != nil {
		return len(b), nil
	}
	n, err := p.w.Write(b)
	if err != nil {
		if IsBrokenPipe(err) {
			p.closed = true
			return len(b), nil
		}
		p.err = err
		return n, err
	}
	return n, nil
}

// Printf formats and writes one line fragment.
func (p *Printer) Printf(format string, args ...any) {
	_, _ = fmt.Fprintf(p, format, args...)
}

// Println writes its arguments separated by spaces followed by a newline.
func (p *Printer) Println(args ...any) {
	_, _ = fmt.Fprintln(p, args...)
}

// Closed reports whether a broken pipe was seen.
func (p *Printer) Closed() bool { return p.closed }

// Err returns the first write error that was not a broken pipe.
func (p *Printer) Err() error { return p.err }

// IsBrokenPipe reports whether err means the reading end of a pipe closed.
func IsBrokenPipe(err error) bool {
	return err != nil && errors.Is(err, errBrokenPipe)
}
