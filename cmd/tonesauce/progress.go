package main

import (
	"fmt"
	"os"

	"golang.org/x/term"
)

// progress draws a percentage on one terminal line. It is silent when the
// target is not a terminal.
type progress struct {
	f    *os.File
	last int
}

func newProgress(f *os.File) *progress {
	if f == nil || !term.IsTerminal(int(f.Fd())) {
		return nil
	}

	return &progress{f: f, last: -1}
}

func (p *progress) update(frac float64) {
	if p == nil {
		return
	}

	pct := int(frac * 100)
	if pct == p.last {
		return
	}

	p.last = pct
	fmt.Fprintf(p.f, "\rrendering %3d%%", pct)
}

func (p *progress) done() {
	if p == nil {
		return
	}

	fmt.Fprint(p.f, "\r\033[K")
}
