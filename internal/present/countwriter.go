package present

import (
	"io"
)

// lineCountWriter counts the physical terminal rows produced by what passes
// through it, so the inline-clear presenter knows how many rows to erase.
// It accounts for soft wrapping at the terminal width and ignores ANSI
// escape sequences, which occupy no columns.
type lineCountWriter struct {
	w         io.Writer
	termWidth int

	lines    int
	cols     int
	ansState int
}

func newLineCountWriter(w io.Writer, termWidth int) *lineCountWriter {
	if termWidth <= 0 {
		termWidth = 1 << 16
	}
	return &lineCountWriter{w: w, termWidth: termWidth}
}

// TakeLines returns the rows written since the last call and resets the
// counter. The current partial row is not counted.
func (cw *lineCountWriter) TakeLines() int {
	n := cw.lines
	cw.lines = 0
	cw.cols = 0
	return n
}

// SetWidth updates the wrap width for subsequent writes.
func (cw *lineCountWriter) SetWidth(w int) {
	if w > 0 {
		cw.termWidth = w
	}
}

func (cw *lineCountWriter) Write(p []byte) (int, error) {
	for _, b := range p {
		if cw.consumeANSI(b) {
			continue
		}
		if b == '\n' {
			cw.lines++
			cw.cols = 0
			continue
		}
		if b == '\r' {
			cw.cols = 0
			continue
		}
		// Deferred wrap: a row is only consumed when a character is printed
		// past the last column, matching terminal autowrap behavior.
		if cw.cols == cw.termWidth {
			cw.lines++
			cw.cols = 0
		}
		cw.cols++
	}
	return cw.w.Write(p)
}

// consumeANSI runs a small state machine over CSI escape sequences and
// reports whether b belongs to one.
func (cw *lineCountWriter) consumeANSI(b byte) bool {
	switch cw.ansState {
	case 0:
		if b == 0x1b {
			cw.ansState = 1
			return true
		}
		return false
	case 1:
		if b == '[' {
			cw.ansState = 2
		} else {
			cw.ansState = 0
		}
		return true
	case 2:
		switch {
		case b >= 0x30 && b <= 0x3f: // parameter bytes
			return true
		case b >= 0x20 && b <= 0x2f: // intermediate bytes
			cw.ansState = 3
			return true
		case b >= 0x40 && b <= 0x7e: // final byte
			cw.ansState = 0
			return true
		}
		cw.ansState = 0
		return true
	case 3:
		switch {
		case b >= 0x20 && b <= 0x2f:
			return true
		case b >= 0x40 && b <= 0x7e:
			cw.ansState = 0
			return true
		}
		cw.ansState = 0
		return true
	}
	return false
}
