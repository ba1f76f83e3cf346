package present

import (
	"bufio"
	"errors"
	"io"
	"os"
	"strings"

	"github.com/diffpatch/diffpatch/internal/session"
)

// commandReader reads one decision command per prompt, in either
// line-buffered or immediate mode. In immediate mode the terminal is put
// into raw mode only for the duration of a single read.
type commandReader struct {
	in        *os.File
	out       io.Writer
	guard     *termGuard
	reader    *bufio.Reader
	immediate bool
	rawActive bool // fullscreen keeps raw mode for the whole session

	// Rows finished by the terminal's own echo of the operator's Enter in
	// line-buffered mode. These never pass through the output writer, so
	// presenters that count rows must collect them separately.
	promptRows int
}

func newCommandReader(in *os.File, out io.Writer, guard *termGuard, immediate, rawActive bool) *commandReader {
	return &commandReader{
		in:        in,
		out:       out,
		guard:     guard,
		reader:    bufio.NewReader(in),
		immediate: immediate,
		rawActive: rawActive,
	}
}

// Read prompts and blocks until the operator enters a recognized command.
// EOF on input quits the session, which rejects everything still pending.
func (cr *commandReader) Read(prompt string) (session.Command, error) {
	if cr.immediate {
		return cr.readKey(prompt)
	}
	return cr.readLine(prompt)
}

func (cr *commandReader) readLine(prompt string) (session.Command, error) {
	for {
		promptColor.Fprint(cr.out, prompt)
		line, err := cr.reader.ReadString('\n')
		if err != nil {
			if errors.Is(err, io.EOF) {
				return session.CommandQuit, nil
			}
			return session.CommandNone, err
		}
		// The echoed Enter finished the prompt's row.
		cr.promptRows++
		if cmd, ok := session.ParseCommand(strings.TrimRight(line, "\r\n")); ok {
			return cmd, nil
		}
	}
}

// takePromptRows returns the rows finished by echoed newlines since the
// last call and resets the counter.
func (cr *commandReader) takePromptRows() int {
	n := cr.promptRows
	cr.promptRows = 0
	return n
}

func (cr *commandReader) readKey(prompt string) (session.Command, error) {
	promptColor.Fprint(cr.out, prompt)

	var cmd session.Command
	read := func() error {
		for {
			b, err := cr.reader.ReadByte()
			if err != nil {
				if errors.Is(err, io.EOF) {
					cmd = session.CommandQuit
					return nil
				}
				return err
			}
			if c, ok := session.CommandForKey(b); ok {
				cmd = c
				return nil
			}
		}
	}

	var err error
	if cr.rawActive {
		err = read()
	} else {
		err = cr.guard.WithRaw(read)
	}
	if err != nil {
		return session.CommandNone, err
	}

	if cr.rawActive {
		io.WriteString(cr.out, "\r\n")
	} else {
		io.WriteString(cr.out, "\n")
	}
	return cmd, nil
}
