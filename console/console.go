// Package console connects an Intcode machine to a line-oriented terminal.
package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/term"

	"github.com/nf/intcode/intcode"
)

// DefaultPrompt is written before each line of input is read.
const DefaultPrompt = "Input: "

// Console reads input values one per line from r and writes output values
// one per line to w. It implements intcode.Reader and intcode.Writer.
type Console struct {
	Prompt string // written to w before each read; may be empty

	r    *bufio.Reader
	w    io.Writer
	line int
}

// New returns a Console that reads from r and writes to w using
// DefaultPrompt.
func New(r io.Reader, w io.Writer) *Console {
	return &Console{
		Prompt: DefaultPrompt,
		r:      bufio.NewReader(r),
		w:      w,
	}
}

// Interactive reports whether r is a terminal.
func Interactive(r io.Reader) bool {
	f, ok := r.(interface{ Fd() uintptr })
	return ok && term.IsTerminal(int(f.Fd()))
}

// ReadInt implements intcode.Reader. It returns an error wrapping
// intcode.ErrInputExhausted at end of input, and one wrapping a
// *strconv.NumError if the line is not a decimal integer.
func (c *Console) ReadInt() (int64, error) {
	if c.Prompt != "" {
		if _, err := io.WriteString(c.w, c.Prompt); err != nil {
			return 0, err
		}
	}
	s, err := c.r.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && s != "") {
		if errors.Is(err, io.EOF) {
			return 0, fmt.Errorf("console: %w", intcode.ErrInputExhausted)
		}
		return 0, err
	}
	c.line++
	v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("console line %d: %w", c.line, err)
	}
	return v, nil
}

// WriteInt implements intcode.Writer.
func (c *Console) WriteInt(v int64) error {
	_, err := fmt.Fprintf(c.w, "%d\n", v)
	return err
}

var (
	_ intcode.Reader = (*Console)(nil)
	_ intcode.Writer = (*Console)(nil)
)
