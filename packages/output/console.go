package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/rester-cli/rester/packages/decode"
)

// ConsoleSink prints decoded responses to a terminal. The response text
// keeps the exact status/headers/body ordering; color only decorates it.
type ConsoleSink struct {
	writer    io.Writer
	errWriter io.Writer
	verbose   bool
	noColor   bool
}

type ConsoleOption func(*ConsoleSink)

func NewConsoleSink(opts ...ConsoleOption) *ConsoleSink {
	s := &ConsoleSink{
		writer:    os.Stdout,
		errWriter: os.Stderr,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.noColor {
		color.NoColor = true
	}
	return s
}

func WithWriter(w io.Writer) ConsoleOption {
	return func(s *ConsoleSink) {
		s.writer = w
	}
}

func WithErrWriter(w io.Writer) ConsoleOption {
	return func(s *ConsoleSink) {
		s.errWriter = w
	}
}

func WithVerbose(v bool) ConsoleOption {
	return func(s *ConsoleSink) {
		s.verbose = v
	}
}

func WithNoColor(nc bool) ConsoleOption {
	return func(s *ConsoleSink) {
		s.noColor = nc
	}
}

func (s *ConsoleSink) Present(d *decode.Decoded, eol string) {
	if d.BodyOnly {
		fmt.Fprint(s.writer, d.Body)
		fmt.Fprint(s.writer, eol)
		return
	}

	statusColor := color.New(color.FgGreen)
	switch {
	case d.StatusCode >= 400:
		statusColor = color.New(color.FgRed)
	case d.StatusCode >= 300:
		statusColor = color.New(color.FgYellow)
	}

	fmt.Fprint(s.writer, statusColor.Sprint(d.StatusLine))
	fmt.Fprint(s.writer, eol+eol)

	faint := color.New(color.Faint).SprintFunc()
	for _, line := range strings.Split(d.HeaderBlock, eol) {
		fmt.Fprint(s.writer, faint(line))
		fmt.Fprint(s.writer, eol)
	}

	fmt.Fprint(s.writer, eol)
	fmt.Fprint(s.writer, d.Body)
	fmt.Fprint(s.writer, eol)
}

func (s *ConsoleSink) Progress(msg string) {
	if !s.verbose {
		return
	}
	cyan := color.New(color.FgCyan).SprintFunc()
	fmt.Fprintf(s.errWriter, "%s %s\n", cyan("rester:"), msg)
}

func (s *ConsoleSink) Error(msg string) {
	red := color.New(color.FgRed).SprintFunc()
	fmt.Fprintf(s.errWriter, "%s %s\n", red("Error:"), msg)
}
