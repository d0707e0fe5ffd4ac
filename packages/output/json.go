package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rester-cli/rester/packages/decode"
)

// JSONSink emits the decoded response as a single JSON document, for
// piping into other tools.
type JSONSink struct {
	writer    io.Writer
	errWriter io.Writer
}

type JSONOption func(*JSONSink)

func NewJSONSink(opts ...JSONOption) *JSONSink {
	s := &JSONSink{
		writer:    os.Stdout,
		errWriter: os.Stderr,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func JSONWithWriter(w io.Writer) JSONOption {
	return func(s *JSONSink) {
		s.writer = w
	}
}

type jsonResponse struct {
	StatusCode int      `json:"statusCode"`
	StatusLine string   `json:"statusLine"`
	Headers    []string `json:"headers"`
	Body       string   `json:"body"`
}

func (s *JSONSink) Present(d *decode.Decoded, eol string) {
	out := jsonResponse{
		StatusCode: d.StatusCode,
		StatusLine: d.StatusLine,
		Body:       d.Body,
	}
	if d.HeaderBlock != "" {
		out.Headers = strings.Split(d.HeaderBlock, eol)
	}

	enc := json.NewEncoder(s.writer)
	enc.SetIndent("", "  ")
	_ = enc.Encode(out)
}

func (s *JSONSink) Progress(msg string) {}

func (s *JSONSink) Error(msg string) {
	fmt.Fprintf(s.errWriter, "Error: %s\n", msg)
}
