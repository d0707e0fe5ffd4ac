package runner

import "github.com/rester-cli/rester/packages/decode"

// Sink is where decoded responses and progress go. The console sink is
// the usual implementation; tests substitute their own.
type Sink interface {
	Present(d *decode.Decoded, eol string)
	Progress(msg string)
	Error(msg string)
}

type discardSink struct{}

func (discardSink) Present(*decode.Decoded, string) {}
func (discardSink) Progress(string)                 {}
func (discardSink) Error(string)                    {}
