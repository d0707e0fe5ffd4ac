package runner

import (
	"context"
	"time"

	"github.com/rester-cli/rester/packages/core/parser"
	"github.com/rester-cli/rester/packages/core/settings"
	"github.com/rester-cli/rester/packages/decode"
	resthttp "github.com/rester-cli/rester/packages/http"
)

// Recorder receives a record of each executed request. The history store
// implements it; a nil recorder disables recording.
type Recorder interface {
	Record(method, url string, statusCode int, duration time.Duration, bodyBytes int) error
}

// Config holds the collaborators for a Runner.
type Config struct {
	Settings settings.Settings
	Client   *resthttp.Client
	Sink     Sink
	Recorder Recorder
	EOL      string
}

// Runner orchestrates one request end to end: parse the text, execute
// over the network, decode the response, run body filters, and hand the
// result to the sink.
type Runner struct {
	settings settings.Settings
	client   *resthttp.Client
	sink     Sink
	recorder Recorder
	eol      string
}

func NewRunner(cfg *Config) *Runner {
	r := &Runner{
		settings: cfg.Settings,
		client:   cfg.Client,
		sink:     cfg.Sink,
		recorder: cfg.Recorder,
		eol:      cfg.EOL,
	}
	if r.client == nil {
		r.client = resthttp.NewClient()
	}
	if r.sink == nil {
		r.sink = discardSink{}
	}
	if r.eol == "" {
		r.eol = "\n"
	}
	return r
}

// Execute runs the request described by text. Parse and configuration
// errors abort before any network I/O; transport errors come back
// classified. Every terminal error is also reported to the sink.
func (r *Runner) Execute(ctx context.Context, text string) (*decode.Decoded, error) {
	req, overrides, err := parser.Parse(text, r.eol, r.settings.GetStringMap("default_headers"))
	if err != nil {
		r.sink.Error(err.Error())
		return nil, err
	}

	// Overrides live for exactly this request; the base layer is shared.
	s := r.settings.WithOverrides(overrides)

	// Gate misconfiguration is fatal before the request goes out.
	filters, err := buildFilters(s)
	if err != nil {
		r.sink.Error(err.Error())
		return nil, err
	}

	if req.Hostname == "" {
		r.sink.Error(resthttp.ErrMissingHostname.Error())
		return nil, resthttp.ErrMissingHostname
	}

	if s.GetBool("output_request", true) {
		r.sink.Progress(req.String(r.eol))
	}

	timeout := time.Duration(s.GetFloat("timeout", 0) * float64(time.Second))

	start := time.Now()
	raw, err := r.client.Do(ctx, req, timeout)
	duration := time.Since(start)
	if err != nil {
		r.sink.Error(err.Error())
		return nil, err
	}

	decoded := decode.Decode(raw, s, r.eol)

	if err := applyFilters(decoded, filters, r.eol); err != nil {
		r.sink.Error(err.Error())
		return nil, err
	}

	if r.recorder != nil {
		if err := r.recorder.Record(req.Method, req.URL(), raw.StatusCode, duration, len(raw.Body)); err != nil {
			r.sink.Progress("history: " + err.Error())
		}
	}

	r.sink.Present(decoded, r.eol)
	r.sink.Progress("request complete")
	return decoded, nil
}
