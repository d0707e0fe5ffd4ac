// Package bench sends one request repeatedly and reports latency
// percentiles. It is a measurement aid, not a load generator: a single
// worker sends sequentially at an optional target rate.
package bench

import (
	"context"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
	"golang.org/x/time/rate"

	"github.com/rester-cli/rester/packages/core/parser"
	"github.com/rester-cli/rester/packages/core/settings"
	resthttp "github.com/rester-cli/rester/packages/http"
)

// Config controls a bench run. Count and Duration are alternative stop
// conditions; whichever is reached first ends the run. Rate of zero
// means unthrottled.
type Config struct {
	Count    int
	Duration time.Duration
	Rate     float64
}

// Result is the aggregate outcome of a bench run.
type Result struct {
	Total   int64
	Errors  int64
	Elapsed time.Duration

	Min  time.Duration
	Mean time.Duration
	P50  time.Duration
	P95  time.Duration
	P99  time.Duration
	Max  time.Duration
}

// Runner executes bench runs against a shared client.
type Runner struct {
	client   *resthttp.Client
	settings settings.Settings
	eol      string
}

func NewRunner(client *resthttp.Client, s settings.Settings, eol string) *Runner {
	if client == nil {
		client = resthttp.NewClient()
	}
	if eol == "" {
		eol = "\n"
	}
	return &Runner{client: client, settings: s, eol: eol}
}

// Run parses the request text once and sends it repeatedly per cfg.
// Individual request failures are counted, not fatal; parse and
// configuration errors abort the run.
func (b *Runner) Run(ctx context.Context, text string, cfg Config) (*Result, error) {
	req, overrides, err := parser.Parse(text, b.eol, b.settings.GetStringMap("default_headers"))
	if err != nil {
		return nil, err
	}
	if req.Hostname == "" {
		return nil, resthttp.ErrMissingHostname
	}

	s := b.settings.WithOverrides(overrides)
	timeout := time.Duration(s.GetFloat("timeout", 0) * float64(time.Second))

	limit := rate.Inf
	if cfg.Rate > 0 {
		limit = rate.Limit(cfg.Rate)
	}
	limiter := rate.NewLimiter(limit, 1)

	if cfg.Count <= 0 && cfg.Duration <= 0 {
		cfg.Count = 1
	}

	// 1us to 60s range, 3 significant digits.
	hist := hdrhistogram.New(1, 60_000_000, 3)
	var total, errors int64

	start := time.Now()
	deadline := time.Time{}
	if cfg.Duration > 0 {
		deadline = start.Add(cfg.Duration)
	}

	for {
		if cfg.Count > 0 && total >= int64(cfg.Count) {
			break
		}
		if !deadline.IsZero() && time.Now().After(deadline) {
			break
		}
		if err := limiter.Wait(ctx); err != nil {
			break
		}

		reqStart := time.Now()
		_, err := b.client.Do(ctx, req, timeout)
		latency := time.Since(reqStart)

		total++
		if err != nil {
			errors++
		}

		us := latency.Microseconds()
		if us < 1 {
			us = 1
		}
		if us > 60_000_000 {
			us = 60_000_000
		}
		_ = hist.RecordValue(us)

		if ctx.Err() != nil {
			break
		}
	}

	return &Result{
		Total:   total,
		Errors:  errors,
		Elapsed: time.Since(start),
		Min:     time.Duration(hist.Min()) * time.Microsecond,
		Mean:    time.Duration(hist.Mean()) * time.Microsecond,
		P50:     time.Duration(hist.ValueAtQuantile(50)) * time.Microsecond,
		P95:     time.Duration(hist.ValueAtQuantile(95)) * time.Microsecond,
		P99:     time.Duration(hist.ValueAtQuantile(99)) * time.Microsecond,
		Max:     time.Duration(hist.Max()) * time.Microsecond,
	}, nil
}
