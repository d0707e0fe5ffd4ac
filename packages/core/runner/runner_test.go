package runner

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rester-cli/rester/packages/core/settings"
	"github.com/rester-cli/rester/packages/decode"
	resthttp "github.com/rester-cli/rester/packages/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureSink struct {
	presented *decode.Decoded
	progress  []string
	errors    []string
}

func (c *captureSink) Present(d *decode.Decoded, eol string) { c.presented = d }
func (c *captureSink) Progress(msg string)                   { c.progress = append(c.progress, msg) }
func (c *captureSink) Error(msg string)                      { c.errors = append(c.errors, msg) }

func newTestRunner(base map[string]any, sink Sink) *Runner {
	return NewRunner(&Config{
		Settings: settings.New(base),
		Sink:     sink,
		EOL:      "\n",
	})
}

func TestRunner_ExecuteEndToEnd(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/users", r.URL.Path)
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		_, _ = w.Write([]byte(`{"id": 1}`))
	}))
	defer server.Close()

	sink := &captureSink{}
	r := newTestRunner(nil, sink)

	decoded, err := r.Execute(context.Background(), "GET "+server.URL+"/users")
	require.NoError(t, err)

	assert.Equal(t, 200, decoded.StatusCode)
	assert.Contains(t, decoded.Body, `"id"`)
	require.NotNil(t, sink.presented)
	assert.Empty(t, sink.errors)
}

func TestRunner_MissingHostname(t *testing.T) {
	sink := &captureSink{}
	r := newTestRunner(nil, sink)

	_, err := r.Execute(context.Background(), "GET /path-without-host HTTP/1.1")
	assert.ErrorIs(t, err, resthttp.ErrMissingHostname)
	require.Len(t, sink.errors, 1)
	assert.Contains(t, sink.errors[0], "hostname")
}

func TestRunner_TimeoutOverride(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
	}))
	defer server.Close()

	sink := &captureSink{}
	r := newTestRunner(nil, sink)

	// The @timeout override (in seconds) wins over the client default.
	text := "GET " + server.URL + "\n@timeout: 0.05"
	_, err := r.Execute(context.Background(), text)
	assert.ErrorIs(t, err, resthttp.ErrTimeout)
}

func TestRunner_BodyOnlyOverride(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("payload"))
	}))
	defer server.Close()

	sink := &captureSink{}
	r := newTestRunner(nil, sink)

	decoded, err := r.Execute(context.Background(), "GET "+server.URL+"\n@body_only: true")
	require.NoError(t, err)
	assert.True(t, decoded.BodyOnly)
	assert.Equal(t, "payload", decoded.Render("\n"))
}

func TestRunner_RequestEchoedUnlessDisabled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer server.Close()

	sink := &captureSink{}
	r := newTestRunner(nil, sink)
	_, err := r.Execute(context.Background(), "GET "+server.URL+"/echoed")
	require.NoError(t, err)

	found := false
	for _, msg := range sink.progress {
		if strings.Contains(msg, "GET /echoed HTTP/1.1") {
			found = true
		}
	}
	assert.True(t, found, "outgoing request should be echoed")

	quiet := &captureSink{}
	rq := newTestRunner(map[string]any{"output_request": false}, quiet)
	_, err = rq.Execute(context.Background(), "GET "+server.URL+"/echoed")
	require.NoError(t, err)
	for _, msg := range quiet.progress {
		assert.NotContains(t, msg, "GET /echoed")
	}
}

func TestRunner_MalformedOverrideAbortsBeforeNetwork(t *testing.T) {
	hit := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hit = true
	}))
	defer server.Close()

	sink := &captureSink{}
	r := newTestRunner(nil, sink)

	_, err := r.Execute(context.Background(), "GET "+server.URL+"\n@timeout: not-json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad configuration")
	assert.False(t, hit, "no network I/O after a configuration error")
}

func TestRunner_BadFilterGateAbortsBeforeNetwork(t *testing.T) {
	hit := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hit = true
	}))
	defer server.Close()

	sink := &captureSink{}
	r := newTestRunner(map[string]any{
		"response_body_commands": []any{
			map[string]any{
				"content-type": float64(12), // neither string nor list
				"commands":     []any{"trim"},
			},
		},
	}, sink)

	_, err := r.Execute(context.Background(), "GET "+server.URL)
	assert.ErrorIs(t, err, ErrBadConfiguration)
	assert.False(t, hit)
}

func TestRunner_FiltersGatedByContentType(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"b":2,"a":1}`))
	}))
	defer server.Close()

	sink := &captureSink{}
	r := newTestRunner(map[string]any{
		"response_body_commands": []any{
			map[string]any{
				"content-type": "application/json",
				"commands":     []any{"format-json"},
			},
			map[string]any{
				"content-type": "text/html",
				"commands":     []any{"trim"},
			},
		},
	}, sink)

	decoded, err := r.Execute(context.Background(), "GET "+server.URL)
	require.NoError(t, err)
	// format-json ran (multi-line output), so the gate matched.
	assert.Contains(t, decoded.Body, "\n")
}

func TestRunner_RecorderReceivesResult(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}))
	defer server.Close()

	rec := &fakeRecorder{}
	r := NewRunner(&Config{
		Settings: settings.New(nil),
		Sink:     &captureSink{},
		Recorder: rec,
		EOL:      "\n",
	})

	_, err := r.Execute(context.Background(), "GET "+server.URL+"/logged")
	require.NoError(t, err)
	require.Len(t, rec.records, 1)
	assert.Equal(t, "GET", rec.records[0].method)
	assert.Equal(t, 200, rec.records[0].status)
}

type fakeRecorder struct {
	records []struct {
		method string
		url    string
		status int
	}
}

func (f *fakeRecorder) Record(method, url string, statusCode int, duration time.Duration, bodyBytes int) error {
	f.records = append(f.records, struct {
		method string
		url    string
		status int
	}{method, url, statusCode})
	return nil
}
