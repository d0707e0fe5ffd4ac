package bench

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rester-cli/rester/packages/core/settings"
	resthttp "github.com/rester-cli/rester/packages/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunner_CountStop(t *testing.T) {
	var hits atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	b := NewRunner(nil, settings.New(nil), "\n")
	result, err := b.Run(context.Background(), "GET "+server.URL, Config{Count: 5})

	require.NoError(t, err)
	assert.Equal(t, int64(5), result.Total)
	assert.Equal(t, int64(0), result.Errors)
	assert.Equal(t, int64(5), hits.Load())
	assert.Greater(t, result.Max, time.Duration(0))
	assert.GreaterOrEqual(t, result.P99, result.P50)
}

func TestRunner_ErrorsCountedNotFatal(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(100 * time.Millisecond)
	}))
	defer server.Close()

	b := NewRunner(nil, settings.New(map[string]any{"timeout": 0.01}), "\n")
	result, err := b.Run(context.Background(), "GET "+server.URL, Config{Count: 2})

	require.NoError(t, err)
	assert.Equal(t, int64(2), result.Total)
	assert.Equal(t, int64(2), result.Errors)
}

func TestRunner_MissingHostname(t *testing.T) {
	b := NewRunner(nil, settings.New(nil), "\n")
	_, err := b.Run(context.Background(), "GET /no-host HTTP/1.1", Config{Count: 1})
	assert.ErrorIs(t, err, resthttp.ErrMissingHostname)
}

func TestRunner_DefaultsToSingleRequest(t *testing.T) {
	var hits atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer server.Close()

	b := NewRunner(nil, settings.New(nil), "\n")
	result, err := b.Run(context.Background(), "GET "+server.URL, Config{})

	require.NoError(t, err)
	assert.Equal(t, int64(1), result.Total)
	assert.Equal(t, int64(1), hits.Load())
}
