package cmd

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rester-cli/rester/packages/core/runner"
	"github.com/rester-cli/rester/packages/core/settings"
)

func runInit(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	oldWd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(oldWd) })
	initCmd.SetOut(&bytes.Buffer{})
	require.NoError(t, initCommand(initCmd, nil))
	return dir
}

func TestInit_CreatesProjectFiles(t *testing.T) {
	dir := runInit(t)

	for _, f := range []string{"rester.yaml", "example.rest"} {
		_, err := os.Stat(filepath.Join(dir, f))
		assert.NoError(t, err, f)
	}
}

func TestInit_RefusesToOverwrite(t *testing.T) {
	runInit(t)
	err := initCommand(initCmd, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

// The scaffolded config must round-trip into a working content-type gate:
// format-json runs on application/json responses and nothing else.
func TestInit_ConfigGatesBodyFilters(t *testing.T) {
	dir := runInit(t)

	s, err := settings.Load(filepath.Join(dir, "rester.yaml"))
	require.NoError(t, err)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/json" {
			w.Header().Set("Content-Type", "application/json")
		} else {
			w.Header().Set("Content-Type", "text/html")
		}
		_, _ = w.Write([]byte(`{"a":1}`))
	}))
	defer server.Close()

	r := runner.NewRunner(&runner.Config{Settings: s})

	gated, err := r.Execute(context.Background(), "GET "+server.URL+"/json")
	require.NoError(t, err)
	assert.Contains(t, gated.Body, `"a": 1`, "format-json should have run")

	skipped, err := r.Execute(context.Background(), "GET "+server.URL+"/html")
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, skipped.Body, "the gate should have skipped text/html")
}
