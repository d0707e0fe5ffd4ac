package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_FullRequestLine(t *testing.T) {
	req, overrides, err := Parse("GET /x HTTP/1.1\nHost: example.com\n\nbody", "\n", nil)
	require.NoError(t, err)
	assert.Empty(t, overrides)

	assert.Equal(t, "GET", req.Method)
	assert.Equal(t, "http", req.Scheme)
	assert.Equal(t, "example.com", req.Hostname)
	assert.Equal(t, "/x", req.Path)
	assert.Equal(t, "body", req.Body)
	assert.True(t, req.HasBody)
}

func TestParse_AbsoluteURI(t *testing.T) {
	req, _, err := Parse("POST https://api.example.com/users?page=2 HTTP/1.1", "\n", nil)
	require.NoError(t, err)

	assert.Equal(t, "POST", req.Method)
	assert.Equal(t, "https", req.Scheme)
	assert.Equal(t, "api.example.com", req.Hostname)
	assert.Equal(t, "/users", req.Path)
	assert.Equal(t, "page=2", req.Query)
}

func TestParse_HostnameFallbackFromBarePath(t *testing.T) {
	// No scheme and no method: the URI parses as a bare path and the
	// hostname is recovered by re-parsing with a // prefix.
	req, _, err := Parse("example.com/foo", "\n", nil)
	require.NoError(t, err)

	assert.Equal(t, "GET", req.Method)
	assert.Equal(t, "example.com", req.Hostname)
	assert.Equal(t, "/foo", req.Path)
}

func TestParse_MethodAndURIOnly(t *testing.T) {
	req, _, err := Parse("DELETE /things/5\nHost: example.com", "\n", nil)
	require.NoError(t, err)

	assert.Equal(t, "DELETE", req.Method)
	assert.Equal(t, "/things/5", req.Path)
	assert.Equal(t, "example.com", req.Hostname)
	assert.False(t, req.HasBody)
}

func TestParse_HTTPSFromProtocolToken(t *testing.T) {
	req, _, err := Parse("GET /secure HTTPS/1.1\nHost: example.com", "\n", nil)
	require.NoError(t, err)
	assert.Equal(t, "https", req.Scheme)
}

func TestParse_UnrecognizableRequestLineKeepsDefaults(t *testing.T) {
	req, _, err := Parse("\t \t", "\n", nil)
	require.NoError(t, err)

	assert.Equal(t, "GET", req.Method)
	assert.Equal(t, "http", req.Scheme)
	assert.Empty(t, req.Hostname)
	assert.Empty(t, req.Path)
}

func TestParse_Overrides(t *testing.T) {
	text := "GET /x\nHost: example.com\n@timeout: 5\n@body_only: true\n@label: \"smoke\""
	req, overrides, err := Parse(text, "\n", nil)
	require.NoError(t, err)

	assert.Equal(t, "example.com", req.Hostname)
	// JSON literals keep their types: number, boolean, string.
	assert.Equal(t, float64(5), overrides["timeout"])
	assert.Equal(t, true, overrides["body_only"])
	assert.Equal(t, "smoke", overrides["label"])
}

func TestParse_OverrideLastOneWins(t *testing.T) {
	_, overrides, err := Parse("GET /x\n@timeout: 5\n@timeout: 9", "\n", nil)
	require.NoError(t, err)
	assert.Equal(t, float64(9), overrides["timeout"])
}

func TestParse_MalformedOverrideIsFatal(t *testing.T) {
	_, _, err := Parse("GET /x\n@timeout: five seconds", "\n", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad configuration")
}

func TestParse_CommentsIgnored(t *testing.T) {
	req, _, err := Parse("GET /x\n# this is a note\nHost: example.com", "\n", nil)
	require.NoError(t, err)
	assert.Equal(t, "example.com", req.Hostname)
	require.Len(t, req.Headers, 1)
}

func TestParse_DefaultHeadersMerged(t *testing.T) {
	defaults := map[string]string{
		"User-Agent": "rester",
		"Accept":     "*/*",
	}
	req, _, err := Parse("GET /x\nHost: example.com\nAccept: application/json", "\n", defaults)
	require.NoError(t, err)

	// Parsed header replaces the default on exact key collision.
	assert.Equal(t, "application/json", req.Header("Accept"))
	assert.Equal(t, "rester", req.Header("User-Agent"))
}

func TestParse_DistinctCasedHeadersCoexist(t *testing.T) {
	defaults := map[string]string{"accept": "*/*"}
	req, _, err := Parse("GET /x\nHost: example.com\nAccept: text/html", "\n", defaults)
	require.NoError(t, err)

	keys := make([]string, 0, len(req.Headers))
	for _, h := range req.Headers {
		keys = append(keys, h.Key)
	}
	assert.Contains(t, keys, "accept")
	assert.Contains(t, keys, "Accept")
}

func TestParse_HostHeaderSynthesized(t *testing.T) {
	req, _, err := Parse("GET http://example.com/x", "\n", nil)
	require.NoError(t, err)

	require.Len(t, req.Headers, 1)
	assert.Equal(t, "Host", req.Headers[0].Key)
	assert.Equal(t, "example.com", req.Headers[0].Value)
}

func TestParse_HostnameFromHostHeader(t *testing.T) {
	req, _, err := Parse("GET /x\nHost: fallback.example.com", "\n", nil)
	require.NoError(t, err)
	assert.Equal(t, "fallback.example.com", req.Hostname)
}

func TestParse_BodyRejoinedWithEOL(t *testing.T) {
	req, _, err := Parse("POST /x\nHost: example.com\n\nline one\nline two", "\n", nil)
	require.NoError(t, err)
	assert.Equal(t, "line one\nline two", req.Body)
}

func TestParse_CRLFInput(t *testing.T) {
	req, _, err := Parse("GET /x HTTP/1.1\r\nHost: example.com\r\n\r\nbody", "\n", nil)
	require.NoError(t, err)
	assert.Equal(t, "example.com", req.Hostname)
	assert.Equal(t, "body", req.Body)
}

func TestNormalizeEOL_Idempotent(t *testing.T) {
	for _, eol := range []string{"\n", "\r\n", "\r"} {
		once := NormalizeEOL("a\r\nb\rc\nd", eol)
		twice := NormalizeEOL(once, eol)
		assert.Equal(t, once, twice, "eol %q", eol)
	}
}

func TestRequest_RequestURI(t *testing.T) {
	req := &Request{Path: "/search", Query: "q=go"}
	assert.Equal(t, "/search?q=go", req.RequestURI())

	empty := &Request{}
	assert.Equal(t, "/", empty.RequestURI())
}

func TestRequest_String(t *testing.T) {
	req, _, err := Parse("POST /x\nHost: example.com\nContent-Type: text/plain\n\nhello", "\n", nil)
	require.NoError(t, err)

	s := req.String("\n")
	assert.Contains(t, s, "POST /x HTTP/1.1")
	assert.Contains(t, s, "Host: example.com")
	assert.Contains(t, s, "\nhello")
}
