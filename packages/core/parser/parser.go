package parser

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"regexp"
	"sort"
	"strings"
)

// Request line grammar. The URI token is deliberately restricted to the
// characters that can appear unquoted in a request line.
var (
	reMethodURIProtocol = regexp.MustCompile(`([A-Z]+) ([a-zA-Z0-9\-/._:?#\[\]@!$&=]+) (.*)`)
	reMethodURI         = regexp.MustCompile(`([A-Z]+) ([a-zA-Z0-9\-/._:?#\[\]@!$&=]+)`)
	reURI               = regexp.MustCompile(`([a-zA-Z0-9\-/._:?#\[\]@!$&=]+)`)
)

// NormalizeEOL rewrites all line endings in s to eol. Running it twice on
// already-normalized text is a no-op.
func NormalizeEOL(s, eol string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	if eol != "\n" {
		s = strings.ReplaceAll(s, "\n", eol)
	}
	return s
}

// ParseFile reads a request file and parses it with Parse.
func ParseFile(path, eol string, defaultHeaders map[string]string) (*Request, map[string]any, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}
	return Parse(string(content), eol, defaultHeaders)
}

// Parse turns free-form request text into a structured Request plus a map
// of inline setting overrides (@key lines, values parsed as JSON literals).
//
// Parsing is best-effort: an unrecognizable request line leaves the
// defaults (GET, http, no host) in place rather than failing. The one
// fatal case is a malformed JSON value in an override line.
func Parse(text, eol string, defaultHeaders map[string]string) (*Request, map[string]any, error) {
	req := &Request{
		Method: "GET",
		Scheme: "http",
	}

	text = strings.TrimLeft(text, " \t\r\n")
	text = NormalizeEOL(text, eol)
	lines := strings.Split(text, eol)

	parseRequestLine(req, lines[0])

	// Everything after the request line up to the first empty line is a
	// header line; the remainder after the empty line is the body.
	headerLines := lines[1:]
	for i := 1; i < len(lines); i++ {
		if lines[i] == "" {
			headerLines = lines[1:i]
			req.Body = strings.Join(lines[i+1:], eol)
			req.HasBody = true
			break
		}
	}

	parsed, overrides, err := parseHeaderLines(headerLines)
	if err != nil {
		return nil, nil, err
	}

	// Default headers first, parsed headers merged on top. An exact key
	// collision replaces the default; keys differing only in case coexist.
	for _, key := range sortedKeys(defaultHeaders) {
		req.Headers = append(req.Headers, Header{Key: key, Value: defaultHeaders[key]})
	}
	for _, h := range parsed {
		req.setHeader(h.Key, h.Value)
	}

	// Reconcile the Host header with the hostname from the request line.
	hasHostHeader := false
	for _, h := range req.Headers {
		if strings.EqualFold(strings.TrimSpace(h.Key), "host") {
			hasHostHeader = true
			if req.Hostname == "" {
				req.Hostname = h.Value
			}
			break
		}
	}
	if !hasHostHeader && req.Hostname != "" {
		req.Headers = append(req.Headers, Header{Key: "Host", Value: req.Hostname})
	}

	// Inputs like "example.com/foo" have no scheme and parse as a bare
	// path. A URL parser only recognizes a network location after "//",
	// so re-parse with that prefix to recover the hostname.
	if req.Hostname == "" && req.Path != "" {
		if u, err := url.Parse("//" + req.Path); err == nil {
			req.Hostname = u.Host
			req.Path = u.Path
		}
	}

	return req, overrides, nil
}

// parseRequestLine fills in method, scheme, hostname, path, and query from
// the first line. Nothing matching leaves the defaults untouched.
func parseRequestLine(req *Request, line string) {
	var method, uri, protocol string

	if m := reMethodURIProtocol.FindStringSubmatch(line); m != nil {
		method, uri, protocol = m[1], m[2], m[3]
	} else if m := reMethodURI.FindStringSubmatch(line); m != nil {
		method, uri = m[1], m[2]
	} else if m := reURI.FindStringSubmatch(line); m != nil {
		uri = m[1]
	} else {
		return
	}

	if method != "" {
		req.Method = method
	}

	u, err := url.Parse(uri)
	if err != nil {
		return
	}
	req.Scheme = u.Scheme
	req.Hostname = u.Host // host:port when a port was written
	req.Path = u.Path
	req.Query = u.RawQuery

	// The scheme comes from the URI when present, else from a protocol
	// token mentioning HTTPS. Plain http otherwise.
	if req.Scheme == "" {
		if strings.Contains(strings.ToUpper(protocol), "HTTPS") {
			req.Scheme = "https"
		} else {
			req.Scheme = "http"
		}
	}
}

// parseHeaderLines classifies each line as a comment (#), a settings
// override (@key: json-value), or a header (Name: value). Lines matching
// none of the three are skipped.
func parseHeaderLines(lines []string) ([]Header, map[string]any, error) {
	var headers []Header
	overrides := make(map[string]any)

	for _, line := range lines {
		line = strings.TrimLeft(line, " \t")
		if line == "" {
			continue
		}

		switch {
		case strings.HasPrefix(line, "#"):
			// comment

		case strings.HasPrefix(line, "@") && strings.Contains(line, ":"):
			key, value, _ := strings.Cut(line[1:], ":")
			key = strings.TrimSpace(key)
			var parsed any
			if err := json.Unmarshal([]byte(strings.TrimSpace(value)), &parsed); err != nil {
				return nil, nil, fmt.Errorf("bad configuration: override %q: %w", key, err)
			}
			overrides[key] = parsed

		case strings.Contains(line, ":"):
			key, value, _ := strings.Cut(line, ":")
			headers = append(headers, Header{Key: key, Value: strings.TrimSpace(value)})
		}
	}

	return headers, overrides, nil
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
