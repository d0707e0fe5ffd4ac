package decode

import (
	"fmt"
	"strings"

	"github.com/rester-cli/rester/packages/charset"
	"github.com/rester-cli/rester/packages/core/parser"
	"github.com/rester-cli/rester/packages/core/settings"
)

// UndecodablePlaceholder replaces the body when no candidate encoding can
// decode it. Decoding failure is a terminal fallback, never an error.
const UndecodablePlaceholder = "{Unable to decode body}"

// Header is a single response header, order-preserving.
type Header struct {
	Key   string
	Value string
}

// RawResponse is the response as the transport produced it: undecoded
// bytes plus the metadata needed to decode them.
type RawResponse struct {
	StatusCode int
	Reason     string
	Proto      string // "HTTP/1.1" or "HTTP/1.0"
	Headers    []Header
	Body       []byte
}

// Header returns the first value for key, compared case-insensitively.
func (r *RawResponse) Header(key string) string {
	for _, h := range r.Headers {
		if strings.EqualFold(h.Key, key) {
			return h.Value
		}
	}
	return ""
}

// Decoded is the readable form of a response: status line, header block,
// and a decompressed, charset-decoded, line-ending-normalized body.
type Decoded struct {
	StatusCode  int
	StatusLine  string
	HeaderBlock string
	Body        string
	BodyOnly    bool
	ContentType string
}

// Decode turns a raw response into readable text.
//
// The body is decompressed per its content-encoding, then decoded using
// the first working candidate encoding: the content-type declaration, a
// declaration found in the body bytes, then each configured default, in
// that order without duplicates.
func Decode(raw *RawResponse, s settings.Settings, eol string) *Decoded {
	d := &Decoded{
		StatusCode:  raw.StatusCode,
		StatusLine:  fmt.Sprintf("%s %d %s", raw.Proto, raw.StatusCode, raw.Reason),
		ContentType: strings.ToLower(raw.Header("content-type")),
	}

	lines := make([]string, 0, len(raw.Headers))
	for _, h := range raw.Headers {
		lines = append(lines, h.Key+": "+h.Value)
	}
	d.HeaderBlock = strings.Join(lines, eol)

	body := decompress(raw.Body, raw.Header("content-encoding"))

	var candidates []string
	add := func(name string) {
		if name == "" {
			return
		}
		for _, c := range candidates {
			if c == name {
				return
			}
		}
		candidates = append(candidates, name)
	}
	add(charset.SniffString(raw.Header("content-type")))
	add(charset.SniffBytes(body))
	for _, name := range s.GetStringSlice("default_response_encodings", nil) {
		add(name)
	}

	text, err := charset.Decode(body, candidates)
	if err != nil {
		text = UndecodablePlaceholder
	}
	d.Body = parser.NormalizeEOL(text, eol)

	// Body-only output applies to successful responses only; anything
	// outside 2xx keeps the full status and header block for context.
	d.BodyOnly = s.GetBool("body_only", false) &&
		raw.StatusCode >= 200 && raw.StatusCode <= 299

	return d
}

// Render produces the final text: body alone when BodyOnly, otherwise the
// status line, a blank line, the header block, a blank line, and the body.
func (d *Decoded) Render(eol string) string {
	if d.BodyOnly {
		return d.Body
	}
	return d.StatusLine + eol + eol + d.HeaderBlock + eol + eol + d.Body
}
