package http

import (
	"net/http"
	"sort"
	"strings"

	"github.com/rester-cli/rester/packages/decode"
)

// rawResponse converts a net/http response into the transport-agnostic
// form the decoder consumes. net/http stores headers in a map, so entries
// are emitted in sorted key order to keep output deterministic; repeated
// headers become repeated entries.
func rawResponse(resp *http.Response, body []byte) *decode.RawResponse {
	keys := make([]string, 0, len(resp.Header))
	for k := range resp.Header {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	headers := make([]decode.Header, 0, len(keys))
	for _, k := range keys {
		for _, v := range resp.Header[k] {
			headers = append(headers, decode.Header{Key: k, Value: v})
		}
	}

	proto := "HTTP/1.1"
	if resp.ProtoMajor == 1 && resp.ProtoMinor == 0 {
		proto = "HTTP/1.0"
	}

	// resp.Status is "200 OK"; the reason phrase is everything after the
	// code. Servers may omit it.
	_, reason, found := strings.Cut(resp.Status, " ")
	if !found {
		reason = http.StatusText(resp.StatusCode)
	}

	return &decode.RawResponse{
		StatusCode: resp.StatusCode,
		Reason:     reason,
		Proto:      proto,
		Headers:    headers,
		Body:       body,
	}
}
