package decode

import (
	"bytes"
	"compress/flate"
	"compress/gzip"
	"io"
	"strings"
)

// decompress undoes the response content-encoding. Tokens other than gzip
// and deflate (or no token at all) pass the bytes through unchanged; a
// broken compressed stream is also passed through rather than dropped.
func decompress(body []byte, contentEncoding string) []byte {
	ce := strings.ToLower(contentEncoding)

	switch {
	case strings.Contains(ce, "gzip"):
		r, err := gzip.NewReader(bytes.NewReader(body))
		if err != nil {
			return body
		}
		defer r.Close()
		out, err := io.ReadAll(r)
		if err != nil {
			return body
		}
		return out

	case strings.Contains(ce, "deflate"):
		// Raw deflate framing, without the zlib header and trailer.
		r := flate.NewReader(bytes.NewReader(body))
		defer r.Close()
		out, err := io.ReadAll(r)
		if err != nil {
			return body
		}
		return out
	}

	return body
}
