package charset

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/ianaindex"
)

// ErrUndecodable is returned when no candidate encoding can decode a body.
var ErrUndecodable = errors.New("unable to decode body")

// Decode tries each named encoding in order and returns the first
// successful decoding as UTF-8 text. An empty candidate list, or every
// candidate failing, yields ErrUndecodable.
func Decode(b []byte, names []string) (string, error) {
	for _, name := range names {
		if s, err := decodeWith(b, name); err == nil {
			return s, nil
		}
	}
	return "", ErrUndecodable
}

func decodeWith(b []byte, name string) (string, error) {
	if isUTF8Name(name) {
		if !utf8.Valid(b) {
			return "", fmt.Errorf("invalid UTF-8")
		}
		return string(b), nil
	}

	enc, err := lookupEncoding(name)
	if err != nil {
		return "", err
	}

	out, err := enc.NewDecoder().Bytes(b)
	if err != nil {
		return "", err
	}
	// Charmap decoders map undefined bytes to U+FFFD instead of erroring;
	// treat that as a failed decode so the next candidate gets a chance.
	if bytes.Contains(out, []byte("�")) {
		return "", fmt.Errorf("undecodable bytes for %q", name)
	}
	return string(out), nil
}

// lookupEncoding resolves an encoding name through the IANA index, then
// the WHATWG html index, then both again with separators stripped. The
// last step covers spellings like "latin-1" that are common in the wild
// but registered only as "latin1".
func lookupEncoding(name string) (encoding.Encoding, error) {
	candidates := []string{name}
	if stripped := strings.NewReplacer("-", "", "_", "").Replace(name); stripped != name {
		candidates = append(candidates, stripped)
	}

	for _, c := range candidates {
		if enc, err := ianaindex.IANA.Encoding(c); err == nil && enc != nil {
			return enc, nil
		}
		if enc, err := htmlindex.Get(c); err == nil {
			return enc, nil
		}
	}
	return nil, fmt.Errorf("unknown encoding %q", name)
}

func isUTF8Name(name string) bool {
	switch strings.ToLower(name) {
	case "utf-8", "utf8", "ascii", "us-ascii":
		return true
	}
	return false
}
