package charset

import "regexp"

// reEncoding matches charset/encoding declarations as they appear in
// Content-Type header values ("text/html; charset=utf-8") and in document
// bodies (<meta charset="utf-8">, <?xml encoding='ISO-8859-1'?>).
var reEncoding = regexp.MustCompile(`(?:encoding|charset)=['"]*([a-zA-Z0-9\-]+)['"]*`)

// SniffString returns the first encoding name declared in s, or "" if
// none is found.
func SniffString(s string) string {
	if m := reEncoding.FindStringSubmatch(s); m != nil {
		return m[1]
	}
	return ""
}

// SniffBytes returns the first encoding name declared in raw bytes. The
// pattern is ASCII-only, so it can be matched byte-wise against a body
// whose encoding is not yet known.
func SniffBytes(b []byte) string {
	if m := reEncoding.FindSubmatch(b); m != nil {
		return string(m[1])
	}
	return ""
}
