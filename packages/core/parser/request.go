package parser

import "strings"

// Header is a single request header. Keys preserve the case they were
// written with; lookups that need case-insensitivity (Host detection)
// fold at comparison time.
type Header struct {
	Key   string
	Value string
}

// Request is the structured form of a request text blob. It is built once
// per Parse call and not modified afterwards.
type Request struct {
	Method   string
	Scheme   string
	Hostname string
	Path     string
	Query    string
	Headers  []Header
	Body     string
	HasBody  bool
}

// Header returns the value of the first header whose key matches
// case-insensitively, or "" if absent.
func (r *Request) Header(key string) string {
	for _, h := range r.Headers {
		if strings.EqualFold(h.Key, key) {
			return h.Value
		}
	}
	return ""
}

// RequestURI returns the path plus query string to send on the wire.
func (r *Request) RequestURI() string {
	uri := r.Path
	if uri == "" {
		uri = "/"
	}
	if r.Query != "" {
		uri += "?" + r.Query
	}
	return uri
}

// URL assembles the absolute URL for the request.
func (r *Request) URL() string {
	return r.Scheme + "://" + r.Hostname + r.RequestURI()
}

// String renders the request the way it goes on the wire, joined with eol.
// Used for echoing the outgoing request before sending.
func (r *Request) String(eol string) string {
	lines := []string{r.Method + " " + r.RequestURI() + " HTTP/1.1"}
	for _, h := range r.Headers {
		lines = append(lines, h.Key+": "+h.Value)
	}
	s := strings.Join(lines, eol)
	if r.HasBody {
		s += eol + r.Body
	}
	return s
}

// setHeader replaces the value of an exact-key match in place, otherwise
// appends. Keys differing only in case stay as separate entries.
func (r *Request) setHeader(key, value string) {
	for i, h := range r.Headers {
		if h.Key == key {
			r.Headers[i].Value = value
			return
		}
	}
	r.Headers = append(r.Headers, Header{Key: key, Value: value})
}
