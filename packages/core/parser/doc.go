// Package parser turns plain-text HTTP request blobs into structured
// requests.
//
// The text format is one request per blob:
//   - first line: request line (METHOD URI PROTOCOL, METHOD URI, or URI)
//   - following lines until a blank line: headers, # comments, and
//     @key: value setting overrides (values are JSON literals)
//   - everything after the blank line: the request body
//
// Parsing is deliberately lenient: input that does not look like a
// request line produces a default GET with no host instead of an error.
package parser
