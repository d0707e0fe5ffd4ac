// Package http executes parsed requests over the network.
//
// It wraps the standard library's http package with:
//   - Configurable timeouts, redirects, proxy, and TLS validation
//   - Request building from the parsed request structure
//   - Conversion of responses into raw, decoder-ready form
//   - Classification of transport failures into terminal errors
package http
