// Package output implements presentation sinks for decoded responses:
// a colored console sink and a machine-readable JSON sink.
package output
