// Package charset detects and applies character encodings for response
// bodies. Detection scans header values or raw bytes for charset/encoding
// declarations; decoding walks an ordered candidate list and keeps the
// first encoding that succeeds.
package charset
