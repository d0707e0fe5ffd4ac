// Package decode turns raw HTTP response bytes into readable text:
// content-encoding decompression, character-set detection and decoding,
// and line-ending normalization.
package decode
