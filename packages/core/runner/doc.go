// Package runner orchestrates request execution.
//
// A Runner takes request text through the whole pipeline: parsing,
// settings override resolution, network execution, response decoding,
// body post-processing, and delivery to a presentation sink. One request
// runs per Execute call; the parser and decoder are pure, so the only
// blocking happens inside network I/O.
package runner
