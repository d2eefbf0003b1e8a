package process

import "time"

// Output is what Pipe captured from the downstream process.
type Output struct {
	// Stdout is the downstream's captured standard output.
	Stdout []byte
	// Stderr is the downstream's captured standard error. Empty when the
	// downstream Spec already routed Stderr elsewhere.
	Stderr []byte
	// Status is how the downstream terminated.
	Status ExitStatus
	// Upstream is how the upstream terminated. It never affects the error
	// returned by Pipe unless WithUpstreamCheck is used.
	Upstream ExitStatus
	// Lines is the number of lines forwarded to the downstream.
	Lines int
	// Skipped is the number of upstream lines dropped by DecodeSkip.
	Skipped int
	// Truncated reports that the downstream closed its stdin before the
	// upstream finished, so not every upstream line was forwarded.
	Truncated bool
	// Duration is how long the pipeline ran.
	Duration time.Duration
}
