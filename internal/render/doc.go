// Package render is the track-rendering pipeline.
//
// Runner buffers the input container, opens a Decoder over it, and hands both
// to an Orchestrator. The Orchestrator computes the track set, resolves one
// output target per track, opens a fresh Sink for it, and lets a
// TrackRenderer pull fixed-size chunks from the decoder until the configured
// duration is reached. Per-track failures (ErrOutputIO, ErrDecode) are
// recorded in the Summary and never stop the batch; input and container
// failures (ErrInputIO, ErrContainerOpen) abort the run before any output is
// created.
//
// Everything runs on the calling goroutine. Decoder, Sink, and input buffer
// are released with defer on every path.
package render
