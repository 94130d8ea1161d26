// Package output turns one user-supplied output pattern into per-track file
// targets and writes rendered audio to them.
//
// Resolve owns the naming policy: a "%d" placeholder is substituted with the
// track index, any other pattern is prefixed with "<index>-", and an empty
// pattern or "-" selects standard output. Opener produces WAVSink values that
// encode 16-bit stereo PCM through go-audio/wav, embed track metadata in the
// LIST/INFO chunk, and hold an advisory lock on the destination while open.
package output
