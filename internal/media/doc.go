// Package media defines the value types shared by the decoder, the renderer,
// and the output sinks: per-track descriptive info and the fixed-capacity
// stereo sample chunk that flows from one to the other.
package media
