package media

import (
	"strconv"
	"time"
)

const (
	// Channels is the fixed channel count of rendered audio.
	Channels = 2
	// BitDepth is the fixed sample width of rendered audio.
	BitDepth = 16
	// ChunkFrames is the capacity of one decode chunk in stereo frames.
	ChunkFrames = 1024
)

// TrackInfo carries the descriptive fields a decoder reports for one track.
type TrackInfo struct {
	Index     int
	Title     string
	Game      string
	Author    string
	Copyright string
	Comment   string
	System    string
	Dumper    string

	// Length is the reported track length, zero when the container has none.
	Length time.Duration
	// PlayLength is Length or the decoder's loop-derived estimate.
	PlayLength time.Duration
}

// DisplayTitle returns the title or a positional fallback.
func (t TrackInfo) DisplayTitle() string {
	if t.Title != "" {
		return t.Title
	}
	return "Track " + strconv.Itoa(t.Index+1)
}

// Chunk is one block of interleaved 16-bit stereo samples. Samples always has
// full capacity; only the first Frames frames are valid.
type Chunk struct {
	Samples []int16
	Frames  int
}

// NewChunk allocates a chunk holding frames stereo frames.
func NewChunk(frames int) Chunk {
	return Chunk{Samples: make([]int16, frames*Channels)}
}

// Capacity returns the chunk's capacity in frames.
func (c Chunk) Capacity() int {
	return len(c.Samples) / Channels
}

// Valid returns the interleaved samples covered by Frames.
func (c Chunk) Valid() []int16 {
	n := c.Frames * Channels
	if n > len(c.Samples) {
		n = len(c.Samples)
	}
	if n < 0 {
		n = 0
	}
	return c.Samples[:n]
}

// Reset zeroes the sample buffer and the valid frame count.
func (c *Chunk) Reset() {
	clear(c.Samples)
	c.Frames = 0
}
