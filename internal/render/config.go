package render

import (
	"fmt"
	"math"
)

// AllTracks selects every track in the container.
const AllTracks = -1

// Config holds the immutable parameters of one render run.
type Config struct {
	// Track is the single track to render, or AllTracks.
	Track      int
	SampleRate int
	// Duration is the rendered length of each track in seconds.
	Duration int
	// Fadeout is the length of the fade before Duration, in seconds.
	Fadeout int
	// Pan is the decoder's stereo depth parameter.
	Pan float64
	// Output is the naming pattern passed to output.Resolve.
	Output string
}

// Validate checks the invariants the renderer relies on.
func (c Config) Validate() error {
	switch {
	case c.Track < AllTracks:
		return Wrap(ErrUsage, noTrack, "config", fmt.Sprintf("invalid track %d", c.Track), nil)
	case c.SampleRate <= 0:
		return Wrap(ErrUsage, noTrack, "config", fmt.Sprintf("sample rate must be positive, got %d", c.SampleRate), nil)
	case c.Duration <= 0:
		return Wrap(ErrUsage, noTrack, "config", fmt.Sprintf("duration must be positive, got %d", c.Duration), nil)
	case c.Fadeout < 0 || c.Fadeout > c.Duration:
		return Wrap(ErrUsage, noTrack, "config", fmt.Sprintf("fadeout %d must be between 0 and duration %d", c.Fadeout, c.Duration), nil)
	case math.IsNaN(c.Pan) || math.IsInf(c.Pan, 0):
		return Wrap(ErrUsage, noTrack, "config", "pan must be a finite number", nil)
	}
	return nil
}

// DurationMillis is the playback position at which a track is finished.
func (c Config) DurationMillis() int {
	return c.Duration * 1000
}

// FadeStartMillis is the playback position at which the fade-out begins.
func (c Config) FadeStartMillis() int {
	return (c.Duration - c.Fadeout) * 1000
}

// FrameBudget is the maximum number of frames written for one track.
func (c Config) FrameBudget() int64 {
	return int64(c.Duration) * int64(c.SampleRate)
}

// TrackSet returns the track indexes to render, in order: the selected track
// alone, or every track in [0, count).
func TrackSet(selector, count int) []int {
	if selector != AllTracks {
		return []int{selector}
	}
	tracks := make([]int, 0, max(count, 0))
	for i := 0; i < count; i++ {
		tracks = append(tracks, i)
	}
	return tracks
}
