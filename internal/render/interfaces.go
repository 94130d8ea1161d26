package render

import (
	"blip/internal/media"
	"blip/internal/output"
)

// Decoder is the playback engine for one opened container. Positions are in
// milliseconds from the start of the current track.
type Decoder interface {
	TrackCount() int
	StartTrack(index int) error
	Seek(msec int) error
	SetFade(startMsec int)
	SetStereoDepth(depth float64)
	Tell() int
	// Play fills samples with interleaved stereo data and returns the number
	// of valid frames.
	Play(samples []int16) (int, error)
	TrackInfo(index int) (media.TrackInfo, error)
	Close() error
}

// DecoderOpener opens a decoder over an in-memory container image.
type DecoderOpener func(data []byte, sampleRate int) (Decoder, error)

// ChunkConsumer receives every chunk a TrackRenderer produces. The chunk's
// sample buffer is reused after Consume returns.
type ChunkConsumer interface {
	Consume(chunk media.Chunk) error
}

// Sink is a per-track output destination.
type Sink interface {
	ChunkConsumer
	SetMetadata(info media.TrackInfo)
	Close() error
}

// SinkOpener opens the sink for one resolved target.
type SinkOpener func(target output.Target, sampleRate int) (Sink, error)

// Progress observes a track render. Implementations must tolerate Finish
// without a prior Start.
type Progress interface {
	Start(track int, totalFrames int64)
	Advance(frames int)
	Finish()
}

type nopProgress struct{}

func (nopProgress) Start(int, int64) {}
func (nopProgress) Advance(int)      {}
func (nopProgress) Finish()          {}

// WAVSinks adapts an output.Opener to a SinkOpener.
func WAVSinks(opener *output.Opener) SinkOpener {
	return func(target output.Target, sampleRate int) (Sink, error) {
		sink, err := opener.Open(target, sampleRate)
		if err != nil {
			return nil, err
		}
		return sink, nil
	}
}
