package render

import (
	"fmt"
	"log/slog"

	"blip/internal/logging"
	"blip/internal/media"
)

// State is a TrackRenderer lifecycle state.
type State int

const (
	StateIdle State = iota
	StateConfigured
	StateDecoding
	StateFinished
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateConfigured:
		return "configured"
	case StateDecoding:
		return "decoding"
	case StateFinished:
		return "finished"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// maxEmptyPlays bounds consecutive Play calls that yield no frames and no
// position change before the decoder is considered stalled.
const maxEmptyPlays = 64

// TrackRenderer drives one decoder through a track at a time:
// Idle → Configured → Decoding → Finished, or Failed from any state.
type TrackRenderer struct {
	decoder  Decoder
	cfg      Config
	logger   *slog.Logger
	progress Progress

	chunk media.Chunk
	state State
}

// NewTrackRenderer builds a renderer for dec. A nil progress disables reporting.
func NewTrackRenderer(dec Decoder, cfg Config, logger *slog.Logger, progress Progress) *TrackRenderer {
	if progress == nil {
		progress = nopProgress{}
	}
	return &TrackRenderer{
		decoder:  dec,
		cfg:      cfg,
		logger:   logging.NewComponentLogger(logger, "renderer"),
		progress: progress,
		chunk:    media.NewChunk(media.ChunkFrames),
	}
}

// State returns the state reached by the most recent Render call.
func (r *TrackRenderer) State() State {
	return r.state
}

// Render plays track into consumer until the decoder position reaches the
// configured duration or the frame budget is spent. It returns the number of
// valid frames handed to consumer. Errors are tagged ErrDecode or ErrOutputIO
// and leave the renderer in StateFailed; no chunk is forwarded after a failure
// or after the track finishes.
func (r *TrackRenderer) Render(track int, consumer ChunkConsumer) (int64, error) {
	r.state = StateIdle
	if err := r.configure(track); err != nil {
		r.state = StateFailed
		return 0, err
	}
	r.state = StateConfigured

	budget := r.cfg.FrameBudget()
	r.progress.Start(track, budget)
	defer r.progress.Finish()

	r.state = StateDecoding
	var frames int64
	empty := 0
	for {
		pos := r.decoder.Tell()
		if pos >= r.cfg.DurationMillis() || frames >= budget {
			r.state = StateFinished
			r.logger.Debug("track finished",
				logging.Int(logging.FieldTrack, track),
				logging.Int("position_ms", pos),
				logging.Int64("frames", frames),
			)
			return frames, nil
		}

		r.chunk.Reset()
		n, err := r.decoder.Play(r.chunk.Samples)
		if err != nil {
			r.state = StateFailed
			return frames, Wrap(ErrDecode, track, "play", fmt.Sprintf("at %d ms", pos), err)
		}
		n = min(max(n, 0), r.chunk.Capacity())
		if remaining := budget - frames; int64(n) > remaining {
			n = int(remaining)
		}
		r.chunk.Frames = n

		if err := consumer.Consume(r.chunk); err != nil {
			r.state = StateFailed
			return frames, Wrap(ErrOutputIO, track, "write", "", err)
		}
		frames += int64(n)
		r.progress.Advance(n)

		if n == 0 && r.decoder.Tell() == pos {
			empty++
			if empty >= maxEmptyPlays {
				r.state = StateFailed
				return frames, Wrap(ErrDecode, track, "play", fmt.Sprintf("decoder stalled at %d ms", pos), nil)
			}
			continue
		}
		empty = 0
	}
}

func (r *TrackRenderer) configure(track int) error {
	if err := r.decoder.StartTrack(track); err != nil {
		return Wrap(ErrDecode, track, "start track", "", err)
	}
	if err := r.decoder.Seek(0); err != nil {
		return Wrap(ErrDecode, track, "seek", "", err)
	}
	r.decoder.SetFade(r.cfg.FadeStartMillis())
	r.decoder.SetStereoDepth(r.cfg.Pan)
	return nil
}
