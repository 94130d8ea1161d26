package render

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"blip/internal/logging"
	"blip/internal/output"
)

// TrackResult records the outcome of one track.
type TrackResult struct {
	Track  int
	Path   string
	State  State
	Frames int64
	Err    error
}

// Summary collects the results of a run in track order.
type Summary struct {
	Tracks []TrackResult
}

// Rendered counts tracks that reached StateFinished without errors.
func (s Summary) Rendered() int {
	n := 0
	for _, t := range s.Tracks {
		if t.State == StateFinished && t.Err == nil {
			n++
		}
	}
	return n
}

// Failed counts tracks with an error.
func (s Summary) Failed() int {
	n := 0
	for _, t := range s.Tracks {
		if t.Err != nil {
			n++
		}
	}
	return n
}

// Orchestrator renders the selected tracks of one decoder into per-track sinks.
type Orchestrator struct {
	decoder  Decoder
	openSink SinkOpener
	cfg      Config
	logger   *slog.Logger
	progress Progress
}

// NewOrchestrator wires a decoder and sink opener under cfg.
func NewOrchestrator(dec Decoder, openSink SinkOpener, cfg Config, logger *slog.Logger, progress Progress) *Orchestrator {
	return &Orchestrator{
		decoder:  dec,
		openSink: openSink,
		cfg:      cfg,
		logger:   logging.NewComponentLogger(logger, "render"),
		progress: progress,
	}
}

// Run renders every track in the track set sequentially. Failures opening or
// writing one track are recorded in the Summary and never stop the batch; the
// returned error is reserved for problems that prevent any rendering.
func (o *Orchestrator) Run() (Summary, error) {
	tracks := TrackSet(o.cfg.Track, o.decoder.TrackCount())
	if len(tracks) > 1 && output.IsStdout(o.cfg.Output) {
		return Summary{}, Wrap(ErrUsage, noTrack, "resolve output",
			fmt.Sprintf("%d tracks cannot share standard output; pass --track or an --output pattern", len(tracks)), nil)
	}
	if len(tracks) == 0 {
		o.logger.Warn("container has no tracks")
		return Summary{}, nil
	}

	o.logger.Info("rendering tracks",
		logging.Int("tracks", len(tracks)),
		logging.Int("sample_rate", o.cfg.SampleRate),
		logging.Duration("duration", time.Duration(o.cfg.Duration)*time.Second),
		logging.Duration("fadeout", time.Duration(o.cfg.Fadeout)*time.Second),
		logging.Float64("pan", o.cfg.Pan),
		logging.Bool("stdout", output.IsStdout(o.cfg.Output)),
	)

	renderer := NewTrackRenderer(o.decoder, o.cfg, o.logger, o.progress)
	summary := Summary{Tracks: make([]TrackResult, 0, len(tracks))}
	for _, index := range tracks {
		summary.Tracks = append(summary.Tracks, o.renderTrack(renderer, index))
	}
	return summary, nil
}

func (o *Orchestrator) renderTrack(renderer *TrackRenderer, index int) (result TrackResult) {
	target := output.Resolve(o.cfg.Output, index)
	result = TrackResult{Track: index, Path: target.String(), State: StateIdle}
	logger := o.logger.With(logging.Int(logging.FieldTrack, index), logging.String(logging.FieldPath, target.String()))

	sink, err := o.openSink(target, o.cfg.SampleRate)
	if err != nil {
		result.State = StateFailed
		result.Err = Wrap(ErrOutputIO, index, "open output", target.String(), err)
		logger.Error("unable to open output", logging.Error(err))
		return result
	}
	defer func() {
		if err := sink.Close(); err != nil {
			result.State = StateFailed
			result.Err = errors.Join(result.Err, Wrap(ErrOutputIO, index, "close output", target.String(), err))
			logger.Error("unable to finalize output", logging.Error(err))
			return
		}
		if result.Err == nil {
			logger.Info("track rendered", logging.Int64("frames", result.Frames))
		}
	}()

	frames, err := renderer.Render(index, sink)
	result.Frames = frames
	result.State = renderer.State()
	result.Err = err
	if err != nil {
		logger.Error("track render failed", logging.String("state", result.State.String()), logging.Int64("frames", frames), logging.Error(err))
	}

	o.copyMetadata(index, sink, logger)
	return result
}

func (o *Orchestrator) copyMetadata(index int, sink Sink, logger *slog.Logger) {
	info, err := o.decoder.TrackInfo(index)
	if err != nil {
		logger.Warn("track metadata unavailable", logging.Error(err))
		return
	}
	sink.SetMetadata(info)
	logger.Debug("metadata copied",
		logging.String("title", info.Title),
		logging.String("game", info.Game),
		logging.String("author", info.Author),
	)
}
