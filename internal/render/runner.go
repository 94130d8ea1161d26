package render

import (
	"errors"
	"io"
	"log/slog"

	"github.com/dustin/go-humanize"

	"blip/internal/logging"
	"blip/internal/media"
	"blip/internal/streambuf"
)

// Runner executes a whole run: buffer the input, open the decoder over it,
// render, and release both.
type Runner struct {
	OpenDecoder DecoderOpener
	OpenSink    SinkOpener
	Logger      *slog.Logger
	Progress    Progress
}

// Render buffers input, opens it, and renders the tracks selected by cfg.
// Input and container failures abort the run before any output is created.
func (r *Runner) Render(cfg Config, input io.Reader) (Summary, error) {
	if err := cfg.Validate(); err != nil {
		return Summary{}, err
	}
	if r.OpenSink == nil {
		return Summary{}, errors.New("render: sink opener not configured")
	}

	dec, release, err := r.open(cfg, input)
	if err != nil {
		return Summary{}, err
	}
	defer release()

	return NewOrchestrator(dec, r.OpenSink, cfg, r.Logger, r.Progress).Run()
}

// List buffers input, opens it, and returns the info of every track.
// Tracks whose info cannot be read are returned with only Index set.
func (r *Runner) List(cfg Config, input io.Reader) ([]media.TrackInfo, error) {
	if cfg.SampleRate <= 0 {
		return nil, Wrap(ErrUsage, noTrack, "config", "sample rate must be positive", nil)
	}
	dec, release, err := r.open(cfg, input)
	if err != nil {
		return nil, err
	}
	defer release()

	logger := r.logger()
	count := dec.TrackCount()
	infos := make([]media.TrackInfo, 0, count)
	for i := 0; i < count; i++ {
		info, err := dec.TrackInfo(i)
		if err != nil {
			logger.Warn("track metadata unavailable", logging.Int(logging.FieldTrack, i), logging.Error(err))
			info = media.TrackInfo{}
		}
		info.Index = i
		infos = append(infos, info)
	}
	return infos, nil
}

func (r *Runner) open(cfg Config, input io.Reader) (Decoder, func(), error) {
	if r.OpenDecoder == nil {
		return nil, nil, errors.New("render: decoder opener not configured")
	}
	logger := r.logger()

	buf, err := streambuf.ReadAll(input)
	if err != nil {
		return nil, nil, Wrap(ErrInputIO, noTrack, "buffer input", "", err)
	}
	logger.Info("input buffered",
		logging.String("input_size", humanize.IBytes(uint64(buf.Len()))),
		logging.String("buffer_size", humanize.IBytes(uint64(buf.Cap()))),
	)

	dec, err := r.OpenDecoder(buf.Bytes(), cfg.SampleRate)
	if err != nil {
		buf.Release()
		return nil, nil, Wrap(ErrContainerOpen, noTrack, "open container", "", err)
	}
	logger.Info("container opened", logging.Int("track_count", dec.TrackCount()))

	release := func() {
		if err := dec.Close(); err != nil {
			logger.Warn("decoder close failed", logging.Error(err))
		}
		buf.Release()
	}
	return dec, release, nil
}

func (r *Runner) logger() *slog.Logger {
	return logging.NewComponentLogger(r.Logger, "runner")
}
