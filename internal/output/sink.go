package output

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/gofrs/flock"
	"github.com/mattn/go-isatty"

	"blip/internal/fileutil"
	"blip/internal/logging"
	"blip/internal/media"
)

const wavFormatPCM = 1

// ErrTerminalOutput is returned when audio would be written to an interactive terminal.
var ErrTerminalOutput = errors.New("refusing to write audio to a terminal; use --output")

// Opener creates WAV sinks for resolved targets.
type Opener struct {
	stdout        *os.File
	spoolDir      string
	allowTerminal bool
	logger        *slog.Logger
}

// Option customizes an Opener.
type Option func(*Opener)

// WithStdout replaces the file used for the stdout target.
func WithStdout(f *os.File) Option {
	return func(o *Opener) {
		o.stdout = f
	}
}

// WithSpoolDir sets the directory for the temporary file that backs stdout output.
func WithSpoolDir(dir string) Option {
	return func(o *Opener) {
		o.spoolDir = dir
	}
}

// WithTerminalOutput allows the stdout target even when it is a terminal.
func WithTerminalOutput(allow bool) Option {
	return func(o *Opener) {
		o.allowTerminal = allow
	}
}

// WithLogger sets the logger used for sink lifecycle messages.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Opener) {
		o.logger = logger
	}
}

// NewOpener constructs an Opener that writes stdout targets to os.Stdout.
func NewOpener(opts ...Option) *Opener {
	o := &Opener{stdout: os.Stdout}
	for _, opt := range opts {
		opt(o)
	}
	o.logger = logging.NewComponentLogger(o.logger, "output")
	return o
}

// Open prepares a 16-bit stereo WAV sink at the target. File targets are
// created (or truncated) and held under an exclusive advisory lock until the
// sink is closed. The stdout target is spooled to a temporary file because
// the WAV header is finalized by seeking back once the length is known.
func (o *Opener) Open(target Target, sampleRate int) (*WAVSink, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("open %s: invalid sample rate %d", target, sampleRate)
	}
	if target.Stdout {
		return o.openStdout(target, sampleRate)
	}
	return o.openFile(target, sampleRate)
}

func (o *Opener) openFile(target Target, sampleRate int) (*WAVSink, error) {
	file, err := os.OpenFile(target.Path, os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open output file %s: %w", target.Path, err)
	}

	lock := flock.New(target.Path)
	locked, err := lock.TryLock()
	if err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("lock output file %s: %w", target.Path, err)
	}
	if !locked {
		_ = file.Close()
		return nil, fmt.Errorf("lock output file %s: held by another process", target.Path)
	}

	if err := file.Truncate(0); err != nil {
		_ = lock.Unlock()
		_ = file.Close()
		return nil, fmt.Errorf("truncate output file %s: %w", target.Path, err)
	}

	o.logger.Debug("output opened", logging.String("path", target.Path), logging.Int("sample_rate", sampleRate))
	return newWAVSink(target, file, lock, nil, sampleRate, o.logger), nil
}

func (o *Opener) openStdout(target Target, sampleRate int) (*WAVSink, error) {
	if o.stdout == nil {
		return nil, errors.New("open stdout: no stdout file configured")
	}
	if !o.allowTerminal {
		fd := o.stdout.Fd()
		if isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd) {
			return nil, ErrTerminalOutput
		}
	}

	spool, err := os.CreateTemp(o.spoolDir, "blip-*.wav")
	if err != nil {
		return nil, fmt.Errorf("create stdout spool: %w", err)
	}

	o.logger.Debug("output opened", logging.String("path", target.String()), logging.String("spool", spool.Name()))
	return newWAVSink(target, spool, nil, o.stdout, sampleRate, o.logger), nil
}

// WAVSink writes rendered chunks to a WAV file and embeds track metadata in
// its LIST/INFO chunk.
type WAVSink struct {
	target Target
	file   *os.File
	lock   *flock.Flock
	stdout io.Writer
	logger *slog.Logger

	enc    *wav.Encoder
	buf    *audio.IntBuffer
	frames int64
	closed bool
}

func newWAVSink(target Target, file *os.File, lock *flock.Flock, stdout io.Writer, sampleRate int, logger *slog.Logger) *WAVSink {
	return &WAVSink{
		target: target,
		file:   file,
		lock:   lock,
		stdout: stdout,
		logger: logger,
		enc:    wav.NewEncoder(file, sampleRate, media.BitDepth, media.Channels, wavFormatPCM),
		buf: &audio.IntBuffer{
			Format:         &audio.Format{NumChannels: media.Channels, SampleRate: sampleRate},
			Data:           make([]int, 0, media.ChunkFrames*media.Channels),
			SourceBitDepth: media.BitDepth,
		},
	}
}

// Consume writes the valid frames of chunk. Samples past chunk.Frames are
// never written.
func (s *WAVSink) Consume(chunk media.Chunk) error {
	if s.closed {
		return fmt.Errorf("write %s: sink closed", s.target)
	}
	samples := chunk.Valid()
	if len(samples) == 0 {
		return nil
	}

	data := s.buf.Data[:0]
	for _, v := range samples {
		data = append(data, int(v))
	}
	s.buf.Data = data

	if err := s.enc.Write(s.buf); err != nil {
		return fmt.Errorf("write %s: %w", s.target, err)
	}
	s.frames += int64(len(samples) / media.Channels)
	return nil
}

// SetMetadata records the INFO fields written when the sink is closed.
func (s *WAVSink) SetMetadata(info media.TrackInfo) {
	s.enc.Metadata = &wav.Metadata{
		Title:     info.Title,
		Product:   info.Game,
		Artist:    info.Author,
		Copyright: info.Copyright,
		Comments:  info.Comment,
		Software:  "blip",
	}
}

// Close finalizes the WAV header, flushes spooled stdout output, and releases
// the file and its lock. It is safe to call more than once.
func (s *WAVSink) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	var errs []error
	if s.frames == 0 {
		// The encoder only emits the RIFF header on the first write.
		if err := s.enc.Write(&audio.IntBuffer{Format: s.buf.Format, SourceBitDepth: media.BitDepth}); err != nil {
			errs = append(errs, fmt.Errorf("write header %s: %w", s.target, err))
		}
	}
	if err := s.enc.Close(); err != nil {
		errs = append(errs, fmt.Errorf("finalize %s: %w", s.target, err))
	}

	if s.stdout != nil {
		written, err := fileutil.StreamFile(s.file, s.stdout)
		if err != nil {
			errs = append(errs, fmt.Errorf("flush %s: %w", s.target, err))
		}
		s.logger.Debug("stdout flushed", logging.String("size", humanize.IBytes(uint64(written))))
	}

	if err := s.file.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close %s: %w", s.target, err))
	}
	if s.stdout != nil {
		if err := os.Remove(s.file.Name()); err != nil && !errors.Is(err, os.ErrNotExist) {
			errs = append(errs, fmt.Errorf("remove stdout spool: %w", err))
		}
	}
	if s.lock != nil {
		if err := s.lock.Unlock(); err != nil {
			errs = append(errs, fmt.Errorf("unlock %s: %w", s.target, err))
		}
	}

	s.logger.Debug("output closed", logging.String("path", s.target.String()), logging.Int64("frames", s.frames))
	return errors.Join(errs...)
}
