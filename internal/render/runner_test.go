package render_test

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"
	"testing/iotest"

	"github.com/go-audio/wav"

	"blip/internal/output"
	"blip/internal/render"
	"blip/internal/testsupport"
)

type decoderFactory struct {
	dec   *testsupport.FakeDecoder
	err   error
	data  []byte
	rate  int
	calls int
}

func (f *decoderFactory) open(data []byte, sampleRate int) (render.Decoder, error) {
	f.calls++
	f.data = slices.Clone(data)
	f.rate = sampleRate
	if f.err != nil {
		return nil, f.err
	}
	return f.dec, nil
}

func TestRunnerPassesBufferedInputToDecoder(t *testing.T) {
	factory := &decoderFactory{dec: testsupport.NewFakeDecoder(testRate, 1)}
	sinks := newSinkFactory()
	runner := &render.Runner{OpenDecoder: factory.open, OpenSink: sinks.open}
	input := bytes.Repeat([]byte("NESM"), 700)

	summary, err := runner.Render(testConfig(), iotest.OneByteReader(bytes.NewReader(input)))
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	if summary.Rendered() != 1 {
		t.Fatalf("expected one rendered track, got %+v", summary)
	}
	if !bytes.Equal(factory.data, input) {
		t.Fatalf("decoder received %d bytes, want %d", len(factory.data), len(input))
	}
	if factory.rate != testRate {
		t.Fatalf("decoder opened at %d Hz, want %d", factory.rate, testRate)
	}
	if !factory.dec.Closed {
		t.Fatal("expected decoder closed after run")
	}
}

func TestRunnerInputFailure(t *testing.T) {
	factory := &decoderFactory{dec: testsupport.NewFakeDecoder(testRate, 1)}
	sinks := newSinkFactory()
	runner := &render.Runner{OpenDecoder: factory.open, OpenSink: sinks.open}
	cause := errors.New("device unplugged")

	_, err := runner.Render(testConfig(), iotest.ErrReader(cause))
	if !errors.Is(err, render.ErrInputIO) || !errors.Is(err, cause) {
		t.Fatalf("expected input error, got %v", err)
	}
	if factory.calls != 0 || len(sinks.targets) != 0 {
		t.Fatalf("expected no decoder or output, got calls=%d targets=%v", factory.calls, sinks.targets)
	}
}

func TestRunnerContainerFailure(t *testing.T) {
	cause := errors.New("wrong file type")
	factory := &decoderFactory{err: cause}
	sinks := newSinkFactory()
	runner := &render.Runner{OpenDecoder: factory.open, OpenSink: sinks.open}

	_, err := runner.Render(testConfig(), bytes.NewReader([]byte("garbage")))
	if !errors.Is(err, render.ErrContainerOpen) || !errors.Is(err, cause) {
		t.Fatalf("expected container error, got %v", err)
	}
	if len(sinks.targets) != 0 {
		t.Fatalf("expected no outputs, got %v", sinks.targets)
	}
}

func TestRunnerRejectsInvalidConfig(t *testing.T) {
	factory := &decoderFactory{dec: testsupport.NewFakeDecoder(testRate, 1)}
	runner := &render.Runner{OpenDecoder: factory.open, OpenSink: newSinkFactory().open}
	cfg := testConfig()
	cfg.Fadeout = cfg.Duration + 1

	if _, err := runner.Render(cfg, bytes.NewReader(nil)); !errors.Is(err, render.ErrUsage) {
		t.Fatalf("expected usage error, got %v", err)
	}
	if factory.calls != 0 {
		t.Fatalf("expected decoder untouched, got %d calls", factory.calls)
	}
}

func TestRunnerList(t *testing.T) {
	dec := testsupport.NewFakeDecoder(testRate, 3)
	dec.InfoErr = map[int]error{1: errors.New("no info")}
	factory := &decoderFactory{dec: dec}
	runner := &render.Runner{OpenDecoder: factory.open}

	infos, err := runner.List(testConfig(), bytes.NewReader([]byte("data")))
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(infos) != 3 {
		t.Fatalf("expected 3 tracks, got %d", len(infos))
	}
	if infos[0].Title != "Song 0" || infos[2].Title != "Song 2" {
		t.Fatalf("unexpected titles %+v", infos)
	}
	if infos[1].Index != 1 || infos[1].Title != "" {
		t.Fatalf("expected bare entry for track 1, got %+v", infos[1])
	}
	if !dec.Closed {
		t.Fatal("expected decoder closed after listing")
	}
}

func TestRunnerWritesWAVFiles(t *testing.T) {
	dir := t.TempDir()
	dec := testsupport.NewFakeDecoder(testRate, 3)
	runner := &render.Runner{
		OpenDecoder: (&decoderFactory{dec: dec}).open,
		OpenSink:    render.WAVSinks(output.NewOpener()),
	}
	cfg := testConfig()
	cfg.Output = filepath.Join(dir, "%d-song.wav")

	summary, err := runner.Render(cfg, bytes.NewReader([]byte("data")))
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	if summary.Rendered() != 3 {
		t.Fatalf("expected 3 rendered tracks, got %+v", summary.Tracks)
	}

	files := testsupport.ListFiles(t, dir)
	want := []string{"0-song.wav", "1-song.wav", "2-song.wav"}
	if !slices.Equal(files, want) {
		t.Fatalf("expected files %v, got %v", want, files)
	}

	for track, name := range want {
		path := filepath.Join(dir, name)
		f, err := os.Open(path)
		if err != nil {
			t.Fatalf("open %s: %v", name, err)
		}
		d := wav.NewDecoder(f)
		if !d.IsValidFile() {
			_ = f.Close()
			t.Fatalf("%s is not a valid WAV file", name)
		}
		buf, err := d.FullPCMBuffer()
		_ = f.Close()
		if err != nil {
			t.Fatalf("decode %s: %v", name, err)
		}
		if int(d.SampleRate) != testRate || d.NumChans != 2 || d.BitDepth != 16 {
			t.Fatalf("%s: unexpected format %d Hz %d ch %d bit", name, d.SampleRate, d.NumChans, d.BitDepth)
		}
		if frames := int64(buf.NumFrames()); frames != cfg.FrameBudget() {
			t.Fatalf("%s: expected %d frames, got %d", name, cfg.FrameBudget(), frames)
		}
		if buf.Data[0] != 100*(track+1) {
			t.Fatalf("%s: unexpected first sample %d", name, buf.Data[0])
		}
		if dec.Fades[track] != 8000 {
			t.Fatalf("track %d: expected fade start 8000 ms, got %d", track, dec.Fades[track])
		}

		raw, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("read %s: %v", name, err)
		}
		if !bytes.Contains(raw, []byte("INAM")) || !bytes.Contains(raw, []byte(dec.Tracks[track].Title)) {
			t.Fatalf("%s: title metadata missing", name)
		}
	}
}

func TestRunnerWritesSelectedTrackOnly(t *testing.T) {
	dir := t.TempDir()
	runner := &render.Runner{
		OpenDecoder: (&decoderFactory{dec: testsupport.NewFakeDecoder(testRate, 3)}).open,
		OpenSink:    render.WAVSinks(output.NewOpener()),
	}
	cfg := testConfig()
	cfg.Track = 1
	cfg.Duration = 1
	cfg.Fadeout = 0
	cfg.Output = filepath.Join(dir, "%d-song.wav")

	if _, err := runner.Render(cfg, bytes.NewReader([]byte("data"))); err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	if files := testsupport.ListFiles(t, dir); !slices.Equal(files, []string{"1-song.wav"}) {
		t.Fatalf("expected only 1-song.wav, got %v", files)
	}
}

func TestRunnerPrefixesPlainPattern(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	runner := &render.Runner{
		OpenDecoder: (&decoderFactory{dec: testsupport.NewFakeDecoder(testRate, 2)}).open,
		OpenSink:    render.WAVSinks(output.NewOpener()),
	}
	cfg := testConfig()
	cfg.Duration = 1
	cfg.Fadeout = 0
	cfg.Output = "song.wav"

	summary, err := runner.Render(cfg, bytes.NewReader([]byte("data")))
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	if summary.Rendered() != 2 {
		t.Fatalf("expected 2 rendered tracks, got %+v", summary.Tracks)
	}
	if files := testsupport.ListFiles(t, dir); !slices.Equal(files, []string{"0-song.wav", "1-song.wav"}) {
		t.Fatalf("expected 0-song.wav and 1-song.wav, got %v", files)
	}
}
