package render_test

import (
	"errors"
	"testing"

	"blip/internal/media"
	"blip/internal/render"
	"blip/internal/testsupport"
)

const testRate = 8000

func testConfig() render.Config {
	return render.Config{
		Track:      render.AllTracks,
		SampleRate: testRate,
		Duration:   10,
		Fadeout:    2,
		Pan:        0.7,
		Output:     "song.wav",
	}
}

func TestTrackRendererConfiguresTransport(t *testing.T) {
	dec := testsupport.NewFakeDecoder(testRate, 3)
	sink := testsupport.NewRecordingSink()

	r := render.NewTrackRenderer(dec, testConfig(), nil, nil)
	if _, err := r.Render(2, sink); err != nil {
		t.Fatalf("Render returned error: %v", err)
	}

	if len(dec.Started) != 1 || dec.Started[0] != 2 {
		t.Fatalf("expected track 2 started once, got %v", dec.Started)
	}
	if dec.Fades[2] != 8000 {
		t.Fatalf("expected fade at 8000 ms, got %d", dec.Fades[2])
	}
	if dec.Depths[2] != 0.7 {
		t.Fatalf("expected stereo depth 0.7, got %v", dec.Depths[2])
	}
}

func TestTrackRendererStopsAtDuration(t *testing.T) {
	dec := testsupport.NewFakeDecoder(testRate, 1)
	sink := testsupport.NewRecordingSink()
	cfg := testConfig()

	r := render.NewTrackRenderer(dec, cfg, nil, nil)
	frames, err := r.Render(0, sink)
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	if r.State() != render.StateFinished {
		t.Fatalf("expected finished state, got %s", r.State())
	}

	budget := cfg.FrameBudget()
	if frames != budget || sink.Frames != budget {
		t.Fatalf("expected %d frames, got renderer=%d sink=%d", budget, frames, sink.Frames)
	}
	wantChunks := int((budget + media.ChunkFrames - 1) / media.ChunkFrames)
	if sink.Chunks != wantChunks {
		t.Fatalf("expected %d chunks, got %d", wantChunks, sink.Chunks)
	}
	if dec.Tell() < cfg.DurationMillis() {
		t.Fatalf("expected position >= %d ms, got %d", cfg.DurationMillis(), dec.Tell())
	}
	for i, c := range sink.Capacity {
		if c != media.ChunkFrames {
			t.Fatalf("chunk %d: expected capacity %d, got %d", i, media.ChunkFrames, c)
		}
	}
	for i, s := range sink.Samples {
		if s != 100 {
			t.Fatalf("sample %d: expected 100, got %d", i, s)
		}
	}
}

type positionCheckingSink struct {
	*testsupport.RecordingSink
	dec      *testsupport.FakeDecoder
	limitMS  int
	lastSeen int
	late     int
}

func (s *positionCheckingSink) Consume(chunk media.Chunk) error {
	if s.lastSeen >= s.limitMS {
		s.late++
	}
	s.lastSeen = s.dec.Tell()
	return s.RecordingSink.Consume(chunk)
}

func TestTrackRendererNeverForwardsAfterDuration(t *testing.T) {
	dec := testsupport.NewFakeDecoder(testRate, 1)
	dec.FramesPerPlay = 700
	cfg := testConfig()
	sink := &positionCheckingSink{RecordingSink: testsupport.NewRecordingSink(), dec: dec, limitMS: cfg.DurationMillis()}

	r := render.NewTrackRenderer(dec, cfg, nil, nil)
	if _, err := r.Render(0, sink); err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	if sink.late != 0 {
		t.Fatalf("expected no chunks after position reached duration, got %d", sink.late)
	}
	if sink.Frames != cfg.FrameBudget() {
		t.Fatalf("expected frame budget %d, got %d", cfg.FrameBudget(), sink.Frames)
	}
	chunks := sink.Chunks
	sink.lastSeen = 0
	if _, err := r.Render(0, sink); err != nil {
		t.Fatalf("second Render returned error: %v", err)
	}
	if sink.Chunks != 2*chunks {
		t.Fatalf("expected restarted track to produce %d more chunks, got %d", chunks, sink.Chunks-chunks)
	}
}

func TestTrackRendererForwardsShortChunksWithFullCapacity(t *testing.T) {
	dec := testsupport.NewFakeDecoder(testRate, 1)
	dec.FramesPerPlay = 1000
	sink := testsupport.NewRecordingSink()

	r := render.NewTrackRenderer(dec, testConfig(), nil, nil)
	if _, err := r.Render(0, sink); err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	if sink.Chunks != 80 {
		t.Fatalf("expected 80 chunks of 1000 frames, got %d", sink.Chunks)
	}
	for i, c := range sink.Capacity {
		if c != media.ChunkFrames {
			t.Fatalf("chunk %d: expected capacity %d, got %d", i, media.ChunkFrames, c)
		}
	}
}

func TestTrackRendererStartFailure(t *testing.T) {
	boom := errors.New("bad track")
	dec := testsupport.NewFakeDecoder(testRate, 1)
	dec.StartErr = map[int]error{0: boom}
	sink := testsupport.NewRecordingSink()

	r := render.NewTrackRenderer(dec, testConfig(), nil, nil)
	_, err := r.Render(0, sink)
	if !errors.Is(err, render.ErrDecode) || !errors.Is(err, boom) {
		t.Fatalf("expected decode error wrapping cause, got %v", err)
	}
	if r.State() != render.StateFailed {
		t.Fatalf("expected failed state, got %s", r.State())
	}
	if sink.Chunks != 0 {
		t.Fatalf("expected no chunks, got %d", sink.Chunks)
	}
}

func TestTrackRendererPlayFailureStopsForwarding(t *testing.T) {
	dec := testsupport.NewFakeDecoder(testRate, 1)
	dec.PlayErrAfter = map[int]int{0: 3}
	sink := testsupport.NewRecordingSink()

	r := render.NewTrackRenderer(dec, testConfig(), nil, nil)
	frames, err := r.Render(0, sink)
	if !errors.Is(err, render.ErrDecode) {
		t.Fatalf("expected decode error, got %v", err)
	}
	if sink.Chunks != 3 || frames != 3*media.ChunkFrames {
		t.Fatalf("expected 3 chunks before failure, got %d chunks / %d frames", sink.Chunks, frames)
	}
	if r.State() != render.StateFailed {
		t.Fatalf("expected failed state, got %s", r.State())
	}
}

func TestTrackRendererConsumerFailure(t *testing.T) {
	dec := testsupport.NewFakeDecoder(testRate, 1)
	sink := testsupport.NewRecordingSink()
	sink.ConsumeErrAfter = 1
	sink.Err = errors.New("disk full")

	r := render.NewTrackRenderer(dec, testConfig(), nil, nil)
	_, err := r.Render(0, sink)
	if !errors.Is(err, render.ErrOutputIO) || !errors.Is(err, sink.Err) {
		t.Fatalf("expected output error wrapping cause, got %v", err)
	}
	if sink.Chunks != 1 {
		t.Fatalf("expected 1 accepted chunk, got %d", sink.Chunks)
	}
}

type stalledDecoder struct {
	*testsupport.FakeDecoder
}

func (stalledDecoder) Play([]int16) (int, error) { return 0, nil }

func TestTrackRendererStalledDecoder(t *testing.T) {
	dec := stalledDecoder{testsupport.NewFakeDecoder(testRate, 1)}
	r := render.NewTrackRenderer(dec, testConfig(), nil, nil)
	_, err := r.Render(0, testsupport.NewRecordingSink())
	if !errors.Is(err, render.ErrDecode) {
		t.Fatalf("expected decode error for stalled decoder, got %v", err)
	}
}

type countingProgress struct {
	started  int
	total    int64
	advanced int64
	finished int
}

func (p *countingProgress) Start(_ int, total int64) { p.started++; p.total = total }
func (p *countingProgress) Advance(n int)            { p.advanced += int64(n) }
func (p *countingProgress) Finish()                  { p.finished++ }

func TestTrackRendererReportsProgress(t *testing.T) {
	dec := testsupport.NewFakeDecoder(testRate, 1)
	progress := &countingProgress{}
	cfg := testConfig()

	r := render.NewTrackRenderer(dec, cfg, nil, progress)
	if _, err := r.Render(0, testsupport.NewRecordingSink()); err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	if progress.started != 1 || progress.finished != 1 {
		t.Fatalf("expected one start and finish, got %+v", progress)
	}
	if progress.total != cfg.FrameBudget() || progress.advanced != cfg.FrameBudget() {
		t.Fatalf("unexpected progress totals %+v", progress)
	}
}

func TestStateString(t *testing.T) {
	if render.StateFinished.String() != "finished" || render.StateFailed.String() != "failed" {
		t.Fatal("unexpected state labels")
	}
	if render.State(42).String() != "state(42)" {
		t.Fatalf("unexpected label for unknown state: %s", render.State(42))
	}
}
