package testsupport

import (
	"errors"
	"fmt"

	"blip/internal/media"
)

// FakeDecoder is a scripted stand-in for the libgme decoder. Each Play call
// fills the whole buffer with a per-track constant and advances the playback
// position by the number of frames produced.
type FakeDecoder struct {
	SampleRate int
	Tracks     []media.TrackInfo

	// StartErr fails StartTrack for the given track indexes.
	StartErr map[int]error
	// PlayErrAfter fails the Play call after the given number of successful
	// calls on that track.
	PlayErrAfter map[int]int
	// InfoErr fails TrackInfo for the given track indexes.
	InfoErr map[int]error
	// FramesPerPlay caps the frames reported valid per Play. Zero means the
	// full buffer.
	FramesPerPlay int

	Started []int
	Fades   map[int]int
	Depths  map[int]float64
	Closed  bool

	current int
	frames  int64
	plays   int
}

// NewFakeDecoder returns a decoder with n tracks titled "Song <i>".
func NewFakeDecoder(sampleRate, n int) *FakeDecoder {
	tracks := make([]media.TrackInfo, n)
	for i := range tracks {
		tracks[i] = media.TrackInfo{
			Index:     i,
			Title:     fmt.Sprintf("Song %d", i),
			Game:      "Test Game",
			Author:    "Test Composer",
			Copyright: "2026 Test",
			Comment:   "fixture",
		}
	}
	return &FakeDecoder{
		SampleRate: sampleRate,
		Tracks:     tracks,
		Fades:      map[int]int{},
		Depths:     map[int]float64{},
		current:    -1,
	}
}

func (d *FakeDecoder) TrackCount() int { return len(d.Tracks) }

func (d *FakeDecoder) StartTrack(index int) error {
	if err := d.StartErr[index]; err != nil {
		return err
	}
	if index < 0 || index >= len(d.Tracks) {
		return errors.New("invalid track")
	}
	d.current = index
	d.frames = 0
	d.plays = 0
	d.Started = append(d.Started, index)
	return nil
}

func (d *FakeDecoder) Seek(msec int) error {
	if d.current < 0 {
		return errors.New("no track started")
	}
	d.frames = int64(msec) * int64(d.SampleRate) / 1000
	return nil
}

func (d *FakeDecoder) SetFade(startMsec int) { d.Fades[d.current] = startMsec }

func (d *FakeDecoder) SetStereoDepth(depth float64) { d.Depths[d.current] = depth }

func (d *FakeDecoder) Tell() int {
	return int(d.frames * 1000 / int64(d.SampleRate))
}

func (d *FakeDecoder) Play(samples []int16) (int, error) {
	if d.current < 0 {
		return 0, errors.New("no track started")
	}
	if limit, ok := d.PlayErrAfter[d.current]; ok && d.plays >= limit {
		return 0, errors.New("emulation error")
	}
	d.plays++
	value := int16(100 * (d.current + 1))
	for i := range samples {
		samples[i] = value
	}
	n := len(samples) / media.Channels
	if d.FramesPerPlay > 0 && d.FramesPerPlay < n {
		n = d.FramesPerPlay
	}
	d.frames += int64(n)
	return n, nil
}

func (d *FakeDecoder) TrackInfo(index int) (media.TrackInfo, error) {
	if err := d.InfoErr[index]; err != nil {
		return media.TrackInfo{}, err
	}
	if index < 0 || index >= len(d.Tracks) {
		return media.TrackInfo{}, errors.New("invalid track")
	}
	return d.Tracks[index], nil
}

func (d *FakeDecoder) Close() error {
	d.Closed = true
	return nil
}
