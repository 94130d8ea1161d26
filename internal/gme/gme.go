package gme

/*
#cgo pkg-config: libgme
#include <gme/gme.h>
#include <stdlib.h>
*/
import "C"

import (
	"errors"
	"fmt"
	"time"
	"unsafe"

	"blip/internal/media"
	"blip/internal/textutil"
)

// ErrClosed is returned by operations on an emulator after Close.
var ErrClosed = errors.New("gme: emulator closed")

// Emulator is one libgme Music_Emu instance loaded from an in-memory
// container. It is not safe for concurrent use.
type Emulator struct {
	emu  *C.Music_Emu
	data unsafe.Pointer

	track int
}

// Open loads a container from data and prepares an emulator that renders at
// sampleRate. The container bytes are copied into C memory owned by the
// emulator, so data may be reused once Open returns.
func Open(data []byte, sampleRate int) (*Emulator, error) {
	if len(data) == 0 {
		return nil, errors.New("gme: empty input")
	}
	if sampleRate <= 0 {
		return nil, fmt.Errorf("gme: invalid sample rate %d", sampleRate)
	}

	buf := C.CBytes(data)
	var emu *C.Music_Emu
	if err := gmeError(C.gme_open_data(buf, C.long(len(data)), &emu, C.int(sampleRate))); err != nil {
		C.free(buf)
		return nil, fmt.Errorf("gme: open: %w", err)
	}
	if emu == nil {
		C.free(buf)
		return nil, errors.New("gme: open returned no emulator")
	}

	return &Emulator{emu: emu, data: buf, track: -1}, nil
}

// TrackCount returns the number of tracks in the container.
func (e *Emulator) TrackCount() int {
	if e.emu == nil {
		return 0
	}
	return int(C.gme_track_count(e.emu))
}

// StartTrack resets playback to the start of track index.
func (e *Emulator) StartTrack(index int) error {
	if e.emu == nil {
		return ErrClosed
	}
	if count := e.TrackCount(); index < 0 || index >= count {
		return fmt.Errorf("gme: track %d out of range [0, %d)", index, count)
	}
	if err := gmeError(C.gme_start_track(e.emu, C.int(index))); err != nil {
		return fmt.Errorf("gme: start track %d: %w", index, err)
	}
	e.track = index
	return nil
}

// Seek moves the playback position of the current track to msec.
func (e *Emulator) Seek(msec int) error {
	if e.emu == nil {
		return ErrClosed
	}
	if err := gmeError(C.gme_seek(e.emu, C.int(msec))); err != nil {
		return fmt.Errorf("gme: seek %d ms: %w", msec, err)
	}
	return nil
}

// SetFade starts a fade-out at startMsec of the current track.
func (e *Emulator) SetFade(startMsec int) {
	if e.emu == nil {
		return
	}
	C.gme_set_fade(e.emu, C.int(startMsec))
}

// SetStereoDepth adjusts the emulator's stereo separation. 0 is the
// emulator's default.
func (e *Emulator) SetStereoDepth(depth float64) {
	if e.emu == nil {
		return
	}
	C.gme_set_stereo_depth(e.emu, C.double(depth))
}

// Tell returns the playback position of the current track in milliseconds.
func (e *Emulator) Tell() int {
	if e.emu == nil {
		return 0
	}
	return int(C.gme_tell(e.emu))
}

// Play fills samples with interleaved 16-bit stereo audio and returns the
// number of frames produced. libgme always fills the whole even-length
// prefix of the buffer.
func (e *Emulator) Play(samples []int16) (int, error) {
	if e.emu == nil {
		return 0, ErrClosed
	}
	if e.track < 0 {
		return 0, errors.New("gme: no track started")
	}
	count := len(samples) - len(samples)%media.Channels
	if count == 0 {
		return 0, nil
	}
	if err := gmeError(C.gme_play(e.emu, C.int(count), (*C.short)(unsafe.Pointer(&samples[0])))); err != nil {
		return 0, fmt.Errorf("gme: play: %w", err)
	}
	return count / media.Channels, nil
}

// Warning returns and clears the emulator's last non-fatal warning.
func (e *Emulator) Warning() string {
	if e.emu == nil {
		return ""
	}
	if w := C.gme_warning(e.emu); w != nil {
		return C.GoString(w)
	}
	return ""
}

// TrackInfo returns the descriptive fields of track index. Strings are
// decoded from the container's legacy encoding and normalized.
func (e *Emulator) TrackInfo(index int) (media.TrackInfo, error) {
	if e.emu == nil {
		return media.TrackInfo{}, ErrClosed
	}
	var info *C.gme_info_t
	if err := gmeError(C.gme_track_info(e.emu, &info, C.int(index))); err != nil {
		return media.TrackInfo{}, fmt.Errorf("gme: track info %d: %w", index, err)
	}
	if info == nil {
		return media.TrackInfo{}, fmt.Errorf("gme: track info %d: none", index)
	}
	defer C.gme_free_info(info)

	return media.TrackInfo{
		Index:      index,
		Title:      tag(info.song),
		Game:       tag(info.game),
		Author:     tag(info.author),
		Copyright:  tag(info.copyright),
		Comment:    tag(info.comment),
		System:     tag(info.system),
		Dumper:     tag(info.dumper),
		Length:     millis(info.length),
		PlayLength: millis(info.play_length),
	}, nil
}

// Close releases the emulator and the container bytes. It is safe to call
// more than once.
func (e *Emulator) Close() error {
	if e.emu != nil {
		C.gme_delete(e.emu)
		e.emu = nil
	}
	if e.data != nil {
		C.free(e.data)
		e.data = nil
	}
	e.track = -1
	return nil
}

func gmeError(err C.gme_err_t) error {
	if err == nil {
		return nil
	}
	return errors.New(C.GoString(err))
}

func tag(s *C.char) string {
	if s == nil {
		return ""
	}
	return textutil.NormalizeTag(C.GoString(s))
}

func millis(ms C.int) time.Duration {
	if ms <= 0 {
		return 0
	}
	return time.Duration(ms) * time.Millisecond
}
