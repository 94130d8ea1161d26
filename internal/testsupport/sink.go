package testsupport

import (
	"blip/internal/media"
)

// RecordingSink captures everything a renderer sends to it.
type RecordingSink struct {
	Chunks   int
	Frames   int64
	Samples  []int16
	Capacity []int
	Metadata *media.TrackInfo
	Closed   int

	// ConsumeErrAfter fails Consume once this many chunks were accepted.
	// Negative disables the failure.
	ConsumeErrAfter int
	Err             error
}

// NewRecordingSink returns a sink that never fails.
func NewRecordingSink() *RecordingSink {
	return &RecordingSink{ConsumeErrAfter: -1}
}

func (s *RecordingSink) Consume(chunk media.Chunk) error {
	if s.ConsumeErrAfter >= 0 && s.Chunks >= s.ConsumeErrAfter {
		return s.Err
	}
	s.Chunks++
	s.Frames += int64(chunk.Frames)
	s.Capacity = append(s.Capacity, chunk.Capacity())
	s.Samples = append(s.Samples, chunk.Valid()...)
	return nil
}

func (s *RecordingSink) SetMetadata(info media.TrackInfo) {
	s.Metadata = &info
}

func (s *RecordingSink) Close() error {
	s.Closed++
	return nil
}
