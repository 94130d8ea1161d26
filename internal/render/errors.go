package render

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Error markers. Every error produced by this package wraps exactly one of
// them so callers can classify failures with errors.Is.
var (
	ErrUsage         = errors.New("usage error")
	ErrInputIO       = errors.New("input error")
	ErrContainerOpen = errors.New("container open error")
	ErrOutputIO      = errors.New("output error")
	ErrDecode        = errors.New("decode error")
)

// noTrack marks errors that are not tied to a single track.
const noTrack = -1

// Wrap builds an error message that includes track and operation context
// while tagging it with marker. The result matches both marker and err under
// errors.Is. Pass a negative track for run-level errors.
func Wrap(marker error, track int, operation, message string, err error) error {
	detail := buildDetail(track, operation, message)
	if marker == nil {
		marker = ErrDecode
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// IsTrackLocal reports whether err only affects the track it occurred on.
// Such errors are recorded and the batch continues.
func IsTrackLocal(err error) bool {
	return errors.Is(err, ErrOutputIO) || errors.Is(err, ErrDecode)
}

func buildDetail(track int, operation, message string) string {
	parts := make([]string, 0, 3)
	if track >= 0 {
		parts = append(parts, "track "+strconv.Itoa(track))
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "render failure"
	}
	return strings.Join(parts, ": ")
}
