package output

import (
	"strconv"
	"strings"
)

const (
	// Placeholder is replaced by the track index in output patterns.
	Placeholder = "%d"
	// StdoutSentinel selects standard output as the target.
	StdoutSentinel = "-"
)

// Target is the concrete destination for one track.
type Target struct {
	TrackIndex int
	Path       string
	Stdout     bool
}

// String returns the path, or "<stdout>" for the standard output target.
func (t Target) String() string {
	if t.Stdout {
		return "<stdout>"
	}
	return t.Path
}

// IsStdout reports whether pattern resolves to standard output.
func IsStdout(pattern string) bool {
	return isStream(pattern)
}

// IsStdin reports whether an input path selects standard input. The rules
// match IsStdout: empty or StdoutSentinel.
func IsStdin(path string) bool {
	return isStream(path)
}

func isStream(name string) bool {
	name = strings.TrimSpace(name)
	return name == "" || name == StdoutSentinel
}

// Resolve maps an output pattern and track index to a Target. A pattern
// containing Placeholder has every occurrence replaced by the index. Any other
// pattern is prefixed verbatim with "<index>-", directories included, so
// "out/song.wav" becomes "0-out/song.wav"; use Placeholder to keep tracks in
// one directory. An empty pattern or StdoutSentinel yields the stdout target.
func Resolve(pattern string, index int) Target {
	if IsStdout(pattern) {
		return Target{TrackIndex: index, Stdout: true}
	}

	idx := strconv.Itoa(index)
	if strings.Contains(pattern, Placeholder) {
		return Target{TrackIndex: index, Path: strings.ReplaceAll(pattern, Placeholder, idx)}
	}

	return Target{TrackIndex: index, Path: idx + "-" + pattern}
}
