package fileutil

import (
	"fmt"
	"io"
	"os"
)

// StreamFile rewinds src and copies its full contents to dst. It returns the
// number of bytes written.
func StreamFile(src *os.File, dst io.Writer) (int64, error) {
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return 0, fmt.Errorf("rewind %s: %w", src.Name(), err)
	}
	written, err := io.Copy(dst, src)
	if err != nil {
		return written, err
	}

	info, err := src.Stat()
	if err != nil {
		return written, fmt.Errorf("stat source: %w", err)
	}
	if written != info.Size() {
		return written, fmt.Errorf("copy size mismatch: source %d bytes, copied %d bytes", info.Size(), written)
	}
	return written, nil
}
