package streambuf

import (
	"errors"
	"fmt"
	"io"
)

// InitialCapacity is the size of the first allocation made by ReadAll.
const InitialCapacity = 1024

// maxConsecutiveEmptyReads bounds how many (0, nil) reads are tolerated before
// the source is considered stuck.
const maxConsecutiveEmptyReads = 100

// Buffer holds an entire input stream in one contiguous allocation.
type Buffer struct {
	data []byte
	n    int
}

// ReadAll drains r into a Buffer. The allocation starts at InitialCapacity and
// doubles whenever it fills, so the total copy cost stays linear in the input
// size. io.EOF ends the stream; any other read error discards everything read
// so far and is returned wrapped with the offset reached.
func ReadAll(r io.Reader) (*Buffer, error) {
	if r == nil {
		return nil, errors.New("streambuf: nil reader")
	}

	b := &Buffer{data: make([]byte, InitialCapacity)}
	empty := 0
	for {
		if b.n == len(b.data) {
			b.grow()
		}

		nr, err := r.Read(b.data[b.n:])
		if nr < 0 || nr > len(b.data)-b.n {
			return nil, fmt.Errorf("read input at offset %d: invalid read count %d", b.n, nr)
		}
		b.n += nr

		switch {
		case errors.Is(err, io.EOF):
			return b, nil
		case err != nil:
			return nil, fmt.Errorf("read input at offset %d: %w", b.n, err)
		}

		if nr == 0 {
			empty++
			if empty >= maxConsecutiveEmptyReads {
				return nil, fmt.Errorf("read input at offset %d: %w", b.n, io.ErrNoProgress)
			}
			continue
		}
		empty = 0
	}
}

func (b *Buffer) grow() {
	grown := make([]byte, 2*len(b.data))
	copy(grown, b.data[:b.n])
	b.data = grown
}

// Bytes returns the valid portion of the buffer. The slice aliases the buffer
// and must be treated as read-only.
func (b *Buffer) Bytes() []byte {
	if b == nil {
		return nil
	}
	return b.data[:b.n]
}

// Len reports the number of valid bytes.
func (b *Buffer) Len() int {
	if b == nil {
		return 0
	}
	return b.n
}

// Cap reports the size of the current allocation.
func (b *Buffer) Cap() int {
	if b == nil {
		return 0
	}
	return len(b.data)
}

// Release drops the allocation. The buffer is empty afterwards.
func (b *Buffer) Release() {
	if b == nil {
		return
	}
	b.data = nil
	b.n = 0
}
