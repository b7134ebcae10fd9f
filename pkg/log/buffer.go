package log

import (
	"fmt"
	"io"
	"sync"
)

const defaultBufferCapacity = 100

// CircularBuffer is an [io.Writer] that keeps the most recent writes in
// memory. While the TUI owns the terminal, log output is captured here and
// flushed once the program exits.
type CircularBuffer struct {
	entries [][]byte
	next    int
	count   int
	dropped int
	mu      sync.Mutex
}

// NewCircularBuffer creates a [CircularBuffer] holding up to capacity
// entries. A non-positive capacity selects a default of 100.
func NewCircularBuffer(capacity int) *CircularBuffer {
	if capacity <= 0 {
		capacity = defaultBufferCapacity
	}

	return &CircularBuffer{entries: make([][]byte, capacity)}
}

// Write stores a copy of p as one entry, evicting the oldest entry when
// the buffer is full.
func (b *CircularBuffer) Write(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.entries[b.next] = append([]byte(nil), p...)
	b.next = (b.next + 1) % len(b.entries)

	if b.count == len(b.entries) {
		b.dropped++
	} else {
		b.count++
	}

	return len(p), nil
}

// Entries returns copies of the stored entries, oldest first.
func (b *CircularBuffer) Entries() [][]byte {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([][]byte, 0, b.count)

	start := (b.next - b.count + len(b.entries)) % len(b.entries)
	for i := range b.count {
		e := b.entries[(start+i)%len(b.entries)]
		out = append(out, append([]byte(nil), e...))
	}

	return out
}

// Size returns the number of stored entries.
func (b *CircularBuffer) Size() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.count
}

// Capacity returns the maximum number of stored entries.
func (b *CircularBuffer) Capacity() int {
	return len(b.entries)
}

// Dropped returns how many entries were evicted.
func (b *CircularBuffer) Dropped() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.dropped
}

// Reset discards all entries.
func (b *CircularBuffer) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()

	clear(b.entries)
	b.next, b.count, b.dropped = 0, 0, 0
}

// WriteTo writes the stored entries to w, oldest first.
func (b *CircularBuffer) WriteTo(w io.Writer) (int64, error) {
	var total int64

	for _, e := range b.Entries() {
		n, err := w.Write(e)
		total += int64(n)

		if err != nil {
			return total, fmt.Errorf("write entry: %w", err)
		}
	}

	return total, nil
}
