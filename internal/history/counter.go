package history

import "sync/atomic"

// Counter reports the number of lines read so far.
// Implementations must never decrease.
type Counter interface {
	Current() int64
}

// LineCounter is the monotonic lines-read counter owned by the reader.
//
// Thread-safety: LineCounter is safe for concurrent use (atomic operations),
// though playback advances it from a single goroutine.
type LineCounter struct {
	n atomic.Int64
}

// NewLineCounter creates a counter starting at 0.
func NewLineCounter() *LineCounter {
	return &LineCounter{}
}

// NewLineCounterAt creates a counter starting at a specific line count.
// Used when restoring a save.
func NewLineCounterAt(start int64) *LineCounter {
	c := &LineCounter{}
	c.n.Store(start)
	return c
}

// Advance increments the counter and returns the new value.
func (c *LineCounter) Advance() int64 {
	return c.n.Add(1)
}

// Current returns the current line count without incrementing.
func (c *LineCounter) Current() int64 {
	return c.n.Load()
}
