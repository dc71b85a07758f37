package testutil

import "sync"

// ManualCounter is a line counter whose value tests set directly.
//
// Tests use it to place log entries at exact line counts, e.g. "logged at
// line 10 and 15". It satisfies history.Counter.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type ManualCounter struct {
	mu sync.Mutex
	n  int64
}

// NewManualCounter creates a counter starting at start.
func NewManualCounter(start int64) *ManualCounter {
	return &ManualCounter{n: start}
}

// Current returns the current line count.
func (c *ManualCounter) Current() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.n
}

// Add moves the counter forward by delta and returns the new value.
// Panics on a negative delta: line counts never go backwards.
func (c *ManualCounter) Add(delta int64) int64 {
	if delta < 0 {
		panic("ManualCounter: negative delta")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.n += delta
	return c.n
}

// Set moves the counter to n. Panics if n is below the current value.
func (c *ManualCounter) Set(n int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if n < c.n {
		panic("ManualCounter: counter cannot decrease")
	}
	c.n = n
}
