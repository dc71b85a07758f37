package history

import (
	"fmt"
	"slices"
	"sort"
	"strings"
	"sync"
)

// Log is an append-only multimap from key to the line counts at which the key
// was recorded.
//
// Appends are serialized with a mutex so a Log may be shared by reference
// across every Event and Section that needs it. Queries return copies.
type Log struct {
	mu      sync.RWMutex
	records map[string][]int64
	counter Counter
}

// Entry is a single recorded (key, seq) pair.
type Entry struct {
	Key string `json:"key"`
	Seq int64  `json:"seq"`
}

// New creates an empty Log bound to counter.
// The counter is read on every Append, never copied.
func New(counter Counter) *Log {
	return &Log{
		records: make(map[string][]int64),
		counter: counter,
	}
}

// Append records key at the counter's current value.
func (l *Log) Append(key string) {
	seq := l.counter.Current()

	l.mu.Lock()
	defer l.mu.Unlock()
	l.records[key] = append(l.records[key], seq)
}

// AppendAt records key at an explicit sequence number.
// Used to rebuild a log from a save. Returns an error if seq would make the
// key's sequence decrease.
func (l *Log) AppendAt(key string, seq int64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	seqs := l.records[key]
	if n := len(seqs); n > 0 && seqs[n-1] > seq {
		return fmt.Errorf("append %q at %d: sequence would decrease from %d", key, seq, seqs[n-1])
	}
	l.records[key] = append(seqs, seq)
	return nil
}

// Query returns the recorded sequence for key, or an empty slice if key was
// never recorded.
func (l *Log) Query(key string) []int64 {
	l.mu.RLock()
	defer l.mu.RUnlock()

	seqs, ok := l.records[key]
	if !ok {
		return []int64{}
	}
	return slices.Clone(seqs)
}

// Latest returns the most recent sequence number for key.
// The boolean is false if key was never recorded.
func (l *Log) Latest(key string) (int64, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	seqs := l.records[key]
	if len(seqs) == 0 {
		return 0, false
	}
	return seqs[len(seqs)-1], true
}

// FindKeys returns every key containing searchTerm as a case-sensitive
// substring. Results are sorted for deterministic iteration.
func (l *Log) FindKeys(searchTerm string) []string {
	l.mu.RLock()
	defer l.mu.RUnlock()

	keys := []string{}
	for key := range l.records {
		if strings.Contains(key, searchTerm) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys
}

// IsEmpty reports whether nothing has been recorded.
func (l *Log) IsEmpty() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.records) == 0
}

// Len returns the number of distinct keys.
func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.records)
}

// Entries flattens the log ordered by seq ASC, key ASC.
// Within a key, entries keep their append order.
func (l *Log) Entries() []Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var entries []Entry
	for key, seqs := range l.records {
		for _, seq := range seqs {
			entries = append(entries, Entry{Key: key, Seq: seq})
		}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Seq != entries[j].Seq {
			return entries[i].Seq < entries[j].Seq
		}
		return entries[i].Key < entries[j].Key
	})
	return entries
}

// Restore builds a log from previously exported entries.
func Restore(counter Counter, entries []Entry) (*Log, error) {
	l := New(counter)
	for _, e := range entries {
		if err := l.AppendAt(e.Key, e.Seq); err != nil {
			return nil, fmt.Errorf("restore log: %w", err)
		}
	}
	return l, nil
}
