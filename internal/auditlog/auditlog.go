// Package auditlog keeps a bounded, in-memory trail of retention operations.
package auditlog

import (
	"sync"
	"time"
)

// DefaultCapacity is the number of entries retained when no capacity is given.
const DefaultCapacity = 1000

// Entry is one immutable, timestamped audit line.
type Entry struct {
	Timestamp time.Time `json:"timestamp"`
	Message   string    `json:"message"`
}

// Option customizes a Log.
type Option func(*Log)

// WithClock overrides the time source used to stamp entries.
func WithClock(now func() time.Time) Option {
	return func(l *Log) {
		if now != nil {
			l.now = now
		}
	}
}

// Log is an append-only ring buffer. When full, the oldest entry is evicted.
type Log struct {
	mu      sync.RWMutex
	entries []Entry
	head    int
	size    int
	now     func() time.Time
}

// New creates a Log holding at most capacity entries.
func New(capacity int, opts ...Option) *Log {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	l := &Log{
		entries: make([]Entry, capacity),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Append stamps message with the current time and stores it at the tail.
func (l *Log) Append(message string) Entry {
	entry := Entry{Timestamp: l.now(), Message: message}

	l.mu.Lock()
	defer l.mu.Unlock()

	capacity := len(l.entries)
	tail := (l.head + l.size) % capacity
	l.entries[tail] = entry
	if l.size < capacity {
		l.size++
	} else {
		l.head = (l.head + 1) % capacity
	}
	return entry
}

// ReadAll returns every live entry, oldest first.
func (l *Log) ReadAll() []Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.tail(l.size)
}

// ReadLast returns the n most recent entries, oldest first.
func (l *Log) ReadLast(n int) []Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if n <= 0 {
		return []Entry{}
	}
	if n > l.size {
		n = l.size
	}
	return l.tail(n)
}

// Len reports the number of live entries.
func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.size
}

// Capacity reports the maximum number of live entries.
func (l *Log) Capacity() int {
	return len(l.entries)
}

// tail copies the last n entries. Caller holds the lock.
func (l *Log) tail(n int) []Entry {
	out := make([]Entry, n)
	capacity := len(l.entries)
	start := l.head + l.size - n
	for i := 0; i < n; i++ {
		out[i] = l.entries[(start+i)%capacity]
	}
	return out
}
