package history

import (
	"maps"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultCapacity is the number of entries a Log keeps by default.
const DefaultCapacity = 100

// Status is the outcome of a recorded operation.
type Status string

const (
	// StatusSuccess marks an operation that completed.
	StatusSuccess Status = "success"
	// StatusFailed marks an operation that returned an error.
	StatusFailed Status = "failed"
)

// Entry is one recorded operation.
type Entry struct {
	ID        string           `json:"id"`
	Timestamp time.Time        `json:"timestamp"`
	Task      string           `json:"task"`
	Status    Status           `json:"status"`
	Details   map[string]Value `json:"details"`
}

// Stats summarizes the retained entries.
type Stats struct {
	Total     int `json:"total_tasks"`
	Succeeded int `json:"successful_tasks"`
	Failed    int `json:"failed_tasks"`
}

// Log is a fixed-capacity FIFO of entries. It is safe for concurrent use.
type Log struct {
	mu      sync.Mutex
	entries []Entry
	head    int
	size    int
	now     func() time.Time
}

// New creates a Log holding at most capacity entries.
// A non-positive capacity means DefaultCapacity.
func New(capacity int) *Log {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Log{
		entries: make([]Entry, capacity),
		now:     time.Now,
	}
}

// Record appends an entry, evicting the oldest when full. details is copied.
func (l *Log) Record(task string, status Status, details map[string]Value) Entry {
	e := Entry{
		ID:      uuid.NewString(),
		Task:    task,
		Status:  status,
		Details: maps.Clone(details),
	}
	if e.Details == nil {
		e.Details = map[string]Value{}
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	e.Timestamp = l.now()
	tail := (l.head + l.size) % len(l.entries)
	l.entries[tail] = e
	if l.size < len(l.entries) {
		l.size++
	} else {
		l.head = (l.head + 1) % len(l.entries)
	}
	return e
}

// Query returns up to limit of the most recent entries, oldest first.
// A non-positive limit, or one larger than the log, returns every entry.
func (l *Log) Query(limit int) []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()

	n := l.size
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]Entry, n)
	first := l.head + l.size - n
	for i := range out {
		e := l.entries[(first+i)%len(l.entries)]
		e.Details = maps.Clone(e.Details)
		out[i] = e
	}
	return out
}

// Clear removes every entry.
func (l *Log) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()

	clear(l.entries)
	l.head = 0
	l.size = 0
}

// Len returns the number of retained entries.
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.size
}

// Capacity returns the maximum number of retained entries.
func (l *Log) Capacity() int {
	return len(l.entries)
}

// Stats counts the retained entries by status.
func (l *Log) Stats() Stats {
	l.mu.Lock()
	defer l.mu.Unlock()

	st := Stats{Total: l.size}
	for i := 0; i < l.size; i++ {
		switch l.entries[(l.head+i)%len(l.entries)].Status {
		case StatusSuccess:
			st.Succeeded++
		case StatusFailed:
			st.Failed++
		}
	}
	return st
}
