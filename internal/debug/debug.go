// Package debug implements a fixed-size in-memory log used for post-mortem
// dumps. Entries are tagged with a category so the dump can be skimmed.
package debug

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

type DebugLog struct {
	mu      sync.Mutex
	max     int
	next    int
	full    bool
	entries []entry
}

type entry struct {
	when     time.Time
	category string
	message  string
}

// New creates a log that keeps the most recent max entries.
func New(max int) *DebugLog {
	return &DebugLog{
		max:     max,
		entries: make([]entry, max),
	}
}

// Addf appends a formatted entry, evicting the oldest when the log is full.
func (l *DebugLog) Addf(category, format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries[l.next] = entry{
		when:     time.Now(),
		category: category,
		message:  fmt.Sprintf(format, args...),
	}
	l.next++
	if l.next == l.max {
		l.next = 0
		l.full = true
	}
}

// Len returns the number of entries currently held.
func (l *DebugLog) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.full {
		return l.max
	}
	return l.next
}

// String renders the held entries oldest first.
func (l *DebugLog) String() string {
	l.mu.Lock()
	defer l.mu.Unlock()

	var sb strings.Builder
	emit := func(e entry) {
		if e.message == "" {
			return
		}
		sb.WriteString(e.when.Format("15:04:05.000"))
		sb.WriteByte(' ')
		sb.WriteString(e.category)
		sb.WriteString(": ")
		sb.WriteString(e.message)
		if !strings.HasSuffix(e.message, "\n") {
			sb.WriteByte('\n')
		}
	}

	if l.full {
		for _, e := range l.entries[l.next:] {
			emit(e)
		}
	}
	for _, e := range l.entries[:l.next] {
		emit(e)
	}
	return sb.String()
}
