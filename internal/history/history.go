package history

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/mikey/phishing-detector/internal/core"
)

// DefaultSize is the number of entries kept when no size is configured
const DefaultSize = 8

// Entry is one line of the recent analysis list
type Entry struct {
	Time       time.Time
	Preview    string
	Label      core.Label
	Confidence float64
}

// String renders the entry the way the recent analysis list shows it
func (e Entry) String() string {
	return fmt.Sprintf("[%s] %s (%.0f%%) %s",
		e.Time.Format("15:04:05"), e.Label, e.Confidence, strings.Join(strings.Fields(e.Preview), " "))
}

// History keeps the most recent results, newest first
type History struct {
	mu       sync.Mutex
	entries  []Entry
	capacity int
}

// New creates a history holding at most capacity entries
func New(capacity int) *History {
	if capacity <= 0 {
		capacity = DefaultSize
	}
	return &History{
		entries:  make([]Entry, 0, capacity),
		capacity: capacity,
	}
}

// Add inserts an entry at the front, evicting the oldest one past capacity
func (h *History) Add(e Entry) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.entries) < h.capacity {
		h.entries = append(h.entries, Entry{})
	}
	copy(h.entries[1:], h.entries[:len(h.entries)-1])
	h.entries[0] = e
}

// Entries returns a copy of the entries, newest first
func (h *History) Entries() []Entry {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make([]Entry, len(h.entries))
	copy(out, h.entries)
	return out
}

// Len returns the number of entries
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.entries)
}

// Capacity returns the maximum number of entries
func (h *History) Capacity() int {
	return h.capacity
}

// Clear removes every entry
func (h *History) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = h.entries[:0]
}
